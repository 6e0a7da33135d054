package models

import "github.com/shopspring/decimal"

// Request models
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceRequest is used for both create and update. Any client-supplied
// invoice number or total is ignored; the server assigns the number and
// recomputes the total from the line items.
type InvoiceRequest struct {
	InvoiceNumber string            `json:"invoiceNumber"`
	ClientName    string            `json:"clientName" binding:"required"`
	ClientEmail   string            `json:"clientEmail"`
	ClientAddress string            `json:"clientAddress"`
	IssueDate     string            `json:"issueDate" binding:"required"`
	DueDate       string            `json:"dueDate"`
	Items         []LineItemRequest `json:"items"`
	Status        string            `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
}

type ClientRequest struct {
	Type             string  `json:"type" binding:"omitempty,oneof=individual organization"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	OrganizationName string  `json:"organizationName"`
	Currency         string  `json:"currency"`
	Language         string  `json:"language"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            string  `json:"phone"`
	Address          Address `json:"address"`
}

type BusinessSettingsRequest struct {
	Type              string `json:"type" binding:"omitempty,oneof=individual organization"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	OrganizationName  string `json:"organizationName"`
	CompanyName       string `json:"companyName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zipCode"`
	Country           string `json:"country"`
	TaxID             string `json:"taxId"`
	Currency          string `json:"currency"`
	InvoicePrefix     string `json:"invoicePrefix"`
	NextInvoiceNumber int64  `json:"nextInvoiceNumber,string"`
	PaymentTerms      string `json:"paymentTerms"`
	TaxRate           string `json:"taxRate"`
	LateFee           string `json:"lateFee"`
	InvoiceNotes      string `json:"invoiceNotes"`
	EmailTemplate     string `json:"emailTemplate"`
}

type SendInvoiceEmailRequest struct {
	RecipientEmail string `json:"recipientEmail" binding:"required,email"`
	Subject        string `json:"subject" binding:"required"`
	HTMLContent    string `json:"htmlContent"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReportResponse is a filtered invoice listing with totals. When a target
// currency is requested the converted total is included alongside, formatted
// for display.
type ReportResponse struct {
	Invoices       []Invoice        `json:"invoices"`
	Count          int              `json:"count"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"`
	Currency       string           `json:"currency,omitempty"`
	ConvertedTotal *decimal.Decimal `json:"convertedTotal,omitempty"`
	FormattedTotal string           `json:"formattedTotal,omitempty"`
}

// Package models defines the domain entities for the invoicing backend.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Draft and Pending are client-settable; Unpaid and
// Overdue are derived from the due date at read time. Paid is terminal.
const (
	StatusDraft   = "Draft"
	StatusPending = "Pending"
	StatusPaid    = "Paid"
	StatusUnpaid  = "Unpaid"
	StatusOverdue = "Overdue"
)

// Entity types for clients and business settings.
const (
	TypeIndividual   = "individual"
	TypeOrganization = "organization"
)

// User represents a registered account.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"` // bcrypt hash, never returned
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// LineItem is one row of an invoice. Amount is stored alongside quantity and
// rate but is recomputed as quantity*rate at create/update boundaries.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineItems is stored as a single JSONB column.
type LineItems []LineItem

// Value implements driver.Valuer.
func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		return "[]", nil
	}
	b, err := json.Marshal(li)
	return string(b), err
}

// Scan implements sql.Scanner.
func (li *LineItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*li = nil
		return nil
	case []byte:
		return json.Unmarshal(v, li)
	case string:
		return json.Unmarshal([]byte(v), li)
	default:
		return errors.New("models: unsupported line items source")
	}
}

// Invoice carries a denormalized client snapshot (name/email/address), not a
// reference to the Client entity, so client edits never rewrite history.
// Issue and due dates are kept as submitted ISO strings; consumers parse them
// tolerantly and treat malformed values as absent.
type Invoice struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"-"`
	InvoiceNumber string          `db:"invoice_number" json:"invoiceNumber"`
	ClientName    string          `db:"client_name" json:"clientName"`
	ClientEmail   string          `db:"client_email" json:"clientEmail"`
	ClientAddress string          `db:"client_address" json:"clientAddress"`
	IssueDate     string          `db:"issue_date" json:"issueDate"`
	DueDate       string          `db:"due_date" json:"dueDate"`
	Items         LineItems       `db:"items" json:"items"`
	Status        string          `db:"status" json:"status"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Address is a structured postal address, stored as a JSONB column.
type Address struct {
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	return string(b), err
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("models: unsupported address source")
	}
}

// Client represents a billable party owned by one user.
type Client struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"-"`
	Type             string    `db:"type" json:"type"` // individual or organization
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         string    `db:"last_name" json:"lastName"`
	OrganizationName string    `db:"organization_name" json:"organizationName"`
	Currency         string    `db:"currency" json:"currency"`
	Language         string    `db:"language" json:"language"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	Address          Address   `db:"address" json:"address"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName is the name invoices reference the client by.
func (c *Client) DisplayName() string {
	if c.Type == TypeOrganization {
		return c.OrganizationName
	}
	return c.FirstName + " " + c.LastName
}

// BusinessSettings is the per-user configuration controlling invoice
// numbering, tax and templates. NextInvoiceNumber is a counter incremented
// atomically once per created invoice; it marshals as a JSON string.
type BusinessSettings struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"-"`
	Type              string    `db:"type" json:"type"`
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	OrganizationName  string    `db:"organization_name" json:"organizationName"`
	CompanyName       string    `db:"company_name" json:"companyName"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone"`
	Address           string    `db:"address" json:"address"`
	City              string    `db:"city" json:"city"`
	State             string    `db:"state" json:"state"`
	ZipCode           string    `db:"zip_code" json:"zipCode"`
	Country           string    `db:"country" json:"country"`
	TaxID             string    `db:"tax_id" json:"taxId"`
	Currency          string    `db:"currency" json:"currency"`
	InvoicePrefix     string    `db:"invoice_prefix" json:"invoicePrefix"`
	NextInvoiceNumber int64     `db:"next_invoice_number" json:"nextInvoiceNumber,string"`
	PaymentTerms      string    `db:"payment_terms" json:"paymentTerms"`
	TaxRate           string    `db:"tax_rate" json:"taxRate"`
	LateFee           string    `db:"late_fee" json:"lateFee"`
	InvoiceNotes      string    `db:"invoice_notes" json:"invoiceNotes"`
	EmailTemplate     string    `db:"email_template" json:"emailTemplate"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

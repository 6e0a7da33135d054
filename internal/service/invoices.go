package service

import (
	"context"
	"fmt"
	"time"

	"github.com/invoicepro/server/internal/errs"
	"github.com/invoicepro/server/internal/invoice"
	"github.com/invoicepro/server/internal/models"
	"github.com/shopspring/decimal"
)

var allowedStatuses = map[string]bool{
	models.StatusDraft:   true,
	models.StatusPending: true,
	models.StatusPaid:    true,
	models.StatusUnpaid:  true,
	models.StatusOverdue: true,
}

// buildLineItems validates the submitted rows and recomputes each amount as
// quantity*rate, returning the items and the invoice total. Client-supplied
// amounts are not trusted.
func buildLineItems(reqItems []models.LineItemRequest) (models.LineItems, decimal.Decimal, error) {
	items := make(models.LineItems, 0, len(reqItems))
	total := decimal.Zero
	for i, it := range reqItems {
		if it.Quantity.IsNegative() || it.Rate.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf(
				"%w: line item %d has a negative quantity or rate", errs.ErrInvalidInput, i+1)
		}
		amount := it.Quantity.Mul(it.Rate)
		items = append(items, models.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	return items, total, nil
}

// ListInvoices returns the user's invoices with their effective statuses.
// Where the resolved status differs from the stored one, the stored record is
// refreshed via compare-and-swap; a lost race still returns the resolved
// value.
func (s *DefaultService) ListInvoices(ctx context.Context, userID, startDate, endDate string) ([]models.Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}

	now := time.Now()
	for i := range invoices {
		inv := &invoices[i]
		resolved := invoice.ResolveStatus(inv.Status, inv.DueDate, now)
		if resolved == inv.Status {
			continue
		}
		updated, err := s.repo.UpdateInvoiceStatus(ctx, userID, inv.ID, inv.Status, resolved)
		if err != nil {
			return nil, fmt.Errorf("error refreshing invoice status: %w", err)
		}
		if !updated {
			s.log.Debug().Str("invoice_id", inv.ID).Msg("status refresh lost a concurrent update")
		}
		inv.Status = resolved
	}

	return invoices, nil
}

// CreateInvoice creates an invoice with a server-assigned number. The
// sequence comes from the user's settings counter via a single atomic
// increment; when no counter exists it falls back to invoice count + 1 and
// persists nothing.
func (s *DefaultService) CreateInvoice(ctx context.Context, userID string, req models.InvoiceRequest) (*models.Invoice, error) {
	items, total, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !allowedStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, req.Status)
	}

	seq, prefix, ok, err := s.repo.AllocateInvoiceSequence(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error allocating invoice sequence: %w", err)
	}
	if !ok {
		settings, err := s.repo.GetSettings(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("error getting settings: %w", err)
		}
		if settings != nil {
			prefix = settings.InvoicePrefix
		}
		count, err := s.repo.CountInvoices(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("error counting invoices: %w", err)
		}
		seq = invoice.FallbackSequence(count)
	}

	inv := &models.Invoice{
		UserID:        userID,
		InvoiceNumber: invoice.FormatNumber(prefix, seq),
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Items:         items,
		Status:        status,
		Amount:        total,
		Currency:      req.Currency,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("error creating invoice: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("invoice_number", inv.InvoiceNumber).
		Msg("invoice created")

	return inv, nil
}

// UpdateInvoice applies field edits to an owned invoice. The invoice number
// is never rewritten.
func (s *DefaultService) UpdateInvoice(ctx context.Context, userID, invoiceID string, req models.InvoiceRequest) (*models.Invoice, error) {
	existing, err := s.repo.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("error getting invoice: %w", err)
	}
	if existing == nil {
		return nil, notFound("invoice")
	}

	items, total, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}
	if !allowedStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, req.Status)
	}

	existing.ClientName = req.ClientName
	existing.ClientEmail = req.ClientEmail
	existing.ClientAddress = req.ClientAddress
	existing.IssueDate = req.IssueDate
	existing.DueDate = req.DueDate
	existing.Items = items
	existing.Status = status
	existing.Amount = total
	existing.Currency = req.Currency

	updated, err := s.repo.UpdateInvoice(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("error updating invoice: %w", err)
	}
	if !updated {
		return nil, notFound("invoice")
	}

	return existing, nil
}

// DeleteInvoice removes an owned invoice.
func (s *DefaultService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	deleted, err := s.repo.DeleteInvoice(ctx, userID, invoiceID)
	if err != nil {
		return fmt.Errorf("error deleting invoice: %w", err)
	}
	if !deleted {
		return notFound("invoice")
	}
	return nil
}

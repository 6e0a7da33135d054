package service

import (
	"context"
	"fmt"

	"github.com/invoicepro/server/internal/invoice"
	"github.com/invoicepro/server/internal/models"
)

// GetSettings returns the caller's business settings, creating a default row
// on first read. Settings are keyed by user, never shared across tenants.
func (s *DefaultService) GetSettings(ctx context.Context, userID string) (*models.BusinessSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting settings: %w", err)
	}
	if settings != nil {
		return settings, nil
	}

	settings = &models.BusinessSettings{
		UserID:            userID,
		Type:              models.TypeIndividual,
		InvoicePrefix:     invoice.DefaultPrefix,
		NextInvoiceNumber: 1,
	}
	if user, err := s.repo.GetUserByID(ctx, userID); err == nil && user != nil {
		settings.Email = user.Email
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("error creating default settings: %w", err)
	}

	return settings, nil
}

// UpdateSettings replaces the caller's business settings. A non-positive
// submitted counter keeps the stored one so the numbering sequence cannot be
// reset by an incomplete form.
func (s *DefaultService) UpdateSettings(ctx context.Context, userID string, req models.BusinessSettingsRequest) (*models.BusinessSettings, error) {
	existing, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting settings: %w", err)
	}

	counter := req.NextInvoiceNumber
	if counter <= 0 {
		counter = 1
		if existing != nil {
			counter = existing.NextInvoiceNumber
		}
	}

	settingsType := req.Type
	if settingsType == "" {
		settingsType = models.TypeIndividual
	}

	settings := &models.BusinessSettings{
		UserID:            userID,
		Type:              settingsType,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		OrganizationName:  req.OrganizationName,
		CompanyName:       req.CompanyName,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Country:           req.Country,
		TaxID:             req.TaxID,
		Currency:          req.Currency,
		InvoicePrefix:     req.InvoicePrefix,
		NextInvoiceNumber: counter,
		PaymentTerms:      req.PaymentTerms,
		TaxRate:           req.TaxRate,
		LateFee:           req.LateFee,
		InvoiceNotes:      req.InvoiceNotes,
		EmailTemplate:     req.EmailTemplate,
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}

	return settings, nil
}

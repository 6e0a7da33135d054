package service

import (
	"context"
	"fmt"

	"github.com/invoicepro/server/internal/errs"
	"github.com/invoicepro/server/internal/models"
)

// validateClient enforces the per-type required fields: individuals need a
// first and last name, organizations an organization name. Email presence is
// checked at the binding layer.
func validateClient(req *models.ClientRequest) error {
	if req.Type == "" {
		req.Type = models.TypeIndividual
	}
	switch req.Type {
	case models.TypeIndividual:
		if req.FirstName == "" || req.LastName == "" {
			return fmt.Errorf("%w: first name and last name are required", errs.ErrInvalidInput)
		}
	case models.TypeOrganization:
		if req.OrganizationName == "" {
			return fmt.Errorf("%w: organization name is required", errs.ErrInvalidInput)
		}
	}
	return nil
}

// ListClients returns the user's clients.
func (s *DefaultService) ListClients(ctx context.Context, userID string) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	return clients, nil
}

// CreateClient creates a client owned by the user.
func (s *DefaultService) CreateClient(ctx context.Context, userID string, req models.ClientRequest) (*models.Client, error) {
	if err := validateClient(&req); err != nil {
		return nil, err
	}

	client := &models.Client{
		UserID:           userID,
		Type:             req.Type,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		Currency:         req.Currency,
		Language:         req.Language,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	return client, nil
}

// UpdateClient applies edits to an owned client. Invoices keep their
// denormalized client snapshot, so a rename never rewrites history.
func (s *DefaultService) UpdateClient(ctx context.Context, userID, clientID string, req models.ClientRequest) (*models.Client, error) {
	if err := validateClient(&req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetClient(ctx, userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("error getting client: %w", err)
	}
	if existing == nil {
		return nil, notFound("client")
	}

	existing.Type = req.Type
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.OrganizationName = req.OrganizationName
	existing.Currency = req.Currency
	existing.Language = req.Language
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address

	updated, err := s.repo.UpdateClient(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("error updating client: %w", err)
	}
	if !updated {
		return nil, notFound("client")
	}

	return existing, nil
}

// Package repository defines persistence for users, invoices, clients and
// business settings, scoped by owning user.
package repository

import (
	"context"

	"github.com/invoicepro/server/internal/models"
)

// Repository is the storage contract the service layer consumes. Reads return
// (nil, nil) when the row is missing; writes scoped by user report whether a
// row was touched so callers can surface not-found without a prior read.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Invoice operations
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, userID, invoiceID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, userID, startDate, endDate string) ([]models.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) (bool, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID string) (bool, error)
	CountInvoices(ctx context.Context, userID string) (int64, error)

	// UpdateInvoiceStatus performs a compare-and-swap: the status is written
	// only if the stored value still equals fromStatus.
	UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, fromStatus, toStatus string) (bool, error)

	// Client operations
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, userID, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, userID string) ([]models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) (bool, error)

	// Business settings operations
	GetSettings(ctx context.Context, userID string) (*models.BusinessSettings, error)
	UpsertSettings(ctx context.Context, settings *models.BusinessSettings) error

	// AllocateInvoiceSequence atomically increments the user's invoice counter
	// and returns the pre-increment value together with the stored prefix.
	// ok is false when the user has no usable counter (no settings row, or a
	// counter that never held a positive value); nothing is persisted then.
	AllocateInvoiceSequence(ctx context.Context, userID string) (seq int64, prefix string, ok bool, err error)
}

package service

import (
	"context"
	"testing"

	"github.com/invoicepro/server/internal/errs"
	"github.com/invoicepro/server/internal/mail"
	"github.com/invoicepro/server/internal/models"
	"github.com/invoicepro/server/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type recordingMailer struct {
	sent []mail.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newTestService() (Service, *repository.MemoryRepository, *recordingMailer) {
	repo := repository.NewMemoryRepository()
	mailer := &recordingMailer{}
	return NewDefaultService(repo, mailer, "test-secret"), repo, mailer
}

func TestCreateInvoiceFallbackNumbering(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// No settings row: numbering falls back to invoice count + 1 with the
	// default prefix, and nothing gets persisted to settings.
	req := models.InvoiceRequest{
		ClientName: "Acme",
		IssueDate:  "2024-06-01",
		Items: []models.LineItemRequest{
			{Description: "Work", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
		},
	}

	inv, err := svc.CreateInvoice(ctx, "u1", req)
	assert.NoError(t, err)
	assert.Equal(t, "INV-1", inv.InvoiceNumber)

	inv, err = svc.CreateInvoice(ctx, "u1", req)
	assert.NoError(t, err)
	assert.Equal(t, "INV-2", inv.InvoiceNumber)

	settings, err := repo.GetSettings(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, settings)
}

func TestCreateInvoiceFallbackUsesSettingsPrefix(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// A settings row with an exhausted (non-positive) counter still lends its
	// prefix to the fallback path.
	err := repo.UpsertSettings(ctx, &models.BusinessSettings{
		UserID:            "u1",
		InvoicePrefix:     "ACME-",
		NextInvoiceNumber: 0,
	})
	assert.NoError(t, err)

	inv, err := svc.CreateInvoice(ctx, "u1", models.InvoiceRequest{
		ClientName: "Acme",
		IssueDate:  "2024-06-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "ACME-1", inv.InvoiceNumber)
}

func TestRegisterSeedsSettings(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "owner@example.com",
		Password: "longenough",
	})
	assert.NoError(t, err)

	user, err := repo.GetUserByEmail(ctx, "owner@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, user)

	settings, err := repo.GetSettings(ctx, user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, settings)
	assert.Equal(t, "INV-", settings.InvoicePrefix)
	assert.Equal(t, int64(1), settings.NextInvoiceNumber)
	assert.Equal(t, "owner@example.com", settings.Email)
}

func TestSendInvoiceEmailRequiresBusinessEmail(t *testing.T) {
	svc, repo, mailer := newTestService()
	ctx := context.Background()

	req := models.SendInvoiceEmailRequest{
		RecipientEmail: "client@example.com",
		Subject:        "Invoice",
		HTMLContent:    "<p>hi</p>",
	}

	// No settings at all
	err := svc.SendInvoiceEmail(ctx, "u1", req)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.Empty(t, mailer.sent)

	// Settings without an email address
	assert.NoError(t, repo.UpsertSettings(ctx, &models.BusinessSettings{UserID: "u1"}))
	err = svc.SendInvoiceEmail(ctx, "u1", req)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// With an email the message goes out from that address
	assert.NoError(t, repo.UpsertSettings(ctx, &models.BusinessSettings{
		UserID: "u1",
		Email:  "owner@example.com",
	}))
	err = svc.SendInvoiceEmail(ctx, "u1", req)
	assert.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "owner@example.com", mailer.sent[0].From)
}

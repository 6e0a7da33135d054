package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicepro/server/internal/models"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements the Repository interface using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection.
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Password, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Invoice repository methods
func (r *PostgresRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, client_name, client_email,
			client_address, issue_date, due_date, items, status, amount, currency,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail,
		inv.ClientAddress, inv.IssueDate, inv.DueDate, inv.Items, inv.Status,
		inv.Amount, inv.Currency, inv.CreatedAt, inv.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetInvoice(ctx context.Context, userID, invoiceID string) (*models.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1 AND user_id = $2`

	var inv models.Invoice
	err := r.db.GetContext(ctx, &inv, query, invoiceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Invoice not found or not owned
		}
		return nil, err
	}

	return &inv, nil
}

func (r *PostgresRepository) ListInvoices(ctx context.Context, userID, startDate, endDate string) ([]models.Invoice, error) {
	query := `SELECT * FROM invoices WHERE user_id = $1`
	args := []interface{}{userID}

	// Issue dates are ISO strings, so lexical range comparison is date order.
	if startDate != "" && endDate != "" {
		query += ` AND issue_date >= $2 AND issue_date <= $3`
		args = append(args, startDate, endDate)
	}

	query += ` ORDER BY created_at ASC`

	var invoices []models.Invoice
	err := r.db.SelectContext(ctx, &invoices, query, args...)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *PostgresRepository) UpdateInvoice(ctx context.Context, inv *models.Invoice) (bool, error) {
	query := `
		UPDATE invoices
		SET client_name = $3, client_email = $4, client_address = $5,
			issue_date = $6, due_date = $7, items = $8, status = $9,
			amount = $10, currency = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	inv.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.ClientName, inv.ClientEmail, inv.ClientAddress,
		inv.IssueDate, inv.DueDate, inv.Items, inv.Status, inv.Amount,
		inv.Currency, inv.UpdatedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresRepository) DeleteInvoice(ctx context.Context, userID, invoiceID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1 AND user_id = $2`, invoiceID, userID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresRepository) CountInvoices(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM invoices WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateInvoiceStatus writes the resolved status only where the stored value
// is unchanged since it was read. updated_at is deliberately left alone so an
// automatic refresh never shows up as a user edit.
func (r *PostgresRepository) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $4 WHERE id = $1 AND user_id = $2 AND status = $3`,
		invoiceID, userID, fromStatus, toStatus)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// Client repository methods
func (r *PostgresRepository) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, user_id, type, first_name, last_name,
			organization_name, currency, language, email, phone, address,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.UserID, client.Type, client.FirstName, client.LastName,
		client.OrganizationName, client.Currency, client.Language, client.Email,
		client.Phone, client.Address, client.CreatedAt, client.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetClient(ctx context.Context, userID, clientID string) (*models.Client, error) {
	query := `SELECT * FROM clients WHERE id = $1 AND user_id = $2`

	var client models.Client
	err := r.db.GetContext(ctx, &client, query, clientID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Client not found or not owned
		}
		return nil, err
	}

	return &client, nil
}

func (r *PostgresRepository) ListClients(ctx context.Context, userID string) ([]models.Client, error) {
	query := `SELECT * FROM clients WHERE user_id = $1 ORDER BY created_at ASC`

	var clients []models.Client
	err := r.db.SelectContext(ctx, &clients, query, userID)
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *PostgresRepository) UpdateClient(ctx context.Context, client *models.Client) (bool, error) {
	query := `
		UPDATE clients
		SET type = $3, first_name = $4, last_name = $5, organization_name = $6,
			currency = $7, language = $8, email = $9, phone = $10, address = $11,
			updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	client.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query,
		client.ID, client.UserID, client.Type, client.FirstName, client.LastName,
		client.OrganizationName, client.Currency, client.Language, client.Email,
		client.Phone, client.Address, client.UpdatedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// Business settings repository methods
func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*models.BusinessSettings, error) {
	query := `SELECT * FROM business_settings WHERE user_id = $1`

	var settings models.BusinessSettings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No settings for this user yet
		}
		return nil, err
	}

	return &settings, nil
}

func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings *models.BusinessSettings) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM business_settings WHERE user_id = $1`, settings.UserID).Scan(&existingID)

	now := time.Now().UTC()
	settings.UpdatedAt = now

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
		if settings.ID == "" {
			settings.ID = uuid.New().String()
		}
		settings.CreatedAt = now

		_, err = tx.ExecContext(ctx, `
			INSERT INTO business_settings (id, user_id, type, first_name, last_name,
				organization_name, company_name, email, phone, address, city, state,
				zip_code, country, tax_id, currency, invoice_prefix,
				next_invoice_number, payment_terms, tax_rate, late_fee,
				invoice_notes, email_template, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
			settings.ID, settings.UserID, settings.Type, settings.FirstName,
			settings.LastName, settings.OrganizationName, settings.CompanyName,
			settings.Email, settings.Phone, settings.Address, settings.City,
			settings.State, settings.ZipCode, settings.Country, settings.TaxID,
			settings.Currency, settings.InvoicePrefix, settings.NextInvoiceNumber,
			settings.PaymentTerms, settings.TaxRate, settings.LateFee,
			settings.InvoiceNotes, settings.EmailTemplate,
			settings.CreatedAt, settings.UpdatedAt)
	case err == nil:
		settings.ID = existingID

		_, err = tx.ExecContext(ctx, `
			UPDATE business_settings
			SET type = $2, first_name = $3, last_name = $4, organization_name = $5,
				company_name = $6, email = $7, phone = $8, address = $9, city = $10,
				state = $11, zip_code = $12, country = $13, tax_id = $14,
				currency = $15, invoice_prefix = $16, next_invoice_number = $17,
				payment_terms = $18, tax_rate = $19, late_fee = $20,
				invoice_notes = $21, email_template = $22, updated_at = $23
			WHERE id = $1`,
			settings.ID, settings.Type, settings.FirstName, settings.LastName,
			settings.OrganizationName, settings.CompanyName, settings.Email,
			settings.Phone, settings.Address, settings.City, settings.State,
			settings.ZipCode, settings.Country, settings.TaxID, settings.Currency,
			settings.InvoicePrefix, settings.NextInvoiceNumber,
			settings.PaymentTerms, settings.TaxRate, settings.LateFee,
			settings.InvoiceNotes, settings.EmailTemplate, settings.UpdatedAt)
	default:
		return err
	}

	if err != nil {
		return err
	}

	return tx.Commit()
}

// AllocateInvoiceSequence gets and increments the user's invoice counter in a
// single statement, so concurrent invoice creations can never observe the
// same value.
func (r *PostgresRepository) AllocateInvoiceSequence(ctx context.Context, userID string) (int64, string, bool, error) {
	var next int64
	var prefix string
	err := r.db.QueryRowContext(ctx,
		`UPDATE business_settings
		SET next_invoice_number = next_invoice_number + 1, updated_at = $2
		WHERE user_id = $1 AND next_invoice_number > 0
		RETURNING next_invoice_number, invoice_prefix`,
		userID, time.Now().UTC()).Scan(&next, &prefix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", false, nil // No usable counter for this user
		}
		return 0, "", false, err
	}

	return next - 1, prefix, true, nil
}

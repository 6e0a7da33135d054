package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// SetupDatabase initializes the database connection.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database.
func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Issue and due dates are TEXT on purpose: they carry client-submitted
	// ISO strings and must survive malformed values.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			invoice_number VARCHAR(64) NOT NULL,
			client_name VARCHAR(255) NOT NULL,
			client_email VARCHAR(255) NOT NULL DEFAULT '',
			client_address TEXT NOT NULL DEFAULT '',
			issue_date TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			items JSONB NOT NULL DEFAULT '[]',
			status VARCHAR(16) NOT NULL,
			amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
			currency VARCHAR(8) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS clients (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(16) NOT NULL DEFAULT 'individual',
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			organization_name VARCHAR(255) NOT NULL DEFAULT '',
			currency VARCHAR(8) NOT NULL DEFAULT '',
			language VARCHAR(16) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(64) NOT NULL DEFAULT '',
			address JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// One settings row per user; the UNIQUE constraint is what makes the
	// invoice-number allocator race-free.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS business_settings (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(16) NOT NULL DEFAULT 'individual',
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			organization_name VARCHAR(255) NOT NULL DEFAULT '',
			company_name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(64) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(128) NOT NULL DEFAULT '',
			state VARCHAR(128) NOT NULL DEFAULT '',
			zip_code VARCHAR(32) NOT NULL DEFAULT '',
			country VARCHAR(128) NOT NULL DEFAULT '',
			tax_id VARCHAR(64) NOT NULL DEFAULT '',
			currency VARCHAR(8) NOT NULL DEFAULT '',
			invoice_prefix VARCHAR(32) NOT NULL DEFAULT 'INV-',
			next_invoice_number BIGINT NOT NULL DEFAULT 1,
			payment_terms VARCHAR(64) NOT NULL DEFAULT '',
			tax_rate VARCHAR(32) NOT NULL DEFAULT '',
			late_fee VARCHAR(32) NOT NULL DEFAULT '',
			invoice_notes TEXT NOT NULL DEFAULT '',
			email_template TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_invoices_user_id ON invoices(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_user_issue_date ON invoices(user_id, issue_date)",
		"CREATE INDEX IF NOT EXISTS idx_clients_user_id ON clients(user_id)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create index")
			// Indexes are not critical
		}
	}

	return nil
}

package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		stock REAL NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT 'units',
		gst_rate INTEGER NOT NULL DEFAULT 0,
		min_stock REAL NOT NULL DEFAULT 0,
		hsn_code TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		invoice_no TEXT NOT NULL UNIQUE,
		bill_type TEXT NOT NULL DEFAULT 'GST_INVOICE',
		date DATETIME NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_address TEXT NOT NULL DEFAULT '',
		customer_gstin TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		place_of_supply TEXT NOT NULL DEFAULT '',
		inter_state INTEGER NOT NULL DEFAULT 0,
		items TEXT NOT NULL DEFAULT '[]',
		subtotal TEXT NOT NULL DEFAULT '0',
		cgst TEXT NOT NULL DEFAULT '0',
		sgst TEXT NOT NULL DEFAULT '0',
		igst TEXT NOT NULL DEFAULT '0',
		round_off TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0',
		transport_vehicle_number TEXT NOT NULL DEFAULT '',
		transport_charge TEXT NOT NULL DEFAULT '0',
		amount_in_words TEXT NOT NULL DEFAULT '',
		billing_notes TEXT NOT NULL DEFAULT '',
		billed_by TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS bills_date_idx ON bills (date);`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		company_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		gstin TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		state_code TEXT NOT NULL DEFAULT '',
		account_holder_name TEXT NOT NULL DEFAULT '',
		account_number TEXT NOT NULL DEFAULT '',
		ifsc_code TEXT NOT NULL DEFAULT '',
		bank_name TEXT NOT NULL DEFAULT ''
	);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		stock DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT 'units',
		gst_rate INTEGER NOT NULL DEFAULT 0,
		min_stock DOUBLE PRECISION NOT NULL DEFAULT 0,
		hsn_code TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		invoice_no TEXT NOT NULL,
		bill_type TEXT NOT NULL DEFAULT 'GST_INVOICE',
		date TIMESTAMPTZ NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_address TEXT NOT NULL DEFAULT '',
		customer_gstin TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		place_of_supply TEXT NOT NULL DEFAULT '',
		inter_state BOOLEAN NOT NULL DEFAULT FALSE,
		items JSONB NOT NULL DEFAULT '[]',
		subtotal NUMERIC NOT NULL DEFAULT 0,
		cgst NUMERIC NOT NULL DEFAULT 0,
		sgst NUMERIC NOT NULL DEFAULT 0,
		igst NUMERIC NOT NULL DEFAULT 0,
		round_off NUMERIC NOT NULL DEFAULT 0,
		total NUMERIC NOT NULL DEFAULT 0,
		discount NUMERIC NOT NULL DEFAULT 0,
		transport_vehicle_number TEXT NOT NULL DEFAULT '',
		transport_charge NUMERIC NOT NULL DEFAULT 0,
		amount_in_words TEXT NOT NULL DEFAULT '',
		billing_notes TEXT NOT NULL DEFAULT '',
		billed_by TEXT NOT NULL DEFAULT '',
		CONSTRAINT bills_invoice_no_key UNIQUE (invoice_no)
	);`,
	`CREATE INDEX IF NOT EXISTS bills_date_idx ON bills (date);`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		company_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		gstin TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		state_code TEXT NOT NULL DEFAULT '',
		account_holder_name TEXT NOT NULL DEFAULT '',
		account_number TEXT NOT NULL DEFAULT '',
		ifsc_code TEXT NOT NULL DEFAULT '',
		bank_name TEXT NOT NULL DEFAULT ''
	);`,
}

// Run creates the schema for the driver db was opened with.
func Run(db *sqlx.DB) error {
	var schema []string

	switch db.DriverName() {
	case "sqlite":
		schema = sqliteSchema
	case "pgx":
		schema = postgresSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

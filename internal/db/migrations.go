package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN
			CREATE TYPE payment_status AS ENUM ('PAID', 'OWES', 'DELINQUENT');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'service_status') THEN
			CREATE TYPE service_status AS ENUM ('ACTIVE', 'INACTIVE', 'BLOCKED', 'WITHDRAWN');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS linked_store (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		store_id TEXT NOT NULL REFERENCES stores(id),
		linked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		row_number BIGSERIAL PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(id),
		idx INTEGER NOT NULL,
		contract_number VARCHAR(32) NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		tax_id VARCHAR(32) NOT NULL DEFAULT '',
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		payment_status payment_status NOT NULL DEFAULT 'PAID',
		service_status service_status NOT NULL DEFAULT 'ACTIVE',
		vehicle_plates JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_store_idx ON contracts (store_id, idx);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_store_number ON contracts (store_id, contract_number);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

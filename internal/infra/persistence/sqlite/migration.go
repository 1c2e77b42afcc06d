package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrator manages the learning database schema
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new database migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Migrate applies the schema. Statements are idempotent, so repeated runs
// are safe.
func (m *Migrator) Migrate() error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema failed: %w", err)
	}
	return nil
}

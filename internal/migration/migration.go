package migration

import (
	"context"
	"fmt"
	"log"

	"gograph/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// step is one schema change. ddl receives the driver name so a step can
// emit dialect specific column types.
type step struct {
	version string
	name    string
	ddl     func(driver string) []string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	steps []step
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		steps: []step{
			{version: "0001", name: "create charts table", ddl: chartsTable},
			{version: "0002", name: "create charts indexes", ddl: chartsIndexes},
		},
	}
}

// Version returns the latest schema version
func (r *MigrationRunner) Version() string {
	return r.steps[len(r.steps)-1].version
}

// Run executes all pending migrations in order. Applied versions are
// recorded in schema_migrations so Run is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.Wrap(err, "failed to create schema_migrations table")
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return errors.Wrap(err, "failed to read applied migrations")
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, s := range r.steps {
		if done[s.version] {
			continue
		}
		if err := r.apply(ctx, db, s); err != nil {
			return errors.Wrapf(err, "failed to %s", s.name)
		}
		log.Printf("[Migration] applied %s %s", s.version, s.name)
	}
	return nil
}

func (r *MigrationRunner) apply(ctx context.Context, db *sqlx.DB, s step) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range s.ddl(db.DriverName()) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", s.version, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`), s.version, s.name); err != nil {
		return err
	}
	return tx.Commit()
}

func chartsTable(driver string) []string {
	if driver == "postgres" {
		return []string{`
			CREATE TABLE IF NOT EXISTS charts (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				raw_data BYTEA NOT NULL,
				columns TEXT NOT NULL,
				chart_type VARCHAR(32) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`}
	}
	return []string{`
		CREATE TABLE IF NOT EXISTS charts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			raw_data BLOB NOT NULL,
			columns TEXT NOT NULL,
			chart_type TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`}
}

func chartsIndexes(string) []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_charts_created_at ON charts(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_charts_chart_type ON charts(chart_type)`,
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema holds the DDL for the four document tables. Single-row documents
// are pinned to id = 1; runs are one row each so history stays per-run
// lockable and prepend-ordered by (created_at, run_id).
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS stock_ledger (
		id smallint PRIMARY KEY CHECK (id = 1),
		updated_at timestamptz,
		source_name text,
		items jsonb NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS replan_runs (
		run_id text PRIMARY KEY,
		created_at timestamptz NOT NULL,
		category_filter text NOT NULL DEFAULT '',
		sales_file text NOT NULL DEFAULT '',
		lines jsonb NOT NULL DEFAULT '[]'::jsonb
	)`,
	`CREATE INDEX IF NOT EXISTS idx_replan_runs_created_at ON replan_runs (created_at DESC, run_id DESC)`,
	`CREATE TABLE IF NOT EXISTS new_collection (
		id smallint PRIMARY KEY CHECK (id = 1),
		created_at timestamptz NOT NULL,
		mode text NOT NULL,
		items jsonb NOT NULL DEFAULT '[]'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS limit_policy (
		id smallint PRIMARY KEY CHECK (id = 1),
		default_min int NOT NULL,
		default_max int NOT NULL,
		skus jsonb NOT NULL DEFAULT '{}'::jsonb
	)`,
}

// Migrate creates the document tables. Safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

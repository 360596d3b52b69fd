package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

type ledgerRow struct {
	UpdatedAt  *time.Time      `db:"updated_at"`
	SourceName sql.NullString  `db:"source_name"`
	Items      json.RawMessage `db:"items"`
}

type LedgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Load(ctx context.Context) (*domain.StockLedger, error) {
	var row ledgerRow
	err := r.db.GetContext(ctx, &row, `SELECT updated_at, source_name, items FROM stock_ledger WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewStockLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stock ledger: %w", err)
	}

	ledger := domain.NewStockLedger()
	ledger.UpdatedAt = row.UpdatedAt
	ledger.SourceName = row.SourceName.String
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &ledger.Items); err != nil {
			return nil, fmt.Errorf("decode stock ledger items: %w", err)
		}
	}
	return ledger, nil
}

func (r *LedgerRepository) Replace(ctx context.Context, ledger *domain.StockLedger) error {
	items, err := json.Marshal(ledger.Items)
	if err != nil {
		return fmt.Errorf("encode stock ledger items: %w", err)
	}

	query := `
		INSERT INTO stock_ledger (id, updated_at, source_name, items)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = EXCLUDED.updated_at,
			source_name = EXCLUDED.source_name,
			items = EXCLUDED.items
	`
	if _, err := r.db.ExecContext(ctx, query, ledger.UpdatedAt, ledger.SourceName, items); err != nil {
		return fmt.Errorf("replace stock ledger: %w", err)
	}
	return nil
}

// clearTx empties the ledger document inside a reset transaction.
func (r *LedgerRepository) clearTx(ctx context.Context, tx *sql.Tx) error {
	query := `
		INSERT INTO stock_ledger (id, updated_at, source_name, items)
		VALUES (1, NULL, NULL, '{}'::jsonb)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = NULL,
			source_name = NULL,
			items = '{}'::jsonb
	`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear stock ledger: %w", err)
	}
	return nil
}

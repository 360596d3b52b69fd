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

type collectionRow struct {
	CreatedAt time.Time       `db:"created_at"`
	Mode      string          `db:"mode"`
	Items     json.RawMessage `db:"items"`
}

type CollectionRepository struct {
	db *DB
}

func NewCollectionRepository(db *DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Load(ctx context.Context) (*domain.NewCollectionBatch, error) {
	var row collectionRow
	err := r.db.GetContext(ctx, &row, `SELECT created_at, mode, items FROM new_collection WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load new collection batch: %w", err)
	}

	batch := &domain.NewCollectionBatch{
		CreatedAt: row.CreatedAt,
		Mode:      domain.BatchMode(row.Mode),
		Items:     make([]domain.NewCollectionLine, 0),
	}
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &batch.Items); err != nil {
			return nil, fmt.Errorf("decode new collection items: %w", err)
		}
	}
	return batch, nil
}

func (r *CollectionRepository) Replace(ctx context.Context, batch *domain.NewCollectionBatch) error {
	items, err := json.Marshal(batch.Items)
	if err != nil {
		return fmt.Errorf("encode new collection items: %w", err)
	}

	query := `
		INSERT INTO new_collection (id, created_at, mode, items)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			mode = EXCLUDED.mode,
			items = EXCLUDED.items
	`
	if _, err := r.db.ExecContext(ctx, query, batch.CreatedAt, string(batch.Mode), items); err != nil {
		return fmt.Errorf("replace new collection batch: %w", err)
	}
	return nil
}

func (r *CollectionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM new_collection WHERE id = 1`); err != nil {
		return fmt.Errorf("clear new collection batch: %w", err)
	}
	return nil
}

func (r *CollectionRepository) clearTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM new_collection WHERE id = 1`); err != nil {
		return fmt.Errorf("clear new collection batch: %w", err)
	}
	return nil
}

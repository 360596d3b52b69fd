package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andresuchdata/autopull/internal/domain"
)

type limitRow struct {
	DefaultMin int             `db:"default_min"`
	DefaultMax int             `db:"default_max"`
	SKUs       json.RawMessage `db:"skus"`
}

type LimitRepository struct {
	db *DB

	// defaults returned before the policy is first saved
	defaultMin int
	defaultMax int
}

func NewLimitRepository(db *DB, defaultMin, defaultMax int) *LimitRepository {
	return &LimitRepository{db: db, defaultMin: defaultMin, defaultMax: defaultMax}
}

func (r *LimitRepository) Load(ctx context.Context) (*domain.LimitPolicy, error) {
	var row limitRow
	err := r.db.GetContext(ctx, &row, `SELECT default_min, default_max, skus FROM limit_policy WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewLimitPolicy(r.defaultMin, r.defaultMax), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load limit policy: %w", err)
	}

	policy := domain.NewLimitPolicy(row.DefaultMin, row.DefaultMax)
	if len(row.SKUs) > 0 {
		if err := json.Unmarshal(row.SKUs, &policy.SKUs); err != nil {
			return nil, fmt.Errorf("decode limit policy skus: %w", err)
		}
	}
	return policy, nil
}

func (r *LimitRepository) Save(ctx context.Context, policy *domain.LimitPolicy) error {
	skus, err := json.Marshal(policy.SKUs)
	if err != nil {
		return fmt.Errorf("encode limit policy skus: %w", err)
	}

	query := `
		INSERT INTO limit_policy (id, default_min, default_max, skus)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			default_min = EXCLUDED.default_min,
			default_max = EXCLUDED.default_max,
			skus = EXCLUDED.skus
	`
	if _, err := r.db.ExecContext(ctx, query, policy.DefaultMin, policy.DefaultMax, skus); err != nil {
		return fmt.Errorf("save limit policy: %w", err)
	}
	return nil
}

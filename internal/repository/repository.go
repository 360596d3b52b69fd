// Package repository defines the document stores the services persist
// through. Each document has load/replace-whole semantics; engine logic
// never touches a repository directly.
package repository

import (
	"context"

	"github.com/andresuchdata/autopull/internal/domain"
)

// LedgerRepository persists the single stock ledger document. Load on a
// never-written store returns an empty ledger, not an error.
type LedgerRepository interface {
	Load(ctx context.Context) (*domain.StockLedger, error)
	Replace(ctx context.Context, ledger *domain.StockLedger) error
}

// RunRepository persists replan runs, most recent first.
type RunRepository interface {
	Insert(ctx context.Context, run *domain.ReplanRun) error
	Get(ctx context.Context, runID string) (*domain.ReplanRun, error)
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	All(ctx context.Context) ([]*domain.ReplanRun, error)
	Update(ctx context.Context, run *domain.ReplanRun) error
	Clear(ctx context.Context) error
}

// CollectionRepository persists the single new-collection batch. Load
// returns (nil, nil) when no batch exists.
type CollectionRepository interface {
	Load(ctx context.Context) (*domain.NewCollectionBatch, error)
	Replace(ctx context.Context, batch *domain.NewCollectionBatch) error
	Clear(ctx context.Context) error
}

// LimitRepository persists the limit policy. Load on a never-written store
// returns the configured defaults.
type LimitRepository interface {
	Load(ctx context.Context) (*domain.LimitPolicy, error)
	Save(ctx context.Context, policy *domain.LimitPolicy) error
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/cache"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/lock"
	"github.com/andresuchdata/autopull/internal/repository"
	"github.com/rs/zerolog/log"
)

type StockService struct {
	ledgers     repository.LedgerRepository
	runs        repository.RunRepository
	collections repository.CollectionRepository
	locker      *lock.DocLocker
	cache       cache.DashboardCache
}

func NewStockService(
	ledgers repository.LedgerRepository,
	runs repository.RunRepository,
	collections repository.CollectionRepository,
	locker *lock.DocLocker,
	cacheImpl cache.DashboardCache,
) *StockService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &StockService{
		ledgers:     ledgers,
		runs:        runs,
		collections: collections,
		locker:      locker,
		cache:       cacheImpl,
	}
}

// Upload replaces the stock ledger with a fresh snapshot and derives the
// new-collection batch from the diff against the prior snapshot. Both
// documents are swapped inside one critical section.
func (s *StockService) Upload(ctx context.Context, fileName string, rows []allocation.Row) (*domain.UploadSummary, error) {
	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocCollection)
	if err != nil {
		return nil, err
	}
	defer release()

	prior, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prior ledger: %w", err)
	}

	now := time.Now().UTC()
	items := make(map[string]domain.StockItem)
	for _, agg := range allocation.Aggregate(rows) {
		item := domain.StockItem{
			SKU:      agg.SKU,
			Size:     agg.Size,
			Color:    agg.Color,
			Category: agg.Category,
			Qty:      agg.Qty,
		}
		items[item.Key()] = item
	}

	ledger := domain.NewStockLedger()
	ledger.Replace(items, fileName, now)
	batch := allocation.DeriveBatch(prior, items, now)

	if err := s.ledgers.Replace(ctx, ledger); err != nil {
		return nil, fmt.Errorf("replace ledger: %w", err)
	}
	if err := s.collections.Replace(ctx, batch); err != nil {
		return nil, fmt.Errorf("replace new collection batch: %w", err)
	}

	s.invalidateDashboard(ctx)

	log.Info().
		Str("source", fileName).
		Int("items", len(items)).
		Str("batch_mode", string(batch.Mode)).
		Int("batch_size", len(batch.Items)).
		Msg("stock snapshot replaced")

	return &domain.UploadSummary{
		SourceName: fileName,
		Items:      len(items),
		BatchMode:  batch.Mode,
		BatchSize:  len(batch.Items),
		UpdatedAt:  now,
	}, nil
}

// Search returns in-stock items matching the query. Reads take no lock:
// document loads are atomic snapshots under replace-whole persistence.
func (s *StockService) Search(ctx context.Context, query, category string, limit int) ([]domain.StockItem, error) {
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return allocation.SearchLedger(ledger, query, category, limit), nil
}

// Ledger returns the current ledger snapshot.
func (s *StockService) Ledger(ctx context.Context) (*domain.StockLedger, error) {
	return s.ledgers.Load(ctx)
}

// Clear resets the ledger, the run history, and the new-collection batch.
// A cleared store means "no prior baseline": the next upload is a base
// load. The limit policy survives.
func (s *StockService) Clear(ctx context.Context) error {
	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocCollection)
	if err != nil {
		return err
	}
	defer release()

	if err := s.ledgers.Replace(ctx, domain.NewStockLedger()); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	if err := s.runs.Clear(ctx); err != nil {
		return fmt.Errorf("clear run history: %w", err)
	}
	if err := s.collections.Clear(ctx); err != nil {
		return fmt.Errorf("clear new collection batch: %w", err)
	}

	s.invalidateDashboard(ctx)
	log.Info().Msg("stock state cleared")
	return nil
}

func (s *StockService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

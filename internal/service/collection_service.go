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

type CollectionService struct {
	ledgers     repository.LedgerRepository
	collections repository.CollectionRepository
	locker      *lock.DocLocker
	cache       cache.DashboardCache
}

func NewCollectionService(
	ledgers repository.LedgerRepository,
	collections repository.CollectionRepository,
	locker *lock.DocLocker,
	cacheImpl cache.DashboardCache,
) *CollectionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &CollectionService{
		ledgers:     ledgers,
		collections: collections,
		locker:      locker,
		cache:       cacheImpl,
	}
}

// Current returns the present new-collection batch.
func (s *CollectionService) Current(ctx context.Context) (*domain.NewCollectionBatch, error) {
	batch, err := s.collections.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load new collection batch: %w", err)
	}
	if batch == nil {
		return nil, domain.NotFoundError{Resource: "new collection batch"}
	}
	return batch, nil
}

// ExecuteLine executes one batch line; need is always one unit.
func (s *CollectionService) ExecuteLine(ctx context.Context, lineID string) error {
	if lineID == "" {
		return domain.ValidationError{Field: "lineId", Reason: "must not be empty"}
	}

	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocCollection)
	if err != nil {
		return err
	}
	defer release()

	batch, err := s.collections.Load(ctx)
	if err != nil {
		return fmt.Errorf("load new collection batch: %w", err)
	}
	if batch == nil {
		return domain.NotFoundError{Resource: "new collection batch"}
	}
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	line, _ := batch.FindLine(lineID)
	alreadyDone := line != nil && line.Status == domain.StatusDone

	if err := allocation.ExecuteBatchLine(ledger, batch, lineID, time.Now()); err != nil {
		return err
	}
	if alreadyDone {
		return nil
	}

	if err := s.ledgers.Replace(ctx, ledger); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	if err := s.collections.Replace(ctx, batch); err != nil {
		return fmt.Errorf("persist new collection batch: %w", err)
	}

	s.invalidateDashboard(ctx)
	log.Info().Str("line_id", lineID).Msg("new collection line executed")
	return nil
}

// ExecuteAll executes every pending batch line with per-line failure
// collection, mirroring run execution.
func (s *CollectionService) ExecuteAll(ctx context.Context) (*domain.ExecutionReport, error) {
	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocCollection)
	if err != nil {
		return nil, err
	}
	defer release()

	batch, err := s.collections.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load new collection batch: %w", err)
	}
	if batch == nil {
		return nil, domain.NotFoundError{Resource: "new collection batch"}
	}
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	report := allocation.ExecuteBatchAll(ledger, batch, time.Now())
	if report.Executed > 0 {
		if err := s.ledgers.Replace(ctx, ledger); err != nil {
			return nil, fmt.Errorf("persist ledger: %w", err)
		}
		if err := s.collections.Replace(ctx, batch); err != nil {
			return nil, fmt.Errorf("persist new collection batch: %w", err)
		}
		s.invalidateDashboard(ctx)
	}

	log.Info().
		Int("executed", report.Executed).
		Int("failures", len(report.Failures)).
		Msg("new collection bulk execution finished")
	return report, nil
}

func (s *CollectionService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

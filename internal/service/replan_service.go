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
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReplanService struct {
	ledgers repository.LedgerRepository
	runs    repository.RunRepository
	limits  repository.LimitRepository
	locker  *lock.DocLocker
	cache   cache.DashboardCache
}

func NewReplanService(
	ledgers repository.LedgerRepository,
	runs repository.RunRepository,
	limits repository.LimitRepository,
	locker *lock.DocLocker,
	cacheImpl cache.DashboardCache,
) *ReplanService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &ReplanService{
		ledgers: ledgers,
		runs:    runs,
		limits:  limits,
		locker:  locker,
		cache:   cacheImpl,
	}
}

// Generate builds a run from a sales report against the current ledger and
// prepends it to history. Generation reads the ledger but never mutates it.
func (s *ReplanService) Generate(ctx context.Context, fileName string, rows []allocation.Row, categoryFilter string) (*domain.ReplanRun, error) {
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ledger.Empty() {
		// Surface before any row is aggregated.
		return nil, domain.EmptyLedgerError{}
	}

	policy, err := s.limits.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load limit policy: %w", err)
	}

	run, err := allocation.GenerateRun(ledger, policy, rows, categoryFilter, fileName, uuid.NewString(), time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.runs.Insert(ctx, run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	log.Info().
		Str("run_id", run.RunID).
		Str("sales_file", fileName).
		Str("category", categoryFilter).
		Int("lines", len(run.Lines)).
		Msg("replan run generated")
	return run, nil
}

func (s *ReplanService) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return s.runs.List(ctx, limit)
}

func (s *ReplanService) Get(ctx context.Context, runID string) (*domain.ReplanRun, error) {
	if runID == "" {
		return nil, domain.ValidationError{Field: "runId", Reason: "must not be empty"}
	}
	return s.runs.Get(ctx, runID)
}

// ExecuteLine executes one line of a run against the current ledger.
// Re-executing a done line is a no-op success.
func (s *ReplanService) ExecuteLine(ctx context.Context, runID, lineID string) error {
	if runID == "" {
		return domain.ValidationError{Field: "runId", Reason: "must not be empty"}
	}
	if lineID == "" {
		return domain.ValidationError{Field: "lineId", Reason: "must not be empty"}
	}

	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocRun(runID))
	if err != nil {
		return err
	}
	defer release()

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return err
	}
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	line, _ := run.FindLine(lineID)
	alreadyDone := line != nil && line.Status == domain.StatusDone

	if err := allocation.ExecuteRunLine(ledger, run, lineID, time.Now()); err != nil {
		return err
	}
	if alreadyDone {
		return nil
	}

	if err := s.ledgers.Replace(ctx, ledger); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	if err := s.runs.Update(ctx, run); err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	s.invalidateDashboard(ctx)
	log.Info().Str("run_id", runID).Str("line_id", lineID).Msg("replan line executed")
	return nil
}

// ExecuteAll executes every pending line of a run in order, collecting
// per-line failures. The pass itself never aborts on a single failure.
func (s *ReplanService) ExecuteAll(ctx context.Context, runID string) (*domain.ExecutionReport, error) {
	if runID == "" {
		return nil, domain.ValidationError{Field: "runId", Reason: "must not be empty"}
	}

	release, err := s.locker.Acquire(ctx, lock.DocLedger, lock.DocRun(runID))
	if err != nil {
		return nil, err
	}
	defer release()

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	report := allocation.ExecuteRunAll(ledger, run, time.Now())
	if report.Executed > 0 {
		if err := s.ledgers.Replace(ctx, ledger); err != nil {
			return nil, fmt.Errorf("persist ledger: %w", err)
		}
		if err := s.runs.Update(ctx, run); err != nil {
			return nil, fmt.Errorf("persist run: %w", err)
		}
		s.invalidateDashboard(ctx)
	}

	log.Info().
		Str("run_id", runID).
		Int("executed", report.Executed).
		Int("failures", len(report.Failures)).
		Msg("replan bulk execution finished")
	return report, nil
}

func (s *ReplanService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/cache"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultWindowDays = 30
	defaultStaleDays  = 14
)

type DashboardService struct {
	ledgers repository.LedgerRepository
	runs    repository.RunRepository
	cache   cache.DashboardCache
}

func NewDashboardService(
	ledgers repository.LedgerRepository,
	runs repository.RunRepository,
	cacheImpl cache.DashboardCache,
) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{ledgers: ledgers, runs: runs, cache: cacheImpl}
}

// Analyze computes the dashboard payload with cache-aside over Redis.
func (s *DashboardService) Analyze(ctx context.Context, windowDays, staleDays int, category string) (*domain.DashboardPayload, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	if staleDays <= 0 {
		staleDays = defaultStaleDays
	}
	q := domain.DashboardQuery{WindowDays: windowDays, StaleDays: staleDays, Category: category}

	if payload, ok, err := s.cache.Get(ctx, q); err == nil && ok {
		return payload, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard cache get failed")
	}

	runs, err := s.runs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load run history: %w", err)
	}
	ledger, err := s.ledgers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	payload := allocation.Analyze(runs, ledger, q, time.Now())

	if err := s.cache.Set(ctx, q, payload); err != nil {
		log.Warn().Err(err).Msg("dashboard cache set failed")
	}
	return payload, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/lock"
	"github.com/andresuchdata/autopull/internal/repository"
	"github.com/rs/zerolog/log"
)

// LimitService manages the min/max pull policy. Limit changes do not
// invalidate the dashboard cache: they only affect runs generated later,
// never the execution history the dashboard reads.
type LimitService struct {
	limits repository.LimitRepository
	locker *lock.DocLocker
}

func NewLimitService(limits repository.LimitRepository, locker *lock.DocLocker) *LimitService {
	return &LimitService{limits: limits, locker: locker}
}

func (s *LimitService) Policy(ctx context.Context) (*domain.LimitPolicy, error) {
	return s.limits.Load(ctx)
}

func (s *LimitService) SetDefault(ctx context.Context, min, max int) (*domain.LimitPolicy, error) {
	return s.mutate(ctx, func(policy *domain.LimitPolicy) {
		policy.DefaultMin = allocation.SanitizeBound(min)
		policy.DefaultMax = allocation.SanitizeBound(max)
	})
}

func (s *LimitService) SetSKU(ctx context.Context, sku string, min, max int) (*domain.LimitPolicy, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ValidationError{Field: "sku", Reason: "must not be empty"}
	}
	return s.mutate(ctx, func(policy *domain.LimitPolicy) {
		policy.SKUs[sku] = domain.LimitBounds{
			Min: allocation.SanitizeBound(min),
			Max: allocation.SanitizeBound(max),
		}
	})
}

func (s *LimitService) DeleteSKU(ctx context.Context, sku string) (*domain.LimitPolicy, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ValidationError{Field: "sku", Reason: "must not be empty"}
	}
	return s.mutate(ctx, func(policy *domain.LimitPolicy) {
		delete(policy.SKUs, sku)
	})
}

func (s *LimitService) mutate(ctx context.Context, apply func(*domain.LimitPolicy)) (*domain.LimitPolicy, error) {
	release, err := s.locker.Acquire(ctx, lock.DocLimits)
	if err != nil {
		return nil, err
	}
	defer release()

	policy, err := s.limits.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load limit policy: %w", err)
	}
	apply(policy)
	if err := s.limits.Save(ctx, policy); err != nil {
		return nil, fmt.Errorf("save limit policy: %w", err)
	}

	log.Info().
		Int("default_min", policy.DefaultMin).
		Int("default_max", policy.DefaultMax).
		Int("sku_overrides", len(policy.SKUs)).
		Msg("limit policy updated")
	return policy, nil
}

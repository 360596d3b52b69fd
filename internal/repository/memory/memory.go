// Package memory holds the in-process repository driver used by tests and
// local development. Documents are deep-copied on every load and store so
// callers get snapshot semantics, the same contract the postgres driver
// gives through JSONB round-trips.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/andresuchdata/autopull/internal/domain"
)

// Store holds all four documents behind one mutex.
type Store struct {
	mu     sync.Mutex
	ledger *domain.StockLedger
	runs   []*domain.ReplanRun
	batch  *domain.NewCollectionBatch
	limits *domain.LimitPolicy

	defaultMin int
	defaultMax int
}

func NewStore(defaultMin, defaultMax int) *Store {
	return &Store{
		ledger:     domain.NewStockLedger(),
		defaultMin: defaultMin,
		defaultMax: defaultMax,
	}
}

func (s *Store) Ledger() *LedgerRepository         { return &LedgerRepository{store: s} }
func (s *Store) Runs() *RunRepository              { return &RunRepository{store: s} }
func (s *Store) Collection() *CollectionRepository { return &CollectionRepository{store: s} }
func (s *Store) Limits() *LimitRepository          { return &LimitRepository{store: s} }

type LedgerRepository struct{ store *Store }

func (r *LedgerRepository) Load(ctx context.Context) (*domain.StockLedger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return copyLedger(r.store.ledger), nil
}

func (r *LedgerRepository) Replace(ctx context.Context, ledger *domain.StockLedger) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.ledger = copyLedger(ledger)
	return nil
}

type RunRepository struct{ store *Store }

func (r *RunRepository) Insert(ctx context.Context, run *domain.ReplanRun) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runs = append([]*domain.ReplanRun{copyRun(run)}, r.store.runs...)
	return nil
}

func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.ReplanRun, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, run := range r.store.runs {
		if run.RunID == runID {
			return copyRun(run), nil
		}
	}
	return nil, domain.NotFoundError{Resource: "run", ID: runID}
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	runs := r.sortedLocked()
	out := make([]domain.RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, run.Summary())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *RunRepository) All(ctx context.Context) ([]*domain.ReplanRun, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	runs := r.sortedLocked()
	out := make([]*domain.ReplanRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, copyRun(run))
	}
	return out, nil
}

func (r *RunRepository) Update(ctx context.Context, run *domain.ReplanRun) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, existing := range r.store.runs {
		if existing.RunID == run.RunID {
			r.store.runs[i] = copyRun(run)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "run", ID: run.RunID}
}

func (r *RunRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runs = nil
	return nil
}

func (r *RunRepository) sortedLocked() []*domain.ReplanRun {
	runs := make([]*domain.ReplanRun, len(r.store.runs))
	copy(runs, r.store.runs)
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].RunID > runs[j].RunID
	})
	return runs
}

type CollectionRepository struct{ store *Store }

func (r *CollectionRepository) Load(ctx context.Context) (*domain.NewCollectionBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.batch == nil {
		return nil, nil
	}
	return copyBatch(r.store.batch), nil
}

func (r *CollectionRepository) Replace(ctx context.Context, batch *domain.NewCollectionBatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.batch = copyBatch(batch)
	return nil
}

func (r *CollectionRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.batch = nil
	return nil
}

type LimitRepository struct{ store *Store }

func (r *LimitRepository) Load(ctx context.Context) (*domain.LimitPolicy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.limits == nil {
		return domain.NewLimitPolicy(r.store.defaultMin, r.store.defaultMax), nil
	}
	return copyPolicy(r.store.limits), nil
}

func (r *LimitRepository) Save(ctx context.Context, policy *domain.LimitPolicy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.limits = copyPolicy(policy)
	return nil
}

func copyLedger(src *domain.StockLedger) *domain.StockLedger {
	dst := domain.NewStockLedger()
	if src == nil {
		return dst
	}
	dst.SourceName = src.SourceName
	if src.UpdatedAt != nil {
		t := *src.UpdatedAt
		dst.UpdatedAt = &t
	}
	for key, item := range src.Items {
		dst.Items[key] = item
	}
	return dst
}

func copyRun(src *domain.ReplanRun) *domain.ReplanRun {
	dst := *src
	dst.Lines = make([]domain.ReplanLine, len(src.Lines))
	for i, line := range src.Lines {
		if line.ExecutedAt != nil {
			t := *line.ExecutedAt
			line.ExecutedAt = &t
		}
		dst.Lines[i] = line
	}
	return &dst
}

func copyBatch(src *domain.NewCollectionBatch) *domain.NewCollectionBatch {
	dst := *src
	dst.Items = make([]domain.NewCollectionLine, len(src.Items))
	for i, line := range src.Items {
		if line.ExecutedAt != nil {
			t := *line.ExecutedAt
			line.ExecutedAt = &t
		}
		dst.Items[i] = line
	}
	return &dst
}

func copyPolicy(src *domain.LimitPolicy) *domain.LimitPolicy {
	dst := domain.NewLimitPolicy(src.DefaultMin, src.DefaultMax)
	for sku, bounds := range src.SKUs {
		dst.SKUs[sku] = bounds
	}
	return dst
}

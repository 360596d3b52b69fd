// Package lock serializes read-modify-write cycles per persisted document.
// Snapshot-replace persistence has no transactions across documents, so
// every service mutation wraps its load/mutate/store in an Acquire.
package lock

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Document names used across the services.
const (
	DocLedger     = "ledger"
	DocCollection = "collection"
	DocLimits     = "limits"
)

// DocRun names the per-run document so unrelated runs never serialize
// against each other.
func DocRun(runID string) string {
	return "run:" + runID
}

// DocLocker hands out one weight-1 semaphore per document name.
type DocLocker struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func NewDocLocker() *DocLocker {
	return &DocLocker{sems: make(map[string]*semaphore.Weighted)}
}

func (l *DocLocker) sem(name string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[name]
	if !ok {
		s = semaphore.NewWeighted(1)
		l.sems[name] = s
	}
	return s
}

// Acquire takes the named document locks and returns a release func.
// Names are sorted before acquisition so multi-document operations cannot
// deadlock against each other; release runs in reverse order.
func (l *DocLocker) Acquire(ctx context.Context, names ...string) (func(), error) {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	held := make([]*semaphore.Weighted, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}

	for _, name := range sorted {
		s := l.sem(name)
		if err := s.Acquire(ctx, 1); err != nil {
			release()
			return nil, err
		}
		held = append(held, s)
	}
	return release, nil
}

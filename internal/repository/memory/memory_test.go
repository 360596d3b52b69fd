package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

func TestEmptyStateContract(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1, 10)

	ledger, err := store.Ledger().Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store returned error: %v", err)
	}
	if !ledger.Empty() || ledger.UpdatedAt != nil {
		t.Errorf("expected empty ledger with nil updated_at, got %+v", ledger)
	}

	batch, err := store.Collection().Load(ctx)
	if err != nil {
		t.Fatalf("Collection load returned error: %v", err)
	}
	if batch != nil {
		t.Errorf("expected nil batch, got %+v", batch)
	}

	policy, err := store.Limits().Load(ctx)
	if err != nil {
		t.Fatalf("Limits load returned error: %v", err)
	}
	if policy.DefaultMin != 1 || policy.DefaultMax != 10 {
		t.Errorf("expected configured defaults (1, 10), got (%d, %d)", policy.DefaultMin, policy.DefaultMax)
	}

	_, err = store.Runs().Get(ctx, "missing")
	var notFound domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown run, got %v", err)
	}
}

func TestRunHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1, 10)
	repo := store.Runs()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		run := &domain.ReplanRun{RunID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Insert(ctx, run); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	summaries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].RunID != "c" || summaries[2].RunID != "a" {
		t.Errorf("expected most-recent-first order, got %s..%s", summaries[0].RunID, summaries[2].RunID)
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit respected, got %d", len(limited))
	}
}

func TestLoadReturnsSnapshotCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1, 10)

	ledger := domain.NewStockLedger()
	item := domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5}
	ledger.Replace(map[string]domain.StockItem{item.Key(): item}, "x.xlsx", time.Now())
	if err := store.Ledger().Replace(ctx, ledger); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	loaded, _ := store.Ledger().Load(ctx)
	if err := loaded.Decrement(item.Key(), 5); err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}

	// Mutating the loaded copy must not leak into the store.
	fresh, _ := store.Ledger().Load(ctx)
	if got := fresh.Items[item.Key()].Qty; got != 5 {
		t.Errorf("expected stored qty 5, got %d", got)
	}
}

func TestRunUpdatePersistsLineStatus(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1, 10)
	repo := store.Runs()

	run := &domain.ReplanRun{
		RunID:     "r1",
		CreatedAt: time.Now(),
		Lines: []domain.ReplanLine{
			{LineID: "1|M|Red", SKU: "1", PullQty: 2, Status: domain.StatusPending},
		},
	}
	if err := repo.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	run.Lines[0].Status = domain.StatusDone
	now := time.Now()
	run.Lines[0].ExecutedAt = &now
	if err := repo.Update(ctx, run); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Lines[0].Status != domain.StatusDone || got.Lines[0].ExecutedAt == nil {
		t.Errorf("expected done line persisted, got %+v", got.Lines[0])
	}
}

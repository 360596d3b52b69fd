package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/semaphore"
)

// testDB connects to TEST_DATABASE_URL or skips. The integration suite
// assumes a throwaway database; it truncates the document tables.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	sqlxDB, err := sqlx.Connect("postgres", url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { sqlxDB.Close() })

	db := &DB{DB: sqlxDB, sem: semaphore.NewWeighted(10)}
	if err := Migrate(context.Background(), sqlxDB.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"stock_ledger", "replan_runs", "new_collection", "limit_policy"} {
		if _, err := sqlxDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return db
}

func TestEmptyStateContract(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	ledger, err := NewLedgerRepository(db).Load(ctx)
	if err != nil {
		t.Fatalf("ledger load: %v", err)
	}
	if !ledger.Empty() || ledger.UpdatedAt != nil {
		t.Errorf("expected empty ledger, got %+v", ledger)
	}

	batch, err := NewCollectionRepository(db).Load(ctx)
	if err != nil {
		t.Fatalf("collection load: %v", err)
	}
	if batch != nil {
		t.Errorf("expected nil batch, got %+v", batch)
	}

	policy, err := NewLimitRepository(db, 1, 10).Load(ctx)
	if err != nil {
		t.Fatalf("limits load: %v", err)
	}
	if policy.DefaultMin != 1 || policy.DefaultMax != 10 {
		t.Errorf("expected configured defaults, got %+v", policy)
	}

	_, err = NewRunRepository(db).Get(ctx, "missing")
	var notFound domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	ledgerRepo := NewLedgerRepository(db)
	ledger := domain.NewStockLedger()
	item := domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5}
	ledger.Replace(map[string]domain.StockItem{item.Key(): item}, "stock.xlsx", time.Now())
	if err := ledgerRepo.Replace(ctx, ledger); err != nil {
		t.Fatalf("ledger replace: %v", err)
	}
	loaded, err := ledgerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("ledger load: %v", err)
	}
	if got := loaded.Items[item.Key()].Qty; got != 5 {
		t.Errorf("expected qty 5 after round trip, got %d", got)
	}
	if loaded.SourceName != "stock.xlsx" {
		t.Errorf("expected source name preserved, got %q", loaded.SourceName)
	}

	runRepo := NewRunRepository(db)
	run := &domain.ReplanRun{
		RunID:     "it-run-1",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Lines: []domain.ReplanLine{
			{LineID: item.Key(), SKU: "1", PullQty: 2, Status: domain.StatusPending},
		},
	}
	if err := runRepo.Insert(ctx, run); err != nil {
		t.Fatalf("run insert: %v", err)
	}
	run.Lines[0].Status = domain.StatusDone
	if err := runRepo.Update(ctx, run); err != nil {
		t.Fatalf("run update: %v", err)
	}
	got, err := runRepo.Get(ctx, "it-run-1")
	if err != nil {
		t.Fatalf("run get: %v", err)
	}
	if got.Lines[0].Status != domain.StatusDone {
		t.Errorf("expected done line persisted, got %+v", got.Lines[0])
	}

	if err := ResetDocuments(ctx, db); err != nil {
		t.Fatalf("reset: %v", err)
	}
	cleared, err := ledgerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("ledger load after reset: %v", err)
	}
	if !cleared.Empty() {
		t.Errorf("expected empty ledger after reset, got %+v", cleared)
	}
	if _, err := runRepo.Get(ctx, "it-run-1"); err == nil {
		t.Error("expected run history cleared")
	}
}

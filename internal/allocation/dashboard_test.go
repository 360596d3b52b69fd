package allocation

import (
	"testing"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

func doneLine(key, category, sku string, pullQty int, executedAt time.Time) domain.ReplanLine {
	at := executedAt
	return domain.ReplanLine{
		LineID:     key,
		Category:   category,
		SKU:        sku,
		PullQty:    pullQty,
		Status:     domain.StatusDone,
		ExecutedAt: &at,
	}
}

func TestAnalyzeLeaderboardsWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	inWindow := now.AddDate(0, 0, -5)
	outOfWindow := now.AddDate(0, 0, -45)

	runs := []*domain.ReplanRun{
		{RunID: "r1", Lines: []domain.ReplanLine{
			doneLine("1|M|Red", "Dresses", "1", 5, inWindow),
			doneLine("2|L|Blue", "Shirts", "2", 3, inWindow),
			doneLine("3|S|Green", "Dresses", "3", 50, outOfWindow), // excluded from totals
			{LineID: "4|M|Red", Category: "Dresses", SKU: "4", PullQty: 9, Status: domain.StatusPending},
		}},
	}

	payload := Analyze(runs, domain.NewStockLedger(), domain.DashboardQuery{WindowDays: 30, StaleDays: 14}, now)
	if len(payload.TopCategories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", payload.TopCategories)
	}
	if payload.TopCategories[0].Category != "Dresses" || payload.TopCategories[0].PullQty != 5 {
		t.Errorf("unexpected top category: %+v", payload.TopCategories[0])
	}
	if len(payload.TopSKUs) != 2 {
		t.Fatalf("expected 2 skus, got %+v", payload.TopSKUs)
	}
}

func TestAnalyzeNoReplanOrdering(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	oldExec := now.AddDate(0, 0, -30)
	olderExec := now.AddDate(0, 0, -60)
	recentExec := now.AddDate(0, 0, -2)

	ledger := ledgerWith(
		domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5},   // executed 30d ago: stale
		domain.StockItem{SKU: "2", Size: "L", Color: "Blue", Category: "A", Qty: 5},  // executed 60d ago: stale
		domain.StockItem{SKU: "3", Size: "S", Color: "Green", Category: "A", Qty: 5}, // never executed
		domain.StockItem{SKU: "4", Size: "S", Color: "Black", Category: "A", Qty: 5}, // executed 2d ago: fresh
		domain.StockItem{SKU: "5", Size: "S", Color: "White", Category: "B", Qty: 0}, // out of stock: hidden
	)

	runs := []*domain.ReplanRun{
		{RunID: "r1", Lines: []domain.ReplanLine{
			doneLine(domain.Key("1", "M", "Red"), "A", "1", 1, oldExec),
			doneLine(domain.Key("2", "L", "Blue"), "A", "2", 1, olderExec),
			doneLine(domain.Key("4", "S", "Black"), "A", "4", 1, recentExec),
		}},
	}

	payload := Analyze(runs, ledger, domain.DashboardQuery{WindowDays: 30, StaleDays: 14}, now)
	if len(payload.NoReplan) != 3 {
		t.Fatalf("expected 3 stale items, got %+v", payload.NoReplan)
	}
	// Never-executed first, then ascending last-executed.
	if payload.NoReplan[0].SKU != "3" {
		t.Errorf("expected never-executed sku 3 first, got %s", payload.NoReplan[0].SKU)
	}
	if payload.NoReplan[1].SKU != "2" || payload.NoReplan[2].SKU != "1" {
		t.Errorf("expected 2 then 1, got %s then %s", payload.NoReplan[1].SKU, payload.NoReplan[2].SKU)
	}
}

func TestAnalyzeCategoryFilterNarrowsStaleOnly(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ledger := ledgerWith(
		domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5},
		domain.StockItem{SKU: "2", Size: "L", Color: "Blue", Category: "B", Qty: 5},
	)
	runs := []*domain.ReplanRun{
		{RunID: "r1", Lines: []domain.ReplanLine{
			doneLine(domain.Key("2", "L", "Blue"), "B", "2", 7, now.AddDate(0, 0, -1)),
		}},
	}

	payload := Analyze(runs, ledger, domain.DashboardQuery{WindowDays: 30, StaleDays: 14, Category: "A"}, now)
	if len(payload.NoReplan) != 1 || payload.NoReplan[0].SKU != "1" {
		t.Errorf("expected only category A in stale list, got %+v", payload.NoReplan)
	}
	// Leaderboards always cover all categories.
	if len(payload.TopCategories) != 1 || payload.TopCategories[0].Category != "B" {
		t.Errorf("expected category B leaderboard, got %+v", payload.TopCategories)
	}
}

package allocation

import (
	"testing"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

func itemsMap(items ...domain.StockItem) map[string]domain.StockItem {
	m := make(map[string]domain.StockItem, len(items))
	for _, it := range items {
		m[it.Key()] = it
	}
	return m
}

func TestDeriveBatchBaseLoad(t *testing.T) {
	next := itemsMap(
		domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5},
		domain.StockItem{SKU: "2", Size: "L", Color: "Blue", Category: "A", Qty: 1},
		domain.StockItem{SKU: "3", Size: "S", Color: "Green", Category: "B", Qty: 9},
		domain.StockItem{SKU: "4", Size: "S", Color: "Black", Category: "B", Qty: 0}, // out of stock: excluded
	)

	batch := DeriveBatch(domain.NewStockLedger(), next, time.Now())
	if batch.Mode != domain.BatchModeBaseAll {
		t.Errorf("expected base_all mode, got %s", batch.Mode)
	}
	if len(batch.Items) != 3 {
		t.Fatalf("expected 3 pending lines, got %d", len(batch.Items))
	}
	for _, line := range batch.Items {
		if line.Qty != 1 {
			t.Errorf("expected unit qty, got %d for %s", line.Qty, line.LineID)
		}
		if line.Status != domain.StatusPending {
			t.Errorf("expected pending status for %s", line.LineID)
		}
		if _, ok := next[line.LineID]; !ok {
			t.Errorf("batch key %s not in the incoming snapshot", line.LineID)
		}
	}
}

func TestDeriveBatchUpdateNewOnly(t *testing.T) {
	prior := domain.NewStockLedger()
	prior.Replace(itemsMap(
		domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 5},
	), "base.xlsx", time.Now())

	next := itemsMap(
		domain.StockItem{SKU: "1", Size: "M", Color: "Red", Category: "A", Qty: 99}, // qty changed: not resurfaced
		domain.StockItem{SKU: "2", Size: "L", Color: "Blue", Category: "A", Qty: 3},
	)

	batch := DeriveBatch(prior, next, time.Now())
	if batch.Mode != domain.BatchModeUpdateNewOnly {
		t.Errorf("expected update_new_only mode, got %s", batch.Mode)
	}
	if len(batch.Items) != 1 {
		t.Fatalf("expected exactly 1 new line, got %d: %+v", len(batch.Items), batch.Items)
	}
	if batch.Items[0].SKU != "2" {
		t.Errorf("expected sku 2, got %s", batch.Items[0].SKU)
	}
}

func TestDeriveBatchOrdering(t *testing.T) {
	next := itemsMap(
		domain.StockItem{SKU: "9", Size: "M", Color: "Red", Category: "B", Qty: 1},
		domain.StockItem{SKU: "2", Size: "L", Color: "Blue", Category: "A", Qty: 1},
		domain.StockItem{SKU: "1", Size: "S", Color: "Green", Category: "A", Qty: 1},
	)

	batch := DeriveBatch(domain.NewStockLedger(), next, time.Now())
	if len(batch.Items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(batch.Items))
	}
	order := []string{batch.Items[0].SKU, batch.Items[1].SKU, batch.Items[2].SKU}
	if order[0] != "1" || order[1] != "2" || order[2] != "9" {
		t.Errorf("expected category/sku order 1,2,9, got %v", order)
	}
}

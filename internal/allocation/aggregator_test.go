package allocation

import "testing"

func TestAggregateSumsSameKey(t *testing.T) {
	rows := []Row{
		{Text: "Dresses"},
		{Text: "[100] Dress (M, Red)", Qty: 2},
		{Text: "Dresses"},
		{Text: "[100] Dress (M, Red)", Qty: 3},
	}

	got := Aggregate(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 aggregated entry, got %d: %+v", len(got), got)
	}
	entry := got[0]
	if entry.Category != "Dresses" || entry.SKU != "100" || entry.Size != "M" || entry.Color != "Red" {
		t.Errorf("unexpected key: %+v", entry)
	}
	if entry.Qty != 5 {
		t.Errorf("expected qty 5, got %d", entry.Qty)
	}
}

func TestAggregateCategoryCursor(t *testing.T) {
	rows := []Row{
		{Text: "[1] Early Item (S, Red)", Qty: 1}, // before any header
		{Text: "Dresses"},
		{Text: "Quantity"}, // column header, never a category
		{Text: "[2] Dress (M, Blue)", Qty: 4},
		{Text: "Shirts"},
		{Text: "[2] Dress (M, Blue)", Qty: 1}, // same sku, new category: distinct key
		{Text: ""},
		{Text: "no sku bracket here"},
	}

	got := Aggregate(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(got), got)
	}

	byCategory := make(map[string]AggregatedRow)
	for _, e := range got {
		byCategory[e.Category] = e
	}
	if e := byCategory[""]; e.SKU != "1" || e.Qty != 1 {
		t.Errorf("expected headerless row under empty category, got %+v", e)
	}
	if e := byCategory["Dresses"]; e.SKU != "2" || e.Qty != 4 {
		t.Errorf("expected Dresses entry qty 4, got %+v", e)
	}
	if e := byCategory["Shirts"]; e.SKU != "2" || e.Qty != 1 {
		t.Errorf("expected Shirts entry qty 1, got %+v", e)
	}
}

func TestAggregateSkipsUnparseableRows(t *testing.T) {
	rows := []Row{
		{Text: "Accessories"},
		{Text: "[abc] not digits", Qty: 9},
		{Text: "[7] Belt (Brown)", Qty: 2},
	}

	// "[abc] not digits" has brackets but no digit run, so it is a header
	// line and moves the cursor.
	got := Aggregate(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(got), got)
	}
	if got[0].Category != "[abc] not digits" || got[0].SKU != "7" || got[0].Qty != 2 {
		t.Errorf("unexpected entry: %+v", got[0])
	}
}

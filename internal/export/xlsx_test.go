package export

import (
	"testing"
)

func TestWriteReport(t *testing.T) {
	records := []Record{
		{Category: "Dresses", SKU: "100", Size: "M", Color: "Red", Qty: 5},
		{Category: "Shirts", SKU: "200", Size: "L", Color: "Blue", Qty: 2},
	}

	f, err := WriteReport("Stock Report", records)
	if err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet != "Stock Report" {
		t.Errorf("expected sheet name 'Stock Report', got %q", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Category" || rows[0][4] != "Qty" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "100" || rows[1][4] != "5" {
		t.Errorf("unexpected first record row: %v", rows[1])
	}
}

func TestSanitizeSheetName(t *testing.T) {
	testCases := []struct {
		title string
		want  string
	}{
		{"Run 2026/08/30", "Run 2026 08 30"},
		{"", "Report"},
		{"   ", "Report"},
		{"a very long report title that exceeds the sheet cap", "a very long report title that e"},
	}
	for _, tc := range testCases {
		if got := sanitizeSheetName(tc.title); got != tc.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

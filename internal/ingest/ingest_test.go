package ingest

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestRowsCSV(t *testing.T) {
	payload := "Dresses,\n\"[100] Dress (M, Red)\",3\n\"[100] Dress (M, Red)\",2.0\nbroken-qty,abc\n"

	rows, format, err := Rows("report.csv", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if format != FormatCSV {
		t.Errorf("expected csv format, got %s", format)
	}

	want := []allocation.Row{
		{Text: "Dresses"},
		{Text: "[100] Dress (M, Red)", Qty: 3},
		{Text: "[100] Dress (M, Red)", Qty: 2},
		{Text: "broken-qty"}, // non-numeric qty reads as zero
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v, want %+v", rows, want)
	}
}

func TestRowsCSVSkipsBOM(t *testing.T) {
	payload := "\xEF\xBB\xBFDresses,\n"
	rows, _, err := Rows("report.csv", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Text != "Dresses" {
		t.Errorf("expected BOM stripped, got %+v", rows)
	}
}

func TestRowsCSVWindows1256(t *testing.T) {
	utf8Payload := "فساتين,\n\"[100] فستان (M، أحمر)\",4\n"

	legacy, err := charmap.Windows1256.NewEncoder().Bytes([]byte(utf8Payload))
	if err != nil {
		t.Fatalf("failed to build windows-1256 payload: %v", err)
	}

	utf8Rows, _, err := Rows("report.csv", strings.NewReader(utf8Payload))
	if err != nil {
		t.Fatalf("Rows on utf-8 payload failed: %v", err)
	}
	legacyRows, _, err := Rows("report.csv", bytes.NewReader(legacy))
	if err != nil {
		t.Fatalf("Rows on windows-1256 payload failed: %v", err)
	}
	if !reflect.DeepEqual(utf8Rows, legacyRows) {
		t.Errorf("legacy decode mismatch:\n utf8   %+v\n legacy %+v", utf8Rows, legacyRows)
	}
}

func TestRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"Dresses", nil},
		{"[100] Dress (M, Red)", 3},
		{"[200] Shirt (Blue)", "2"},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, format, err := Rows("stock.xlsx", buf)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if format != FormatXLSX {
		t.Errorf("expected xlsx format, got %s", format)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[1].Text != "[100] Dress (M, Red)" || rows[1].Qty != 3 {
		t.Errorf("unexpected row: %+v", rows[1])
	}
	if rows[2].Qty != 2 {
		t.Errorf("expected string qty parsed to 2, got %d", rows[2].Qty)
	}
}

func TestRowsUnreadableXLSX(t *testing.T) {
	_, _, err := Rows("stock.xlsx", strings.NewReader("not a zip archive"))
	var vErr domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

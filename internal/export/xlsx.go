// Package export renders flat inventory records into XLSX workbooks for
// download endpoints and the operations CLI.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one exported inventory line.
type Record struct {
	Category string
	SKU      string
	Size     string
	Color    string
	Qty      int
}

var header = []interface{}{"Category", "SKU", "Size", "Color", "Qty"}

// sheet names cap at 31 chars and reject a handful of characters
const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer("\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ", ":", " ")

// WriteReport builds a workbook with one sheet named from the title, a bold
// header row, and one row per record.
func WriteReport(title string, records []Record) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := sanitizeSheetName(title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", boldStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		row := []interface{}{rec.Category, rec.SKU, rec.Size, rec.Color, rec.Qty}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	widths := columnWidths(records)
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	return f, nil
}

func sanitizeSheetName(title string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if name == "" {
		name = "Report"
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

func columnWidths(records []Record) []float64 {
	widths := make([]float64, len(header))
	for i, h := range header {
		widths[i] = float64(len(h.(string))) + 2
	}
	grow := func(i int, s string) {
		if w := float64(len(s)) + 2; w > widths[i] {
			widths[i] = w
		}
	}
	for _, rec := range records {
		grow(0, rec.Category)
		grow(1, rec.SKU)
		grow(2, rec.Size)
		grow(3, rec.Color)
		grow(4, fmt.Sprintf("%d", rec.Qty))
	}
	return widths
}

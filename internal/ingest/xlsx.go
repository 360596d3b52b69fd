package ingest

import (
	"fmt"
	"io"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/xuri/excelize/v2"
)

// xlsxRows reads the first sheet of a workbook: column A is the report
// text, column B the quantity.
func xlsxRows(r io.Reader) ([]allocation.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]allocation.Row, 0, len(raw))
	for _, cells := range raw {
		if len(cells) == 0 {
			continue
		}
		row := allocation.Row{Text: cells[0]}
		if len(cells) > 1 {
			row.Qty = parseQty(cells[1])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Package ingest decodes uploaded report files into the ordered (text,
// quantity) row sequence the allocation engine consumes. Decoding is
// best-effort over noisy exports: unreadable individual rows are skipped,
// only an unreadable file is an error.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/domain"
)

// Format identifies how an uploaded file was decoded.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Rows decodes an uploaded report into ordered rows. Dispatch is on file
// extension: .xlsx goes through excelize, everything else is treated as
// delimited text.
func Rows(fileName string, r io.Reader) ([]allocation.Row, Format, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		rows, err := xlsxRows(r)
		if err != nil {
			return nil, FormatXLSX, domain.ValidationError{Field: "file", Reason: fmt.Sprintf("unreadable xlsx: %v", err)}
		}
		return rows, FormatXLSX, nil
	}

	rows, err := csvRows(r)
	if err != nil {
		return nil, FormatCSV, domain.ValidationError{Field: "file", Reason: fmt.Sprintf("unreadable csv: %v", err)}
	}
	return rows, FormatCSV, nil
}

// parseQty turns a raw cell value into an integer quantity. Exports carry
// quantities as floats ("3.0"); anything unparseable counts as zero.
func parseQty(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

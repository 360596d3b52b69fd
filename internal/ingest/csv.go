package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/andresuchdata/autopull/internal/allocation"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvRows reads delimited text: column 0 is the report text, column 1 the
// quantity. Payloads that are not valid UTF-8 are retried as Windows-1256,
// the code page legacy Arabic exports ship in.
func csvRows(r io.Reader) ([]allocation.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1256.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1256 payload: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows := make([]allocation.Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Best-effort over noisy exports: skip the bad row.
			continue
		}
		if len(record) == 0 {
			continue
		}
		row := allocation.Row{Text: record[0]}
		if len(record) > 1 {
			row.Qty = parseQty(record[1])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

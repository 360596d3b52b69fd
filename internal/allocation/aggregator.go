package allocation

import "strings"

// Row is one (text, quantity) pair from an uploaded report, in file order.
type Row struct {
	Text string
	Qty  int
}

// AggregatedRow is one keyed quantity total after a pass over the rows.
type AggregatedRow struct {
	Category string
	SKU      string
	Size     string
	Color    string
	Qty      int
}

// cursorState is the category cursor of the aggregation pass. The pass
// starts before any header; every non-product line after that moves the
// cursor.
type cursorState int

const (
	awaitingCategory cursorState = iota
	inCategory
)

type categoryCursor struct {
	state    cursorState
	category string
}

func (c categoryCursor) advance(header string) categoryCursor {
	return categoryCursor{state: inCategory, category: header}
}

// Aggregate folds ordered report rows into one quantity total per
// (category, sku, size, color) key. Lines without a bracketed SKU move the
// category cursor; the bare "quantity" column header is ignored. Entries
// come back in first-seen order.
func Aggregate(rows []Row) []AggregatedRow {
	cursor := categoryCursor{state: awaitingCategory}
	totals := make(map[string]int)
	order := make([]string, 0, len(rows))
	meta := make(map[string]AggregatedRow)

	for _, row := range rows {
		text := strings.TrimSpace(row.Text)
		if text == "" {
			continue
		}

		if !skuPattern.MatchString(text) {
			if IsQuantityHeader(text) {
				continue
			}
			cursor = cursor.advance(text)
			continue
		}

		parsed := ParseLine(text)
		if parsed.SKU == "" {
			continue
		}

		key := cursor.category + "\x00" + parsed.SKU + "\x00" + parsed.Size + "\x00" + parsed.Color
		if _, seen := totals[key]; !seen {
			order = append(order, key)
			meta[key] = AggregatedRow{
				Category: cursor.category,
				SKU:      parsed.SKU,
				Size:     parsed.Size,
				Color:    parsed.Color,
			}
		}
		totals[key] += row.Qty
	}

	out := make([]AggregatedRow, 0, len(order))
	for _, key := range order {
		entry := meta[key]
		entry.Qty = totals[key]
		out = append(out, entry)
	}
	return out
}

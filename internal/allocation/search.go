package allocation

import (
	"sort"
	"strings"

	"github.com/andresuchdata/autopull/internal/domain"
)

// DefaultSearchLimit caps search results when the caller does not set one.
const DefaultSearchLimit = 50

// SearchLedger returns in-stock items matching an optional exact category
// and an optional case-insensitive substring over sku/size/color/category.
// Zero-stock lines are never surfaced. Results descend by quantity, ties
// ascend by SKU.
func SearchLedger(ledger *domain.StockLedger, query, category string, limit int) []domain.StockItem {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.StockItem, 0)
	for _, item := range ledger.Items {
		if item.Qty <= 0 {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		if needle != "" && !matchesItem(item, needle) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty > out[j].Qty
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func matchesItem(item domain.StockItem, needle string) bool {
	for _, field := range []string{item.SKU, item.Size, item.Color, item.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

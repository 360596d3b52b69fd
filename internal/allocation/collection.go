package allocation

import (
	"sort"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

// DeriveBatch builds the new-collection batch for a stock snapshot replace.
// An empty prior ledger marks a base load: every in-stock key becomes a
// pending unit line. Otherwise only keys absent from the prior snapshot are
// surfaced; quantity changes on pre-existing keys are not.
func DeriveBatch(prior *domain.StockLedger, next map[string]domain.StockItem, now time.Time) *domain.NewCollectionBatch {
	mode := domain.BatchModeUpdateNewOnly
	if prior.Empty() {
		mode = domain.BatchModeBaseAll
	}

	lines := make([]domain.NewCollectionLine, 0)
	for key, item := range next {
		if item.Qty < 1 {
			continue
		}
		if mode == domain.BatchModeUpdateNewOnly {
			if _, existed := prior.Items[key]; existed {
				continue
			}
		}
		lines = append(lines, domain.NewCollectionLine{
			LineID:   key,
			Category: item.Category,
			SKU:      item.SKU,
			Size:     item.Size,
			Color:    item.Color,
			Qty:      1,
			Status:   domain.StatusPending,
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Category != lines[j].Category {
			return lines[i].Category < lines[j].Category
		}
		if lines[i].SKU != lines[j].SKU {
			return lines[i].SKU < lines[j].SKU
		}
		return lines[i].LineID < lines[j].LineID
	})

	return &domain.NewCollectionBatch{
		CreatedAt: now.UTC(),
		Mode:      mode,
		Items:     lines,
	}
}

package allocation

import (
	"sort"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

// GenerateRun builds a replan proposal from aggregated sales rows against
// the current ledger. Sales keys without a ledger entry are dropped; so are
// keys with no positive balance or a zero clamp. Lines come back sorted by
// descending balance, ties broken by ascending SKU.
func GenerateRun(ledger *domain.StockLedger, policy *domain.LimitPolicy, salesRows []Row, categoryFilter, salesFileName, runID string, now time.Time) (*domain.ReplanRun, error) {
	if ledger.Empty() {
		return nil, domain.EmptyLedgerError{}
	}

	lines := make([]domain.ReplanLine, 0)
	for _, sales := range Aggregate(salesRows) {
		key := domain.Key(sales.SKU, sales.Size, sales.Color)
		item, ok := ledger.Items[key]
		if !ok {
			continue
		}
		if categoryFilter != "" && item.Category != categoryFilter {
			continue
		}

		balance := item.Qty - sales.Qty
		if balance <= 0 {
			continue
		}

		min, max := ResolveLimits(policy, item.SKU)
		pullQty := Clamp(balance, min, max)
		if pullQty <= 0 {
			continue
		}

		lines = append(lines, domain.ReplanLine{
			LineID:   key,
			Category: item.Category,
			SKU:      item.SKU,
			Size:     item.Size,
			Color:    item.Color,
			StockQty: item.Qty,
			SalesQty: sales.Qty,
			Balance:  balance,
			PullQty:  pullQty,
			Status:   domain.StatusPending,
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Balance != lines[j].Balance {
			return lines[i].Balance > lines[j].Balance
		}
		return lines[i].SKU < lines[j].SKU
	})

	return &domain.ReplanRun{
		RunID:          runID,
		CreatedAt:      now.UTC(),
		CategoryFilter: categoryFilter,
		SalesFileName:  salesFileName,
		Lines:          lines,
	}, nil
}

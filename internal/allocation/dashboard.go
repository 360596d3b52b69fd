package allocation

import (
	"sort"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

const (
	topCategoryLimit = 15
	topSKULimit      = 20
	noReplanLimit    = 200
)

// Analyze folds completed run history and the current ledger into the
// dashboard payload: top movers over the lookback window plus in-stock keys
// with no recent (or no) completed pull. Last-execution timestamps are
// taken across all runs, not just the window.
func Analyze(runs []*domain.ReplanRun, ledger *domain.StockLedger, q domain.DashboardQuery, now time.Time) *domain.DashboardPayload {
	now = now.UTC()
	windowStart := now.AddDate(0, 0, -q.WindowDays)
	staleBefore := now.AddDate(0, 0, -q.StaleDays)

	lastExecuted := make(map[string]time.Time)
	categoryTotals := make(map[string]int)
	skuTotals := make(map[[2]string]int)

	for _, run := range runs {
		for _, line := range run.Lines {
			if line.Status != domain.StatusDone || line.ExecutedAt == nil {
				continue
			}
			at := line.ExecutedAt.UTC()
			if prev, ok := lastExecuted[line.LineID]; !ok || at.After(prev) {
				lastExecuted[line.LineID] = at
			}
			if at.Before(windowStart) {
				continue
			}
			categoryTotals[line.Category] += line.PullQty
			skuTotals[[2]string{line.Category, line.SKU}] += line.PullQty
		}
	}

	payload := &domain.DashboardPayload{
		WindowDays:    q.WindowDays,
		StaleDays:     q.StaleDays,
		Category:      q.Category,
		GeneratedAt:   now,
		TopCategories: topCategories(categoryTotals),
		TopSKUs:       topSKUs(skuTotals),
		NoReplan:      staleItems(ledger, lastExecuted, q.Category, staleBefore),
	}
	return payload
}

func topCategories(totals map[string]int) []domain.CategoryTotal {
	out := make([]domain.CategoryTotal, 0, len(totals))
	for category, qty := range totals {
		out = append(out, domain.CategoryTotal{Category: category, PullQty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PullQty != out[j].PullQty {
			return out[i].PullQty > out[j].PullQty
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > topCategoryLimit {
		out = out[:topCategoryLimit]
	}
	return out
}

func topSKUs(totals map[[2]string]int) []domain.SKUTotal {
	out := make([]domain.SKUTotal, 0, len(totals))
	for key, qty := range totals {
		out = append(out, domain.SKUTotal{Category: key[0], SKU: key[1], PullQty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PullQty != out[j].PullQty {
			return out[i].PullQty > out[j].PullQty
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > topSKULimit {
		out = out[:topSKULimit]
	}
	return out
}

func staleItems(ledger *domain.StockLedger, lastExecuted map[string]time.Time, category string, staleBefore time.Time) []domain.StaleItem {
	out := make([]domain.StaleItem, 0)
	for key, item := range ledger.Items {
		if item.Qty <= 0 {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		stale := domain.StaleItem{
			SKU:      item.SKU,
			Size:     item.Size,
			Color:    item.Color,
			Category: item.Category,
			Qty:      item.Qty,
		}
		if at, ok := lastExecuted[key]; ok {
			if !at.Before(staleBefore) {
				continue
			}
			t := at
			stale.LastExecutedAt = &t
		}
		out = append(out, stale)
	}

	// Never-executed items sort first, ordered by key; the rest ascend by
	// last-executed timestamp.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.LastExecutedAt == nil && b.LastExecutedAt == nil:
			return domain.Key(a.SKU, a.Size, a.Color) < domain.Key(b.SKU, b.Size, b.Color)
		case a.LastExecutedAt == nil:
			return true
		case b.LastExecutedAt == nil:
			return false
		default:
			return a.LastExecutedAt.Before(*b.LastExecutedAt)
		}
	})
	if len(out) > noReplanLimit {
		out = out[:noReplanLimit]
	}
	return out
}

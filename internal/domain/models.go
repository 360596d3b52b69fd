// internal/domain/models.go
package domain

import (
	"strings"
	"time"
)

// Key builds the identity string for a stock line. Category is metadata,
// never part of the identity.
func Key(sku, size, color string) string {
	return sku + "|" + size + "|" + color
}

// SplitKey is the inverse of Key. ok is false when the string is not a
// well-formed key.
func SplitKey(key string) (sku, size, color string, ok bool) {
	parts := strings.SplitN(key, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// StockItem is one on-hand stock line. Owned exclusively by the ledger:
// quantity changes only through a snapshot replace or an execution decrement.
type StockItem struct {
	SKU      string `json:"sku"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Category string `json:"category"`
	Qty      int    `json:"qty"`
}

// Key returns the identity string for this item.
func (it StockItem) Key() string {
	return Key(it.SKU, it.Size, it.Color)
}

// StockLedger is the authoritative snapshot of on-hand quantities.
type StockLedger struct {
	UpdatedAt  *time.Time           `json:"updated_at"`
	SourceName string               `json:"source_name"`
	Items      map[string]StockItem `json:"items"`
}

func NewStockLedger() *StockLedger {
	return &StockLedger{Items: make(map[string]StockItem)}
}

// Empty reports whether the ledger holds no items at all; an empty ledger
// means "no prior baseline".
func (l *StockLedger) Empty() bool {
	return l == nil || len(l.Items) == 0
}

// Replace swaps the whole snapshot. Item quantities are never patched in
// place outside of Decrement.
func (l *StockLedger) Replace(items map[string]StockItem, sourceName string, at time.Time) {
	if items == nil {
		items = make(map[string]StockItem)
	}
	l.Items = items
	l.SourceName = sourceName
	t := at
	l.UpdatedAt = &t
}

// Decrement subtracts amount from the keyed item. It fails without mutating
// anything when the key is absent or stock is short.
func (l *StockLedger) Decrement(key string, amount int) error {
	item, ok := l.Items[key]
	if !ok {
		return NotFoundError{Resource: "stock item", ID: key}
	}
	if amount > item.Qty {
		return InsufficientStockError{Key: key, Have: item.Qty, Need: amount}
	}
	item.Qty -= amount
	l.Items[key] = item
	return nil
}

// ReplanLine is one proposed pull for a single key. Balance and pull
// quantity are fixed at generation time and never recomputed.
type ReplanLine struct {
	LineID     string     `json:"line_id"`
	Category   string     `json:"category"`
	SKU        string     `json:"sku"`
	Size       string     `json:"size"`
	Color      string     `json:"color"`
	StockQty   int        `json:"stock_qty"`
	SalesQty   int        `json:"sales_qty"`
	Balance    int        `json:"balance"`
	PullQty    int        `json:"pull_qty"`
	Status     LineStatus `json:"status"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

// Need is the quantity an execution takes from the ledger.
func (l ReplanLine) Need() int {
	return l.PullQty
}

// ReplanRun is one generated allocation proposal. Immutable after creation
// except for per-line status and executed_at.
type ReplanRun struct {
	RunID          string       `json:"run_id"`
	CreatedAt      time.Time    `json:"created_at"`
	CategoryFilter string       `json:"category_filter,omitempty"`
	SalesFileName  string       `json:"sales_file_name,omitempty"`
	Lines          []ReplanLine `json:"lines"`
}

// FindLine returns a pointer into Lines for in-place status updates.
func (r *ReplanRun) FindLine(lineID string) (*ReplanLine, bool) {
	for i := range r.Lines {
		if r.Lines[i].LineID == lineID {
			return &r.Lines[i], true
		}
	}
	return nil, false
}

// Summary folds a run into its list representation.
func (r *ReplanRun) Summary() RunSummary {
	s := RunSummary{
		RunID:          r.RunID,
		CreatedAt:      r.CreatedAt,
		CategoryFilter: r.CategoryFilter,
		SalesFileName:  r.SalesFileName,
		TotalLines:     len(r.Lines),
	}
	for _, line := range r.Lines {
		if line.Status == StatusDone {
			s.DoneLines++
		} else {
			s.PendingLines++
		}
		s.TotalPullQty += line.PullQty
	}
	return s
}

// RunSummary is the list-view shape of a run.
type RunSummary struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	CategoryFilter string    `json:"category_filter,omitempty"`
	SalesFileName  string    `json:"sales_file_name,omitempty"`
	TotalLines     int       `json:"total_lines"`
	PendingLines   int       `json:"pending_lines"`
	DoneLines      int       `json:"done_lines"`
	TotalPullQty   int       `json:"total_pull_qty"`
}

// NewCollectionLine is one pending new-arrival pull at fixed unit quantity.
type NewCollectionLine struct {
	LineID     string     `json:"line_id"`
	Category   string     `json:"category"`
	SKU        string     `json:"sku"`
	Size       string     `json:"size"`
	Color      string     `json:"color"`
	Qty        int        `json:"qty"`
	Status     LineStatus `json:"status"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

// Need is always one unit for new-collection lines.
func (l NewCollectionLine) Need() int {
	return 1
}

// NewCollectionBatch is the single current new-arrivals batch. Each stock
// upload replaces it wholesale.
type NewCollectionBatch struct {
	CreatedAt time.Time           `json:"created_at"`
	Mode      BatchMode           `json:"mode"`
	Items     []NewCollectionLine `json:"items"`
}

// FindLine returns a pointer into Items for in-place status updates.
func (b *NewCollectionBatch) FindLine(lineID string) (*NewCollectionLine, bool) {
	for i := range b.Items {
		if b.Items[i].LineID == lineID {
			return &b.Items[i], true
		}
	}
	return nil, false
}

// LimitBounds is a min/max pull bound pair.
type LimitBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LimitPolicy holds the global default bounds plus per-SKU overrides.
type LimitPolicy struct {
	DefaultMin int                    `json:"default_min"`
	DefaultMax int                    `json:"default_max"`
	SKUs       map[string]LimitBounds `json:"skus"`
}

func NewLimitPolicy(defaultMin, defaultMax int) *LimitPolicy {
	return &LimitPolicy{
		DefaultMin: defaultMin,
		DefaultMax: defaultMax,
		SKUs:       make(map[string]LimitBounds),
	}
}

// ExecutionReport is the outcome of a bulk execute pass. Failures never
// abort the pass; they are collected per line.
type ExecutionReport struct {
	Executed int           `json:"executed"`
	Failures []LineFailure `json:"failures"`
}

type LineFailure struct {
	LineID string `json:"line_id"`
	Reason string `json:"reason"`
}

// UploadSummary reports the result of a stock snapshot upload.
type UploadSummary struct {
	SourceName string    `json:"source_name"`
	Items      int       `json:"items"`
	BatchMode  BatchMode `json:"batch_mode"`
	BatchSize  int       `json:"batch_size"`
	UpdatedAt  time.Time `json:"updated_at"`
}

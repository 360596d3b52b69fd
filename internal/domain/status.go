package domain

import "strings"

// LineStatus is the lifecycle state of a replan or new-collection line.
// A line moves pending -> done exactly once and is never reversed.
type LineStatus string

const (
	StatusPending LineStatus = "pending"
	StatusDone    LineStatus = "done"
)

var lineStatusLabels = map[LineStatus]string{
	StatusPending: "Pending",
	StatusDone:    "Done",
}

// Label returns a human-readable label for a line status.
func (s LineStatus) Label() string {
	if label, ok := lineStatusLabels[s]; ok {
		return label
	}

	return "Pending"
}

func (s LineStatus) Valid() bool {
	_, ok := lineStatusLabels[s]
	return ok
}

// BatchMode says how a new-collection batch was derived from the snapshot
// diff.
type BatchMode string

const (
	// BatchModeBaseAll marks a batch built from a base load: the prior
	// ledger was empty, every in-stock key is new.
	BatchModeBaseAll BatchMode = "base_all"
	// BatchModeUpdateNewOnly marks a batch holding only the keys absent
	// from the prior ledger.
	BatchModeUpdateNewOnly BatchMode = "update_new_only"
)

var batchModeLabels = map[BatchMode]string{
	BatchModeBaseAll:       "Base load",
	BatchModeUpdateNewOnly: "New arrivals",
}

// Label returns a human-readable label for a batch mode.
func (m BatchMode) Label() string {
	if label, ok := batchModeLabels[m]; ok {
		return label
	}

	return string(m)
}

func (m BatchMode) Valid() bool {
	_, ok := batchModeLabels[m]
	return ok
}

// ParseBatchMode returns the mode for a given label or value (case-insensitive).
func ParseBatchMode(s string) (BatchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(BatchModeBaseAll), "base load":
		return BatchModeBaseAll, true
	case string(BatchModeUpdateNewOnly), "new arrivals":
		return BatchModeUpdateNewOnly, true
	}
	return "", false
}

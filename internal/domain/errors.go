package domain

import "fmt"

// ValidationError reports missing or malformed required input. Nothing is
// mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown run, line, or ledger key.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// InsufficientStockError reports have < need at execution time. The ledger
// is left untouched.
type InsufficientStockError struct {
	Key  string
	Have int
	Need int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: have %d, need %d", e.Key, e.Have, e.Need)
}

// EmptyLedgerError reports a replan generation attempted with no prior
// stock snapshot.
type EmptyLedgerError struct{}

func (EmptyLedgerError) Error() string {
	return "stock ledger is empty; upload a stock report first"
}

package allocation

import (
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

// executeStep takes need units for one line out of the ledger and marks the
// line done. Re-executing a done line is a no-op success. On insufficient
// stock or a missing key the ledger and the line are left untouched.
func executeStep(ledger *domain.StockLedger, lineID string, need int, status *domain.LineStatus, executedAt **time.Time, now time.Time) error {
	if *status == domain.StatusDone {
		return nil
	}
	if err := ledger.Decrement(lineID, need); err != nil {
		return err
	}
	*status = domain.StatusDone
	t := now.UTC()
	*executedAt = &t
	return nil
}

// ExecuteRunLine executes one replan line against the current ledger.
func ExecuteRunLine(ledger *domain.StockLedger, run *domain.ReplanRun, lineID string, now time.Time) error {
	line, ok := run.FindLine(lineID)
	if !ok {
		return domain.NotFoundError{Resource: "run line", ID: lineID}
	}
	return executeStep(ledger, line.LineID, line.Need(), &line.Status, &line.ExecutedAt, now)
}

// ExecuteRunAll executes every pending line of a run in order. Each line is
// evaluated against the ledger as mutated by the lines before it; failures
// are collected per line and never abort the pass.
func ExecuteRunAll(ledger *domain.StockLedger, run *domain.ReplanRun, now time.Time) *domain.ExecutionReport {
	report := &domain.ExecutionReport{Failures: make([]domain.LineFailure, 0)}
	for i := range run.Lines {
		line := &run.Lines[i]
		if line.Status == domain.StatusDone {
			continue
		}
		if err := executeStep(ledger, line.LineID, line.Need(), &line.Status, &line.ExecutedAt, now); err != nil {
			report.Failures = append(report.Failures, domain.LineFailure{LineID: line.LineID, Reason: err.Error()})
			continue
		}
		report.Executed++
	}
	return report
}

// ExecuteBatchLine executes one new-collection line (need is always one unit).
func ExecuteBatchLine(ledger *domain.StockLedger, batch *domain.NewCollectionBatch, lineID string, now time.Time) error {
	line, ok := batch.FindLine(lineID)
	if !ok {
		return domain.NotFoundError{Resource: "collection line", ID: lineID}
	}
	return executeStep(ledger, line.LineID, line.Need(), &line.Status, &line.ExecutedAt, now)
}

// ExecuteBatchAll executes every pending new-collection line in order with
// the same per-line failure semantics as ExecuteRunAll.
func ExecuteBatchAll(ledger *domain.StockLedger, batch *domain.NewCollectionBatch, now time.Time) *domain.ExecutionReport {
	report := &domain.ExecutionReport{Failures: make([]domain.LineFailure, 0)}
	for i := range batch.Items {
		line := &batch.Items[i]
		if line.Status == domain.StatusDone {
			continue
		}
		if err := executeStep(ledger, line.LineID, line.Need(), &line.Status, &line.ExecutedAt, now); err != nil {
			report.Failures = append(report.Failures, domain.LineFailure{LineID: line.LineID, Reason: err.Error()})
			continue
		}
		report.Executed++
	}
	return report
}

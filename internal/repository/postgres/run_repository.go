package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
)

type runRow struct {
	RunID          string          `db:"run_id"`
	CreatedAt      time.Time       `db:"created_at"`
	CategoryFilter string          `db:"category_filter"`
	SalesFile      string          `db:"sales_file"`
	Lines          json.RawMessage `db:"lines"`
}

func (row runRow) toDomain() (*domain.ReplanRun, error) {
	run := &domain.ReplanRun{
		RunID:          row.RunID,
		CreatedAt:      row.CreatedAt,
		CategoryFilter: row.CategoryFilter,
		SalesFileName:  row.SalesFile,
		Lines:          make([]domain.ReplanLine, 0),
	}
	if len(row.Lines) > 0 {
		if err := json.Unmarshal(row.Lines, &run.Lines); err != nil {
			return nil, fmt.Errorf("decode run %s lines: %w", row.RunID, err)
		}
	}
	return run, nil
}

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Insert(ctx context.Context, run *domain.ReplanRun) error {
	lines, err := json.Marshal(run.Lines)
	if err != nil {
		return fmt.Errorf("encode run lines: %w", err)
	}

	query := `
		INSERT INTO replan_runs (run_id, created_at, category_filter, sales_file, lines)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, run.RunID, run.CreatedAt, run.CategoryFilter, run.SalesFileName, lines); err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.ReplanRun, error) {
	var row runRow
	query := `SELECT run_id, created_at, category_filter, sales_file, lines FROM replan_runs WHERE run_id = $1`
	err := r.db.GetContext(ctx, &row, query, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "run", ID: runID}
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return row.toDomain()
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	runs, err := r.all(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, run.Summary())
	}
	return out, nil
}

func (r *RunRepository) All(ctx context.Context) ([]*domain.ReplanRun, error) {
	return r.all(ctx, 0)
}

func (r *RunRepository) all(ctx context.Context, limit int) ([]*domain.ReplanRun, error) {
	query := `SELECT run_id, created_at, category_filter, sales_file, lines FROM replan_runs ORDER BY created_at DESC, run_id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]*domain.ReplanRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *RunRepository) Update(ctx context.Context, run *domain.ReplanRun) error {
	lines, err := json.Marshal(run.Lines)
	if err != nil {
		return fmt.Errorf("encode run lines: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE replan_runs SET lines = $2 WHERE run_id = $1`, run.RunID, lines)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.RunID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.RunID, err)
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "run", ID: run.RunID}
	}
	return nil
}

func (r *RunRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM replan_runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

func (r *RunRepository) clearTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM replan_runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

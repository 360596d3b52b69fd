package postgres

import (
	"context"
	"database/sql"
)

// ResetDocuments empties the ledger, run history, and new-collection batch
// in one transaction. The limit policy survives a clear.
func ResetDocuments(ctx context.Context, db *DB) error {
	ledger := NewLedgerRepository(db)
	runs := NewRunRepository(db)
	collection := NewCollectionRepository(db)

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ledger.clearTx(ctx, tx); err != nil {
			return err
		}
		if err := runs.clearTx(ctx, tx); err != nil {
			return err
		}
		return collection.clearTx(ctx, tx)
	})
}

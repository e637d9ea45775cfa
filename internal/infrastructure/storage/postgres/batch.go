package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter loads rows with the COPY protocol. Used for seeding demo data.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyStructs copies a slice of db-tagged structs into table.
// Columns are taken from the first row's "db" tags.
func CopyStructs[T any](ctx context.Context, b *BatchInserter, table string, items []T) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	columns := ExtractDBColumns[T]()
	rows := make([][]any, 0, len(items))
	for i := range items {
		m := StructToMap(items[i])
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = m[col]
		}
		rows = append(rows, row)
	}
	return b.CopyFromSlice(ctx, table, columns, rows)
}

// CopyFromSlice performs bulk insert from a slice of rows. Requires a transaction in ctx.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	txn := b.txManager.GetTx(ctx)
	if txn == nil {
		return 0, fmt.Errorf("CopyFromSlice requires transaction context")
	}

	n, err := txn.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

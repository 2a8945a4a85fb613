package sheets

import (
	"context"

	"budgeteer/internal/core"
)

// TransactionAppender is the outbound port the export worker writes
// snapshot rows through.
type TransactionAppender interface {
	// AppendTransactions appends one row per transaction and returns the
	// number of rows written.
	AppendTransactions(ctx context.Context, txns []core.Transaction) (int, error)
}

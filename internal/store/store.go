// Package store persists snapshots and configuration. Accounts and
// transactions go through the Store port with two backends: flat JSON
// files (default) and SQLite. Budgets and personal rules are always JSON
// files in the data directory, whichever backend is active.
package store

import (
	"context"

	"budgeteer/internal/core"
	"budgeteer/internal/provider"
)

// Store is the snapshot port. Loads return (nil, nil) when no snapshot has
// been written yet; saves replace the previous snapshot wholesale — there
// is no incremental merge.
type Store interface {
	SaveAccounts(ctx context.Context, accounts []provider.Account) error
	LoadAccounts(ctx context.Context) ([]provider.Account, error)
	SaveTransactions(ctx context.Context, txns []core.Transaction) error
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	Close() error
}

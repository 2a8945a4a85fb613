package store

import (
	"context"
	"path/filepath"
	"testing"

	"budgeteer/internal/core"
	"budgeteer/internal/provider"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "budgeteer.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreEmpty(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	txns, err := s.LoadTransactions(ctx)
	if err != nil || txns != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", txns, err)
	}
	accounts, err := s.LoadAccounts(ctx)
	if err != nil || accounts != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", accounts, err)
	}
}

func TestSQLiteStoreSnapshotReplace(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := []core.Transaction{
		{ID: "t1", Date: core.NewDate(2024, 3, 10), Amount: core.Money{Cents: 100}, MerchantName: "A", Category: core.FoodAndDrink},
		{ID: "t2", Date: core.NewDate(2024, 3, 11), Amount: core.Money{Cents: 200}, MerchantName: "B", Category: core.Travel},
	}
	if err := s.SaveTransactions(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := []core.Transaction{
		{ID: "t3", Date: core.NewDate(2024, 3, 12), Amount: core.Money{Cents: 300}, MerchantName: "C", Category: core.Housing},
	}
	if err := s.SaveTransactions(ctx, second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != second[0] {
		t.Fatalf("snapshot not replaced: %+v", got)
	}
}

func TestSQLiteStoreAccountsKeepPayload(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	accounts := []provider.Account{
		{
			ID:      "acc1",
			Name:    "Checking",
			Balance: "1024.50",
			Org:     provider.Org{Name: "Example Bank", Domain: "example.org"},
			Transactions: []provider.Transaction{
				{ID: "t1", Posted: 1710500000, Amount: "-12.34", Description: "STARBUCKS"},
			},
		},
	}
	if err := s.SaveAccounts(ctx, accounts); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadAccounts(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d accounts, want 1", len(got))
	}
	if got[0].Org.Domain != "example.org" || len(got[0].Transactions) != 1 {
		t.Fatalf("payload fields lost: %+v", got[0])
	}
}

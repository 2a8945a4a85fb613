package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budgeteer/internal/core"
	"budgeteer/internal/provider"
)

func TestFileStoreMissingFilesReturnNil(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	accounts, err := s.LoadAccounts(ctx)
	if err != nil || accounts != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", accounts, err)
	}
	txns, err := s.LoadTransactions(ctx)
	if err != nil || txns != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", txns, err)
	}
	budgets, err := s.LoadBudgets()
	if err != nil || budgets != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", budgets, err)
	}
	rules, err := s.LoadRules()
	if err != nil || len(rules.Rules) != 0 {
		t.Fatalf("got (%v, %v), want empty rule set", rules, err)
	}
}

func TestFileStoreTransactionRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	txns := []core.Transaction{
		{
			ID:           "t1",
			Date:         core.NewDate(2024, 3, 15),
			Amount:       core.Money{Cents: 4250},
			MerchantName: "STARBUCKS #123",
			Category:     core.FoodAndDrink,
			AccountName:  "Checking",
			AccountOrg:   "Example Bank",
		},
	}
	if err := s.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Snapshot replacement: a second save overwrites, not appends.
	if err := s.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != txns[0] {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// The file keeps the human-readable decimal amount.
	data, err := os.ReadFile(s.TransactionsPath())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), `"amount": 42.50`) {
		t.Fatalf("expected decimal amount in file, got:\n%s", data)
	}
}

func TestFileStoreAccountsRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	accounts := []provider.Account{
		{
			ID:      "acc1",
			Name:    "Checking",
			Balance: "1024.50",
			Org:     provider.Org{Name: "Example Bank"},
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
	if len(got) != 1 || got[0].Org.Name != "Example Bank" || len(got[0].Transactions) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileStoreBudgets(t *testing.T) {
	s := NewFileStore(t.TempDir())

	table := make(core.BudgetTable)
	table.Set(core.Monthly, "TRAVEL", 500)
	if err := s.SaveBudgets(table); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadBudgets()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Limits(core.Monthly)["TRAVEL"] != 500 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileStoreRules(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	doc := `{"merchant_rules": {"starbucks": {"category": "COFFEE"}}}`
	if err := os.WriteFile(filepath.Join(dir, "personal-categories.json"), []byte(doc), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := s.LoadRules()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if len(rules.Rules) != 1 || rules.Rules[0].Category != "COFFEE" {
		t.Fatalf("unexpected rules: %+v", rules.Rules)
	}
}

func TestFileStoreCorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if err := os.WriteFile(s.TransactionsPath(), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.LoadTransactions(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

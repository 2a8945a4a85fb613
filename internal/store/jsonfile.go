package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"budgeteer/internal/category"
	"budgeteer/internal/core"
	"budgeteer/internal/provider"
)

// FileStore keeps every snapshot as indented JSON under a data directory,
// mirroring the layout the budget and rule files use:
//
//	<dir>/accounts/accounts.json
//	<dir>/transactions/transactions.json
//	<dir>/budgets.json
//	<dir>/personal-categories.json
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// EnsureDirs creates the data directory tree. Safe to call repeatedly.
func (s *FileStore) EnsureDirs() error {
	for _, d := range []string{s.dir, filepath.Join(s.dir, "accounts"), filepath.Join(s.dir, "transactions")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create data directory %s: %w", d, err)
		}
	}
	return nil
}

func (s *FileStore) AccountsPath() string {
	return filepath.Join(s.dir, "accounts", "accounts.json")
}

func (s *FileStore) TransactionsPath() string {
	return filepath.Join(s.dir, "transactions", "transactions.json")
}

func (s *FileStore) BudgetsPath() string {
	return filepath.Join(s.dir, "budgets.json")
}

func (s *FileStore) RulesPath() string {
	return filepath.Join(s.dir, "personal-categories.json")
}

func (s *FileStore) SaveAccounts(_ context.Context, accounts []provider.Account) error {
	return writeJSON(s.AccountsPath(), accounts)
}

func (s *FileStore) LoadAccounts(_ context.Context) ([]provider.Account, error) {
	var accounts []provider.Account
	found, err := readJSON(s.AccountsPath(), &accounts)
	if err != nil || !found {
		return nil, err
	}
	return accounts, nil
}

func (s *FileStore) SaveTransactions(_ context.Context, txns []core.Transaction) error {
	return writeJSON(s.TransactionsPath(), txns)
}

func (s *FileStore) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	var txns []core.Transaction
	found, err := readJSON(s.TransactionsPath(), &txns)
	if err != nil || !found {
		return nil, err
	}
	return txns, nil
}

func (s *FileStore) Close() error { return nil }

// LoadBudgets returns the budget table, or nil when none has been written.
func (s *FileStore) LoadBudgets() (core.BudgetTable, error) {
	var table core.BudgetTable
	found, err := readJSON(s.BudgetsPath(), &table)
	if err != nil || !found {
		return nil, err
	}
	return table, nil
}

func (s *FileStore) SaveBudgets(table core.BudgetTable) error {
	return writeJSON(s.BudgetsPath(), table)
}

// LoadRules reads the personal rule file. A missing file is not an error:
// categorization then relies on the fallback table alone.
func (s *FileStore) LoadRules() (category.RuleSet, error) {
	f, err := os.Open(s.RulesPath())
	if errors.Is(err, os.ErrNotExist) {
		return category.RuleSet{}, nil
	}
	if err != nil {
		return category.RuleSet{}, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	rs, err := category.ParseRules(f)
	if err != nil {
		return category.RuleSet{}, fmt.Errorf("parse %s: %w", s.RulesPath(), err)
	}
	return rs, nil
}

// readJSON reports found=false for a missing file and propagates every
// other I/O or decode error.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

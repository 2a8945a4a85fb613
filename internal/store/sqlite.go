package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"budgeteer/internal/core"
	"budgeteer/internal/provider"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps snapshots in a local SQLite database. Saves replace
// the whole table inside one transaction so a failed fetch never leaves a
// half-written snapshot behind.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) SaveAccounts(ctx context.Context, accounts []provider.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for _, acc := range accounts {
		payload, err := json.Marshal(acc)
		if err != nil {
			return fmt.Errorf("encode account %s: %w", acc.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, org_name, payload) VALUES (?, ?, ?, ?)`,
			acc.ID, acc.Name, acc.Org.Name, string(payload))
		if err != nil {
			return fmt.Errorf("insert account %s: %w", acc.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadAccounts(ctx context.Context) ([]provider.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []provider.Account
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		var acc provider.Account
		if err := json.Unmarshal([]byte(payload), &acc); err != nil {
			return nil, fmt.Errorf("decode account payload: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (s *SQLiteStore) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, date, amount_cents, merchant_name, category, account_name, account_org)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Date.String(), t.Amount.Cents, t.MerchantName,
			string(t.Category), t.AccountName, t.AccountOrg)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount_cents, merchant_name, category, account_name, account_org
		FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			cat     string
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Amount.Cents, &t.MerchantName, &cat, &t.AccountName, &t.AccountOrg); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: stored date %q: %w", t.ID, dateStr, err)
		}
		t.Category = core.Category(cat)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

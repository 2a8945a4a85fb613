package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestSandboxTransactionsPagination(t *testing.T) {
	const total = 3
	var requests []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("PLAID-CLIENT-ID") != "cid" || r.Header.Get("PLAID-SECRET") != "sec" {
			t.Fatalf("credential headers missing")
		}
		if r.URL.Query().Get("start_date") == "" || r.URL.Query().Get("end_date") == "" {
			t.Fatalf("date range missing: %s", r.URL.RawQuery)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		requests = append(requests, offset)

		// Two transactions on the first page, one on the second.
		var page sandboxTransactionsPage
		page.TotalTransactions = total
		switch offset {
		case 0:
			page.Transactions = []SandboxTransaction{
				{TransactionID: "t1", Date: "2024-03-10", Amount: 100},
				{TransactionID: "t2", Date: "2024-03-11", Amount: 200},
			}
		case 2:
			page.Transactions = []SandboxTransaction{
				{TransactionID: "t3", Date: "2024-03-12", Amount: 300},
			}
		default:
			t.Fatalf("unexpected offset %d", offset)
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	client, err := NewSandbox(srv.URL, "cid", "sec", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	txns, err := client.Transactions(context.Background(), start, end)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txns) != total {
		t.Fatalf("got %d transactions, want %d", len(txns), total)
	}
	if txns[2].TransactionID != "t3" {
		t.Fatalf("pages out of order: %+v", txns)
	}
	// Sequential offsets, one request at a time.
	if len(requests) != 2 || requests[0] != 0 || requests[1] != 2 {
		t.Fatalf("unexpected request offsets: %v", requests)
	}
}

func TestSandboxTransactionsEmptyPageStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A provider that lies about the total must not loop forever.
		fmt.Fprint(w, `{"transactions":[],"total_transactions":10}`)
	}))
	defer srv.Close()

	client, err := NewSandbox(srv.URL, "cid", "sec", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	txns, err := client.Transactions(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("got %d transactions, want 0", len(txns))
	}
}

func TestSandboxAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"accounts":[{"id":"a1","name":"Sandbox Checking","balance":"100.00","org":{"name":"Sandbox Bank"}}]}`)
	}))
	defer srv.Close()

	client, err := NewSandbox(srv.URL, "cid", "sec", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	accounts, err := client.Accounts(context.Background())
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Org.Name != "Sandbox Bank" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

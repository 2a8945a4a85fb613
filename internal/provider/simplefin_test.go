package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSimpleFINAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			t.Fatalf("missing or wrong basic auth: %q/%q", user, pass)
		}
		fmt.Fprint(w, `{"errors":[],"accounts":[
			{"id":"acc1","name":"Checking","balance":"1024.50",
			 "org":{"name":"Example Bank"},
			 "transactions":[{"id":"t1","posted":1710500000,"amount":"-12.34","description":"STARBUCKS"}]}
		]}`)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	access := fmt.Sprintf("%s://alice:s3cret@%s", u.Scheme, u.Host)

	client, err := NewSimpleFIN(access, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	accounts, err := client.Accounts(context.Background())
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Checking" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if len(accounts[0].Transactions) != 1 || accounts[0].Transactions[0].Amount != "-12.34" {
		t.Fatalf("unexpected transactions: %+v", accounts[0].Transactions)
	}
}

func TestSimpleFINStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "access denied")
	}))
	defer srv.Close()

	client, err := NewSimpleFIN(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Accounts(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden || se.Body != "access denied" {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestSimpleFINMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	client, err := NewSimpleFIN(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Accounts(context.Background())
	if err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
	if !strings.Contains(err.Error(), "not json") {
		t.Fatalf("error must carry the raw body: %v", err)
	}
}

func TestNewSimpleFINRejectsBadURL(t *testing.T) {
	if _, err := NewSimpleFIN("ftp://bridge.example.org", time.Second); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

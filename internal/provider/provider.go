// Package provider fetches raw account and transaction data from the two
// supported aggregation backends and normalizes it into canonical
// transactions. The SimpleFIN variant authenticates with credentials
// embedded in an access URL and reports decimal-string amounts; the
// sandbox variant authenticates with client id/secret headers, paginates,
// and reports amounts in minor units.
package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind tags which backend produced a payload. Amount and date conventions
// are provider-dependent, so normalization dispatches on it.
type Kind string

const (
	KindSimpleFIN Kind = "simplefin"
	KindSandbox   Kind = "sandbox"
)

type (
	// Org identifies the institution behind an account.
	Org struct {
		ID      string `json:"id,omitempty"`
		Name    string `json:"name"`
		Domain  string `json:"domain,omitempty"`
		URL     string `json:"url,omitempty"`
		SfinURL string `json:"sfin-url,omitempty"`
	}

	// Account is a raw SimpleFIN account with embedded transactions,
	// persisted verbatim to the accounts snapshot.
	Account struct {
		ID               string        `json:"id"`
		Name             string        `json:"name"`
		Currency         string        `json:"currency,omitempty"`
		Balance          string        `json:"balance"`
		AvailableBalance string        `json:"available-balance,omitempty"`
		BalanceDate      int64         `json:"balance-date,omitempty"`
		Org              Org           `json:"org"`
		Transactions     []Transaction `json:"transactions,omitempty"`
	}

	// Transaction is a raw SimpleFIN transaction: epoch-seconds posted
	// time and a signed decimal-string amount.
	Transaction struct {
		ID           string `json:"id"`
		Posted       int64  `json:"posted"`
		Amount       string `json:"amount"`
		Description  string `json:"description"`
		Payee        string `json:"payee,omitempty"`
		Memo         string `json:"memo,omitempty"`
		TransactedAt int64  `json:"transacted_at,omitempty"`
	}

	// SandboxTransaction is a raw token-provider transaction: ISO date
	// and a signed amount in minor units.
	SandboxTransaction struct {
		TransactionID string `json:"transaction_id"`
		Date          string `json:"date"`
		Amount        int64  `json:"amount"`
		MerchantName  string `json:"merchant_name,omitempty"`
		Name          string `json:"name,omitempty"`
		AccountID     string `json:"account_id,omitempty"`
	}

	// Payload is the tagged union handed to Normalize: exactly one of the
	// variant fields is populated, according to Kind.
	Payload struct {
		Kind     Kind
		Accounts []Account
		Sandbox  []SandboxTransaction
	}
)

// StatusError is a non-2xx response. The raw body is kept so the user sees
// what the API actually said; there is no retry.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

const maxErrBody = 2048

// decodeJSON reads a 2xx response body into v. A body that is not valid
// JSON is an error carrying a truncated copy of the raw text rather than a
// silent degrade.
func decodeJSON(resp *http.Response, v any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: truncate(string(body))}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response (body %q): %w", truncate(string(body)), err)
	}
	return nil
}

func truncate(s string) string {
	if len(s) > maxErrBody {
		return s[:maxErrBody] + "..."
	}
	return s
}

// newHTTPClient builds the shared outbound client. A zero timeout keeps
// the stdlib no-timeout behavior.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

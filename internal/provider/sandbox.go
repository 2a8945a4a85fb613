package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// pageSize is how many transactions each page request asks for.
const pageSize = 500

// Sandbox talks to the token-based provider. Credentials travel as request
// headers; transactions are fetched in sequential pages.
type Sandbox struct {
	base     string
	clientID string
	secret   string
	client   *http.Client
}

type sandboxAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type sandboxTransactionsPage struct {
	Transactions      []SandboxTransaction `json:"transactions"`
	TotalTransactions int                  `json:"total_transactions"`
}

func NewSandbox(baseURL, clientID, secret string, timeout time.Duration) (*Sandbox, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse API URL: %w", err)
	}
	return &Sandbox{
		base:     strings.TrimSuffix(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		client:   newHTTPClient(timeout),
	}, nil
}

func (s *Sandbox) get(ctx context.Context, path string, query url.Values, v any) error {
	u := s.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", s.clientID)
	req.Header.Set("PLAID-SECRET", s.secret)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeJSON(resp, v)
}

// Accounts returns the connected accounts. Sandbox balances arrive in
// minor units inside the decimal-string Balance field.
func (s *Sandbox) Accounts(ctx context.Context) ([]Account, error) {
	var body sandboxAccountsResponse
	if err := s.get(ctx, "/accounts", nil, &body); err != nil {
		return nil, err
	}
	return body.Accounts, nil
}

// Transactions fetches every transaction between start and end, one page
// at a time. Each request must complete before the next offset is issued;
// the loop ends when the offset reaches the reported total.
func (s *Sandbox) Transactions(ctx context.Context, start, end time.Time) ([]SandboxTransaction, error) {
	var all []SandboxTransaction
	offset := 0
	for {
		query := url.Values{
			"start_date": {start.UTC().Format("2006-01-02")},
			"end_date":   {end.UTC().Format("2006-01-02")},
			"count":      {strconv.Itoa(pageSize)},
			"offset":     {strconv.Itoa(offset)},
		}
		var page sandboxTransactionsPage
		if err := s.get(ctx, "/transactions", query, &page); err != nil {
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}
		all = append(all, page.Transactions...)
		offset += len(page.Transactions)

		slog.InfoContext(ctx, "Fetched transaction page",
			"fetched", len(all),
			"total", page.TotalTransactions)

		if offset >= page.TotalTransactions || len(page.Transactions) == 0 {
			return all, nil
		}
	}
}

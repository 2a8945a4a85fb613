package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly Period = "monthly"
	Weekly  Period = "weekly"
)

// Built-in categories assigned by the fallback rules. Personal rules may
// introduce arbitrary labels on top of these, so Category is an open string.
const (
	FoodAndDrink       Category = "FOOD_AND_DRINK"
	Transportation     Category = "TRANSPORTATION"
	GeneralMerchandise Category = "GENERAL_MERCHANDISE"
	Entertainment      Category = "ENTERTAINMENT"
	PersonalCare       Category = "PERSONAL_CARE"
	Travel             Category = "TRAVEL"
	Utilities          Category = "UTILITIES"
	Housing            Category = "HOUSING"
	Uncategorized      Category = "UNCATEGORIZED"
)

type (
	Period string

	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the canonical, provider-agnostic record every
	// downstream aggregation works on. Amount is always the magnitude of
	// the original signed amount.
	Transaction struct {
		ID           string   `json:"id"`
		Date         Date     `json:"date"`
		Amount       Money    `json:"amount"`
		MerchantName string   `json:"merchant_name"`
		Category     Category `json:"category"`
		AccountName  string   `json:"account_name"`
		AccountOrg   string   `json:"account_org"`
	}

	// BudgetTable maps a period to per-category limits in whole dollars
	// (decimals allowed). Stored as budgets.json; overwrite per category.
	BudgetTable map[Period]map[string]float64
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrEmptyID        = errors.New("empty transaction id")
	ErrNotConfigured  = errors.New("provider not configured")
	ErrNoAccounts     = errors.New("no accounts found")
	ErrNoTransactions = errors.New("no transactions found")
	ErrNoBudgets      = errors.New("no budgets set")
)

// ParsePeriod validates a user-supplied period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Weekly:
		return Weekly, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// NewDate creates a Date at the start of the given UTC calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateFromUnix truncates an epoch-seconds timestamp to its UTC calendar day.
func DateFromUnix(sec int64) Date {
	t := time.Unix(sec, 0).UTC()
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if t.Date.IsZero() {
		return errors.New("zero date")
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Category == "" {
		return errors.New("empty category")
	}
	return nil
}

// Limits returns the per-category limits for a period, or nil when none
// have been set.
func (b BudgetTable) Limits(p Period) map[string]float64 {
	if b == nil {
		return nil
	}
	return b[p]
}

// Set upserts a single limit, creating the period table on first use.
func (b BudgetTable) Set(p Period, category string, limit float64) {
	if b[p] == nil {
		b[p] = make(map[string]float64)
	}
	b[p][category] = limit
}

package provider

import (
	"fmt"

	"budgeteer/internal/category"
	"budgeteer/internal/core"
)

// Normalize converts a raw payload into canonical transactions. The unit
// and date conventions are fixed per variant and applied to every record
// in the batch: SimpleFIN amounts are signed decimal strings with epoch
// posted times, sandbox amounts are signed minor units with ISO dates.
// Signs are discarded; only magnitudes flow downstream.
func Normalize(p Payload, rules category.RuleSet) ([]core.Transaction, error) {
	switch p.Kind {
	case KindSimpleFIN:
		return normalizeAccounts(p.Accounts, rules)
	case KindSandbox:
		return normalizeSandbox(p.Sandbox, rules)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", p.Kind)
	}
}

func normalizeAccounts(accounts []Account, rules category.RuleSet) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, acc := range accounts {
		for _, raw := range acc.Transactions {
			cents, err := core.ParseSignedDecimalToCents(raw.Amount)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: amount %q: %w", raw.ID, raw.Amount, err)
			}
			out = append(out, core.Transaction{
				ID:           raw.ID,
				Date:         core.DateFromUnix(raw.Posted),
				Amount:       core.Money{Cents: cents},
				MerchantName: raw.Description,
				Category:     category.Categorize(raw.Description, rules),
				AccountName:  acc.Name,
				AccountOrg:   acc.Org.Name,
			})
		}
	}
	return out, nil
}

func normalizeSandbox(txns []SandboxTransaction, rules category.RuleSet) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, raw := range txns {
		date, err := core.ParseDate(raw.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: date %q: %w", raw.TransactionID, raw.Date, err)
		}
		merchant := raw.MerchantName
		if merchant == "" {
			merchant = raw.Name
		}
		out = append(out, core.Transaction{
			ID:           raw.TransactionID,
			Date:         date,
			Amount:       core.Money{Cents: core.Abs(raw.Amount)},
			MerchantName: merchant,
			Category:     category.Categorize(merchant, rules),
			AccountName:  raw.AccountID,
		})
	}
	return out, nil
}

package report

import (
	"sort"
	"time"

	"budgeteer/internal/core"
)

type (
	// Summary holds per-category and per-merchant sums over the
	// transactions inside a reporting window.
	Summary struct {
		ByCategory map[core.Category]core.Money
		ByMerchant map[string]core.Money
		TotalSpent core.Money
		Count      int
	}

	// MerchantTotal is one ranked entry of a top-merchants listing.
	MerchantTotal struct {
		Merchant string
		Amount   core.Money
	}

	// CategoryTotal is one entry of a by-category breakdown.
	CategoryTotal struct {
		Category core.Category
		Amount   core.Money
	}
)

// Aggregate sums transactions dated on or after periodStart. There is no
// upper bound: a snapshot never contains future-dated records. Transactions
// with an empty merchant name count toward category totals but are omitted
// from the merchant map.
func Aggregate(txns []core.Transaction, periodStart time.Time) Summary {
	s := Summary{
		ByCategory: make(map[core.Category]core.Money),
		ByMerchant: make(map[string]core.Money),
	}
	for _, tx := range txns {
		if tx.Date.Before(periodStart) {
			continue
		}
		s.ByCategory[tx.Category] = s.ByCategory[tx.Category].Add(tx.Amount)
		if tx.MerchantName != "" {
			s.ByMerchant[tx.MerchantName] = s.ByMerchant[tx.MerchantName].Add(tx.Amount)
		}
		s.TotalSpent = s.TotalSpent.Add(tx.Amount)
		s.Count++
	}
	return s
}

// TopMerchants returns at most n merchants ordered by amount descending.
// Ties break on merchant name ascending so the ranking is deterministic
// regardless of map iteration order.
func (s Summary) TopMerchants(n int) []MerchantTotal {
	out := make([]MerchantTotal, 0, len(s.ByMerchant))
	for m, amt := range s.ByMerchant {
		out = append(out, MerchantTotal{Merchant: m, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Merchant < out[j].Merchant
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Categories returns the by-category sums ordered by amount descending,
// ties on category name ascending.
func (s Summary) Categories() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(s.ByCategory))
	for c, amt := range s.ByCategory {
		out = append(out, CategoryTotal{Category: c, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

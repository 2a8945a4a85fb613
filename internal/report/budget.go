package report

import (
	"math"
	"sort"

	"budgeteer/internal/core"
)

// Status is the budget verdict for a single category.
type Status struct {
	Category   string
	Limit      core.Money
	Spent      core.Money
	Remaining  core.Money
	Percentage float64
	OverBudget bool
}

// Evaluate compares configured limits against aggregated spending. Every
// category with a limit is reported, including those with zero spend.
// Neither input map is mutated. Results are ordered by category name so
// output does not depend on map iteration order.
//
// A zero limit cannot divide: percentage is 0 when nothing was spent and
// +Inf otherwise; OverBudget derives from the remaining amount alone.
func Evaluate(limits map[string]float64, spending map[core.Category]core.Money) []Status {
	out := make([]Status, 0, len(limits))
	for category, limitDollars := range limits {
		limit := core.Money{Cents: core.CentsFromDollars(limitDollars)}
		spent := spending[core.Category(category)]
		remaining := limit.Sub(spent)

		var pct float64
		switch {
		case limit.Cents > 0:
			pct = math.Round(float64(spent.Cents)/float64(limit.Cents)*1000) / 10
		case spent.Cents > 0:
			pct = math.Inf(1)
		}

		out = append(out, Status{
			Category:   category,
			Limit:      limit,
			Spent:      spent,
			Remaining:  remaining,
			Percentage: pct,
			OverBudget: remaining.Cents < 0,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

package report

import (
	"math"
	"testing"

	"budgeteer/internal/core"
)

func TestEvaluateOverBudget(t *testing.T) {
	limits := map[string]float64{"FOOD_AND_DRINK": 100}
	spending := map[core.Category]core.Money{core.FoodAndDrink: {Cents: 12000}}

	got := Evaluate(limits, spending)
	if len(got) != 1 {
		t.Fatalf("got %d statuses, want 1", len(got))
	}
	st := got[0]
	if st.Remaining.Cents != -2000 {
		t.Fatalf("remaining: got %d, want -2000", st.Remaining.Cents)
	}
	if !st.OverBudget {
		t.Fatalf("expected over budget")
	}
	if st.Percentage != 120.0 {
		t.Fatalf("percentage: got %v, want 120.0", st.Percentage)
	}
}

func TestEvaluateZeroSpendCategoryStillReported(t *testing.T) {
	limits := map[string]float64{"TRAVEL": 500}
	got := Evaluate(limits, nil)
	if len(got) != 1 {
		t.Fatalf("got %d statuses, want 1", len(got))
	}
	st := got[0]
	if st.Category != "TRAVEL" || st.Spent.Cents != 0 || st.Remaining.Cents != 50000 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Percentage != 0 || st.OverBudget {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestEvaluateSpendWithoutLimitIgnored(t *testing.T) {
	limits := map[string]float64{"TRAVEL": 500}
	spending := map[core.Category]core.Money{
		core.FoodAndDrink: {Cents: 1234},
		core.Travel:       {Cents: 100},
	}
	got := Evaluate(limits, spending)
	if len(got) != 1 || got[0].Category != "TRAVEL" {
		t.Fatalf("only limit entries are reported: %+v", got)
	}
}

func TestEvaluateZeroLimit(t *testing.T) {
	limits := map[string]float64{"TRAVEL": 0, "UTILITIES": 0}
	spending := map[core.Category]core.Money{core.Travel: {Cents: 500}}

	got := Evaluate(limits, spending)
	if len(got) != 2 {
		t.Fatalf("got %d statuses, want 2", len(got))
	}
	// Sorted by category: TRAVEL then UTILITIES.
	travel, util := got[0], got[1]
	if !math.IsInf(travel.Percentage, 1) || !travel.OverBudget {
		t.Fatalf("zero limit with spend: %+v", travel)
	}
	if util.Percentage != 0 || util.OverBudget {
		t.Fatalf("zero limit without spend: %+v", util)
	}
}

func TestEvaluateRounding(t *testing.T) {
	limits := map[string]float64{"FOOD_AND_DRINK": 300}
	spending := map[core.Category]core.Money{core.FoodAndDrink: {Cents: 10000}}
	got := Evaluate(limits, spending)
	if got[0].Percentage != 33.3 {
		t.Fatalf("percentage: got %v, want 33.3", got[0].Percentage)
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	limits := map[string]float64{"TRAVEL": 500}
	spending := map[core.Category]core.Money{core.Travel: {Cents: 100}}
	Evaluate(limits, spending)
	if limits["TRAVEL"] != 500 || len(limits) != 1 {
		t.Fatalf("limits mutated: %v", limits)
	}
	if spending[core.Travel].Cents != 100 || len(spending) != 1 {
		t.Fatalf("spending mutated: %v", spending)
	}
}

// Package report computes spending aggregates over canonical transactions
// and evaluates them against budget limits.
package report

import (
	"time"

	"budgeteer/internal/core"
)

// PeriodStart derives the inclusive lower bound of a reporting window.
// Monthly windows start at the first calendar day of the current month in
// UTC; transaction dates are normalized to UTC days, so the window must use
// the same clock or boundary transactions near month end would slip.
// Weekly windows are a rolling 7*24h before now.
func PeriodStart(p core.Period, now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case core.Weekly:
		return now.Add(-7 * 24 * time.Hour)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

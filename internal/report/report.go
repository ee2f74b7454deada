// Package report derives dashboard figures from an app state snapshot.
package report

import (
	"time"

	"github.com/windowrun/windowrun/internal/schedule"
	"github.com/windowrun/windowrun/internal/store"
)

// Summary is the set of figures shown on the dashboard. Revenue figures
// are Australian financial year to date.
type Summary struct {
	ActiveClients     int
	RevenueThisFY     float64
	PendingQuoteValue float64
	PendingQuotes     int
	FutureRevenue     float64
	BookedJobs        int
	JobsToday         int
	QuotesToFollowUp  int
}

// FinancialYearStart returns July 1 of the financial year containing t,
// in t's location.
func FinancialYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}

	return time.Date(year, time.July, 1, 0, 0, 0, 0, t.Location())
}

// Summarize computes the dashboard figures as of now. Completed revenue
// counts completion dates from the start of the financial year; booked
// figures count scheduled jobs from today forward. Today's job count
// includes virtual occurrences of recurring jobs.
func Summarize(state store.AppState, now time.Time) Summary {
	var s Summary

	s.ActiveClients = len(state.Customers)

	fyStart := FinancialYearStart(now)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	for _, q := range state.Quotes {
		switch q.Status {
		case store.QuoteDraft, store.QuoteNeedsFollowUp:
			s.PendingQuoteValue += q.Amount
			s.PendingQuotes++
		}

		if q.Status == store.QuoteNeedsFollowUp {
			s.QuotesToFollowUp++
		}
	}

	for _, j := range state.Jobs {
		if j.Status == store.JobCompleted {
			completedAt := j.ScheduledDate
			if j.CompletedAt != nil {
				completedAt = *j.CompletedAt
			}

			if !completedAt.Before(fyStart) && !completedAt.After(now) {
				s.RevenueThisFY += j.Price
			}

			continue
		}

		if !j.ScheduledDate.Before(dayStart) {
			s.FutureRevenue += j.Price
			s.BookedJobs++
		}
	}

	for _, j := range schedule.ExpandAll(state.Jobs, dayStart, dayEnd) {
		if j.Status != store.JobCompleted {
			s.JobsToday++
		}
	}

	return s
}

package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/windowrun/windowrun/internal/report"
	"github.com/windowrun/windowrun/internal/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFinancialYearStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "AfterJuly", now: day(2026, time.August, 29), want: day(2026, time.July, 1)},
		{name: "BeforeJuly", now: day(2026, time.March, 10), want: day(2025, time.July, 1)},
		{name: "OnJulyFirst", now: day(2026, time.July, 1), want: day(2026, time.July, 1)},
		{name: "EndOfJune", now: day(2026, time.June, 30), want: day(2025, time.July, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, report.FinancialYearStart(tt.now))
		})
	}
}

func TestSummarize(t *testing.T) {
	now := day(2026, time.August, 29)

	completedThisFY := day(2026, time.July, 15)
	completedLastFY := day(2026, time.May, 2)

	state := store.AppState{
		Customers: []store.Customer{
			{ID: "c1", Name: "Daphne"},
			{ID: "c2", Name: "Fred"},
		},
		Quotes: []store.Quote{
			{ID: "q1", CustomerID: "c1", Amount: 100, Status: store.QuoteDraft},
			{ID: "q2", CustomerID: "c1", Amount: 250, Status: store.QuoteNeedsFollowUp},
			{ID: "q3", CustomerID: "c2", Amount: 999, Status: store.QuoteAccepted},
			{ID: "q4", CustomerID: "c2", Amount: 50, Status: store.QuoteRejected},
		},
		Jobs: []store.Job{
			// Counts toward this financial year's revenue.
			{ID: "j1", CustomerID: "c1", Price: 120, Status: store.JobCompleted, ScheduledDate: completedThisFY, CompletedAt: &completedThisFY},
			// Completed before July 1, excluded.
			{ID: "j2", CustomerID: "c1", Price: 80, Status: store.JobCompleted, ScheduledDate: completedLastFY, CompletedAt: &completedLastFY},
			// Booked for later today.
			{ID: "j3", CustomerID: "c2", Price: 200, Status: store.JobScheduled, ScheduledDate: now},
			// Booked next week.
			{ID: "j4", CustomerID: "c2", Price: 300, Status: store.JobScheduled, ScheduledDate: day(2026, time.September, 5)},
			// Past its date and never completed, not booked revenue.
			{ID: "j5", CustomerID: "c1", Price: 60, Status: store.JobScheduled, ScheduledDate: day(2026, time.August, 1)},
		},
	}

	got := report.Summarize(state, now)

	assert.Equal(t, 2, got.ActiveClients)
	assert.Equal(t, 120.0, got.RevenueThisFY)
	assert.Equal(t, 350.0, got.PendingQuoteValue)
	assert.Equal(t, 2, got.PendingQuotes)
	assert.Equal(t, 500.0, got.FutureRevenue)
	assert.Equal(t, 2, got.BookedJobs)
	assert.Equal(t, 1, got.JobsToday)
	assert.Equal(t, 1, got.QuotesToFollowUp)
}

func TestSummarize_RecurringJobCountsToday(t *testing.T) {
	now := day(2026, time.August, 31)

	state := store.AppState{
		Jobs: []store.Job{
			{
				ID:            "j1",
				CustomerID:    "c1",
				Price:         90,
				Status:        store.JobScheduled,
				ScheduledDate: day(2026, time.August, 3),
				Recurrence:    &store.RecurrenceRule{Frequency: store.Weekly},
			},
		},
	}

	got := report.Summarize(state, now)

	// Aug 3 + 4 weeks lands on Aug 31.
	assert.Equal(t, 1, got.JobsToday)
}

func TestSummarize_EmptyState(t *testing.T) {
	got := report.Summarize(store.AppState{}, day(2026, time.August, 29))

	assert.Zero(t, got.ActiveClients)
	assert.Zero(t, got.RevenueThisFY)
	assert.Zero(t, got.JobsToday)
}

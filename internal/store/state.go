package store

import (
	"time"
)

// QuoteStatus represents the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteDraft         QuoteStatus = "draft"
	QuoteNeedsFollowUp QuoteStatus = "needs-follow-up"
	QuoteAccepted      QuoteStatus = "accepted"
	QuoteRejected      QuoteStatus = "rejected"
)

// JobStatus represents the lifecycle state of a job.
type JobStatus string

const (
	JobScheduled JobStatus = "scheduled"
	JobCompleted JobStatus = "completed"
)

// Frequency is the repeat interval of a recurring job.
type Frequency string

const (
	Weekly      Frequency = "weekly"
	Fortnightly Frequency = "fortnightly"
	Monthly     Frequency = "monthly"
)

// Known reports whether f is a supported repeat interval. Synced data can
// carry any string, so consumers must check before stepping by it.
func (f Frequency) Known() bool {
	switch f {
	case Weekly, Fortnightly, Monthly:
		return true
	}

	return false
}

// Valid reports whether s is one of the quote lifecycle states.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteNeedsFollowUp, QuoteAccepted, QuoteRejected:
		return true
	}

	return false
}

// EntityKind names a syncable collection on the wire.
type EntityKind string

const (
	KindCustomer EntityKind = "customer"
	KindQuote    EntityKind = "quote"
	KindJob      EntityKind = "job"
)

// Business is the tenant profile. Exactly one may exist per installation.
type Business struct {
	Name       string `json:"name"`
	ABN        string `json:"abn"`
	Email      string `json:"email"`
	WebhookURL string `json:"webhookUrl,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Customer is an independent entity referenced by id from quotes and jobs.
type Customer struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BusinessName string   `json:"businessName,omitempty"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
	DefaultPrice *float64 `json:"defaultPrice,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Quote is a priced estimate for a customer. CreatedAt is set once at
// creation and never changes.
type Quote struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	Notes       string      `json:"notes,omitempty"`
	Status      QuoteStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// RecurrenceRule describes how a job repeats. EndDate, when set, is an
// upper bound on generated occurrences.
type RecurrenceRule struct {
	Frequency Frequency  `json:"frequency"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Job is a piece of scheduled work. QuoteID is set when the job was
// created by converting a quote. CompletedAt is set iff the job is
// completed.
type Job struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	QuoteID       string          `json:"quoteId,omitempty"`
	Description   string          `json:"description"`
	ScheduledDate time.Time       `json:"scheduledDate"`
	Price         float64         `json:"price"`
	Notes         string          `json:"notes,omitempty"`
	Status        JobStatus       `json:"status"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Recurrence    *RecurrenceRule `json:"recurrence,omitempty"`
}

// AppState is the aggregate root and the unit of persistence: the cache
// always holds a full serialized snapshot of this value, never a delta.
type AppState struct {
	Business  *Business  `json:"business"`
	Customers []Customer `json:"customers"`
	Quotes    []Quote    `json:"quotes"`
	Jobs      []Job      `json:"jobs"`
}

// Clone returns a deep copy of the state so callers can hold a snapshot
// without racing later mutations.
func (s AppState) Clone() AppState {
	out := AppState{
		Customers: make([]Customer, len(s.Customers)),
		Quotes:    make([]Quote, len(s.Quotes)),
		Jobs:      make([]Job, len(s.Jobs)),
	}

	if s.Business != nil {
		b := *s.Business
		out.Business = &b
	}

	copy(out.Customers, s.Customers)
	copy(out.Quotes, s.Quotes)

	for i, j := range s.Jobs {
		out.Jobs[i] = j.Clone()
	}

	return out
}

// Clone returns a copy of the job with its pointer fields duplicated.
func (j Job) Clone() Job {
	out := j

	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}

	if j.Recurrence != nil {
		r := *j.Recurrence
		if j.Recurrence.EndDate != nil {
			e := *j.Recurrence.EndDate
			r.EndDate = &e
		}

		out.Recurrence = &r
	}

	return out
}

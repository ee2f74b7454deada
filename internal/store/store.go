package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrQuoteConverted is returned when converting a quote that has
	// already been accepted; the conversion must not produce a second job.
	ErrQuoteConverted = errors.New("quote already converted")
)

// Cache is the durable slot holding one serialized AppState snapshot.
// Read returns an empty string when no snapshot has been written yet.
type Cache interface {
	Read() (string, error)
	Write(snapshot string) error
	Clear() error
}

// Outbox receives entity mutations after they have been applied locally.
// Implementations must not block the caller.
type Outbox interface {
	PushUpsert(kind EntityKind, item any)
	PushDelete(kind EntityKind, id string)
}

// NopOutbox discards all pushes.
type NopOutbox struct{}

func (NopOutbox) PushUpsert(EntityKind, any) {}

func (NopOutbox) PushDelete(EntityKind, string) {}

type subscriber struct {
	fn        func()
	cancelled bool
}

// Store owns the single in-memory AppState for the process. Every
// mutation computes the next state, persists the full snapshot to the
// cache, notifies subscribers in registration order, and hands the
// changed entities to the outbox. The local value is authoritative for
// the session: a failed push is never rolled back.
type Store struct {
	mu     sync.Mutex
	state  AppState
	cache  Cache
	outbox Outbox
	logger *slog.Logger
	subs   []*subscriber
	now    func() time.Time
}

// New creates a store backed by the given cache. A nil outbox disables
// pushes; a nil logger falls back to slog.Default().
func New(cache Cache, outbox Outbox, logger *slog.Logger) *Store {
	if outbox == nil {
		outbox = NopOutbox{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		cache:  cache,
		outbox: outbox,
		logger: logger,
		now:    time.Now,
	}
}

// SetOutbox swaps the outbox. Used at startup when the outbox itself
// reads credentials from this store and cannot exist before it.
func (s *Store) SetOutbox(outbox Outbox) {
	if outbox == nil {
		outbox = NopOutbox{}
	}

	s.mu.Lock()
	s.outbox = outbox
	s.mu.Unlock()
}

// Load reads the cached snapshot into memory. A missing or unreadable
// snapshot degrades to an empty state; it is never surfaced to the caller.
func (s *Store) Load() {
	raw, err := s.cache.Read()
	if err != nil {
		s.logger.Warn("reading cached state failed, starting empty", "error", err)
		return
	}

	if raw == "" {
		return
	}

	var state AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("cached state is corrupt, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Subscribe registers fn to run after every mutation. Notifications carry
// no payload; subscribers re-read the snapshot themselves. The returned
// cancel func and Subscribe itself are safe to call from within a
// notification.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	sub := &subscriber{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		sub.cancelled = true

		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// mutate applies fn to a copy of the current state, swaps it in, persists
// the snapshot and notifies subscribers. Subscribers added during the
// notification pass are not notified for this mutation.
func (s *Store) mutate(fn func(*AppState)) {
	s.mu.Lock()

	next := s.state.Clone()
	fn(&next)
	s.state = next
	s.persistLocked()

	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)

	s.mu.Unlock()

	for _, sub := range subs {
		if !sub.cancelled {
			sub.fn()
		}
	}
}

// persistLocked writes the full snapshot to the cache. Persistence
// failures are logged only: the in-memory state stays authoritative.
func (s *Store) persistLocked() {
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("marshaling state failed", "error", err)
		return
	}

	if err := s.cache.Write(string(raw)); err != nil {
		s.logger.Error("persisting state failed", "error", err)
	}
}

// SetBusiness replaces the tenant profile. The profile is not pushed:
// it travels through register/login, not through entity sync.
func (s *Store) SetBusiness(b Business) {
	s.mutate(func(state *AppState) {
		state.Business = &b
	})
}

// UpsertCustomer inserts or replaces a customer. An empty id marks a new
// customer and is assigned here, client-side.
func (s *Store) UpsertCustomer(c Customer) Customer {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mutate(func(state *AppState) {
		state.Customers = upsert(state.Customers, c, func(e Customer) string { return e.ID })
	})

	s.outbox.PushUpsert(KindCustomer, c)

	return c
}

// DeleteCustomer removes a customer by id. Quotes and jobs referencing it
// are left in place.
func (s *Store) DeleteCustomer(id string) {
	s.mutate(func(state *AppState) {
		state.Customers = remove(state.Customers, id, func(e Customer) string { return e.ID })
	})

	s.outbox.PushDelete(KindCustomer, id)
}

// UpsertQuote inserts or replaces a quote. CreatedAt is set once for new
// quotes and preserved from the stored quote on updates.
func (s *Store) UpsertQuote(q Quote) Quote {
	if q.ID == "" {
		q.ID = uuid.NewString()
		q.CreatedAt = s.now()
	}

	s.mutate(func(state *AppState) {
		for _, existing := range state.Quotes {
			if existing.ID == q.ID {
				q.CreatedAt = existing.CreatedAt
				break
			}
		}

		state.Quotes = upsert(state.Quotes, q, func(e Quote) string { return e.ID })
	})

	s.outbox.PushUpsert(KindQuote, q)

	return q
}

// UpsertJob inserts or replaces a job. CompletedAt is normalized so it is
// set iff the job is completed.
func (s *Store) UpsertJob(j Job) Job {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	switch {
	case j.Status != JobCompleted:
		j.CompletedAt = nil
	case j.CompletedAt == nil:
		t := s.now()
		j.CompletedAt = &t
	}

	s.mutate(func(state *AppState) {
		state.Jobs = upsert(state.Jobs, j, func(e Job) string { return e.ID })
	})

	s.outbox.PushUpsert(KindJob, j)

	return j
}

// DeleteJob removes a job by id.
func (s *Store) DeleteJob(id string) {
	s.mutate(func(state *AppState) {
		state.Jobs = remove(state.Jobs, id, func(e Job) string { return e.ID })
	})

	s.outbox.PushDelete(KindJob, id)
}

// ConvertQuoteToJob creates a scheduled job carrying the quote's customer,
// description and amount, and marks the quote accepted. Both writes happen
// in one mutation. Converting an already-accepted quote is rejected so a
// second job is never created.
func (s *Store) ConvertQuoteToJob(quoteID string, scheduledDate time.Time) (Job, error) {
	var (
		job   Job
		quote *Quote
	)

	s.mu.Lock()
	for i := range s.state.Quotes {
		if s.state.Quotes[i].ID == quoteID {
			q := s.state.Quotes[i]
			quote = &q
			break
		}
	}
	s.mu.Unlock()

	if quote == nil {
		return Job{}, ErrQuoteNotFound
	}

	if quote.Status == QuoteAccepted {
		return Job{}, ErrQuoteConverted
	}

	job = Job{
		ID:            uuid.NewString(),
		CustomerID:    quote.CustomerID,
		QuoteID:       quote.ID,
		Description:   quote.Description,
		ScheduledDate: scheduledDate,
		Price:         quote.Amount,
		Notes:         quote.Notes,
		Status:        JobScheduled,
	}

	accepted := *quote
	accepted.Status = QuoteAccepted

	s.mutate(func(state *AppState) {
		state.Jobs = upsert(state.Jobs, job, func(e Job) string { return e.ID })
		state.Quotes = upsert(state.Quotes, accepted, func(e Quote) string { return e.ID })
	})

	s.outbox.PushUpsert(KindJob, job)
	s.outbox.PushUpsert(KindQuote, accepted)

	return job, nil
}

// ReplaceCollections swaps in the customer, quote and job collections
// wholesale, leaving the business untouched. Used by the pull side of
// sync; nothing is pushed back.
func (s *Store) ReplaceCollections(customers []Customer, quotes []Quote, jobs []Job) {
	s.mutate(func(state *AppState) {
		state.Customers = customers
		state.Quotes = quotes
		state.Jobs = jobs
	})
}

// Reset clears the cache slot and the in-memory state. Destructive and
// irreversible; confirming intent is the caller's job.
func (s *Store) Reset() {
	s.mu.Lock()

	s.state = AppState{}

	if err := s.cache.Clear(); err != nil {
		s.logger.Error("clearing cache failed", "error", err)
	}

	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)

	s.mu.Unlock()

	for _, sub := range subs {
		if !sub.cancelled {
			sub.fn()
		}
	}
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}

	return append(items, item)
}

func remove[T any](items []T, target string, id func(T) string) []T {
	out := items[:0]

	for _, item := range items {
		if id(item) != target {
			out = append(out, item)
		}
	}

	return out
}

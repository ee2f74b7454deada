package store_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowrun/windowrun/internal/store"
)

type fakeCache struct {
	value   string
	readErr error
	cleared bool
}

func (f *fakeCache) Read() (string, error) {
	return f.value, f.readErr
}

func (f *fakeCache) Write(snapshot string) error {
	f.value = snapshot
	return nil
}

func (f *fakeCache) Clear() error {
	f.value = ""
	f.cleared = true

	return nil
}

type pushEvent struct {
	Kind store.EntityKind
	ID   string
}

type recordingOutbox struct {
	upserts []pushEvent
	deletes []pushEvent
}

func (r *recordingOutbox) PushUpsert(kind store.EntityKind, item any) {
	var id string

	switch v := item.(type) {
	case store.Customer:
		id = v.ID
	case store.Quote:
		id = v.ID
	case store.Job:
		id = v.ID
	}

	r.upserts = append(r.upserts, pushEvent{Kind: kind, ID: id})
}

func (r *recordingOutbox) PushDelete(kind store.EntityKind, id string) {
	r.deletes = append(r.deletes, pushEvent{Kind: kind, ID: id})
}

func newStore(t *testing.T) (*store.Store, *fakeCache, *recordingOutbox) {
	t.Helper()

	cache := &fakeCache{}
	outbox := &recordingOutbox{}
	s := store.New(cache, outbox, nil)
	s.Load()

	return s, cache, outbox
}

func TestStore_LoadRoundTrip(t *testing.T) {
	cache := &fakeCache{}

	first := store.New(cache, nil, nil)
	first.Load()
	first.SetBusiness(store.Business{Name: "Crystal Clear", Email: "jo@example.com"})
	first.UpsertCustomer(store.Customer{Name: "Daphne"})

	second := store.New(cache, nil, nil)
	second.Load()

	state := second.Snapshot()
	require.NotNil(t, state.Business)
	assert.Equal(t, "Crystal Clear", state.Business.Name)
	require.Len(t, state.Customers, 1)
	assert.Equal(t, "Daphne", state.Customers[0].Name)
}

func TestStore_LoadDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		cache *fakeCache
	}{
		{name: "ReadError", cache: &fakeCache{readErr: errors.New("disk gone")}},
		{name: "CorruptSnapshot", cache: &fakeCache{value: "{not json"}},
		{name: "EmptySlot", cache: &fakeCache{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New(tt.cache, nil, nil)
			s.Load()

			state := s.Snapshot()
			assert.Nil(t, state.Business)
			assert.Empty(t, state.Customers)
		})
	}
}

func TestStore_UpsertCustomerAssignsID(t *testing.T) {
	s, cache, outbox := newStore(t)

	saved := s.UpsertCustomer(store.Customer{Name: "Fred"})
	assert.NotEmpty(t, saved.ID)

	// Same id on a second upsert replaces instead of appending.
	saved.Name = "Freddie"
	s.UpsertCustomer(saved)

	state := s.Snapshot()
	require.Len(t, state.Customers, 1)
	assert.Equal(t, "Freddie", state.Customers[0].Name)

	require.Len(t, outbox.upserts, 2)
	assert.Equal(t, store.KindCustomer, outbox.upserts[0].Kind)
	assert.Equal(t, saved.ID, outbox.upserts[0].ID)

	var persisted store.AppState
	require.NoError(t, json.Unmarshal([]byte(cache.value), &persisted))
	require.Len(t, persisted.Customers, 1)
}

func TestStore_DeleteCustomerPushes(t *testing.T) {
	s, _, outbox := newStore(t)

	saved := s.UpsertCustomer(store.Customer{Name: "Velma"})
	s.DeleteCustomer(saved.ID)

	assert.Empty(t, s.Snapshot().Customers)
	require.Len(t, outbox.deletes, 1)
	assert.Equal(t, pushEvent{Kind: store.KindCustomer, ID: saved.ID}, outbox.deletes[0])
}

func TestStore_UpsertQuotePreservesCreatedAt(t *testing.T) {
	s, _, _ := newStore(t)

	saved := s.UpsertQuote(store.Quote{CustomerID: "c1", Amount: 120, Status: store.QuoteDraft})
	require.False(t, saved.CreatedAt.IsZero())

	updated := saved
	updated.Amount = 150
	updated.CreatedAt = time.Time{}
	s.UpsertQuote(updated)

	state := s.Snapshot()
	require.Len(t, state.Quotes, 1)
	assert.Equal(t, saved.CreatedAt, state.Quotes[0].CreatedAt)
	assert.Equal(t, 150.0, state.Quotes[0].Amount)
}

func TestStore_UpsertJobNormalizesCompletedAt(t *testing.T) {
	s, _, _ := newStore(t)

	scheduled := s.UpsertJob(store.Job{CustomerID: "c1", Status: store.JobScheduled, ScheduledDate: time.Now()})
	assert.Nil(t, scheduled.CompletedAt)

	scheduled.Status = store.JobCompleted
	completed := s.UpsertJob(scheduled)
	require.NotNil(t, completed.CompletedAt)

	// Reopening the job clears the completion timestamp.
	completed.Status = store.JobScheduled
	reopened := s.UpsertJob(completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestStore_ConvertQuoteToJob(t *testing.T) {
	s, _, outbox := newStore(t)

	quote := s.UpsertQuote(store.Quote{CustomerID: "c1", Description: "Front windows", Amount: 250, Status: store.QuoteNeedsFollowUp})
	when := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	job, err := s.ConvertQuoteToJob(quote.ID, when)
	require.NoError(t, err)

	assert.Equal(t, quote.ID, job.QuoteID)
	assert.Equal(t, "c1", job.CustomerID)
	assert.Equal(t, 250.0, job.Price)
	assert.Equal(t, store.JobScheduled, job.Status)
	assert.True(t, job.ScheduledDate.Equal(when))

	state := s.Snapshot()
	require.Len(t, state.Jobs, 1)
	require.Len(t, state.Quotes, 1)
	assert.Equal(t, store.QuoteAccepted, state.Quotes[0].Status)

	// Job first, then the accepted quote.
	require.Len(t, outbox.upserts, 3)
	assert.Equal(t, store.KindJob, outbox.upserts[1].Kind)
	assert.Equal(t, store.KindQuote, outbox.upserts[2].Kind)
}

func TestStore_ConvertQuoteTwiceRejected(t *testing.T) {
	s, _, _ := newStore(t)

	quote := s.UpsertQuote(store.Quote{CustomerID: "c1", Amount: 90, Status: store.QuoteDraft})

	_, err := s.ConvertQuoteToJob(quote.ID, time.Now())
	require.NoError(t, err)

	_, err = s.ConvertQuoteToJob(quote.ID, time.Now())
	assert.ErrorIs(t, err, store.ErrQuoteConverted)
	assert.Len(t, s.Snapshot().Jobs, 1)
}

func TestStore_ConvertMissingQuote(t *testing.T) {
	s, _, _ := newStore(t)

	_, err := s.ConvertQuoteToJob("nope", time.Now())
	assert.ErrorIs(t, err, store.ErrQuoteNotFound)
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	s, _, _ := newStore(t)

	var order []string

	s.Subscribe(func() { order = append(order, "first") })
	s.Subscribe(func() { order = append(order, "second") })

	s.UpsertCustomer(store.Customer{Name: "Shaggy"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStore_CancelledSubscriberNotNotified(t *testing.T) {
	s, _, _ := newStore(t)

	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	s.UpsertCustomer(store.Customer{Name: "A"})
	cancel()
	s.UpsertCustomer(store.Customer{Name: "B"})

	assert.Equal(t, 1, calls)
}

func TestStore_CancelDuringNotification(t *testing.T) {
	s, _, _ := newStore(t)

	var (
		cancelSecond func()
		secondCalls  int
	)

	s.Subscribe(func() { cancelSecond() })
	cancelSecond = s.Subscribe(func() { secondCalls++ })

	s.UpsertCustomer(store.Customer{Name: "A"})
	s.UpsertCustomer(store.Customer{Name: "B"})

	assert.Equal(t, 0, secondCalls)
}

func TestStore_ReplaceCollectionsKeepsBusinessAndDoesNotPush(t *testing.T) {
	s, _, outbox := newStore(t)

	s.SetBusiness(store.Business{Name: "Crystal Clear"})
	pushed := len(outbox.upserts)

	s.ReplaceCollections(
		[]store.Customer{{ID: "c1", Name: "Daphne"}},
		[]store.Quote{{ID: "q1", CustomerID: "c1", Amount: 50}},
		nil,
	)

	state := s.Snapshot()
	require.NotNil(t, state.Business)
	assert.Equal(t, "Crystal Clear", state.Business.Name)
	assert.Len(t, state.Customers, 1)
	assert.Len(t, state.Quotes, 1)
	assert.Empty(t, state.Jobs)

	assert.Len(t, outbox.upserts, pushed, "pulled data must not be pushed back")
}

func TestStore_Reset(t *testing.T) {
	s, cache, _ := newStore(t)

	s.SetBusiness(store.Business{Name: "Crystal Clear"})
	s.UpsertCustomer(store.Customer{Name: "Fred"})

	notified := false
	s.Subscribe(func() { notified = true })

	s.Reset()

	state := s.Snapshot()
	assert.Nil(t, state.Business)
	assert.Empty(t, state.Customers)
	assert.True(t, cache.cleared)
	assert.True(t, notified)
}

func TestFrequency_Known(t *testing.T) {
	known := []store.Frequency{store.Weekly, store.Fortnightly, store.Monthly}
	for _, f := range known {
		assert.True(t, f.Known(), string(f))
	}

	unknown := []store.Frequency{"", "daily", "yearly", "WEEKLY"}
	for _, f := range unknown {
		assert.False(t, f.Known(), string(f))
	}
}

func TestQuoteStatus_Valid(t *testing.T) {
	valid := []store.QuoteStatus{store.QuoteDraft, store.QuoteNeedsFollowUp, store.QuoteAccepted, store.QuoteRejected}
	for _, s := range valid {
		assert.True(t, s.Valid(), string(s))
	}

	invalid := []store.QuoteStatus{"", "pending", "Draft"}
	for _, s := range invalid {
		assert.False(t, s.Valid(), string(s))
	}
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s, _, _ := newStore(t)

	s.UpsertCustomer(store.Customer{Name: "Fred"})

	snap := s.Snapshot()
	snap.Customers[0].Name = "changed"

	assert.Equal(t, "Fred", s.Snapshot().Customers[0].Name)
}

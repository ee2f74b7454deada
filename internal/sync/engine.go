package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/windowrun/windowrun/internal/store"
)

// Status is the coarse sync indicator surfaced to the UI.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// Credentials yields the bearer credential for outbound calls, read at
// send time so a password change picks up immediately. ok is false when
// no tenant profile exists yet.
type Credentials func() (email, password string, ok bool)

// StoreCredentials reads the credential from the store's current business
// profile.
func StoreCredentials(s *store.Store) Credentials {
	return func() (string, string, bool) {
		b := s.Snapshot().Business
		if b == nil || b.Email == "" {
			return "", "", false
		}

		return b.Email, b.Password, true
	}
}

// Engine is the fire-and-forget outbox: each push runs in its own
// goroutine, failures are logged and reflected in the status signal, and
// nothing is retried. Pushes carry no sequencing token, so overlapping
// pushes for the same entity land in arrival order on the remote.
//
// Engine satisfies store.Outbox. A durable retry queue can replace it
// without touching the state container.
type Engine struct {
	client *Client
	creds  Credentials
	logger *slog.Logger

	mu       sync.Mutex
	status   Status
	onChange []func(Status)

	inflight sync.WaitGroup
}

// NewEngine creates an engine pushing through client with the given
// credential source.
func NewEngine(client *Client, creds Credentials, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		client: client,
		creds:  creds,
		logger: logger,
		status: StatusIdle,
	}
}

// Status returns the current sync indicator.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

// OnChange registers fn to run on every status transition.
func (e *Engine) OnChange(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onChange = append(e.onChange, fn)
}

func (e *Engine) setStatus(s Status) {
	e.mu.Lock()
	e.status = s
	observers := make([]func(Status), len(e.onChange))
	copy(observers, e.onChange)
	e.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

// PushUpsert sends the entity to the remote without blocking the caller.
// Without a credential the push is dropped.
func (e *Engine) PushUpsert(kind store.EntityKind, item any) {
	email, password, ok := e.creds()
	if !ok {
		return
	}

	e.setStatus(StatusSaving)
	e.inflight.Add(1)

	go func() {
		defer e.inflight.Done()

		if err := e.client.PushUpsert(context.Background(), email, password, kind, item); err != nil {
			e.logger.Error("push failed", "kind", kind, "error", err)
			e.setStatus(StatusError)

			return
		}

		e.setStatus(StatusSaved)
	}()
}

// PushDelete sends the deletion to the remote without blocking the caller.
func (e *Engine) PushDelete(kind store.EntityKind, id string) {
	email, password, ok := e.creds()
	if !ok {
		return
	}

	e.setStatus(StatusSaving)
	e.inflight.Add(1)

	go func() {
		defer e.inflight.Done()

		if err := e.client.PushDelete(context.Background(), email, password, kind, id); err != nil {
			e.logger.Error("push delete failed", "kind", kind, "id", id, "error", err)
			e.setStatus(StatusError)

			return
		}

		e.setStatus(StatusSaved)
	}()
}

// Flush blocks until every in-flight push has finished. Short-lived
// callers use it before exiting so queued pushes are not lost.
func (e *Engine) Flush() {
	e.inflight.Wait()
}

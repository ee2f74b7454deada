// Package store provides tenant storage backends for the sync service.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/windowrun/windowrun/internal/server"
	app "github.com/windowrun/windowrun/internal/store"
)

type tenantData struct {
	tenant    server.Tenant
	customers map[string]app.Customer
	quotes    map[string]app.Quote
	jobs      map[string]app.Job
}

// Memory is a map-backed tenant store. It backs tests and local
// development runs where no database is configured.
type Memory struct {
	mu      sync.Mutex
	tenants map[string]*tenantData
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tenants: make(map[string]*tenantData)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *Memory) CreateTenant(_ context.Context, t server.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(t.Email)

	m.tenants[key] = &tenantData{
		tenant:    t,
		customers: make(map[string]app.Customer),
		quotes:    make(map[string]app.Quote),
		jobs:      make(map[string]app.Job),
	}

	return nil
}

func (m *Memory) GetTenant(_ context.Context, email string) (*server.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return nil, server.ErrNotFound
	}

	t := data.tenant

	return &t, nil
}

func (m *Memory) Authenticate(_ context.Context, email, password string) (*server.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok || data.tenant.Password != password {
		return nil, server.ErrNotFound
	}

	t := data.tenant

	return &t, nil
}

func (m *Memory) UpdatePassword(_ context.Context, email, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return server.ErrNotFound
	}

	data.tenant.Password = newPassword

	return nil
}

func (m *Memory) ListTenants(_ context.Context) ([]server.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tenants := make([]server.Tenant, 0, len(m.tenants))
	for _, data := range m.tenants {
		tenants = append(tenants, data.tenant)
	}

	return tenants, nil
}

func (m *Memory) UpsertCustomer(_ context.Context, email string, c app.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return server.ErrNotFound
	}

	data.customers[c.ID] = c

	return nil
}

func (m *Memory) UpsertQuote(_ context.Context, email string, q app.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return server.ErrNotFound
	}

	data.quotes[q.ID] = q

	return nil
}

func (m *Memory) UpsertJob(_ context.Context, email string, j app.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return server.ErrNotFound
	}

	data.jobs[j.ID] = j

	return nil
}

func (m *Memory) Delete(_ context.Context, email string, kind app.EntityKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return server.ErrNotFound
	}

	switch kind {
	case app.KindCustomer:
		delete(data.customers, id)
	case app.KindQuote:
		delete(data.quotes, id)
	case app.KindJob:
		delete(data.jobs, id)
	}

	return nil
}

func (m *Memory) Collections(_ context.Context, email string) ([]app.Customer, []app.Quote, []app.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.tenants[normalizeEmail(email)]
	if !ok {
		return nil, nil, nil, server.ErrNotFound
	}

	customers := make([]app.Customer, 0, len(data.customers))
	for _, c := range data.customers {
		customers = append(customers, c)
	}

	quotes := make([]app.Quote, 0, len(data.quotes))
	for _, q := range data.quotes {
		quotes = append(quotes, q)
	}

	jobs := make([]app.Job, 0, len(data.jobs))
	for _, j := range data.jobs {
		jobs = append(jobs, j)
	}

	return customers, quotes, jobs, nil
}

// Package server implements the remote authoritative service the client
// syncs against.
package server

import (
	"context"
	"errors"

	app "github.com/windowrun/windowrun/internal/store"
)

// ErrNotFound is returned when no tenant matches the given credentials
// or email.
var ErrNotFound = errors.New("tenant not found")

// Tenant is one account row. The password is stored and returned as-is:
// the wire contract uses it as the bearer credential on every call.
type Tenant struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	ABN          string `json:"abn"`
	Password     string `json:"password"`
}

// Store is the tenant storage behind the service. Upserts are
// unconditional whole-entity overwrites by id: last writer wins.
type Store interface {
	CreateTenant(ctx context.Context, t Tenant) error
	GetTenant(ctx context.Context, email string) (*Tenant, error)
	Authenticate(ctx context.Context, email, password string) (*Tenant, error)
	UpdatePassword(ctx context.Context, email, newPassword string) error
	ListTenants(ctx context.Context) ([]Tenant, error)

	UpsertCustomer(ctx context.Context, email string, c app.Customer) error
	UpsertQuote(ctx context.Context, email string, q app.Quote) error
	UpsertJob(ctx context.Context, email string, j app.Job) error
	Delete(ctx context.Context, email string, kind app.EntityKind, id string) error
	Collections(ctx context.Context, email string) ([]app.Customer, []app.Quote, []app.Job, error)
}

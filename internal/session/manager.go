// Package session layers the login state machine over the local store and
// the remote service.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	gosync "sync"

	"github.com/windowrun/windowrun/internal/store"
	"github.com/windowrun/windowrun/internal/sync"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrOperatorOnly       = errors.New("operator role required")
)

// Role is the authentication level of the running client.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleTenant    Role = "tenant"
	RoleOperator  Role = "operator"
)

//go:generate mockgen -source=manager.go -destination=remote_mock.go -package=session

// Remote is the slice of the sync client the session manager needs.
type Remote interface {
	Login(ctx context.Context, email, password string) (store.Business, error)
	Register(ctx context.Context, b store.Business) error
	PullSnapshot(ctx context.Context, email, password string) (sync.Snapshot, error)
	ChangePassword(ctx context.Context, email, current, newPassword string) error
	ResetPassword(ctx context.Context, email string) (string, error)
	ListTenants(ctx context.Context, adminKey string) ([]sync.Tenant, error)
}

// Operator is the elevated credential pair, supplied through
// configuration rather than compiled in.
type Operator struct {
	Email    string
	Password string
}

// Manager drives the anonymous / tenant / operator state machine.
// Local data survives logout; only ResetApp clears it.
type Manager struct {
	store    *store.Store
	remote   Remote
	operator Operator
	adminKey string
	logger   *slog.Logger

	mu   gosync.Mutex
	role Role

	pulls gosync.WaitGroup
}

// NewManager creates a session manager in the anonymous state.
func NewManager(s *store.Store, remote Remote, operator Operator, adminKey string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		store:    s,
		remote:   remote,
		operator: operator,
		adminKey: adminKey,
		logger:   logger,
		role:     RoleAnonymous,
	}
}

// Role returns the current authentication level.
func (m *Manager) Role() Role {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.role
}

func (m *Manager) setRole(r Role) {
	m.mu.Lock()
	m.role = r
	m.mu.Unlock()
}

// Login verifies credentials, cheapest check first: the configured
// operator pair, then the locally cached business password (no network
// round-trip), then the remote service. A remote success overwrites the
// local profile with the server copy so a remotely reset password reaches
// the device; the locally kept webhook URL is preserved because the
// server does not store it. Tenant logins trigger a background pull.
func (m *Manager) Login(ctx context.Context, password, email string) (Role, error) {
	if m.operator.Email != "" && strings.EqualFold(email, m.operator.Email) && password == m.operator.Password {
		m.setRole(RoleOperator)
		return RoleOperator, nil
	}

	snap := m.store.Snapshot()

	if b := snap.Business; b != nil && b.Password != "" && b.Password == password {
		if email == "" || strings.EqualFold(email, b.Email) {
			m.setRole(RoleTenant)
			m.pullInBackground(b.Email, b.Password)

			return RoleTenant, nil
		}
	}

	loginEmail := email
	if loginEmail == "" && snap.Business != nil {
		loginEmail = snap.Business.Email
	}

	if loginEmail == "" {
		return RoleAnonymous, ErrInvalidCredentials
	}

	profile, err := m.remote.Login(ctx, loginEmail, password)
	if err != nil {
		if errors.Is(err, sync.ErrInvalidCredentials) {
			return RoleAnonymous, ErrInvalidCredentials
		}

		return RoleAnonymous, fmt.Errorf("remote login: %w", err)
	}

	if snap.Business != nil && profile.WebhookURL == "" {
		profile.WebhookURL = snap.Business.WebhookURL
	}

	m.store.SetBusiness(profile)
	m.setRole(RoleTenant)
	m.pullInBackground(profile.Email, profile.Password)

	return RoleTenant, nil
}

// Logout drops back to anonymous. Local data is retained so a later
// login can succeed without a fresh pull.
func (m *Manager) Logout() {
	m.setRole(RoleAnonymous)
}

// ResetApp clears the cache and the in-memory snapshot unconditionally
// and drops to anonymous. Irreversible; confirming intent is the UI's
// responsibility.
func (m *Manager) ResetApp() {
	m.store.Reset()
	m.setRole(RoleAnonymous)
}

// Signup registers the business remotely and seeds the local profile.
func (m *Manager) Signup(ctx context.Context, b store.Business) error {
	if err := m.remote.Register(ctx, b); err != nil {
		return fmt.Errorf("registering: %w", err)
	}

	m.store.SetBusiness(b)
	m.setRole(RoleTenant)

	return nil
}

// ChangePassword verifies the current password remotely and only then
// updates the remote record and the local profile.
func (m *Manager) ChangePassword(ctx context.Context, current, newPassword string) error {
	if m.Role() != RoleTenant {
		return ErrNotAuthenticated
	}

	b := m.store.Snapshot().Business
	if b == nil {
		return ErrNotAuthenticated
	}

	if err := m.remote.ChangePassword(ctx, b.Email, current, newPassword); err != nil {
		if errors.Is(err, sync.ErrInvalidCredentials) {
			return ErrInvalidCredentials
		}

		return fmt.Errorf("changing password: %w", err)
	}

	updated := *b
	updated.Password = newPassword
	m.store.SetBusiness(updated)

	return nil
}

// ResetPassword requests a remote-generated temporary password and passes
// the server message straight through to the caller.
func (m *Manager) ResetPassword(ctx context.Context, email string) (string, error) {
	msg, err := m.remote.ResetPassword(ctx, email)
	if err != nil {
		return "", fmt.Errorf("resetting password: %w", err)
	}

	return msg, nil
}

// ListAllTenants lists every tenant account. Gated on the operator role.
func (m *Manager) ListAllTenants(ctx context.Context) ([]sync.Tenant, error) {
	if m.Role() != RoleOperator {
		return nil, ErrOperatorOnly
	}

	return m.remote.ListTenants(ctx, m.adminKey)
}

// Pull fetches the tenant's collections and replaces the local ones
// wholesale, leaving the business profile untouched.
func (m *Manager) Pull(ctx context.Context) error {
	b := m.store.Snapshot().Business
	if b == nil {
		return ErrNotAuthenticated
	}

	return m.pull(ctx, b.Email, b.Password)
}

func (m *Manager) pull(ctx context.Context, email, password string) error {
	snap, err := m.remote.PullSnapshot(ctx, email, password)
	if err != nil {
		return fmt.Errorf("pulling snapshot: %w", err)
	}

	m.store.ReplaceCollections(snap.Customers, snap.Quotes, snap.Jobs)

	return nil
}

func (m *Manager) pullInBackground(email, password string) {
	m.pulls.Add(1)

	go func() {
		defer m.pulls.Done()

		if err := m.pull(context.Background(), email, password); err != nil {
			m.logger.Warn("background pull failed", "error", err)
		}
	}()
}

// Wait blocks until background pulls started by Login have finished.
func (m *Manager) Wait() {
	m.pulls.Wait()
}

// Package sync moves local mutations to the remote authoritative store
// and pulls full snapshots back. Pushes are best-effort: the local state
// has already committed before any request is issued.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/windowrun/windowrun/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown accounts and wrong
	// passwords; the remote does not distinguish them on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotFound is returned by password reset for unknown accounts.
	ErrEmailNotFound = errors.New("email not found")
)

// Tenant is a tenant record as the remote service returns it.
type Tenant struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	ABN          string `json:"abn"`
	Password     string `json:"password,omitempty"`
}

// Snapshot holds the three synced collections of one tenant.
type Snapshot struct {
	Customers []store.Customer `json:"customers"`
	Quotes    []store.Quote    `json:"quotes"`
	Jobs      []store.Job      `json:"jobs"`
}

// Client talks to the remote service. Every request carries the tenant's
// email and password as the bearer credential; all requests share a fixed
// timeout so a hung request cannot stall the status signal forever.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Register creates a new tenant account.
func (c *Client) Register(ctx context.Context, b store.Business) error {
	body := map[string]string{
		"businessName": b.Name,
		"email":        b.Email,
		"abn":          b.ABN,
		"password":     b.Password,
	}

	var resp statusResponse
	if err := c.post(ctx, "/register", body, &resp); err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("registration rejected: %s", resp.Error)
	}

	return nil
}

// Login verifies credentials remotely and returns the server-held profile,
// password included, so a remote password reset propagates back to the
// device.
func (c *Client) Login(ctx context.Context, email, password string) (store.Business, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		statusResponse
		User Tenant `json:"user"`
	}

	if err := c.post(ctx, "/login", body, &resp); err != nil {
		return store.Business{}, err
	}

	if !resp.Success {
		return store.Business{}, ErrInvalidCredentials
	}

	return store.Business{
		Name:     resp.User.BusinessName,
		Email:    resp.User.Email,
		ABN:      resp.User.ABN,
		Password: resp.User.Password,
	}, nil
}

// PullSnapshot fetches the tenant's full collections.
func (c *Client) PullSnapshot(ctx context.Context, email, password string) (Snapshot, error) {
	body := map[string]string{"email": email, "password": password}

	var snap Snapshot
	if err := c.post(ctx, "/sync-down", body, &snap); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// PushUpsert sends one entity mutation.
func (c *Client) PushUpsert(ctx context.Context, email, password string, kind store.EntityKind, item any) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"type":     kind,
		"item":     item,
	}

	var resp statusResponse
	if err := c.post(ctx, "/sync-up", body, &resp); err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("upsert rejected: %s", resp.Error)
	}

	return nil
}

// PushDelete sends one entity deletion.
func (c *Client) PushDelete(ctx context.Context, email, password string, kind store.EntityKind, id string) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"type":     kind,
		"id":       id,
	}

	var resp statusResponse
	if err := c.post(ctx, "/sync-delete", body, &resp); err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("delete rejected: %s", resp.Error)
	}

	return nil
}

// ChangePassword re-verifies the current password remotely before
// applying the new one.
func (c *Client) ChangePassword(ctx context.Context, email, current, newPassword string) error {
	body := map[string]string{
		"email":           email,
		"currentPassword": current,
		"newPassword":     newPassword,
	}

	var resp statusResponse
	if err := c.post(ctx, "/change-password", body, &resp); err != nil {
		return err
	}

	if !resp.Success {
		return ErrInvalidCredentials
	}

	return nil
}

// ResetPassword asks the remote to generate a temporary password. The
// remote returns the generated value inside the message.
func (c *Client) ResetPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}

	var resp statusResponse
	if err := c.post(ctx, "/reset-password", body, &resp); err != nil {
		return "", err
	}

	if !resp.Success {
		return "", ErrEmailNotFound
	}

	return resp.Message, nil
}

// ListTenants returns every tenant record. Operator use only.
func (c *Client) ListTenants(ctx context.Context, adminKey string) ([]Tenant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Admin-Key", adminKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var tenants []Tenant
	if err := json.NewDecoder(resp.Body).Decode(&tenants); err != nil {
		return nil, fmt.Errorf("decoding tenant list: %w", err)
	}

	return tenants, nil
}

// post sends a JSON body and decodes the JSON response into out. A
// non-2xx status or an undecodable body is a failure; nothing is
// partially applied.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}

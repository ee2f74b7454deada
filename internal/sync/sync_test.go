package sync_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowrun/windowrun/internal/server"
	serverstore "github.com/windowrun/windowrun/internal/server/store"
	"github.com/windowrun/windowrun/internal/store"
	"github.com/windowrun/windowrun/internal/sync"
)

const (
	testEmail    = "jo@example.com"
	testPassword = "squeegee"
)

func newClient(t *testing.T) *sync.Client {
	t.Helper()

	handler := server.NewHandler(serverstore.NewMemory(), nil)
	srv := httptest.NewServer(server.NewRouter(handler))
	t.Cleanup(srv.Close)

	client := sync.NewClient(srv.URL, 5*time.Second)

	err := client.Register(context.Background(), store.Business{
		Name:     "Crystal Clear",
		Email:    testEmail,
		ABN:      "12 345 678 901",
		Password: testPassword,
	})
	require.NoError(t, err)

	return client
}

func TestClient_Login(t *testing.T) {
	client := newClient(t)

	t.Run("Success", func(t *testing.T) {
		b, err := client.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		assert.Equal(t, "Crystal Clear", b.Name)
		assert.Equal(t, testEmail, b.Email)
		assert.Equal(t, testPassword, b.Password, "profile carries the server-held password")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := client.Login(context.Background(), testEmail, "nope")
		assert.ErrorIs(t, err, sync.ErrInvalidCredentials)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		_, err := client.Login(context.Background(), "ghost@example.com", testPassword)
		assert.ErrorIs(t, err, sync.ErrInvalidCredentials)
	})
}

func TestClient_PushAndPull(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	customer := store.Customer{ID: "c1", Name: "Daphne", Address: "1 Main St"}
	require.NoError(t, client.PushUpsert(ctx, testEmail, testPassword, store.KindCustomer, customer))

	end := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	job := store.Job{
		ID:            "j1",
		CustomerID:    "c1",
		Price:         120,
		ScheduledDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Status:        store.JobScheduled,
		Recurrence:    &store.RecurrenceRule{Frequency: store.Monthly, EndDate: &end},
	}
	require.NoError(t, client.PushUpsert(ctx, testEmail, testPassword, store.KindJob, job))

	snap, err := client.PullSnapshot(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Len(t, snap.Customers, 1)
	require.Len(t, snap.Jobs, 1)
	assert.Empty(t, snap.Quotes)

	assert.Equal(t, "Daphne", snap.Customers[0].Name)
	require.NotNil(t, snap.Jobs[0].Recurrence, "recurrence rule survives the round trip")
	assert.Equal(t, store.Monthly, snap.Jobs[0].Recurrence.Frequency)

	require.NoError(t, client.PushDelete(ctx, testEmail, testPassword, store.KindCustomer, "c1"))

	snap, err = client.PullSnapshot(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Empty(t, snap.Customers)
}

func TestClient_PullRejectsBadCredentials(t *testing.T) {
	client := newClient(t)

	_, err := client.PullSnapshot(context.Background(), testEmail, "nope")
	assert.ErrorIs(t, err, sync.ErrInvalidCredentials)
}

func TestClient_ChangePassword(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	err := client.ChangePassword(ctx, testEmail, "wrong", "newpass")
	assert.ErrorIs(t, err, sync.ErrInvalidCredentials)

	require.NoError(t, client.ChangePassword(ctx, testEmail, testPassword, "newpass"))

	_, err = client.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, sync.ErrInvalidCredentials)

	_, err = client.Login(ctx, testEmail, "newpass")
	assert.NoError(t, err)
}

func TestClient_ResetPassword(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	_, err := client.ResetPassword(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, sync.ErrEmailNotFound)

	msg, err := client.ResetPassword(ctx, testEmail)
	require.NoError(t, err)
	require.Contains(t, msg, "temporary password is: ")

	temp := msg[strings.Index(msg, "is: ")+len("is: "):]
	require.Len(t, temp, 8)

	_, err = client.Login(ctx, testEmail, temp)
	assert.NoError(t, err, "the temporary password must work immediately")
}

func TestClient_ListTenants(t *testing.T) {
	client := newClient(t)

	tenants, err := client.ListTenants(context.Background(), "any-key")
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, testEmail, tenants[0].Email)
}

func staticCredentials(email, password string) sync.Credentials {
	return func() (string, string, bool) {
		return email, password, true
	}
}

func noCredentials() (string, string, bool) {
	return "", "", false
}

func TestEngine_PushUpsertReachesRemote(t *testing.T) {
	client := newClient(t)

	engine := sync.NewEngine(client, staticCredentials(testEmail, testPassword), nil)
	require.Equal(t, sync.StatusIdle, engine.Status())

	var transitions []sync.Status

	engine.OnChange(func(s sync.Status) {
		transitions = append(transitions, s)
	})

	engine.PushUpsert(store.KindCustomer, store.Customer{ID: "c1", Name: "Fred"})
	engine.Flush()

	assert.Equal(t, sync.StatusSaved, engine.Status())
	require.GreaterOrEqual(t, len(transitions), 2)
	assert.Equal(t, sync.StatusSaving, transitions[0])

	snap, err := client.PullSnapshot(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Len(t, snap.Customers, 1)
}

func TestEngine_PushFailureSetsErrorStatus(t *testing.T) {
	client := newClient(t)

	engine := sync.NewEngine(client, staticCredentials(testEmail, "wrong"), nil)
	engine.PushUpsert(store.KindCustomer, store.Customer{ID: "c1", Name: "Fred"})
	engine.Flush()

	assert.Equal(t, sync.StatusError, engine.Status())
}

func TestEngine_NoCredentialDropsPush(t *testing.T) {
	client := newClient(t)

	engine := sync.NewEngine(client, noCredentials, nil)
	engine.PushUpsert(store.KindCustomer, store.Customer{ID: "c1", Name: "Fred"})
	engine.PushDelete(store.KindCustomer, "c1")
	engine.Flush()

	assert.Equal(t, sync.StatusIdle, engine.Status())

	snap, err := client.PullSnapshot(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	assert.Empty(t, snap.Customers)
}

func TestEngine_PushDeleteReachesRemote(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.PushUpsert(ctx, testEmail, testPassword, store.KindQuote, store.Quote{ID: "q1", CustomerID: "c1", Amount: 75}))

	engine := sync.NewEngine(client, staticCredentials(testEmail, testPassword), nil)
	engine.PushDelete(store.KindQuote, "q1")
	engine.Flush()

	assert.Equal(t, sync.StatusSaved, engine.Status())

	snap, err := client.PullSnapshot(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Empty(t, snap.Quotes)
}

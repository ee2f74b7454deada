package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/windowrun/windowrun/internal/server"
	app "github.com/windowrun/windowrun/internal/store"
)

// Postgres is the production tenant store. Rows are keyed by the owning
// tenant email plus the entity id, so upserts are idempotent whole-row
// overwrites.
type Postgres struct {
	db *sql.DB
}

// Open connects to the database and verifies the connection.
func Open(connStr string) (*Postgres, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			email TEXT PRIMARY KEY,
			business_name TEXT NOT NULL,
			abn TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			tenant_email TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			business_name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			default_price DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (tenant_email, id)
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			tenant_email TEXT NOT NULL,
			id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (tenant_email, id)
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			tenant_email TEXT NOT NULL,
			id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			quote_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			scheduled_date TIMESTAMPTZ NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			completed_at TIMESTAMPTZ,
			recurrence TEXT,
			PRIMARY KEY (tenant_email, id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}

	return nil
}

func tenantKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Postgres) CreateTenant(ctx context.Context, t server.Tenant) error {
	query := `
		INSERT INTO tenants (email, business_name, abn, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET business_name = EXCLUDED.business_name, abn = EXCLUDED.abn, password = EXCLUDED.password
	`

	if _, err := p.db.ExecContext(ctx, query, tenantKey(t.Email), t.BusinessName, t.ABN, t.Password); err != nil {
		return fmt.Errorf("creating tenant: %w", err)
	}

	return nil
}

func scanTenant(row *sql.Row) (*server.Tenant, error) {
	var t server.Tenant
	if err := row.Scan(&t.Email, &t.BusinessName, &t.ABN, &t.Password); err != nil {
		if err == sql.ErrNoRows {
			return nil, server.ErrNotFound
		}

		return nil, fmt.Errorf("scanning tenant: %w", err)
	}

	return &t, nil
}

func (p *Postgres) GetTenant(ctx context.Context, email string) (*server.Tenant, error) {
	query := `SELECT email, business_name, abn, password FROM tenants WHERE email = $1`

	return scanTenant(p.db.QueryRowContext(ctx, query, tenantKey(email)))
}

func (p *Postgres) Authenticate(ctx context.Context, email, password string) (*server.Tenant, error) {
	query := `SELECT email, business_name, abn, password FROM tenants WHERE email = $1 AND password = $2`

	return scanTenant(p.db.QueryRowContext(ctx, query, tenantKey(email), password))
}

func (p *Postgres) UpdatePassword(ctx context.Context, email, newPassword string) error {
	query := `UPDATE tenants SET password = $1 WHERE email = $2`

	res, err := p.db.ExecContext(ctx, query, newPassword, tenantKey(email))
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	if affected == 0 {
		return server.ErrNotFound
	}

	return nil
}

func (p *Postgres) ListTenants(ctx context.Context) ([]server.Tenant, error) {
	query := `SELECT email, business_name, abn, password FROM tenants ORDER BY email ASC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []server.Tenant

	for rows.Next() {
		var t server.Tenant
		if err := rows.Scan(&t.Email, &t.BusinessName, &t.ABN, &t.Password); err != nil {
			return nil, fmt.Errorf("scanning tenant: %w", err)
		}

		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenant rows: %w", err)
	}

	return tenants, nil
}

func (p *Postgres) UpsertCustomer(ctx context.Context, email string, c app.Customer) error {
	query := `
		INSERT INTO customers (tenant_email, id, name, business_name, address, email, phone, default_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_email, id) DO UPDATE
		SET name = EXCLUDED.name, business_name = EXCLUDED.business_name,
			address = EXCLUDED.address, email = EXCLUDED.email, phone = EXCLUDED.phone,
			default_price = EXCLUDED.default_price, notes = EXCLUDED.notes
	`

	if _, err := p.db.ExecContext(ctx, query, tenantKey(email), c.ID, c.Name, c.BusinessName, c.Address, c.Email, c.Phone, c.DefaultPrice, c.Notes); err != nil {
		return fmt.Errorf("upserting customer: %w", err)
	}

	return nil
}

func (p *Postgres) UpsertQuote(ctx context.Context, email string, q app.Quote) error {
	query := `
		INSERT INTO quotes (tenant_email, id, customer_id, description, amount, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_email, id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, description = EXCLUDED.description,
			amount = EXCLUDED.amount, notes = EXCLUDED.notes, status = EXCLUDED.status,
			created_at = EXCLUDED.created_at
	`

	if _, err := p.db.ExecContext(ctx, query, tenantKey(email), q.ID, q.CustomerID, q.Description, q.Amount, q.Notes, q.Status, q.CreatedAt); err != nil {
		return fmt.Errorf("upserting quote: %w", err)
	}

	return nil
}

func (p *Postgres) UpsertJob(ctx context.Context, email string, j app.Job) error {
	var recurrence *string

	if j.Recurrence != nil {
		raw, err := json.Marshal(j.Recurrence)
		if err != nil {
			return fmt.Errorf("encoding recurrence: %w", err)
		}

		s := string(raw)
		recurrence = &s
	}

	query := `
		INSERT INTO jobs (tenant_email, id, customer_id, quote_id, description, price, scheduled_date, notes, status, completed_at, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_email, id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, quote_id = EXCLUDED.quote_id,
			description = EXCLUDED.description, price = EXCLUDED.price,
			scheduled_date = EXCLUDED.scheduled_date, notes = EXCLUDED.notes,
			status = EXCLUDED.status, completed_at = EXCLUDED.completed_at,
			recurrence = EXCLUDED.recurrence
	`

	if _, err := p.db.ExecContext(ctx, query,
		tenantKey(email), j.ID, j.CustomerID, j.QuoteID, j.Description, j.Price,
		j.ScheduledDate, j.Notes, j.Status, j.CompletedAt, recurrence,
	); err != nil {
		return fmt.Errorf("upserting job: %w", err)
	}

	return nil
}

func tableFor(kind app.EntityKind) (string, bool) {
	switch kind {
	case app.KindCustomer:
		return "customers", true
	case app.KindQuote:
		return "quotes", true
	case app.KindJob:
		return "jobs", true
	default:
		return "", false
	}
}

func (p *Postgres) Delete(ctx context.Context, email string, kind app.EntityKind, id string) error {
	table, ok := tableFor(kind)
	if !ok {
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_email = $1 AND id = $2`, table)

	if _, err := p.db.ExecContext(ctx, query, tenantKey(email), id); err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	return nil
}

func (p *Postgres) Collections(ctx context.Context, email string) ([]app.Customer, []app.Quote, []app.Job, error) {
	key := tenantKey(email)

	customers, err := p.listCustomers(ctx, key)
	if err != nil {
		return nil, nil, nil, err
	}

	quotes, err := p.listQuotes(ctx, key)
	if err != nil {
		return nil, nil, nil, err
	}

	jobs, err := p.listJobs(ctx, key)
	if err != nil {
		return nil, nil, nil, err
	}

	return customers, quotes, jobs, nil
}

func (p *Postgres) listCustomers(ctx context.Context, key string) ([]app.Customer, error) {
	query := `
		SELECT id, name, business_name, address, email, phone, default_price, notes
		FROM customers WHERE tenant_email = $1 ORDER BY name ASC
	`

	rows, err := p.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []app.Customer

	for rows.Next() {
		var c app.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.BusinessName, &c.Address, &c.Email, &c.Phone, &c.DefaultPrice, &c.Notes); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

func (p *Postgres) listQuotes(ctx context.Context, key string) ([]app.Quote, error) {
	query := `
		SELECT id, customer_id, description, amount, notes, status, created_at
		FROM quotes WHERE tenant_email = $1 ORDER BY created_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var quotes []app.Quote

	for rows.Next() {
		var q app.Quote

		var status string

		if err := rows.Scan(&q.ID, &q.CustomerID, &q.Description, &q.Amount, &q.Notes, &status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}

		q.Status = app.QuoteStatus(status)
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quote rows: %w", err)
	}

	return quotes, nil
}

func (p *Postgres) listJobs(ctx context.Context, key string) ([]app.Job, error) {
	query := `
		SELECT id, customer_id, quote_id, description, price, scheduled_date, notes, status, completed_at, recurrence
		FROM jobs WHERE tenant_email = $1 ORDER BY scheduled_date ASC
	`

	rows, err := p.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []app.Job

	for rows.Next() {
		var j app.Job

		var status string

		var recurrence sql.NullString

		if err := rows.Scan(&j.ID, &j.CustomerID, &j.QuoteID, &j.Description, &j.Price, &j.ScheduledDate, &j.Notes, &status, &j.CompletedAt, &recurrence); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		j.Status = app.JobStatus(status)

		if recurrence.Valid {
			var rule app.RecurrenceRule
			if err := json.Unmarshal([]byte(recurrence.String), &rule); err != nil {
				return nil, fmt.Errorf("decoding recurrence: %w", err)
			}

			j.Recurrence = &rule
		}

		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}

	return jobs, nil
}

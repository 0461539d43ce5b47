package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/segurnet/claims-relay/endpoint"
)

/* PostgreSQL implementation of endpoint.Repository
 * subscribed_events is a text[] column so the dispatch query
 * can filter with = ANY() instead of unpacking client-side
 */

type Repository struct {
	DB *sql.DB
}

// NewRepository opens a connection pool and verifies connectivity
func NewRepository(connectionString string) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Repository{DB: db}, nil
}

// EnsureSchema creates the webhooks table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS webhooks (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		subscribed_events TEXT[] NOT NULL,
		custom_headers JSONB NOT NULL DEFAULT '{}',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating webhooks table: %w", err)
	}
	return nil
}

// Get retrieves an endpoint by id
func (r *Repository) Get(ctx context.Context, id string) (endpoint.Endpoint, error) {
	query := `SELECT id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at
		FROM webhooks WHERE id = $1`

	e, err := scanEndpoint(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return endpoint.Endpoint{}, endpoint.ErrNotFound
	}
	if err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("selecting endpoint: %w", err)
	}
	return e, nil
}

// SelectAll returns every endpoint, newest first
func (r *Repository) SelectAll(ctx context.Context) ([]endpoint.Endpoint, error) {
	query := `SELECT id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at
		FROM webhooks ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("selecting endpoints: %w", err)
	}
	defer rows.Close()

	return collectEndpoints(rows)
}

// SelectForEvent returns enabled endpoints subscribed to the event
func (r *Repository) SelectForEvent(ctx context.Context, event string) ([]endpoint.Endpoint, error) {
	query := `SELECT id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at
		FROM webhooks WHERE enabled = TRUE AND $1 = ANY(subscribed_events)
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("selecting endpoints for event: %w", err)
	}
	defer rows.Close()

	return collectEndpoints(rows)
}

// Insert persists a new endpoint
func (r *Repository) Insert(ctx context.Context, e endpoint.Endpoint) error {
	headersJSON, err := json.Marshal(headersOrEmpty(e.CustomHeaders))
	if err != nil {
		return fmt.Errorf("marshaling custom headers: %w", err)
	}

	query := `INSERT INTO webhooks (id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.URL, e.Enabled, pq.Array(e.SubscribedEvents),
		headersJSON, e.Description, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting endpoint: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an endpoint
func (r *Repository) Update(ctx context.Context, e endpoint.Endpoint) error {
	headersJSON, err := json.Marshal(headersOrEmpty(e.CustomHeaders))
	if err != nil {
		return fmt.Errorf("marshaling custom headers: %w", err)
	}

	query := `UPDATE webhooks SET name = $2, url = $3, enabled = $4, subscribed_events = $5,
		custom_headers = $6, description = $7, updated_at = $8 WHERE id = $1`

	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.URL, e.Enabled, pq.Array(e.SubscribedEvents),
		headersJSON, e.Description, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating endpoint: %w", err)
	}
	return checkAffected(result)
}

// Delete removes the endpoint row; delivery log rows are not cascaded
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM webhooks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting endpoint: %w", err)
	}
	return checkAffected(result)
}

// SetEnabled flips the enabled flag
func (r *Repository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := "UPDATE webhooks SET enabled = $2, updated_at = $3 WHERE id = $1"
	result, err := r.DB.ExecContext(ctx, query, id, enabled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("setting enabled flag: %w", err)
	}
	return checkAffected(result)
}

// Close closes the connection pool
func (r *Repository) Close(ctx context.Context) error {
	return r.DB.Close()
}

// Helper functions

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(row rowScanner) (endpoint.Endpoint, error) {
	var e endpoint.Endpoint
	var events pq.StringArray
	var headersJSON []byte

	err := row.Scan(&e.ID, &e.Name, &e.URL, &e.Enabled, &events,
		&headersJSON, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return endpoint.Endpoint{}, err
	}

	e.SubscribedEvents = []string(events)
	if len(headersJSON) > 0 {
		if err := json.Unmarshal(headersJSON, &e.CustomHeaders); err != nil {
			return endpoint.Endpoint{}, fmt.Errorf("unmarshaling custom headers: %w", err)
		}
	}
	return e, nil
}

func collectEndpoints(rows *sql.Rows) ([]endpoint.Endpoint, error) {
	var endpoints []endpoint.Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning endpoint: %w", err)
		}
		endpoints = append(endpoints, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating endpoints: %w", err)
	}
	return endpoints, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return endpoint.ErrNotFound
	}
	return nil
}

func headersOrEmpty(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return h
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/segurnet/claims-relay/delivery"
)

/* PostgreSQL implementation of delivery.Repository
 * webhook_logs is append-only: rows are inserted once and never updated
 */

// QueryLimit bounds the number of rows returned by the log view
const QueryLimit = 100

type Repository struct {
	DB *sql.DB
}

// NewRepository wraps an existing pool so the log store and the registry
// can share one set of connections
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// EnsureSchema creates the webhook_logs table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS webhook_logs (
		id UUID PRIMARY KEY,
		webhook_id UUID NOT NULL,
		event TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		response_body TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL DEFAULT '',
		sent_at TIMESTAMPTZ NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating webhook_logs table: %w", err)
	}
	return nil
}

// Append inserts one attempt row, applying the truncation bounds
func (r *Repository) Append(ctx context.Context, a delivery.Attempt) error {
	query := `INSERT INTO webhook_logs (id, webhook_id, event, status_code, success, response_body, payload, sent_at, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.WebhookID, a.Event, a.StatusCode, a.Success,
		delivery.Truncate(a.ResponseBody, delivery.MaxResponseBodyLen),
		delivery.Truncate(a.Payload, delivery.MaxPayloadLen),
		a.SentAt, a.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// Get retrieves a single attempt by id
func (r *Repository) Get(ctx context.Context, id string) (delivery.Attempt, error) {
	query := `SELECT id, webhook_id, event, status_code, success, response_body, payload, sent_at, retry_count
		FROM webhook_logs WHERE id = $1`

	var a delivery.Attempt
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.WebhookID, &a.Event, &a.StatusCode, &a.Success,
		&a.ResponseBody, &a.Payload, &a.SentAt, &a.RetryCount,
	)
	if err == sql.ErrNoRows {
		return delivery.Attempt{}, delivery.ErrNotFound
	}
	if err != nil {
		return delivery.Attempt{}, fmt.Errorf("selecting attempt: %w", err)
	}
	return a, nil
}

// Query returns attempts matching the filter, newest first, at most QueryLimit rows
func (r *Repository) Query(ctx context.Context, f delivery.Filter) ([]delivery.Attempt, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.WebhookID != "" {
		conditions = append(conditions, "webhook_id = "+arg(f.WebhookID))
	}
	if f.Success != nil {
		conditions = append(conditions, "success = "+arg(*f.Success))
	}
	if f.Event != "" {
		conditions = append(conditions, "event = "+arg(f.Event))
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "sent_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "sent_at <= "+arg(f.To))
	}
	if f.TextSearch != "" {
		pattern := "%" + f.TextSearch + "%"
		p := arg(pattern)
		conditions = append(conditions,
			"(event ILIKE "+p+" OR response_body ILIKE "+p+" OR payload ILIKE "+p+")")
	}

	query := "SELECT id, webhook_id, event, status_code, success, response_body, payload, sent_at, retry_count FROM webhook_logs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sent_at DESC LIMIT " + strconv.Itoa(QueryLimit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var attempts []delivery.Attempt
	for rows.Next() {
		var a delivery.Attempt
		if err := rows.Scan(&a.ID, &a.WebhookID, &a.Event, &a.StatusCode, &a.Success,
			&a.ResponseBody, &a.Payload, &a.SentAt, &a.RetryCount); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attempts: %w", err)
	}
	return attempts, nil
}

// Close is a no-op when the pool is shared; the owner closes it
func (r *Repository) Close(ctx context.Context) error {
	return nil
}

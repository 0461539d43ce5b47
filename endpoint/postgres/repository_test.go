//go:build !integration

package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/segurnet/claims-relay/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Unit tests with sqlmock: fast, no container, no real database.
They pin the SQL each method issues and the row scanning, including
the text[] and JSONB columns. The dispatch filter's actual behavior
against real data lives in repository_integration_test.go.
*/

var endpointColumns = []string{
	"id", "name", "url", "enabled", "subscribed_events",
	"custom_headers", "description", "created_at", "updated_at",
}

func endpointRow(id, name string) *sqlmock.Rows {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(endpointColumns).
		AddRow(id, name, "https://crm.example/hook", true,
			"{form_submitted,form_updated}",
			[]byte(`{"Authorization":"Bearer tok"}`),
			"", now, now)
}

func TestRepository_Get_Unit(t *testing.T) {
	t.Run("scans the array and JSONB columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &Repository{DB: db}

		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at FROM webhooks WHERE id = $1`,
		)).WithArgs("wh-1").WillReturnRows(endpointRow("wh-1", "crm"))

		e, err := repo.Get(context.Background(), "wh-1")

		require.NoError(t, err)
		assert.Equal(t, "wh-1", e.ID)
		assert.Equal(t, []string{"form_submitted", "form_updated"}, e.SubscribedEvents)
		assert.Equal(t, "Bearer tok", e.CustomHeaders["Authorization"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &Repository{DB: db}

		mock.ExpectQuery(regexp.QuoteMeta(`FROM webhooks WHERE id = $1`)).
			WithArgs("missing").WillReturnRows(sqlmock.NewRows(endpointColumns))

		_, err = repo.Get(context.Background(), "missing")

		require.ErrorIs(t, err, endpoint.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SelectForEvent_Unit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &Repository{DB: db}

	// the dispatch filter lives entirely in this predicate
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM webhooks WHERE enabled = TRUE AND $1 = ANY(subscribed_events) ORDER BY created_at DESC`,
	)).WithArgs("form_submitted").
		WillReturnRows(endpointRow("wh-1", "crm"))

	targets, err := repo.SelectForEvent(context.Background(), "form_submitted")

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "wh-1", targets[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_Unit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &Repository{DB: db}
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO webhooks (id, name, url, enabled, subscribed_events, custom_headers, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	)).WithArgs("wh-1", "crm", "https://crm.example/hook", true,
		sqlmock.AnyArg(), []byte(`{}`), "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Insert(context.Background(), endpoint.Endpoint{
		ID:               "wh-1",
		Name:             "crm",
		URL:              "https://crm.example/hook",
		Enabled:          true,
		SubscribedEvents: []string{"form_submitted"},
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound_Unit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &Repository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE webhooks SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected

	err = repo.Update(context.Background(), endpoint.Endpoint{ID: "missing", Name: "x"})

	require.ErrorIs(t, err, endpoint.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_Unit(t *testing.T) {
	t.Run("delete existing endpoint", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &Repository{DB: db}

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhooks WHERE id = $1`)).
			WithArgs("wh-1").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), "wh-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete unknown endpoint", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &Repository{DB: db}

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhooks WHERE id = $1`)).
			WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.Delete(context.Background(), "missing"), endpoint.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SetEnabled_Unit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &Repository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE webhooks SET enabled = $2, updated_at = $3 WHERE id = $1`)).
		WithArgs("wh-1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetEnabled(context.Background(), "wh-1", false))
	require.NoError(t, mock.ExpectationsWereMet())
}

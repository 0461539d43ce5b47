//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segurnet/claims-relay/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertEndpoint(t *testing.T, ctx context.Context, repo *Repository, name string, enabled bool, events ...string) endpoint.Endpoint {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	e := endpoint.Endpoint{
		ID:               uuid.New().String(),
		Name:             name,
		URL:              "https://" + name + ".example/hook",
		Enabled:          enabled,
		SubscribedEvents: events,
		CustomHeaders:    map[string]string{"Authorization": "Bearer " + name},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, repo.Insert(ctx, e))
	return e
}

func TestRepository_SelectForEvent_Integration(t *testing.T) {
	ctx := context.Background()

	pgContainer, cleanup := SetupPostgresContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, ctx, pgContainer.ConnStr)
	defer repo.Close(ctx)

	subscribed := insertEndpoint(t, ctx, repo, "crm", true, "form_submitted", "form_updated")
	insertEndpoint(t, ctx, repo, "disabled", false, "form_submitted")
	insertEndpoint(t, ctx, repo, "other-events", true, "document_uploaded")

	t.Run("returns only enabled endpoints subscribed to the event", func(t *testing.T) {
		targets, err := repo.SelectForEvent(ctx, "form_submitted")

		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, subscribed.ID, targets[0].ID)
		assert.Equal(t, []string{"form_submitted", "form_updated"}, targets[0].SubscribedEvents)
		assert.Equal(t, "Bearer crm", targets[0].CustomHeaders["Authorization"])
	})

	t.Run("no subscribers means an empty result, not an error", func(t *testing.T) {
		targets, err := repo.SelectForEvent(ctx, "connectivity_test")

		require.NoError(t, err)
		assert.Empty(t, targets)
	})

	t.Run("re-enabling brings the endpoint back into the fan-out", func(t *testing.T) {
		targets, err := repo.SelectForEvent(ctx, "form_submitted")
		require.NoError(t, err)
		require.Len(t, targets, 1)

		require.NoError(t, repo.SetEnabled(ctx, subscribed.ID, false))
		targets, err = repo.SelectForEvent(ctx, "form_submitted")
		require.NoError(t, err)
		assert.Empty(t, targets)

		require.NoError(t, repo.SetEnabled(ctx, subscribed.ID, true))
		targets, err = repo.SelectForEvent(ctx, "form_submitted")
		require.NoError(t, err)
		assert.Len(t, targets, 1)
	})
}

func TestRepository_CRUD_Integration(t *testing.T) {
	ctx := context.Background()

	pgContainer, cleanup := SetupPostgresContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, ctx, pgContainer.ConnStr)
	defer repo.Close(ctx)

	created := insertEndpoint(t, ctx, repo, "crm", true, "form_submitted")

	t.Run("round-trips every column", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.URL, got.URL)
		assert.Equal(t, created.SubscribedEvents, got.SubscribedEvents)
		assert.Equal(t, created.CustomHeaders, got.CustomHeaders)
		assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("update replaces the mutable fields", func(t *testing.T) {
		updated := created
		updated.Name = "crm-v2"
		updated.SubscribedEvents = []string{"form_updated"}
		updated.UpdatedAt = time.Now().UTC()

		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "crm-v2", got.Name)
		assert.Equal(t, []string{"form_updated"}, got.SubscribedEvents)
	})

	t.Run("newest first ordering", func(t *testing.T) {
		newer := insertEndpoint(t, ctx, repo, "audit", true, "form_submitted")

		all, err := repo.SelectAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err := repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, endpoint.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, created.ID), endpoint.ErrNotFound)
	})
}

package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

func insertPending(t *testing.T, repo *OutboxRepoSQL, eventType string, createdAt time.Time) uuid.UUID {
	t.Helper()
	evt := domain.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: "agg-1",
		EventType:   eventType,
		Payload:     map[string]interface{}{"eventType": eventType, "orderId": "agg-1"},
		Status:      domain.OutboxPending,
		CreatedAt:   createdAt,
	}
	require.NoError(t, InsertOutboxTx(context.Background(), repo.db, repo.dialect, evt))
	return evt.ID
}

func TestOutboxRepoSQL_FetchPendingOrderAndLimit(t *testing.T) {
	// Arrange
	repo := NewOutboxRepoSQL(NewTestDB(t), SQLite)
	base := time.Now().UTC()
	second := insertPending(t, repo, "B", base.Add(time.Second))
	first := insertPending(t, repo, "A", base)
	insertPending(t, repo, "C", base.Add(2*time.Second))

	// Act
	events, err := repo.FetchPending(context.Background(), 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first, events[0].ID)
	assert.Equal(t, second, events[1].ID)
	assert.Equal(t, domain.OutboxPending, events[0].Status)
	assert.Equal(t, "agg-1", events[0].Payload["orderId"])
	assert.Nil(t, events[0].ErrorMessage)
	assert.Nil(t, events[0].ProcessedAt)
}

func TestOutboxRepoSQL_CompletedCycle(t *testing.T) {
	ctx := context.Background()
	repo := NewOutboxRepoSQL(NewTestDB(t), SQLite)
	id := insertPending(t, repo, "A", time.Now().UTC())

	claimed, err := repo.MarkProcessing(ctx, id)
	require.NoError(t, err)
	assert.True(t, claimed)

	// Un segundo reclamo pierde la carrera.
	claimed, err = repo.MarkProcessing(ctx, id)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repo.MarkCompleted(ctx, id))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)

	// COMPLETED es definitivo.
	assert.Error(t, repo.MarkFailed(ctx, id, "tarde"))
	assert.Error(t, repo.MarkCompleted(ctx, id))
	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRepoSQL_FailedAndRequeue(t *testing.T) {
	ctx := context.Background()
	repo := NewOutboxRepoSQL(NewTestDB(t), SQLite)
	id := insertPending(t, repo, "A", time.Now().UTC())

	_, err := repo.MarkProcessing(ctx, id)
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(ctx, id, "handler exploded"))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxFailed, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "handler exploded", *got.ErrorMessage)

	failed, err := repo.ListByStatus(ctx, domain.OutboxFailed, 10)
	require.NoError(t, err)
	assert.Len(t, failed, 1)

	// Con maxRetries 1 ya no hay reintentos disponibles.
	n, err := repo.RequeueFailed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.RequeueFailed(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
}

func TestOutboxRepoSQL_FindByIDMissing(t *testing.T) {
	repo := NewOutboxRepoSQL(NewTestDB(t), SQLite)

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOutboxRepoSQL_ListByAggregate(t *testing.T) {
	repo := NewOutboxRepoSQL(NewTestDB(t), SQLite)
	base := time.Now().UTC()
	insertPending(t, repo, "A", base)
	insertPending(t, repo, "B", base.Add(time.Millisecond))

	events, err := repo.ListByAggregate(context.Background(), "agg-1")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].EventType)
	assert.Equal(t, "B", events[1].EventType)
}

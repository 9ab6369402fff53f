package sqlrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb/sqldbtest"
)

func newRepo(t *testing.T) (*OrderRepoSQL, *sqldb.OutboxRepoSQL) {
	t.Helper()
	db := sqldbtest.New(t)
	return NewOrderRepoSQL(outbox.NewWriter(db, sqldb.SQLite)), sqldb.NewOutboxRepoSQL(db, sqldb.SQLite)
}

func newOrder(t *testing.T, userID string) *orderDomain.Order {
	t.Helper()
	a, err := orderDomain.NewOrderItem(uuid.NewString(), "Té verde", 4.5, 2)
	require.NoError(t, err)
	b, err := orderDomain.NewOrderItem(uuid.NewString(), "Taza", 12, 1)
	require.NoError(t, err)
	o, err := orderDomain.NewOrder(uuid.NewString(), userID, []orderDomain.OrderItem{a, b}, uuid.NewString())
	require.NoError(t, err)
	return o
}

func TestOrderRepoSQL_SaveAndFindByID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, outboxRepo := newRepo(t)
	o := newOrder(t, uuid.NewString())

	// Act
	require.NoError(t, repo.Save(ctx, o))

	// Assert
	found, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, orderDomain.StatusPending, found.Status())
	assert.InDelta(t, 21.0, found.TotalPrice(), 1e-9)
	assert.Equal(t, o.SourceCartID(), found.SourceCartID())
	assert.Equal(t, o.Items(), found.Items())
	assert.Equal(t, 1, found.Version())

	rows, err := outboxRepo.ListByAggregate(ctx, o.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, events.OrderCreatedType, rows[0].EventType)
	assert.Equal(t, sharedDomain.OutboxPending, rows[0].Status)
}

func TestOrderRepoSQL_UpdatesStatusWithVersion(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, outboxRepo := newRepo(t)
	o := newOrder(t, uuid.NewString())
	require.NoError(t, repo.Save(ctx, o))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	// Act
	require.NoError(t, first.Confirm())
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, stale.MarkAsFailed("late"))
	err = repo.Save(ctx, stale)

	// Assert
	assert.ErrorIs(t, err, orderDomain.ErrConcurrentModification)
	assert.ErrorIs(t, err, sharedDomain.ErrConflict)

	current, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, orderDomain.StatusConfirmed, current.Status())

	rows, err := outboxRepo.ListByAggregate(ctx, o.ID())
	require.NoError(t, err)
	var got []string
	for _, r := range rows {
		got = append(got, r.EventType)
	}
	assert.Equal(t, []string{events.OrderCreatedType, events.OrderConfirmedType, events.OrderStatusChangedType}, got)
}

func TestOrderRepoSQL_FindByUserID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	userID := uuid.NewString()

	older := newOrder(t, userID)
	require.NoError(t, repo.Save(ctx, older))
	time.Sleep(2 * time.Millisecond)
	newer := newOrder(t, userID)
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, newOrder(t, uuid.NewString())))

	orders, err := repo.FindByUserID(ctx, userID)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID(), orders[0].ID())
	assert.Equal(t, older.ID(), orders[1].ID())
	assert.Len(t, orders[1].Items(), 2)
}

func TestOrderRepoSQL_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, orderDomain.ErrOrderNotFound)
}

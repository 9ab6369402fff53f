package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
	userDomain "github.com/LeHongMinh-ST/ca-eco/internal/user/domain"
	userRepo "github.com/LeHongMinh-ST/ca-eco/internal/user/infra/outbound/db/sqlrepo"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido, se omite la prueba contra PostgreSQL")
	}
	db, err := sqldb.Open(sqldb.Postgres, dsn)
	require.NoError(t, err)
	require.NoError(t, sqldb.Migrate(context.Background(), db, sqldb.Postgres))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_UserAndOutboxInOneTransaction(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := setupPostgres(t)
	repo := userRepo.NewUserRepoSQL(outbox.NewWriter(db, sqldb.Postgres))
	outboxRepo := sqldb.NewOutboxRepoSQL(db, sqldb.Postgres)

	user, err := userDomain.NewUser(uuid.NewString(), uuid.NewString()+"@example.com", "Integrado")
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.Save(ctx, user))

	// Assert
	got, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	assert.Equal(t, user.Email(), got.Email())

	rows, err := outboxRepo.ListByAggregate(ctx, user.ID())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, events.UserCreatedType, rows[0].EventType)
	assert.Equal(t, domain.OutboxPending, rows[0].Status)

	claimed, err := outboxRepo.MarkProcessing(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = outboxRepo.MarkProcessing(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.False(t, claimed, "una fila sólo se reclama una vez")
	require.NoError(t, outboxRepo.MarkCompleted(ctx, rows[0].ID))
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	repo := userRepo.NewUserRepoSQL(outbox.NewWriter(db, sqldb.Postgres))
	email := uuid.NewString() + "@example.com"

	first, err := userDomain.NewUser(uuid.NewString(), email, "Uno")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := userDomain.NewUser(uuid.NewString(), email, "Dos")
	require.NoError(t, err)
	err = repo.Save(ctx, second)

	assert.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
}

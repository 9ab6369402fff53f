// Package sqlrepo implementa UserRepository sobre SQLite o PostgreSQL.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
	userDomain "github.com/LeHongMinh-ST/ca-eco/internal/user/domain"
)

type UserRepoSQL struct {
	writer *outbox.Writer
}

func NewUserRepoSQL(writer *outbox.Writer) *UserRepoSQL {
	return &UserRepoSQL{writer: writer}
}

const userColumns = `id, email, name, created_at, updated_at`

// Save inserta o actualiza el usuario y sus eventos en la misma transacción.
// El índice único de email convierte un duplicado en ErrUserAlreadyExists.
func (r *UserRepoSQL) Save(ctx context.Context, u *userDomain.User) error {
	err := r.writer.Save(ctx, u, func(ctx context.Context, tx sqldb.DBTX) error {
		d := r.writer.Dialect()
		if !u.IsPersisted() {
			_, err := tx.ExecContext(ctx, d.Rebind(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?)`),
				u.ID(), u.Email(), u.Name(), u.CreatedAt(), u.UpdatedAt())
			if sqldb.IsUniqueViolation(err) {
				return userDomain.ErrUserAlreadyExists
			}
			if err != nil {
				return fmt.Errorf("failed to insert user: %w", err)
			}
			return nil
		}
		res, err := tx.ExecContext(ctx, d.Rebind(`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?`),
			u.Email(), u.Name(), u.UpdatedAt(), u.ID())
		if sqldb.IsUniqueViolation(err) {
			return userDomain.ErrUserAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return sqldb.ExpectOneRow(res, userDomain.ErrUserNotFound)
	})
	if err != nil {
		return err
	}
	u.MarkSaved()
	return nil
}

func (r *UserRepoSQL) FindByID(ctx context.Context, id string) (*userDomain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepoSQL) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepoSQL) findOne(ctx context.Context, query, arg string) (*userDomain.User, error) {
	var (
		id, email, name      string
		createdAt, updatedAt time.Time
	)
	err := r.writer.DB().QueryRowContext(ctx, r.writer.Dialect().Rebind(query), arg).
		Scan(&id, &email, &name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, userDomain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDomain.ReconstituteUser(id, email, name, createdAt, updatedAt), nil
}

var _ userDomain.UserRepository = (*UserRepoSQL)(nil)

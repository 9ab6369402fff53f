// Package sqlrepo implementa CartRepository sobre SQLite o PostgreSQL.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	cartDomain "github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

type CartRepoSQL struct {
	writer *outbox.Writer
}

func NewCartRepoSQL(writer *outbox.Writer) *CartRepoSQL {
	return &CartRepoSQL{writer: writer}
}

func (r *CartRepoSQL) FindByID(ctx context.Context, id string) (*cartDomain.Cart, error) {
	return r.findOne(ctx, `SELECT id, user_id, version, created_at, updated_at FROM carts WHERE id = ?`, id)
}

func (r *CartRepoSQL) FindByUserID(ctx context.Context, userID string) (*cartDomain.Cart, error) {
	return r.findOne(ctx, `SELECT id, user_id, version, created_at, updated_at FROM carts WHERE user_id = ?`, userID)
}

// Save guarda cabecera, líneas y eventos en una transacción. Las líneas se reescriben completas.
func (r *CartRepoSQL) Save(ctx context.Context, cart *cartDomain.Cart) error {
	err := r.writer.Save(ctx, cart, func(ctx context.Context, tx sqldb.DBTX) error {
		if err := r.saveHeader(ctx, tx, cart); err != nil {
			return err
		}
		return r.replaceItems(ctx, tx, cart)
	})
	if err != nil {
		return err
	}
	cart.MarkSaved()
	return nil
}

func (r *CartRepoSQL) saveHeader(ctx context.Context, tx sqldb.DBTX, c *cartDomain.Cart) error {
	d := r.writer.Dialect()
	if c.Version() == 0 {
		_, err := tx.ExecContext(ctx, d.Rebind(
			`INSERT INTO carts (id, user_id, version, created_at, updated_at) VALUES (?, ?, 1, ?, ?)`),
			c.ID(), c.UserID(), c.CreatedAt(), c.UpdatedAt(),
		)
		if sqldb.IsUniqueViolation(err) {
			return cartDomain.ErrCartAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("failed to insert cart: %w", err)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, d.Rebind(
		`UPDATE carts SET version = version + 1, updated_at = ? WHERE id = ? AND version = ?`),
		c.UpdatedAt(), c.ID(), c.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return sqldb.ExpectOneRow(res, cartDomain.ErrConcurrentModification)
}

func (r *CartRepoSQL) replaceItems(ctx context.Context, tx sqldb.DBTX, c *cartDomain.Cart) error {
	d := r.writer.Dialect()
	if _, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM cart_items WHERE cart_id = ?`), c.ID()); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	for pos, it := range c.Items() {
		_, err := tx.ExecContext(ctx, d.Rebind(
			`INSERT INTO cart_items (cart_id, product_id, position, product_name, price, image_url, quantity)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`),
			c.ID(), it.ProductID, pos, it.ProductName, it.Price, it.ImageURL, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}
	return nil
}

func (r *CartRepoSQL) findOne(ctx context.Context, query, arg string) (*cartDomain.Cart, error) {
	var (
		id, userID           string
		version              int
		createdAt, updatedAt time.Time
	)
	err := r.writer.DB().QueryRowContext(ctx, r.writer.Dialect().Rebind(query), arg).
		Scan(&id, &userID, &version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cartDomain.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return cartDomain.ReconstituteCart(id, userID, items, version, createdAt, updatedAt), nil
}

func (r *CartRepoSQL) items(ctx context.Context, cartID string) ([]cartDomain.CartItem, error) {
	rows, err := r.writer.DB().QueryContext(ctx, r.writer.Dialect().Rebind(
		`SELECT product_id, product_name, price, image_url, quantity FROM cart_items WHERE cart_id = ? ORDER BY position`),
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []cartDomain.CartItem
	for rows.Next() {
		var it cartDomain.CartItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Price, &it.ImageURL, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var _ cartDomain.CartRepository = (*CartRepoSQL)(nil)

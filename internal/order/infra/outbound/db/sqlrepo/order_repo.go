// Package sqlrepo implementa OrderRepository sobre SQLite o PostgreSQL.
package sqlrepo

import (
	"context"
	"fmt"
	"time"

	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

type OrderRepoSQL struct {
	writer *outbox.Writer
}

func NewOrderRepoSQL(writer *outbox.Writer) *OrderRepoSQL {
	return &OrderRepoSQL{writer: writer}
}

const orderColumns = `id, user_id, status, total_price, source_cart_id, version, created_at, updated_at`

// Save guarda el pedido y sus eventos en una sola transacción.
// Las líneas sólo se escriben al crear: después son inmutables.
func (r *OrderRepoSQL) Save(ctx context.Context, order *orderDomain.Order) error {
	err := r.writer.Save(ctx, order, func(ctx context.Context, tx sqldb.DBTX) error {
		if order.Version() == 0 {
			return r.insert(ctx, tx, order)
		}
		return r.update(ctx, tx, order)
	})
	if err != nil {
		return err
	}
	order.MarkSaved()
	return nil
}

func (r *OrderRepoSQL) insert(ctx context.Context, tx sqldb.DBTX, o *orderDomain.Order) error {
	d := r.writer.Dialect()
	_, err := tx.ExecContext(ctx, d.Rebind(
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, 1, ?, ?)`),
		o.ID(), o.UserID(), o.Status().String(), o.TotalPrice(), o.SourceCartID(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range o.Items() {
		_, err := tx.ExecContext(ctx, d.Rebind(
			`INSERT INTO order_items (order_id, line_no, product_id, product_name, price_at_order, quantity, line_total)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`),
			o.ID(), i, item.ProductID, item.ProductName, item.PriceAtOrder, item.Quantity, item.LineTotal(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepoSQL) update(ctx context.Context, tx sqldb.DBTX, o *orderDomain.Order) error {
	res, err := tx.ExecContext(ctx, r.writer.Dialect().Rebind(
		`UPDATE orders SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`),
		o.Status().String(), o.UpdatedAt(), o.ID(), o.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return sqldb.ExpectOneRow(res, orderDomain.ErrConcurrentModification)
}

func (r *OrderRepoSQL) FindByID(ctx context.Context, id string) (*orderDomain.Order, error) {
	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, orderDomain.ErrOrderNotFound
	}
	return orders[0], nil
}

// FindByUserID devuelve los pedidos del usuario, el más reciente primero.
func (r *OrderRepoSQL) FindByUserID(ctx context.Context, userID string) ([]*orderDomain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

type orderRow struct {
	id, userID, status, sourceCartID string
	totalPrice                       float64
	version                          int
	createdAt, updatedAt             time.Time
}

func (r *OrderRepoSQL) query(ctx context.Context, query string, arg string) ([]*orderDomain.Order, error) {
	db := r.writer.DB()
	rows, err := db.QueryContext(ctx, r.writer.Dialect().Rebind(query), arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	// Se leen todas las cabeceras antes de pedir las líneas: con SQLite sólo hay una conexión.
	var heads []orderRow
	for rows.Next() {
		var h orderRow
		if err := rows.Scan(&h.id, &h.userID, &h.status, &h.totalPrice, &h.sourceCartID, &h.version, &h.createdAt, &h.updatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	orders := make([]*orderDomain.Order, 0, len(heads))
	for _, h := range heads {
		items, err := r.items(ctx, h.id)
		if err != nil {
			return nil, err
		}
		status, err := orderDomain.ParseOrderStatus(h.status)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", h.id, err)
		}
		orders = append(orders, orderDomain.ReconstituteOrder(
			h.id, h.userID, items, status, h.totalPrice, h.sourceCartID, h.version, h.createdAt, h.updatedAt))
	}
	return orders, nil
}

func (r *OrderRepoSQL) items(ctx context.Context, orderID string) ([]orderDomain.OrderItem, error) {
	rows, err := r.writer.DB().QueryContext(ctx, r.writer.Dialect().Rebind(
		`SELECT product_id, product_name, price_at_order, quantity FROM order_items WHERE order_id = ? ORDER BY line_no`),
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []orderDomain.OrderItem
	for rows.Next() {
		var it orderDomain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.PriceAtOrder, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var _ orderDomain.OrderRepository = (*OrderRepoSQL)(nil)

// Package sqlrepo implementa InventoryRepository sobre SQLite o PostgreSQL.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	inventoryDomain "github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

type InventoryRepoSQL struct {
	writer *outbox.Writer
}

func NewInventoryRepoSQL(writer *outbox.Writer) *InventoryRepoSQL {
	return &InventoryRepoSQL{writer: writer}
}

const inventoryColumns = `id, product_id, quantity, low_stock_threshold, version, created_at, updated_at`

func (r *InventoryRepoSQL) FindByID(ctx context.Context, id string) (*inventoryDomain.Inventory, error) {
	return r.findOne(ctx, `SELECT `+inventoryColumns+` FROM inventories WHERE id = ?`, id)
}

func (r *InventoryRepoSQL) FindByProductID(ctx context.Context, productID string) (*inventoryDomain.Inventory, error) {
	return r.findOne(ctx, `SELECT `+inventoryColumns+` FROM inventories WHERE product_id = ?`, productID)
}

// Save guarda el stock y sus eventos en una sola transacción.
func (r *InventoryRepoSQL) Save(ctx context.Context, inv *inventoryDomain.Inventory) error {
	err := r.writer.Save(ctx, inv, func(ctx context.Context, tx sqldb.DBTX) error {
		return r.saveTx(ctx, tx, inv)
	})
	if err != nil {
		return err
	}
	inv.MarkSaved()
	return nil
}

// Reserve guarda el stock decrementado y la línea de reserva del pedido.
func (r *InventoryRepoSQL) Reserve(ctx context.Context, inv *inventoryDomain.Inventory, orderID string, quantity int) error {
	err := r.writer.Save(ctx, inv, func(ctx context.Context, tx sqldb.DBTX) error {
		if err := r.saveTx(ctx, tx, inv); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, r.writer.Dialect().Rebind(
			`INSERT INTO inventory_reservations (order_id, product_id, quantity, created_at) VALUES (?, ?, ?, ?)`),
			orderID, inv.ProductID(), quantity, time.Now().UTC(),
		)
		if sqldb.IsUniqueViolation(err) {
			return inventoryDomain.ErrAlreadyReserved
		}
		if err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	inv.MarkSaved()
	return nil
}

func (r *InventoryRepoSQL) IsReserved(ctx context.Context, orderID, productID string) (bool, error) {
	var n int
	err := r.writer.DB().QueryRowContext(ctx, r.writer.Dialect().Rebind(
		`SELECT COUNT(*) FROM inventory_reservations WHERE order_id = ? AND product_id = ?`),
		orderID, productID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check reservation: %w", err)
	}
	return n > 0, nil
}

// saveTx inserta si el agregado es nuevo; si no, actualiza sólo si nadie lo cambió desde la lectura.
func (r *InventoryRepoSQL) saveTx(ctx context.Context, tx sqldb.DBTX, inv *inventoryDomain.Inventory) error {
	d := r.writer.Dialect()

	if inv.Version() == 0 {
		_, err := tx.ExecContext(ctx, d.Rebind(
			`INSERT INTO inventories (`+inventoryColumns+`) VALUES (?, ?, ?, ?, 1, ?, ?)`),
			inv.ID(), inv.ProductID(), inv.Quantity(), inv.LowStockThreshold(), inv.CreatedAt(), inv.UpdatedAt(),
		)
		if sqldb.IsUniqueViolation(err) {
			return inventoryDomain.ErrInventoryAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("failed to insert inventory: %w", err)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, d.Rebind(
		`UPDATE inventories SET quantity = ?, low_stock_threshold = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`),
		inv.Quantity(), inv.LowStockThreshold(), inv.UpdatedAt(), inv.ID(), inv.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}
	return sqldb.ExpectOneRow(res, inventoryDomain.ErrConcurrentModification)
}

func (r *InventoryRepoSQL) findOne(ctx context.Context, query string, arg string) (*inventoryDomain.Inventory, error) {
	var (
		id, productID                string
		quantity, threshold, version int
		createdAt, updatedAt         time.Time
	)
	err := r.writer.DB().QueryRowContext(ctx, r.writer.Dialect().Rebind(query), arg).
		Scan(&id, &productID, &quantity, &threshold, &version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inventoryDomain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return inventoryDomain.ReconstituteInventory(id, productID, quantity, threshold, version, createdAt, updatedAt), nil
}

// Verificación en tiempo de compilación.
var _ inventoryDomain.InventoryRepository = (*InventoryRepoSQL)(nil)

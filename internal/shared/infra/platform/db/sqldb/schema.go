package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Tipos de columna que cambian entre motores.
type columnTypes struct {
	id   string
	json string
	ts   string
}

func (d Dialect) types() columnTypes {
	if d == Postgres {
		return columnTypes{id: "UUID", json: "JSONB", ts: "TIMESTAMPTZ"}
	}
	return columnTypes{id: "TEXT", json: "TEXT", ts: "DATETIME"}
}

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS users (
    id {{id}} PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id {{id}} PRIMARY KEY,
    name TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS carts (
    id {{id}} PRIMARY KEY,
    user_id {{id}} NOT NULL UNIQUE,
    version INTEGER NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items (
    cart_id {{id}} NOT NULL,
    product_id {{id}} NOT NULL,
    position INTEGER NOT NULL,
    product_name TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL,
    PRIMARY KEY (cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
    id {{id}} PRIMARY KEY,
    user_id {{id}} NOT NULL,
    status TEXT NOT NULL,
    total_price DOUBLE PRECISION NOT NULL,
    source_cart_id TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id, created_at);

CREATE TABLE IF NOT EXISTS order_items (
    order_id {{id}} NOT NULL,
    line_no INTEGER NOT NULL,
    product_id {{id}} NOT NULL,
    product_name TEXT NOT NULL,
    price_at_order DOUBLE PRECISION NOT NULL,
    quantity INTEGER NOT NULL,
    line_total DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (order_id, line_no)
);

CREATE TABLE IF NOT EXISTS inventories (
    id {{id}} PRIMARY KEY,
    product_id {{id}} NOT NULL UNIQUE,
    quantity INTEGER NOT NULL CHECK (quantity >= 0),
    low_stock_threshold INTEGER NOT NULL CHECK (low_stock_threshold >= 0),
    version INTEGER NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_reservations (
    order_id {{id}} NOT NULL,
    product_id {{id}} NOT NULL,
    quantity INTEGER NOT NULL,
    created_at {{ts}} NOT NULL,
    PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS outbox (
    id {{id}} PRIMARY KEY,
    aggregate_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    payload {{json}} NOT NULL,
    status TEXT NOT NULL DEFAULT 'PENDING',
    retry_count INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    created_at {{ts}} NOT NULL,
    processed_at {{ts}}
);

CREATE INDEX IF NOT EXISTS idx_outbox_aggregate_id ON outbox (aggregate_id);
CREATE INDEX IF NOT EXISTS idx_outbox_status_created_at ON outbox (status, created_at);
`

// Schema devuelve las sentencias DDL del dialecto.
func (d Dialect) Schema() []string {
	t := d.types()
	ddl := strings.NewReplacer("{{id}}", t.id, "{{json}}", t.json, "{{ts}}", t.ts).Replace(schemaTemplate)

	var stmts []string
	for _, stmt := range strings.Split(ddl, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", d, err)
		}
	}
	return nil
}

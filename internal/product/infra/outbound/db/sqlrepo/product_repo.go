// Package sqlrepo implementa ProductRepository sobre SQLite o PostgreSQL.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	productDomain "github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

type ProductRepoSQL struct {
	writer *outbox.Writer
}

func NewProductRepoSQL(writer *outbox.Writer) *ProductRepoSQL {
	return &ProductRepoSQL{writer: writer}
}

const productColumns = `id, name, price, image_url, created_at, updated_at`

func (r *ProductRepoSQL) Save(ctx context.Context, p *productDomain.Product) error {
	err := r.writer.Save(ctx, p, func(ctx context.Context, tx sqldb.DBTX) error {
		d := r.writer.Dialect()
		if !p.IsPersisted() {
			_, err := tx.ExecContext(ctx, d.Rebind(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
				p.ID(), p.Name(), p.Price(), p.ImageURL(), p.CreatedAt(), p.UpdatedAt())
			if err != nil {
				return fmt.Errorf("failed to insert product: %w", err)
			}
			return nil
		}
		res, err := tx.ExecContext(ctx, d.Rebind(`UPDATE products SET name = ?, price = ?, image_url = ?, updated_at = ? WHERE id = ?`),
			p.Name(), p.Price(), p.ImageURL(), p.UpdatedAt(), p.ID())
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return sqldb.ExpectOneRow(res, productDomain.ErrProductNotFound)
	})
	if err != nil {
		return err
	}
	p.MarkSaved()
	return nil
}

func (r *ProductRepoSQL) FindByID(ctx context.Context, id string) (*productDomain.Product, error) {
	row := r.writer.DB().QueryRowContext(ctx, r.writer.Dialect().Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, productDomain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepoSQL) List(ctx context.Context, limit, offset int) ([]*productDomain.Product, error) {
	rows, err := r.writer.DB().QueryContext(ctx, r.writer.Dialect().Rebind(
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id LIMIT ? OFFSET ?`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*productDomain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (*productDomain.Product, error) {
	var (
		id, name, imageURL   string
		price                float64
		createdAt, updatedAt time.Time
	)
	if err := s.Scan(&id, &name, &price, &imageURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return productDomain.ReconstituteProduct(id, name, price, imageURL, createdAt, updatedAt), nil
}

var _ productDomain.ProductRepository = (*ProductRepoSQL)(nil)

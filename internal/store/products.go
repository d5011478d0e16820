package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"retailshop/m/domain"
)

const productColumns = `id, name, category, price, stock, unit, gst_rate, min_stock, hsn_code, created_at, updated_at`

func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	return r.selectProducts(ctx, sq.Select(productColumns).From("products").OrderBy("name"))
}

// SearchProducts matches query case-insensitively against name, category and
// HSN code.
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	qb := sq.Select(productColumns).
		From("products").
		Where(sq.Or{
			sq.Like{"LOWER(name)": pattern},
			sq.Like{"LOWER(category)": pattern},
			sq.Like{"LOWER(hsn_code)": pattern},
		}).
		OrderBy("name")

	return r.selectProducts(ctx, qb)
}

// LowStockProducts lists products at or below their minimum stock, emptiest
// first.
func (r *Repository) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	qb := sq.Select(productColumns).
		From("products").
		Where("stock <= min_stock").
		OrderBy("stock ASC", "name")

	return r.selectProducts(ctx, qb)
}

func (r *Repository) selectProducts(ctx context.Context, qb sq.SelectBuilder) ([]domain.Product, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	return products, nil
}

func (r *Repository) Product(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product

	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}

	return p, nil
}

// ProductsByIDs returns the products that exist among ids, keyed by id.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	for _, p := range products {
		result[p.ID] = p
	}

	return result, nil
}

// CreateProduct stores p, assigning an id and timestamps when missing.
func (r *Repository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p = r.newProduct(p)

	if err := insertProduct(ctx, r.db, p); err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

// CreateProducts stores all of products in one transaction. Nothing is kept
// when any insert fails.
func (r *Repository) CreateProducts(ctx context.Context, products []domain.Product) (int, error) {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range products {
			if err := insertProduct(ctx, tx, r.newProduct(p)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(products), nil
}

func (r *Repository) newProduct(p domain.Product) domain.Product {
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV4()).String()
	}

	now := r.timestamp()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if p.Unit == "" {
		p.Unit = domain.DefaultUnit
	}

	return p
}

func (r *Repository) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	existing, err := r.Product(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.timestamp()

	if p.Unit == "" {
		p.Unit = domain.DefaultUnit
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`UPDATE products
		SET name = ?, category = ?, price = ?, stock = ?, unit = ?, gst_rate = ?, min_stock = ?, hsn_code = ?, updated_at = ?
		WHERE id = ?`),
		p.Name, p.Category, p.Price, p.Stock, p.Unit, p.GSTRate, p.MinStock, p.HSNCode, p.UpdatedAt, p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %s: %w", p.ID, err)
	}

	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	if n == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *Repository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return n, nil
}

func insertProduct(ctx context.Context, ex execer, p domain.Product) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`INSERT INTO products
		(id, name, category, price, stock, unit, gst_rate, min_stock, hsn_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Category, p.Price, p.Stock, p.Unit, p.GSTRate, p.MinStock, p.HSNCode,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.Name, err)
	}

	return nil
}

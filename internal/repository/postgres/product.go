package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/pkg/database"
	apperrors "github.com/storeline/products/pkg/errors"
)

const productColumns = `id, name, description, categoryid, brand, price::text, img_name, img_src`

// ProductRepository implements product persistence using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product and returns its id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.NewProduct) (int64, error) {
	query := `
		INSERT INTO products (name, description, categoryid, brand, price, img_name, img_src)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.CategoryID,
		p.Brand,
		p.Price,
		p.ImgName,
		p.ImgSrc,
	).Scan(&id)
	end(err)
	if err != nil {
		return 0, apperrors.Store("insert product", err)
	}
	return id, nil
}

// Search returns products whose brand and/or name match the filter patterns.
func (r *ProductRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error) {
	var (
		where string
		args  []any
	)
	switch {
	case filter.Brand != nil && filter.Keyword != nil:
		where, args = "brand ILIKE $1 AND name ILIKE $2", []any{*filter.Brand, *filter.Keyword}
	case filter.Brand != nil:
		where, args = "brand ILIKE $1", []any{*filter.Brand}
	case filter.Keyword != nil:
		where, args = "name ILIKE $1", []any{*filter.Keyword}
	default:
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY id`
	return r.queryProducts(ctx, "SearchProducts", query, args...)
}

// GetDetail returns a product with its category name, or nil if it does not exist.
func (r *ProductRepository) GetDetail(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	query := `
		SELECT p.name, p.description, p.categoryid, c.name AS categoryname, p.brand, p.price::text
		FROM products p
		INNER JOIN categories c ON p.categoryid = c.id
		WHERE p.id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProductDetail", query)
	var (
		d     domain.ProductDetail
		price string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.Name,
		&d.Description,
		&d.CategoryID,
		&d.CategoryName,
		&d.Brand,
		&price,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		end(nil)
		return nil, nil
	}
	end(err)
	if err != nil {
		return nil, apperrors.Store("get product detail", err)
	}

	if d.Price, err = domain.ParsePrice(price); err != nil {
		return nil, apperrors.Store("get product detail", fmt.Errorf("parse price %q: %w", price, err))
	}
	return &d, nil
}

// List returns every product.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	return r.queryProducts(ctx, "ListProducts", query)
}

// Delete removes a product by id. Reviews of the product are left in place.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProduct", query)
	tag, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return false, apperrors.Store("delete product", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, op, query string, args ...any) (products []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store(op, err)
	}
	defer rows.Close()

	products = []domain.Product{}
	for rows.Next() {
		var (
			p     domain.Product
			price string
		)
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.CategoryID,
			&p.Brand,
			&price,
			&p.ImgName,
			&p.ImgSrc,
		); err != nil {
			return nil, apperrors.Store(op, fmt.Errorf("scan product: %w", err))
		}
		if p.Price, err = domain.ParsePrice(price); err != nil {
			return nil, apperrors.Store(op, fmt.Errorf("parse price %q: %w", price, err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(op, fmt.Errorf("iterate products: %w", err))
	}
	return products, nil
}

package repository

import (
	"context"

	"github.com/storeline/products/internal/domain"
)

// ProductRepository defines product persistence. Every error it returns is a
// store failure.
type ProductRepository interface {
	// Create inserts a product and returns its generated id.
	Create(ctx context.Context, p *domain.NewProduct) (int64, error)

	// Search returns products matching a non-empty filter.
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error)

	// GetDetail returns the product joined with its category, or nil when no
	// row matches.
	GetDetail(ctx context.Context, id int64) (*domain.ProductDetail, error)

	// List returns every product ordered by id.
	List(ctx context.Context) ([]domain.Product, error)

	// Delete removes a product and reports whether a row was removed.
	// Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) (bool, error)
}

// ReviewRepository defines review persistence.
type ReviewRepository interface {
	// Create inserts a review and returns its generated id.
	Create(ctx context.Context, r *domain.Review) (int64, error)

	// ListByProduct returns the reviews of a product with their authors.
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductReview, error)
}

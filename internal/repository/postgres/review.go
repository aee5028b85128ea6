package postgres

import (
	"context"
	"fmt"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/pkg/database"
	apperrors "github.com/storeline/products/pkg/errors"
)

// ReviewRepository implements review persistence using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review. A missing product or user surfaces as a foreign
// key violation from the store.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (int64, error) {
	query := `
		INSERT INTO reviews (userid, productid, rating, review)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	var id int64
	err := r.pool.QueryRow(ctx, query, rv.UserID, rv.ProductID, rv.Rating, rv.Text).Scan(&id)
	end(err)
	if err != nil {
		return 0, apperrors.Store("insert review", err)
	}
	return id, nil
}

// ListByProduct returns every review of a product joined with its author.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) (reviews []domain.ProductReview, err error) {
	query := `
		SELECT p.id AS productid, u.id AS userid, u.username, rv.rating, rv.review, rv.created_at
		FROM products p
		INNER JOIN reviews rv ON p.id = rv.productid
		INNER JOIN users u ON u.id = rv.userid
		WHERE p.id = $1
		ORDER BY rv.id`

	ctx, end := database.TraceQuery(ctx, "ListReviewsByProduct", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, apperrors.Store("list reviews", err)
	}
	defer rows.Close()

	reviews = []domain.ProductReview{}
	for rows.Next() {
		var rv domain.ProductReview
		if err := rows.Scan(
			&rv.ProductID,
			&rv.UserID,
			&rv.Username,
			&rv.Rating,
			&rv.Review,
			&rv.CreatedAt,
		); err != nil {
			return nil, apperrors.Store("list reviews", fmt.Errorf("scan review: %w", err))
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("list reviews", fmt.Errorf("iterate reviews: %w", err))
	}
	return reviews, nil
}

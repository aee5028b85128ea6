package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/repository"
	"github.com/storeline/products/pkg/validator"
)

// CreateReviewInput holds a submitted review. Rating arrives as text so that
// both JSON numbers and numeric strings are accepted.
type CreateReviewInput struct {
	UserID    int64  `json:"-"`
	ProductID int64  `json:"-"`
	Rating    string `json:"rating" validate:"intrange=0 5" msg:"Please provide a valid rating"`
	Review    string `json:"review" validate:"required" msg:"Please provide a valid review"`
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo   repository.ReviewRepository
	events EventPublisher
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, events EventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateReview validates and stores a review and returns its id.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (int64, error) {
	if err := validator.Validate(input); err != nil {
		return 0, err
	}
	rating, err := strconv.Atoi(input.Rating)
	if err != nil {
		return 0, fmt.Errorf("parse validated rating %q: %w", input.Rating, err)
	}

	review := &domain.Review{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Rating:    rating,
		Text:      input.Review,
	}
	id, err := s.repo.Create(ctx, review)
	if err != nil {
		return 0, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", id),
		slog.Int64("product_id", review.ProductID),
		slog.Int64("user_id", review.UserID),
	)
	if err := s.events.ReviewCreated(ctx, id, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review created event",
			slog.Int64("review_id", id),
			slog.String("error", err.Error()),
		)
	}
	return id, nil
}

// ListReviews returns the reviews of a product.
func (s *ReviewService) ListReviews(ctx context.Context, productID int64) ([]domain.ProductReview, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	return reviews, nil
}

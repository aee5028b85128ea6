package service

import (
	"context"

	"github.com/storeline/products/internal/domain"
)

// EventPublisher announces committed changes. Failures are logged by the
// services and never fail the request.
type EventPublisher interface {
	ProductCreated(ctx context.Context, id int64, p *domain.NewProduct) error
	ProductDeleted(ctx context.Context, id int64) error
	ReviewCreated(ctx context.Context, id int64, r *domain.Review) error
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/repository"
	"github.com/storeline/products/internal/storage"
	"github.com/storeline/products/pkg/validator"
)

// CreateProductInput holds the submitted product fields. ImageName is the
// stored upload, if one was accepted.
type CreateProductInput struct {
	Name        string  `form:"name" validate:"required" msg:"Please provide a valid name."`
	Description string  `form:"description" validate:"required" msg:"Please provide a valid description"`
	CategoryID  string  `form:"categoryid" validate:"isint" msg:"Please provide a valid categoryid"`
	Brand       string  `form:"brand" validate:"required" msg:"Please provide a valid brand"`
	Price       string  `form:"price" validate:"required" msg:"Please provide a valid price"`
	ImgSrc      *string `form:"img_src"`
	ImageName   *string `form:"-"`
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo   repository.ProductRepository
	images storage.Storage
	events EventPublisher
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, images storage.Storage, events EventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		events: events,
		logger: logger,
	}
}

// CreateProduct validates and inserts a product and returns its id. When the
// product is not created, an already stored image is removed again.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (id int64, err error) {
	defer func() {
		if err != nil && input.ImageName != nil {
			s.discardImage(ctx, *input.ImageName)
		}
	}()

	if err := validator.Validate(input); err != nil {
		return 0, err
	}
	categoryID, err := strconv.ParseInt(input.CategoryID, 10, 64)
	if err != nil {
		return 0, validator.New(validator.Violation{
			Value:    input.CategoryID,
			Msg:      "Please provide a valid categoryid",
			Param:    "categoryid",
			Location: validator.LocationBody,
		})
	}

	product := &domain.NewProduct{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  categoryID,
		Brand:       input.Brand,
		Price:       input.Price,
		ImgName:     input.ImageName,
		ImgSrc:      input.ImgSrc,
	}
	if product.ImgSrc != nil && *product.ImgSrc == "" {
		product.ImgSrc = nil
	}

	id, err = s.repo.Create(ctx, product)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", id),
		slog.Bool("has_image", product.ImgName != nil),
	)
	if err := s.events.ProductCreated(ctx, id, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product created event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	return id, nil
}

func (s *ProductService) discardImage(ctx context.Context, name string) {
	if err := s.images.Delete(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "failed to remove orphaned image",
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
	}
}

// SearchProducts returns products whose brand and/or name contain the given
// terms. Two empty terms match nothing.
func (s *ProductService) SearchProducts(ctx context.Context, brand, keyword string) ([]domain.Product, error) {
	filter := domain.NewSearchFilter(brand, keyword)
	if filter.IsEmpty() {
		return []domain.Product{}, nil
	}

	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// GetProduct returns a product with its category name, or nil if none exists.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return detail, nil
}

// ListProducts returns every product.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// DeleteProduct removes a product. A missing product is not an error.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if !deleted {
		return nil
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	if err := s.events.ProductDeleted(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

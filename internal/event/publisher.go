package event

import (
	"context"
	"fmt"
	"strconv"

	"github.com/storeline/products/internal/domain"
	pkgkafka "github.com/storeline/products/pkg/kafka"
	"github.com/storeline/products/pkg/logger"
)

// Source identifies this service on every event.
const Source = "products"

const (
	aggregateProduct = "product"
	aggregateReview  = "review"
)

// Topics written by this service.
var (
	TopicProductCreated = pkgkafka.Topic(aggregateProduct, "created")
	TopicProductDeleted = pkgkafka.Topic(aggregateProduct, "deleted")
	TopicReviewCreated  = pkgkafka.Topic(aggregateReview, "created")
)

// ProductCreatedData is the payload of product.created.
type ProductCreatedData struct {
	ProductID  int64   `json:"productid"`
	Name       string  `json:"name"`
	CategoryID int64   `json:"categoryid"`
	Brand      string  `json:"brand"`
	Price      string  `json:"price"`
	ImgName    *string `json:"img_name"`
	ImgSrc     *string `json:"img_src"`
}

// ProductDeletedData is the payload of product.deleted.
type ProductDeletedData struct {
	ProductID int64 `json:"productid"`
}

// ReviewCreatedData is the payload of review.created.
type ReviewCreatedData struct {
	ReviewID  int64 `json:"reviewid"`
	ProductID int64 `json:"productid"`
	UserID    int64 `json:"userid"`
	Rating    int   `json:"rating"`
}

// EventWriter is what Publisher needs from a Kafka producer.
type EventWriter interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Publisher turns domain changes into Kafka events.
type Publisher struct {
	writer EventWriter
}

// NewPublisher creates a publisher writing through w.
func NewPublisher(w EventWriter) *Publisher {
	return &Publisher{writer: w}
}

// ProductCreated publishes product.created.
func (p *Publisher) ProductCreated(ctx context.Context, id int64, np *domain.NewProduct) error {
	return p.publish(ctx, TopicProductCreated, "product.created", aggregateProduct, id, ProductCreatedData{
		ProductID:  id,
		Name:       np.Name,
		CategoryID: np.CategoryID,
		Brand:      np.Brand,
		Price:      np.Price,
		ImgName:    np.ImgName,
		ImgSrc:     np.ImgSrc,
	})
}

// ProductDeleted publishes product.deleted.
func (p *Publisher) ProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicProductDeleted, "product.deleted", aggregateProduct, id, ProductDeletedData{ProductID: id})
}

// ReviewCreated publishes review.created, keyed by product so a product's
// reviews stay ordered.
func (p *Publisher) ReviewCreated(ctx context.Context, id int64, rv *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, "review.created", aggregateReview, rv.ProductID, ReviewCreatedData{
		ReviewID:  id,
		ProductID: rv.ProductID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
	})
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregate string, key int64, data any) error {
	evt, err := pkgkafka.NewEvent(eventType, aggregate, strconv.FormatInt(key, 10), Source, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)
	return p.writer.Publish(ctx, topic, evt)
}

// Noop discards every event. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) ProductCreated(context.Context, int64, *domain.NewProduct) error { return nil }
func (Noop) ProductDeleted(context.Context, int64) error                      { return nil }
func (Noop) ReviewCreated(context.Context, int64, *domain.Review) error       { return nil }

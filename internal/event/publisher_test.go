package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storeline/products/internal/domain"
	pkgkafka "github.com/storeline/products/pkg/kafka"
	"github.com/storeline/products/pkg/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func capture(w *mockWriter, topic string, err error) *pkgkafka.Event {
	var captured pkgkafka.Event
	w.On("Publish", mock.Anything, topic, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) {
			captured = *args.Get(2).(*pkgkafka.Event)
		}).
		Return(err).Once()
	return &captured
}

func TestPublisher_ProductCreated(t *testing.T) {
	w := new(mockWriter)
	evt := capture(w, "storeline.product.created", nil)

	ctx := logger.WithCorrelationID(context.Background(), "corr-9")
	name := "myImage-1.png"
	err := NewPublisher(w).ProductCreated(ctx, 12, &domain.NewProduct{
		Name: "Air Runner", CategoryID: 2, Brand: "Nike", Price: "59.90", ImgName: &name,
	})
	require.NoError(t, err)
	w.AssertExpectations(t)

	assert.Equal(t, "product.created", evt.EventType)
	assert.Equal(t, "12", evt.AggregateID)
	assert.Equal(t, "products", evt.Source)
	assert.Equal(t, "corr-9", evt.CorrelationID)

	var data ProductCreatedData
	require.NoError(t, json.Unmarshal(evt.Data, &data))
	assert.Equal(t, int64(12), data.ProductID)
	assert.Equal(t, "59.90", data.Price)
	assert.Nil(t, data.ImgSrc)
}

func TestPublisher_ProductDeleted(t *testing.T) {
	w := new(mockWriter)
	evt := capture(w, "storeline.product.deleted", nil)

	require.NoError(t, NewPublisher(w).ProductDeleted(context.Background(), 4))
	assert.Equal(t, "4", evt.AggregateID)
	assert.JSONEq(t, `{"productid":4}`, string(evt.Data))
}

func TestPublisher_ReviewCreated_KeyedByProduct(t *testing.T) {
	w := new(mockWriter)
	evt := capture(w, "storeline.review.created", nil)

	err := NewPublisher(w).ReviewCreated(context.Background(), 41, &domain.Review{UserID: 7, ProductID: 3, Rating: 5, Text: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "3", evt.AggregateID)
	assert.Equal(t, "review", evt.AggregateType)
	assert.JSONEq(t, `{"reviewid":41,"productid":3,"userid":7,"rating":5}`, string(evt.Data))
}

func TestPublisher_WriterError(t *testing.T) {
	w := new(mockWriter)
	capture(w, "storeline.product.deleted", errors.New("broker down"))

	err := NewPublisher(w).ProductDeleted(context.Background(), 4)
	assert.EqualError(t, err, "broker down")
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.ProductCreated(context.Background(), 1, &domain.NewProduct{}))
	assert.NoError(t, n.ProductDeleted(context.Background(), 1))
	assert.NoError(t, n.ReviewCreated(context.Background(), 1, &domain.Review{}))
}

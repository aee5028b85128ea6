package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/storage/memory"
	apperrors "github.com/storeline/products/pkg/errors"
	"github.com/storeline/products/pkg/validator"
)

type productFixture struct {
	repo   *mockProductRepository
	images *memory.Storage
	events *mockPublisher
	svc    *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		repo:   new(mockProductRepository),
		images: memory.New("/uploads"),
		events: new(mockPublisher),
	}
	f.svc = NewProductService(f.repo, f.images, f.events, newTestLogger())
	return f
}

func strPtr(s string) *string { return &s }

func validInput() *CreateProductInput {
	return &CreateProductInput{
		Name:        "Air Runner",
		Description: "Light running shoe",
		CategoryID:  "2",
		Brand:       "Nike",
		Price:       "59.90",
	}
}

func storeImage(t *testing.T, f *productFixture, name string) *string {
	t.Helper()
	_, err := f.images.Save(context.Background(), name, strings.NewReader("png"), domain.MaxImageBytes)
	require.NoError(t, err)
	return &name
}

func TestCreateProduct_Success(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	in := validInput()
	in.ImgSrc = strPtr("")
	in.ImageName = storeImage(t, f, "myImage-1.png")

	f.repo.On("Create", ctx, mock.MatchedBy(func(p *domain.NewProduct) bool {
		return p.Name == "Air Runner" && p.CategoryID == 2 && p.Price == "59.90" &&
			p.ImgSrc == nil && p.ImgName != nil && *p.ImgName == "myImage-1.png"
	})).Return(int64(12), nil)
	f.events.On("ProductCreated", ctx, int64(12), mock.AnythingOfType("*domain.NewProduct")).Return(nil)

	id, err := f.svc.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 1, f.images.Len(), "image kept")
	f.repo.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCreateProduct_KeepsNonEmptyImgSrc(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	in := validInput()
	in.ImgSrc = strPtr("https://cdn.example.com/a.png")

	f.repo.On("Create", ctx, mock.MatchedBy(func(p *domain.NewProduct) bool {
		return p.ImgSrc != nil && *p.ImgSrc == "https://cdn.example.com/a.png" && p.ImgName == nil
	})).Return(int64(3), nil)
	f.events.On("ProductCreated", ctx, int64(3), mock.Anything).Return(nil)

	_, err := f.svc.CreateProduct(ctx, in)
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestCreateProduct_ValidationListsEveryViolation(t *testing.T) {
	f := newProductFixture()
	in := &CreateProductInput{CategoryID: "two", ImageName: storeImage(t, f, "myImage-2.png")}

	_, err := f.svc.CreateProduct(context.Background(), in)
	require.Error(t, err)

	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, map[string]string{
		"name":        "Please provide a valid name.",
		"description": "Please provide a valid description",
		"categoryid":  "Please provide a valid categoryid",
		"brand":       "Please provide a valid brand",
		"price":       "Please provide a valid price",
	}, valErr.Fields())
	assert.Equal(t, "name", valErr.Violations[0].Param)
	assert.Equal(t, "two", valErr.Violations[2].Value)

	assert.Equal(t, 0, f.images.Len(), "orphaned image removed")
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_CategoryIDOverflow(t *testing.T) {
	f := newProductFixture()
	in := validInput()
	in.CategoryID = "99999999999999999999"

	_, err := f.svc.CreateProduct(context.Background(), in)

	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "categoryid", valErr.Violations[0].Param)
}

func TestCreateProduct_StoreErrorRemovesImage(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	in := validInput()
	in.ImageName = storeImage(t, f, "myImage-3.png")
	f.repo.On("Create", ctx, mock.Anything).Return(int64(0), apperrors.Store("insert product", errors.New("fk violation")))

	_, err := f.svc.CreateProduct(ctx, in)
	require.Error(t, err)
	assert.True(t, apperrors.IsStore(err))
	assert.Equal(t, 0, f.images.Len())
	f.events.AssertNotCalled(t, "ProductCreated", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_PublishFailureIgnored(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.repo.On("Create", ctx, mock.Anything).Return(int64(8), nil)
	f.events.On("ProductCreated", ctx, int64(8), mock.Anything).Return(errors.New("broker down"))

	id, err := f.svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("both empty skips store", func(t *testing.T) {
		f := newProductFixture()
		products, err := f.svc.SearchProducts(ctx, "", "")
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
		f.repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("builds filter", func(t *testing.T) {
		f := newProductFixture()
		want := []domain.Product{{ID: 1, Name: "Air Runner"}}
		f.repo.On("Search", ctx, domain.SearchFilter{Keyword: strPtr("%air runner%")}).Return(want, nil)

		products, err := f.svc.SearchProducts(ctx, "", "air%20runner")
		require.NoError(t, err)
		assert.Equal(t, want, products)
		f.repo.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("Search", ctx, mock.Anything).Return(nil, apperrors.Store("search", errors.New("down")))

		_, err := f.svc.SearchProducts(ctx, "nike", "")
		assert.True(t, apperrors.IsStore(err))
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	f.repo.On("GetDetail", ctx, int64(1)).Return(&domain.ProductDetail{Name: "Air Runner", CategoryName: "Shoes"}, nil)
	f.repo.On("GetDetail", ctx, int64(2)).Return(nil, nil)

	d, err := f.svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", d.CategoryName)

	d, err = f.svc.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestListProducts_StoreError(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	f.repo.On("List", ctx).Return(nil, apperrors.Store("list", errors.New("down")))

	_, err := f.svc.ListProducts(ctx)
	assert.True(t, apperrors.IsStore(err))
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted publishes event", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("Delete", ctx, int64(4)).Return(true, nil)
		f.events.On("ProductDeleted", ctx, int64(4)).Return(nil)

		require.NoError(t, f.svc.DeleteProduct(ctx, 4))
		f.events.AssertExpectations(t)
	})

	t.Run("missing product is not an error", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("Delete", ctx, int64(404)).Return(false, nil)

		require.NoError(t, f.svc.DeleteProduct(ctx, 404))
		f.events.AssertNotCalled(t, "ProductDeleted", mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("Delete", ctx, int64(4)).Return(false, apperrors.Store("delete", errors.New("down")))

		assert.Error(t, f.svc.DeleteProduct(ctx, 4))
	})
}

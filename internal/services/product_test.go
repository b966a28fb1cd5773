package service_test

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Found", func(t *testing.T) {
		// Arrange
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		product := &models.Product{ID: uuid.New(), Name: "Headphones", Price: decimal.NewFromInt(99)}

		repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()

		// Act
		got, err := productService.GetProductByID(ctx, product.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		id := uuid.New()

		repo.On("GetProductByID", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		got, err := productService.GetProductByID(ctx, id)

		assert.Nil(t, got)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		id := uuid.New()

		repo.On("GetProductByID", mock.Anything, id).Return(nil, errors.New("connection reset")).Once()

		_, err := productService.GetProductByID(ctx, id)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestProductService_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Defaults applied", func(t *testing.T) {
		// Arrange
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		products := []*models.Product{{ID: uuid.New()}, {ID: uuid.New()}}

		expectedFilter := models.ProductFilter{Page: models.DefaultPage, Limit: models.DefaultPageSize}
		repo.On("ListProducts", mock.Anything, expectedFilter).Return(products, 26, nil).Once()

		// Act
		resp, err := productService.ListProducts(ctx, models.ProductFilter{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 26, resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 12, resp.PageSize)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, products, resp.Data)
		repo.AssertExpectations(t)
	})

	t.Run("Success - Limit clamped and empty page", func(t *testing.T) {
		// Arrange
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		minPrice := decimal.NewFromInt(10)

		filter := models.ProductFilter{Category: models.CategoryBooks, Search: "go", MinPrice: &minPrice, Page: 9, Limit: 500}
		expectedFilter := filter
		expectedFilter.Limit = models.MaxPageSize

		repo.On("ListProducts", mock.Anything, expectedFilter).Return(nil, 0, nil).Once()

		// Act
		resp, err := productService.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []*models.Product{}, resp.Data)
		assert.Equal(t, 100, resp.PageSize)
		assert.Equal(t, 0, resp.TotalPages)
	})

	t.Run("Failure - Unknown category", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)

		_, err := productService.ListProducts(ctx, models.ProductFilter{Category: "toys"})

		requireAppError(t, err, appErrors.ErrCodeValidation)
		repo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Inverted price range", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)
		minPrice, maxPrice := decimal.NewFromInt(50), decimal.NewFromInt(10)

		_, err := productService.ListProducts(ctx, models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

		requireAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)

		repo.On("ListProducts", mock.Anything, mock.AnythingOfType("models.ProductFilter")).Return(nil, 0, errors.New("timeout")).Once()

		_, err := productService.ListProducts(ctx, models.ProductFilter{})

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestProductService_ListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Categories", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)

		repo.On("ListCategories", mock.Anything).Return([]string{"books", "electronics"}, nil).Once()

		categories, err := productService.ListCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"books", "electronics"}, categories)
	})

	t.Run("Success - Empty catalog", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		productService := service.NewProductService(repo)

		repo.On("ListCategories", mock.Anything).Return(nil, nil).Once()

		categories, err := productService.ListCategories(ctx)

		require.NoError(t, err)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})
}

package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	cacheMocks "github.com/aaravmahajanofficial/storefront-api/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testCacheTTL = 5 * time.Minute

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sanitizes Description", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		product := newProduct(1, "Honey", "4.99", 10)
		product.Description = `<b>Raw</b> honey<script>alert(1)</script>`
		mockRepo.On("GetProductByID", ctx, int64(1)).Return(product, nil).Once()

		// Act
		result, err := productService.GetProduct(ctx, 1)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "<b>Raw</b> honey", result.Description)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Inactive Product Is Hidden", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		product := newProduct(2, "Retired", "1.00", 0)
		product.IsActive = false
		mockRepo.On("GetProductByID", ctx, int64(2)).Return(product, nil).Once()

		// Act
		result, err := productService.GetProduct(ctx, 2)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		mockRepo.On("GetProductByID", ctx, int64(3)).Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := productService.GetProduct(ctx, 3)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		dbErr := errors.New("connection refused")
		mockRepo.On("GetProductByID", ctx, int64(4)).Return(nil, dbErr).Once()

		// Act
		result, err := productService.GetProduct(ctx, 4)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to retrieve product")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Defaults Paging", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		products := []*models.Product{newProduct(1, "A", "1.00", 1), newProduct(2, "B", "2.00", 1)}
		mockRepo.On("ListActiveProducts", ctx, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.Page == 1 && f.PageSize == 10 && f.CategoryID == nil
		})).Return(products, 12, nil).Once()

		// Act
		result, total, err := productService.ListProducts(ctx, &models.ProductFilter{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Len(t, result, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Filters By Category", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		categoryID := int64(3)
		mockRepo.On("ListActiveProducts", ctx, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID && f.Page == 2 && f.PageSize == 20
		})).Return([]*models.Product{}, 0, nil).Once()

		// Act
		result, total, err := productService.ListProducts(ctx, &models.ProductFilter{CategoryID: &categoryID, Page: 2, PageSize: 20})

		// Assert
		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, result)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		mockRepo.On("ListActiveProducts", ctx, mock.Anything).Return(nil, 0, errors.New("boom")).Once()

		// Act
		result, _, err := productService.ListProducts(ctx, &models.ProductFilter{})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to fetch products")
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	categories := []*models.Category{{ID: 1, Name: "Fruit", Slug: "fruit"}, {ID: 2, Name: "Dairy", Slug: "dairy"}}

	t.Run("Success - Cache Hit", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		mockCache := new(cacheMocks.Cache)
		productService := service.NewProductService(mockRepo, mockCache, testCacheTTL)
		mockCache.On("Get", ctx, "categories:all", mock.Anything).Run(func(args mock.Arguments) {
			*args.Get(2).(*[]*models.Category) = categories
		}).Return(true, nil).Once()

		// Act
		result, err := productService.ListCategories(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, categories, result)
		mockRepo.AssertNotCalled(t, "ListCategories", mock.Anything)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Miss Populates Cache", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		mockCache := new(cacheMocks.Cache)
		productService := service.NewProductService(mockRepo, mockCache, testCacheTTL)
		mockCache.On("Get", ctx, "categories:all", mock.Anything).Return(false, nil).Once()
		mockRepo.On("ListCategories", ctx).Return(categories, nil).Once()
		mockCache.On("Set", ctx, "categories:all", categories, testCacheTTL).Return(nil).Once()

		// Act
		result, err := productService.ListCategories(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Errors Fall Through", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		mockCache := new(cacheMocks.Cache)
		productService := service.NewProductService(mockRepo, mockCache, testCacheTTL)
		mockCache.On("Get", ctx, "categories:all", mock.Anything).Return(false, errors.New("redis down")).Once()
		mockRepo.On("ListCategories", ctx).Return(categories, nil).Once()
		mockCache.On("Set", ctx, "categories:all", mock.Anything, testCacheTTL).Return(errors.New("redis down")).Once()

		// Act
		result, err := productService.ListCategories(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		mockCache.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		mockRepo.On("ListCategories", ctx).Return(nil, errors.New("boom")).Once()

		// Act
		result, err := productService.ListCategories(ctx)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to fetch categories")
	})
}

func TestGetCategory(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: 5, Name: "Bakery", Slug: "bakery"}

	t.Run("Success - Cache Hit", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		mockCache := new(cacheMocks.Cache)
		productService := service.NewProductService(mockRepo, mockCache, testCacheTTL)
		mockCache.On("Get", ctx, "category:5", mock.AnythingOfType("*models.Category")).Run(func(args mock.Arguments) {
			*args.Get(2).(*models.Category) = *category
		}).Return(true, nil).Once()

		// Act
		result, err := productService.GetCategory(ctx, 5)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "Bakery", result.Name)
		mockRepo.AssertNotCalled(t, "GetCategoryByID", mock.Anything, mock.Anything)
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		mockCache := new(cacheMocks.Cache)
		productService := service.NewProductService(mockRepo, mockCache, testCacheTTL)
		mockCache.On("Get", ctx, "category:5", mock.Anything).Return(false, nil).Once()
		mockRepo.On("GetCategoryByID", ctx, int64(5)).Return(category, nil).Once()
		mockCache.On("Set", ctx, "category:5", category, testCacheTTL).Return(nil).Once()

		// Act
		result, err := productService.GetCategory(ctx, 5)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, category.ID, result.ID)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, nil, testCacheTTL)
		mockRepo.On("GetCategoryByID", ctx, int64(9)).Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := productService.GetCategory(ctx, 9)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Category not found")
	})
}

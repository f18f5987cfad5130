package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-api/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
)

type ProductService interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewProductService caches category reads when c is not nil. Products are never cached so prices stay live.
func NewProductService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, cache: c, ttl: ttl}
}

// GetProduct only returns active products.
func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if !product.IsActive {
		return nil, appErrors.NotFoundError("Product not found")
	}

	sanitizeProduct(product)

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {

	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 10
	}

	products, total, err := s.repo.ListActiveProducts(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	for _, p := range products {
		sanitizeProduct(p)
	}

	return products, total, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	var categories []*models.Category

	if s.fromCache(ctx, cache.CategoryListKey, &categories) {
		return categories, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if categories == nil {
		categories = []*models.Category{}
	}

	for _, c := range categories {
		c.Description = descriptionPolicy.Sanitize(c.Description)
	}

	s.toCache(ctx, cache.CategoryListKey, categories)

	return categories, nil
}

func (s *productService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {

	key := cache.Key(cache.CategoryKeyPrefix, strconv.FormatInt(id, 10))

	category := &models.Category{}
	if s.fromCache(ctx, key, category) {
		return category, nil
	}

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve category").WithError(err)
	}

	category.Description = descriptionPolicy.Sanitize(category.Description)

	s.toCache(ctx, key, category)

	return category, nil
}

// Cache errors are logged and treated as a miss.
func (s *productService) fromCache(ctx context.Context, key string, dest any) bool {

	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return found
}

func (s *productService) toCache(ctx context.Context, key string, value any) {

	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

package repository

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
)

type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	LockProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListActiveProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
	CountProducts(ctx context.Context) (int64, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
}

type productRepository struct {
	DB DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.weight, p.price,
		p.discounted_price, p.stock, p.is_active, p.image_url, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *models.Product, extra ...any) error {
	dest := []any{
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Weight, &p.Price,
		&p.DiscountedPrice, &p.Stock, &p.IsActive, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	}

	return row.Scan(append(dest, extra...)...)
}

// GetProductByID returns the product whether or not it is active.
func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// LockProductByID takes a shared row lock, stock cannot change until the surrounding transaction ends.
func (r *productRepository) LockProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR SHARE`, id)
}

func (r *productRepository) getProduct(ctx context.Context, query string, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), product); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) ListActiveProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	offset := (filter.Page - 1) * filter.PageSize

	var total int

	countQuery := `SELECT COUNT(*) FROM products p WHERE p.is_active AND ($1::bigint IS NULL OR p.category_id = $1)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, filter.CategoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		WHERE p.is_active AND ($1::bigint IS NULL OR p.category_id = $1)
		ORDER BY p.id
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, filter.CategoryID, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, filter.PageSize)

	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var count int64

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// DecrementStock reports false when the product does not have enough stock left.
func (r *productRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, id)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows == 1, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category

	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *productRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories
		WHERE id = $1`

	c := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return c, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
	"github.com/google/uuid"
)

type WishlistRepository interface {
	GetWishlistByUserID(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	CreateWishlistIfNotExists(ctx context.Context, userID uuid.UUID) error
	ListProducts(ctx context.Context, wishlistID uuid.UUID) ([]*models.Product, error)
	AddProduct(ctx context.Context, wishlistID uuid.UUID, productID int64) error
	RemoveProduct(ctx context.Context, wishlistID uuid.UUID, productID int64) error
}

type wishlistRepository struct {
	DB DBTX
}

func NewWishlistRepo(db DBTX) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) GetWishlistByUserID(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM wishlists
		WHERE user_id = $1`

	wishlist := &models.Wishlist{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&wishlist.ID, &wishlist.UserID, &wishlist.CreatedAt, &wishlist.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying wishlist: %w", err)
	}

	return wishlist, nil
}

func (r *wishlistRepository) CreateWishlistIfNotExists(ctx context.Context, userID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO wishlists (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.DB.ExecContext(dbCtx, query, userID); err != nil {
		return fmt.Errorf("failed to create wishlist: %w", err)
	}

	return nil
}

func (r *wishlistRepository) ListProducts(ctx context.Context, wishlistID uuid.UUID) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM wishlist_products wp
		JOIN products p ON p.id = wp.product_id
		WHERE wp.wishlist_id = $1
		ORDER BY p.id`

	rows, err := r.DB.QueryContext(dbCtx, query, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist products: %w", err)
	}

	return products, nil
}

// AddProduct is idempotent.
func (r *wishlistRepository) AddProduct(ctx context.Context, wishlistID uuid.UUID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO wishlist_products (wishlist_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (wishlist_id, product_id) DO NOTHING`

	if _, err := r.DB.ExecContext(dbCtx, query, wishlistID, productID); err != nil {
		return fmt.Errorf("failed to add wishlist product: %w", err)
	}

	return nil
}

// RemoveProduct is idempotent, removing an absent product is not an error.
func (r *wishlistRepository) RemoveProduct(ctx context.Context, wishlistID uuid.UUID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM wishlist_products WHERE wishlist_id = $1 AND product_id = $2`

	if _, err := r.DB.ExecContext(dbCtx, query, wishlistID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist product: %w", err)
	}

	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/google/uuid"
)

type WishlistService interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	AddProduct(ctx context.Context, userID uuid.UUID, productID int64) (*models.Wishlist, error)
	RemoveProduct(ctx context.Context, userID uuid.UUID, productID int64) (*models.Wishlist, error)
}

type wishlistService struct {
	store repository.Store
}

func NewWishlistService(store repository.Store) WishlistService {
	return &wishlistService{store: store}
}

func (s *wishlistService) getOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {

	wishlists := s.store.Wishlists()

	wishlist, err := wishlists.GetWishlistByUserID(ctx, userID)
	if err == nil {
		return wishlist, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to retrieve wishlist").WithError(err)
	}

	if err := wishlists.CreateWishlistIfNotExists(ctx, userID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create wishlist").WithError(err)
	}

	wishlist, err = wishlists.GetWishlistByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve wishlist").WithError(err)
	}

	return wishlist, nil
}

func (s *wishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {

	wishlist, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.store.Wishlists().ListProducts(ctx, wishlist.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve wishlist products").WithError(err)
	}

	for _, p := range products {
		sanitizeProduct(p)
	}

	wishlist.Products = products

	return wishlist, nil
}

// AddProduct is idempotent.
func (s *wishlistService) AddProduct(ctx context.Context, userID uuid.UUID, productID int64) (*models.Wishlist, error) {

	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	wishlist, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Wishlists().AddProduct(ctx, wishlist.ID, productID); err != nil {
		return nil, appErrors.DatabaseError("Failed to add product to wishlist").WithError(err)
	}

	return s.GetWishlist(ctx, userID)
}

// RemoveProduct succeeds when the product exists but is not in the wishlist.
func (s *wishlistService) RemoveProduct(ctx context.Context, userID uuid.UUID, productID int64) (*models.Wishlist, error) {

	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	wishlist, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Wishlists().RemoveProduct(ctx, wishlist.ID, productID); err != nil {
		return nil, appErrors.DatabaseError("Failed to remove product from wishlist").WithError(err)
	}

	return s.GetWishlist(ctx, userID)
}

func (s *wishlistService) ensureProduct(ctx context.Context, productID int64) error {

	if _, err := s.store.Products().GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	return nil
}

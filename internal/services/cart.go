package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ViewCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) error
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error
}

type cartService struct {
	store  repository.Store
	policy models.StockPolicy
}

func NewCartService(store repository.Store, policy models.StockPolicy) CartService {
	if !policy.IsValid() {
		policy = models.StockPolicyBestEffort
	}

	return &cartService{store: store, policy: policy}
}

func (s *cartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return getOrCreateCart(ctx, s.store.Carts(), userID)
}

// getOrCreateCart is safe to race: the insert is a no-op when another request created the cart first.
func getOrCreateCart(ctx context.Context, carts repository.CartRepository, userID uuid.UUID) (*models.Cart, error) {

	cart, err := carts.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if err := carts.CreateCartIfNotExists(ctx, userID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	cart, err = carts.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return cart, nil
}

// ViewCart prices every line at the current product price.
func (s *cartService) ViewCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.Carts().ListItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve cart items").WithError(err)
	}

	total := decimal.Zero

	for i := range items {
		item := &items[i]
		sanitizeProduct(item.Product)
		item.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.LineTotal)
	}

	cart.Items = items
	cart.Total = total

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) error {

	if req.Quantity < 1 {
		return appErrors.ValidationError("Quantity must be at least 1")
	}

	if req.Quantity > models.MaxLineQuantity {
		return quantityTooLarge()
	}

	strict := s.policy == models.StockPolicyStrict

	var product *models.Product
	if !strict {
		p, err := activeProduct(ctx, s.store.Products().GetProductByID, req.ProductID)
		if err != nil {
			return err
		}
		product = p
	}

	err := s.store.ExecTx(ctx, sql.LevelReadCommitted, func(tx repository.Store) error {

		if strict {
			p, err := activeProduct(ctx, tx.Products().LockProductByID, req.ProductID)
			if err != nil {
				return err
			}
			product = p
		}

		cart, err := getOrCreateCart(ctx, tx.Carts(), userID)
		if err != nil {
			return err
		}

		quantity, err := tx.Carts().UpsertItem(ctx, cart.ID, product.ID, req.Quantity)
		if err != nil {
			return err
		}

		if quantity > models.MaxLineQuantity {
			return quantityTooLarge()
		}

		if strict && quantity > product.Stock {
			return insufficientStock(product)
		}

		return tx.Carts().TouchCart(ctx, cart.ID)
	})
	if err != nil {
		return asAppError(err, "Failed to add item to cart")
	}

	metrics.RecordCartOperation(metrics.CartOpAdd)

	return nil
}

// UpdateQuantity replaces the line quantity, zero removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	if req.Quantity < 0 {
		return nil, appErrors.ValidationError("Quantity cannot be negative")
	}

	if req.Quantity > models.MaxLineQuantity {
		return nil, quantityTooLarge()
	}

	err := s.store.ExecTx(ctx, sql.LevelReadCommitted, func(tx repository.Store) error {

		cart, err := tx.Carts().GetCartByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if req.Quantity == 0 {
			err = tx.Carts().RemoveItem(ctx, cart.ID, req.ProductID)
		} else {
			if s.policy == models.StockPolicyStrict {
				product, err := activeProduct(ctx, tx.Products().LockProductByID, req.ProductID)
				if err != nil {
					return err
				}

				if req.Quantity > product.Stock {
					return insufficientStock(product)
				}
			}

			err = tx.Carts().SetItemQuantity(ctx, cart.ID, req.ProductID, req.Quantity)
		}
		if err != nil {
			return err
		}

		return tx.Carts().TouchCart(ctx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Item not in cart").WithError(err)
		}

		return nil, asAppError(err, "Failed to update cart")
	}

	metrics.RecordCartOperation(metrics.CartOpUpdate)

	return s.ViewCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error {

	err := s.store.ExecTx(ctx, sql.LevelReadCommitted, func(tx repository.Store) error {

		cart, err := tx.Carts().GetCartByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if err := tx.Carts().RemoveItem(ctx, cart.ID, productID); err != nil {
			return err
		}

		return tx.Carts().TouchCart(ctx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Item not in cart").WithError(err)
		}

		return asAppError(err, "Failed to remove item from cart")
	}

	metrics.RecordCartOperation(metrics.CartOpRemove)

	return nil
}

// activeProduct hides inactive products behind the same 404 as missing ones.
func activeProduct(ctx context.Context, lookup func(context.Context, int64) (*models.Product, error), id int64) (*models.Product, error) {

	product, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if !product.IsActive {
		return nil, appErrors.NotFoundError("Product not found")
	}

	return product, nil
}

func insufficientStock(product *models.Product) *appErrors.AppError {
	return appErrors.ValidationError(fmt.Sprintf("Insufficient stock for product: %s", product.Name))
}

func quantityTooLarge() *appErrors.AppError {
	return appErrors.ValidationError(fmt.Sprintf("Quantity cannot exceed %d per item", models.MaxLineQuantity))
}

// asAppError keeps AppErrors returned from inside a transaction. Out-of-range values are the caller's fault, anything else is a database error.
func asAppError(err error, message string) error {
	if appErr, ok := appErrors.IsAppError(err); ok {
		return appErr
	}

	if repository.IsNumericOutOfRange(err) {
		return appErrors.ValidationError("Value exceeds the supported range").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	LockCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CreateCartIfNotExists(ctx context.Context, userID uuid.UUID) error
	TouchCart(ctx context.Context, cartID uuid.UUID) error
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (int, error)
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	ListItemsForCheckout(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}

type cartRepository struct {
	DB DBTX
}

func NewCartRepo(db DBTX) CartRepository {
	return &cartRepository{DB: db}
}

const cartItemsQuery = `SELECT ` + productColumns + `, ci.id, ci.cart_id, ci.product_id, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

func (r *cartRepository) getCart(ctx context.Context, query string, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.getCart(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1`, userID)
}

// LockCartByUserID takes a row lock on the cart, must be called inside a transaction.
func (r *cartRepository) LockCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.getCart(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		FOR UPDATE`, userID)
}

func (r *cartRepository) CreateCartIfNotExists(ctx context.Context, userID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.DB.ExecContext(dbCtx, query, userID); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

func (r *cartRepository) TouchCart(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(dbCtx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return nil
}

// UpsertItem adds quantity to the existing line or creates it, returning the resulting quantity.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity`

	var newQuantity int

	if err := r.DB.QueryRowContext(dbCtx, query, cartID, productID, quantity).Scan(&newQuantity); err != nil {
		return 0, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return newQuantity, nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return expectAffected(result)
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return expectAffected(result)
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return r.listItems(ctx, cartItemsQuery, cartID)
}

// ListItemsForCheckout locks the cart lines for update and their products for share.
func (r *cartRepository) ListItemsForCheckout(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return r.listItems(ctx, cartItemsQuery+`
		FOR UPDATE OF ci FOR SHARE OF p`, cartID)
}

func (r *cartRepository) listItems(ctx context.Context, query string, cartID uuid.UUID) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		item := models.CartItem{Product: &models.Product{}}
		if err := scanProduct(rows, item.Product, &item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted rows: %w", err)
	}

	return deleted, nil
}

// expectAffected maps zero affected rows to sql.ErrNoRows.
func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCartService(policy models.StockPolicy) (service.CartService, *storeMocks) {
	m := newStoreMocks()
	return service.NewCartService(m.store, policy), m
}

func TestViewCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &models.Cart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	t.Run("Success - Totals Use Current Prices", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		items := []models.CartItem{
			{ID: 1, CartID: cart.ID, ProductID: 1, Quantity: 2, Product: newProduct(1, "A", "10.00", 5)},
			{ID: 2, CartID: cart.ID, ProductID: 2, Quantity: 1, Product: newProduct(2, "B", "5.50", 5)},
		}
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return(items, nil).Once()

		// Act
		result, err := cartService.ViewCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, "20.00", result.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, "25.50", result.Total.StringFixed(2))
		m.assertExpectations(t)
	})

	t.Run("Success - Sanitizes Product Descriptions", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		tainted := newProduct(3, "C", "1.00", 5)
		tainted.Description = `<b>Fresh</b><script>alert(1)</script>`
		items := []models.CartItem{{ID: 3, CartID: cart.ID, ProductID: 3, Quantity: 1, Product: tainted}}
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return(items, nil).Once()

		// Act
		result, err := cartService.ViewCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "<b>Fresh</b>", result.Items[0].Product.Description)
		m.assertExpectations(t)
	})

	t.Run("Success - Creates Missing Cart", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.carts.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()
		m.carts.On("CreateCartIfNotExists", ctx, userID).Return(nil).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return([]models.CartItem{}, nil).Once()

		// Act
		result, err := cartService.ViewCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, cart.ID, result.ID)
		assert.Empty(t, result.Items)
		assert.True(t, result.Total.Equal(decimal.Zero))
		m.assertExpectations(t)
	})

	t.Run("Failure - Unknown User", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.carts.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()
		m.carts.On("CreateCartIfNotExists", ctx, userID).Return(errForeignKey).Once()

		// Act
		result, err := cartService.ViewCart(ctx, userID)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "User not found")
		m.assertExpectations(t)
	})

	t.Run("Failure - Database Error Listing Items", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		dbErr := errors.New("connection reset")
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return(nil, dbErr).Once()

		// Act
		result, err := cartService.ViewCart(ctx, userID)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to retrieve cart items")
		assert.ErrorIs(t, err, dbErr)
		m.assertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	widget := newProduct(7, "Widget", "3.00", 2)

	t.Run("Success - Best Effort Ignores Stock", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.products.On("GetProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, 5).Return(5, nil).Once()
		m.carts.On("TouchCart", ctx, cart.ID).Return(nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 5})

		// Assert
		assert.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("Success - Merges Into Existing Line", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyStrict)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.products.On("LockProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, 1).Return(2, nil).Once()
		m.carts.On("TouchCart", ctx, cart.ID).Return(nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 1})

		// Assert
		assert.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("Failure - Strict Policy Insufficient Stock", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyStrict)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.products.On("LockProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, 2).Return(3, nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 2})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeValidation, "Insufficient stock for product: Widget")
		m.carts.AssertNotCalled(t, "TouchCart", mock.Anything, mock.Anything)
		m.products.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Strict Policy Inactive Product", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyStrict)
		retired := newProduct(9, "Retired", "2.00", 50)
		retired.IsActive = false
		m.expectTx(sql.LevelReadCommitted).Once()
		m.products.On("LockProductByID", ctx, retired.ID).Return(retired, nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: retired.ID, Quantity: 1})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		m.carts.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Quantity Above Line Cap", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 3_000_000_000})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeValidation, "Quantity cannot exceed 10000 per item")
		m.store.AssertNotCalled(t, "ExecTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Merge Past Line Cap Rolls Back", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.products.On("GetProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, models.MaxLineQuantity).Return(models.MaxLineQuantity+4, nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: models.MaxLineQuantity})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeValidation, "Quantity cannot exceed 10000 per item")
		m.carts.AssertNotCalled(t, "TouchCart", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Column Overflow Is A Validation Error", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.products.On("GetProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, 3).Return(0, errOutOfRange).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 3})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeValidation, "Value exceeds the supported range")
		assert.ErrorIs(t, err, errOutOfRange)
		m.assertExpectations(t)
	})

	t.Run("Failure - Invalid Quantity", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 0})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeValidation, "Quantity must be at least 1")
		m.store.AssertNotCalled(t, "ExecTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.products.On("GetProductByID", ctx, int64(404)).Return(nil, sql.ErrNoRows).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: 404, Quantity: 1})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		m.assertExpectations(t)
	})

	t.Run("Failure - Inactive Product", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		hidden := newProduct(8, "Hidden", "1.00", 10)
		hidden.IsActive = false
		m.products.On("GetProductByID", ctx, hidden.ID).Return(hidden, nil).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: hidden.ID, Quantity: 1})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		m.assertExpectations(t)
	})

	t.Run("Failure - Database Error On Upsert", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		dbErr := errors.New("disk full")
		m.products.On("GetProductByID", ctx, widget.ID).Return(widget, nil).Once()
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("UpsertItem", ctx, cart.ID, widget.ID, 1).Return(0, dbErr).Once()

		// Act
		err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: widget.ID, Quantity: 1})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to add item to cart")
		assert.ErrorIs(t, err, dbErr)
		m.assertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	widget := newProduct(7, "Widget", "3.00", 4)

	t.Run("Success - Sets Quantity", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		items := []models.CartItem{{ID: 1, CartID: cart.ID, ProductID: widget.ID, Quantity: 3, Product: widget}}
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Twice()
		m.carts.On("SetItemQuantity", ctx, cart.ID, widget.ID, 3).Return(nil).Once()
		m.carts.On("TouchCart", ctx, cart.ID).Return(nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return(items, nil).Once()

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: 3})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "9.00", result.Total.StringFixed(2))
		m.assertExpectations(t)
	})

	t.Run("Success - Zero Removes Line", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Twice()
		m.carts.On("RemoveItem", ctx, cart.ID, widget.ID).Return(nil).Once()
		m.carts.On("TouchCart", ctx, cart.ID).Return(nil).Once()
		m.carts.On("ListItems", ctx, cart.ID).Return([]models.CartItem{}, nil).Once()

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: 0})

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, result.Items)
		m.carts.AssertNotCalled(t, "SetItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Negative Quantity", func(t *testing.T) {
		// Arrange
		cartService, _ := setupCartService(models.StockPolicyBestEffort)

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: -1})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeValidation, "")
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("SetItemQuantity", ctx, cart.ID, widget.ID, 2).Return(sql.ErrNoRows).Once()

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: 2})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Item not in cart")
		m.assertExpectations(t)
	})

	t.Run("Failure - Strict Policy Insufficient Stock", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyStrict)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.products.On("LockProductByID", ctx, widget.ID).Return(widget, nil).Once()

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: 5})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeValidation, "Insufficient stock for product: Widget")
		m.carts.AssertNotCalled(t, "SetItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Strict Policy Inactive Product", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyStrict)
		retired := newProduct(9, "Retired", "2.00", 50)
		retired.IsActive = false
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.products.On("LockProductByID", ctx, retired.ID).Return(retired, nil).Once()

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: retired.ID, Quantity: 1})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
		m.assertExpectations(t)
	})

	t.Run("Failure - Quantity Above Line Cap", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)

		// Act
		result, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{ProductID: widget.ID, Quantity: models.MaxLineQuantity + 1})

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeValidation, "Quantity cannot exceed 10000 per item")
		m.store.AssertNotCalled(t, "ExecTx", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &models.Cart{ID: uuid.New(), UserID: userID}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("RemoveItem", ctx, cart.ID, int64(3)).Return(nil).Once()
		m.carts.On("TouchCart", ctx, cart.ID).Return(nil).Once()

		// Act
		err := cartService.RemoveItem(ctx, userID, 3)

		// Assert
		assert.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		m.carts.On("RemoveItem", ctx, cart.ID, int64(3)).Return(sql.ErrNoRows).Once()

		// Act
		err := cartService.RemoveItem(ctx, userID, 3)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Item not in cart")
		m.assertExpectations(t)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		cartService, m := setupCartService(models.StockPolicyBestEffort)
		m.expectTx(sql.LevelReadCommitted).Once()
		m.carts.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		err := cartService.RemoveItem(ctx, userID, 3)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Item not in cart")
		m.assertExpectations(t)
	})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService  service.CartService
	orderService service.OrderService
	validator    *validator.Validate
}

func NewCartHandler(cartService service.CartService, orderService service.OrderService) *CartHandler {
	return &CartHandler{cartService: cartService, orderService: orderService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the current user's cart
//	@Description	Returns the cart with every line priced at the current product price. The cart is created on first access.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Cart with computed total"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"User not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.ViewCart(r.Context(), userID)
		if err != nil {
			logger.Error("Failed to load cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart retrieved", slog.String("cartId", cart.ID.String()), slog.Int("items", len(cart.Items)))
		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds quantity to the product's line, creating the line when missing.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.StatusResponse	"Item added to cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid input or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/add-item [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		logger = logger.With(slog.Int64("productId", req.ProductID), slog.Int("quantity", req.Quantity))

		if err := h.cartService.AddItem(r.Context(), userID, &req); err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart")
		response.Success(w, http.StatusOK, models.StatusResponse{Status: "Item added to cart"})
	}
}

// UpdateItem godoc
//	@Summary		Set the quantity of a cart line
//	@Description	Replaces the line quantity. A quantity of 0 removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateQuantityRequest	true	"Product and new quantity"
//	@Success		200		{object}	models.Cart						"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid input or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Item not in cart"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), userID, &req)
		if err != nil {
			logger.Error("Failed to update cart item", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item updated", slog.Int64("productId", req.ProductID), slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.RemoveItemRequest	true	"Product to remove"
//	@Success		200		{object}	models.StatusResponse		"Item removed from cart"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Item not in cart"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/remove-item [post]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.RemoveItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid remove item input")
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), userID, req.ProductID); err != nil {
			logger.Warn("Failed to remove item from cart", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item removed from cart", slog.Int64("productId", req.ProductID))
		response.Success(w, http.StatusOK, models.StatusResponse{Status: "Item removed from cart"})
	}
}

// Checkout godoc
//	@Summary		Check out the cart
//	@Description	Converts every cart line into a pending order at current prices and empties the cart in one transaction.
//	@Tags			Cart
//	@Produce		json
//	@Success		201	{object}	models.Order			"Order created"
//	@Failure		400	{object}	response.ErrorResponse	"Cart is empty or insufficient stock"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409	{object}	response.ErrorResponse	"Cart was modified concurrently, retry"
//	@Failure		429	{object}	response.ErrorResponse	"Too many checkout attempts"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/checkout [post]
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, _, ok := currentUser(w, r)
		if !ok {
			return
		}

		order, err := h.orderService.Checkout(r.Context(), userID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, validator: validator.New()}
}

// GetWishlist godoc
//	@Summary		Get the current user's wishlist
//	@Tags			Wishlist
//	@Produce		json
//	@Success		200	{object}	models.Wishlist			"Wishlist with products"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/wishlist [get]
func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		wishlist, err := h.wishlistService.GetWishlist(r.Context(), userID)
		if err != nil {
			logger.Error("Failed to load wishlist", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, wishlist)
	}
}

// AddItem godoc
//	@Summary		Add a product to the wishlist
//	@Tags			Wishlist
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.WishlistItemRequest	true	"Product"
//	@Success		200		{object}	models.StatusResponse		"Product added to wishlist"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Security		BearerAuth
//	@Router			/wishlist/add-item [post]
func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.change(w, r, h.wishlistService.AddProduct, "Product added to wishlist")
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the wishlist
//	@Tags			Wishlist
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.WishlistItemRequest	true	"Product"
//	@Success		200		{object}	models.StatusResponse		"Product removed from wishlist"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Security		BearerAuth
//	@Router			/wishlist/remove-item [post]
func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.change(w, r, h.wishlistService.RemoveProduct, "Product removed from wishlist")
	}
}

type wishlistChange func(ctx context.Context, userID uuid.UUID, productID int64) (*models.Wishlist, error)

func (h *WishlistHandler) change(w http.ResponseWriter, r *http.Request, apply wishlistChange, status string) {

	userID, logger, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.WishlistItemRequest
	if !utils.ParseAndValidate(r, w, &req, h.validator) {
		logger.Warn("Invalid wishlist input")
		return
	}

	if _, err := apply(r.Context(), userID, req.ProductID); err != nil {
		logger.Warn("Wishlist change failed", slog.Int64("productId", req.ProductID), slog.Any("error", err))
		response.Error(w, err)
		return
	}

	logger.Info(status, slog.Int64("productId", req.ProductID))
	response.Success(w, http.StatusOK, models.StatusResponse{Status: status})
}

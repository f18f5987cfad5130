package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders    service.OrderService
	validator *validator.Validate
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders, validator: validator.New()}
}

// CreateOrder godoc
//	@Summary		Orders cannot be created directly
//	@Description	Always responds 405. Orders are created by checking out the cart.
//	@Tags			Orders
//	@Produce		json
//	@Failure		405	{object}	response.ErrorResponse	"Orders are created via checkout"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, errors.MethodNotAllowedError("Orders are created via checkout").WithDetail("POST /api/v1/cart/checkout"))
	}
}

// GetOrder godoc
//	@Summary		Fetch one order
//	@Description	Returns an order owned by the caller, including the prices captured at checkout.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order UUID"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		400	{object}	response.ErrorResponse	"Malformed order id"
//	@Failure		401	{object}	response.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	response.ErrorResponse	"Order belongs to another user"
//	@Failure		404	{object}	response.ErrorResponse	"No such order"
//	@Failure		500	{object}	response.ErrorResponse	"Unexpected failure"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		orderID, logger, ok := orderIDFromPath(w, r, logger)
		if !ok {
			return
		}

		order, err := h.orders.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			logger.Warn("Order lookup failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		Order history
//	@Description	Pages through the caller's orders, most recent first.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"1-based page (default 1)"		minimum(1)
//	@Param			pageSize	query		int												false	"Page size (default 10, max 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"One page of orders"
//	@Failure		401			{object}	response.ErrorResponse							"Missing or invalid token"
//	@Failure		500			{object}	response.ErrorResponse							"Unexpected failure"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		page, size := utils.ParsePagination(r)

		orders, total, err := h.orders.ListOrders(r.Context(), userID, page, size)
		if err != nil {
			logger.Error("Order history query failed", slog.Int("page", page), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Debug("Order history served", slog.Int("page", page), slog.Int("returned", len(orders)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.NewPage(orders, total, page, size))
	}
}

// UpdateOrderStatus godoc
//	@Summary		Advance an order (admin)
//	@Description	Moves an order along pending -> shipped -> delivered, or pending -> cancelled.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order UUID"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"Target status"
//	@Success		200		{object}	models.Order					"Order after the change"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid order ID, status value or transition"
//	@Failure		401		{object}	response.ErrorResponse			"Missing or invalid token"
//	@Failure		403		{object}	response.ErrorResponse			"Admin access required"
//	@Failure		404		{object}	response.ErrorResponse			"No such order"
//	@Failure		409		{object}	response.ErrorResponse			"Status changed concurrently"
//	@Failure		500		{object}	response.ErrorResponse			"Unexpected failure"
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, logger, ok := orderIDFromPath(w, r, middleware.LoggerFromContext(r.Context()))
		if !ok {
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Rejected status change payload")
			return
		}

		order, err := h.orders.UpdateOrderStatus(r.Context(), orderID, req.Status)
		if err != nil {
			logger.Warn("Status change refused", slog.String("target", string(req.Status)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order moved", slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}

func orderIDFromPath(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, *slog.Logger, bool) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		logger.Warn("Bad order id in path", slog.String("raw", r.PathValue("id")))
		response.Error(w, err)
		return uuid.Nil, logger, false
	}

	return id, logger.With(slog.String("orderId", id.String())), true
}

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront-api/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderHandler_CreateOrder(t *testing.T) {
	// Arrange
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{"total_price": "1.00"}), uuid.New(), nil)
	rr := httptest.NewRecorder()

	// Act
	orderHandler.CreateOrder().ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
	resp := decodeResponse(t, rr, nil)
	assert.Equal(t, "Orders are created via checkout", resp.Error.Message)
	mockOrderService.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		order := &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusPending}
		mockOrderService.On("GetOrder", mock.Anything, userID, orderID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, userID, map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Order
		decodeResponse(t, rr, &got)
		assert.Equal(t, orderID, got.ID)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/nope", nil, userID, map[string]string{"id": "nope"})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Forbidden", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		mockOrderService.On("GetOrder", mock.Anything, userID, orderID).Return(nil, appErrors.ForbiddenError("You don't have permission to access this order")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, userID, map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Paginated", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		orders := []*models.Order{{ID: uuid.New(), UserID: userID}, {ID: uuid.New(), UserID: userID}}
		mockOrderService.On("ListOrders", mock.Anything, userID, 2, 5).Return(orders, 7, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders?page=2&pageSize=5", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got struct {
			Data     []models.Order `json:"data"`
			Total    int            `json:"total"`
			Page     int            `json:"page"`
			PageSize int            `json:"pageSize"`
		}
		decodeResponse(t, rr, &got)
		assert.Len(t, got.Data, 2)
		assert.Equal(t, 7, got.Total)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 5, got.PageSize)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		mockOrderService.On("ListOrders", mock.Anything, userID, 1, 10).Return(nil, 0, appErrors.DatabaseError("Failed to list orders")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		updated := &models.Order{ID: orderID, Status: models.OrderStatusShipped}
		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusShipped).Return(updated, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", jsonBody(t, map[string]string{"status": "shipped"}), uuid.New(), map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Order
		decodeResponse(t, rr, &got)
		assert.Equal(t, models.OrderStatusShipped, got.Status)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Status", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", jsonBody(t, map[string]string{"status": "lost"}), uuid.New(), map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Invalid Transition", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		orderHandler := handlers.NewOrderHandler(mockOrderService)
		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusPending).
			Return(nil, appErrors.ValidationError("Cannot change order status from delivered to pending")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", jsonBody(t, map[string]string{"status": "pending"}), uuid.New(), map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, "Cannot change order status from delivered to pending", resp.Error.Message)
	})
}

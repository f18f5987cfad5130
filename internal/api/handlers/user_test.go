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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserHandler_Profile(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)
		mockUserService.On("GetProfile", mock.Anything, userID).Return(&models.User{ID: userID, Email: "test@example.com"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/users/me", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Profile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.User
		decodeResponse(t, rr, &got)
		assert.Equal(t, userID, got.ID)
		mockUserService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/users/me", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Profile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)
		mockUserService.On("GetProfile", mock.Anything, userID).Return(nil, appErrors.NotFoundError("User not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/users/me", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Profile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAdminHandler_GetStats(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockAdminService := new(mocks.AdminService)
		adminHandler := handlers.NewAdminHandler(mockAdminService)
		stats := &models.AdminStats{TotalUsers: 3, TotalProducts: 9, TotalOrders: 2, Revenue: decimal.RequireFromString("51.00")}
		mockAdminService.On("GetStats", mock.Anything).Return(stats, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/admin/stats", nil, uuid.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		adminHandler.GetStats().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.AdminStats
		decodeResponse(t, rr, &got)
		assert.Equal(t, int64(9), got.TotalProducts)
		assert.True(t, got.Revenue.Equal(stats.Revenue))
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockAdminService := new(mocks.AdminService)
		adminHandler := handlers.NewAdminHandler(mockAdminService)
		mockAdminService.On("GetStats", mock.Anything).Return(nil, appErrors.DatabaseError("Failed to count users")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/admin/stats", nil, uuid.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		adminHandler.GetStats().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, resp.Error.Code)
	})
}

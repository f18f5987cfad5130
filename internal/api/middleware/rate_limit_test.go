package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRateLimiter struct {
	mock.Mock
}

func (m *mockRateLimiter) CheckRateLimit(ctx context.Context, key string) (bool, int, int, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

func TestRateLimitMiddleware(t *testing.T) {
	userID := uuid.New()
	key := "checkout:" + userID.String()

	tests := []struct {
		name           string
		allowed        bool
		remaining      int
		retryAfter     int
		limiterErr     error
		expectedStatus int
		expectNext     bool
	}{
		{name: "Success - Allowed", allowed: true, remaining: 4, expectedStatus: http.StatusOK, expectNext: true},
		{name: "Failure - Limit Exceeded", allowed: false, retryAfter: 12, expectedStatus: http.StatusTooManyRequests},
		{name: "Success - Limiter Error Fails Open", limiterErr: errors.New("redis down"), expectedStatus: http.StatusOK, expectNext: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			limiter := new(mockRateLimiter)
			limiter.On("CheckRateLimit", mock.Anything, key).Return(tc.allowed, tc.remaining, tc.retryAfter, tc.limiterErr).Once()

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			rr := httptest.NewRecorder()

			// Act
			middleware.NewRateLimitMiddleware(limiter, "checkout").Limit(next).ServeHTTP(rr, requestWithClaims(userID))

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, nextCalled)

			if tc.expectedStatus == http.StatusTooManyRequests {
				assert.Equal(t, "12", rr.Header().Get("Retry-After"))
			}

			limiter.AssertExpectations(t)
		})
	}
}

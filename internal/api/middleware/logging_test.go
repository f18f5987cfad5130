package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	t.Run("Success - Generates Correlation ID", func(t *testing.T) {
		// Arrange
		var seenLogger bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, seenLogger = r.Context().Value(middleware.LoggerKey).(*slog.Logger)
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		})
		rr := httptest.NewRecorder()

		// Act
		middleware.Logging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		// Assert
		assert.True(t, seenLogger)
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "short and stout", rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("Success - Keeps Incoming Correlation ID", func(t *testing.T) {
		// Arrange
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		// Act
		middleware.Logging(next).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})
}

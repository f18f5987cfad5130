package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
)

// RateLimiter reports isAllowed, attempts left, seconds to wait.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string) (bool, int, int, error)
}

type RateLimitMiddleware struct {
	limiter RateLimiter
	scope   string
}

func NewRateLimitMiddleware(limiter RateLimiter, scope string) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, scope: scope}
}

// Limit keys the window by the authenticated user and fails open when the limiter errors.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		key := m.scope + ":" + claims.UserID.String()

		allowed, remaining, retryAfter, err := m.limiter.CheckRateLimit(r.Context(), key)
		if err != nil {
			logger.Error("Rate limiter unavailable, allowing request", slog.String("key", key), slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int("retryAfter", retryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many requests, please try again later"))
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	}
}

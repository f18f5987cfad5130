package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/google/uuid"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type AdminMiddleware struct {
	users AdminChecker
}

func NewAdminMiddleware(users AdminChecker) *AdminMiddleware {
	return &AdminMiddleware{users: users}
}

// RequireAdmin must run after Authenticate.
func (m *AdminMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Admin check without authenticated user")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		isAdmin, err := m.users.IsAdmin(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to resolve admin flag", slog.Any("error", err))
			response.Error(w, errors.DatabaseError("Failed to verify permissions").WithError(err))
			return
		}

		if !isAdmin {
			logger.Warn("Non-admin user attempted admin access")
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/google/uuid"
)

// currentUser resolves the authenticated caller. On false the 401 is already written.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Request reached a user endpoint without claims", slog.String("path", r.URL.Path))
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return uuid.Nil, logger, false
	}

	return claims.UserID, logger, true
}

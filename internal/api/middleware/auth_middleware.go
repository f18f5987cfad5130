package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/aaravmahajanofficial/storefront-api/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tokens are issued by the identity provider with a small clock skew allowance.
const clockSkew = 30 * time.Second

var errBadScheme = errors.New("authorization scheme must be Bearer")

// AuthMiddleware verifies HS256 bearer tokens. It never issues them.
type AuthMiddleware struct {
	jwtKey []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{
		jwtKey: jwtKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// bearerToken splits "Bearer <token>". An empty token is left for the parser to reject.
func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadScheme
	}

	return strings.TrimSpace(token), nil
}

func (m *AuthMiddleware) keyFunc(*jwt.Token) (any, error) {
	return m.jwtKey, nil
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, appErrors.UnauthorizedError("Authorization header is required"))
			return
		}

		tokenString, err := bearerToken(authHeader)
		if err != nil {
			logger.Warn("Invalid authorization header format", slog.String("error", err.Error()))
			response.Error(w, appErrors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		if _, err := m.parser.ParseWithClaims(tokenString, claims, m.keyFunc); err != nil {
			logger.Warn("JWT validation failed", slog.String("error", err.Error()))
			response.Error(w, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}

		// carts and orders hang off the user id, a token without one is useless
		if claims.UserID == uuid.Nil {
			logger.Warn("Token has no user id")
			response.Error(w, appErrors.UnauthorizedError("Invalid token"))
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("enduser.id", claims.UserID.String()))

		userLogger := logger.With(slog.String("userId", claims.UserID.String()))
		userLogger.Debug("User authenticated")

		ctx := WithLogger(WithClaims(r.Context(), claims), userLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

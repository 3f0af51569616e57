package middleware

import (
	"context"
	"net/http"
	"strings"

	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticator resolves a bearer token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenStr == authHeader || tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}

func JWTAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := BearerToken(r)
			if !ok {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Bearer token missing for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: Token validated for %s on %s %s", claims.Email, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok
}

// UserID returns the authenticated user's id. The request must have passed
// JWTAuthMiddleware.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := claims.UserID()
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

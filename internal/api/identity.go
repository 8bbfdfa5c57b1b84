package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// Identity headers set by the fronting proxy. The server does not
// validate sessions itself; it trusts whatever deployment sits in front
// of it to authenticate and forward these.
const (
	HeaderUser  = "X-Inkwell-User"
	HeaderEmail = "X-Inkwell-Email"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	userEmailKey ctxKey = "userEmail"
)

// GetUserID returns the calling user's id from context.
// Returns 401 error if no identity header was present.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("Missing " + HeaderUser + " header")
	}
	return userID, nil
}

// GetUserEmail returns the calling user's email from context.
// Returns 401 error if no usable email header was present.
func GetUserEmail(ctx context.Context) (string, error) {
	email, ok := ctx.Value(userEmailKey).(string)
	if !ok || email == "" {
		return "", huma.Error401Unauthorized("Missing " + HeaderEmail + " header")
	}
	return email, nil
}

// identityMiddleware copies the proxy identity headers into context.
// Requests without headers continue anonymously; handlers that need an
// identity reject them via GetUserID / GetUserEmail.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if userID := r.Header.Get(HeaderUser); userID != "" {
			ctx = context.WithValue(ctx, userIDKey, userID)
		}
		if email := domain.NormalizeEmail(r.Header.Get(HeaderEmail)); email != "" {
			ctx = context.WithValue(ctx, userEmailKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pizza-paradise/internal/auth"
	"pizza-paradise/internal/model"

	"github.com/rs/zerolog"
)

const principalKey contextKey = "principal"

// PrincipalFrom returns the authenticated principal attached to the
// request context, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(principalKey).(*model.Principal)
	return p
}

func writeUnauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:   model.ErrCodeUnauthorised,
		Message: message,
	})
}

// RequireUser verifies the bearer token and attaches its principal to the
// request context.
func RequireUser(tokens *auth.TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return requireRole(tokens, logger, false)
}

// RequireAdmin verifies the bearer token and rejects non-admin principals.
func RequireAdmin(tokens *auth.TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return requireRole(tokens, logger, true)
}

func requireRole(tokens *auth.TokenManager, logger zerolog.Logger, adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeUnauthorised(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorised(w, "Malformed authorization header")
				return
			}

			principal, err := tokens.Parse(strings.TrimSpace(parts[1]), auth.KindAccess)
			if err != nil {
				logger.Warn().Str("path", r.URL.Path).Msg("invalid access token")
				writeUnauthorised(w, "Invalid or expired token")
				return
			}

			if adminOnly && principal.Role != model.RoleAdmin {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(model.ErrorResponse{
					Error:   model.ErrCodeForbidden,
					Message: "Admin access required",
				})
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

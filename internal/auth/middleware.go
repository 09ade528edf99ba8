package auth

import (
	"encoding/json"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/rbac"
)

// JWTMiddleware verifies the bearer token and stores the Identity (and its
// role, for the rbac layer) in the request context. Missing and invalid
// credentials both answer 401 with the same envelope.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := a.RequireAuthenticated(r.Header.Get("Authorization"))
			if err != nil {
				writeUnauthorized(w)
				return
			}
			ctx := WithIdentity(r.Context(), ident)
			ctx = rbac.WithRole(ctx, ident.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware verifies the bearer token and additionally requires the
// ADMIN role. A valid non-admin token answers 403; missing or invalid
// credentials answer 401.
func AdminMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := a.RequireAdmin(r.Header.Get("Authorization"))
			if err != nil {
				if err == ErrForbidden {
					writeForbidden(w)
				} else {
					writeUnauthorized(w)
				}
				return
			}
			ctx := WithIdentity(r.Context(), ident)
			ctx = rbac.WithRole(ctx, ident.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "FORBIDDEN", "message": "Admin access required"},
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "UNAUTHORIZED", "message": "Authentication required"},
	})
}

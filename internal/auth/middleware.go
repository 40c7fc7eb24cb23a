package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/proshop-store/proshop-api/internal/platform/httpx"
)

// PrincipalSource resolves a verified subject id to a live account record.
type PrincipalSource interface {
	FindPrincipal(ctx context.Context, id uuid.UUID) (*Principal, error)
}

// Middleware wires the authentication gate for HTTP handlers.
type Middleware struct {
	Tokens *TokenManager
	Source PrincipalSource
	Logger *slog.Logger
}

// Authenticate extracts the bearer token, verifies it and attaches the
// resolved principal to the request context. Missing header, bad token and
// unknown subject are indistinguishable 401s.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		userID, err := m.Tokens.Verify(tokenString)
		if err != nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		principal, err := m.Source.FindPrincipal(r.Context(), userID)
		if err != nil {
			if m.Logger != nil && !errors.Is(err, httpx.ErrNotFound) {
				m.Logger.Error("resolve principal", slog.Any("error", err))
			}
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin denies access unless the authenticated principal carries the
// admin flag. It must run after Authenticate.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		if !principal.IsAdmin {
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proshop-store/proshop-api/internal/auth"
	"github.com/proshop-store/proshop-api/internal/platform/httpx"
)

type stubSource struct {
	principals map[uuid.UUID]*auth.Principal
}

func (s *stubSource) FindPrincipal(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return p, nil
}

func newGate(t *testing.T, principals ...*auth.Principal) (auth.Middleware, *auth.TokenManager) {
	t.Helper()
	source := &stubSource{principals: make(map[uuid.UUID]*auth.Principal)}
	for _, p := range principals {
		source.principals[p.ID] = p
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour, time.Hour)
	return auth.Middleware{Tokens: tokens, Source: source}, tokens
}

func echoPrincipal(t *testing.T, captured **auth.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingHeader(t *testing.T) {
	gate, _ := newGate(t)
	var got *auth.Principal

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	gate.Authenticate(echoPrincipal(t, &got)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Nil(t, got)
}

func TestAuthenticateBadToken(t *testing.T) {
	gate, _ := newGate(t)
	var got *auth.Principal

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	res := httptest.NewRecorder()
	gate.Authenticate(echoPrincipal(t, &got)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	gate, tokens := newGate(t)
	token, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	var got *auth.Principal
	gate.Authenticate(echoPrincipal(t, &got)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	principal := &auth.Principal{ID: uuid.New(), Name: "Alice", Email: "a@x.com"}
	gate, tokens := newGate(t, principal)
	token, err := tokens.Issue(principal.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	var got *auth.Principal
	gate.Authenticate(echoPrincipal(t, &got)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, got)
	assert.Equal(t, principal.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)
}

func TestRequireAdmin(t *testing.T) {
	admin := &auth.Principal{ID: uuid.New(), IsAdmin: true}
	member := &auth.Principal{ID: uuid.New()}
	gate, tokens := newGate(t, admin, member)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := gate.Authenticate(gate.RequireAdmin(next))

	cases := []struct {
		name       string
		subject    uuid.UUID
		wantStatus int
	}{
		{name: "admin allowed", subject: admin.ID, wantStatus: http.StatusOK},
		{name: "member forbidden", subject: member.ID, wantStatus: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := tokens.Issue(tc.subject)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			res := httptest.NewRecorder()
			protected.ServeHTTP(res, req)
			assert.Equal(t, tc.wantStatus, res.Code)
		})
	}
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	gate, _ := newGate(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	gate.RequireAdmin(next).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/config"
	"github.com/GioMjds/Printify-Mobile/internal/domain"
	jwtinfra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     24 * time.Hour,
		RefreshExpiry: 48 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

type stubResolver struct {
	users map[string]*domain.User
}

func (s *stubResolver) Get(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func resolverWith(users ...*domain.User) *stubResolver {
	s := &stubResolver{users: map[string]*domain.User{}}
	for _, u := range users {
		s.users[u.UserID] = u
	}
	return s
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingCredentials(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(p, resolverWith())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(p, resolverWith())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ValidToken_InjectsClaimsAndUser(t *testing.T) {
	p := newTestProvider(t)
	u := &domain.User{UserID: "u1", Email: "a@x.com", Role: domain.RoleCustomer}

	signed, err := p.SignAccess("u1", "a@x.com", domain.RoleCustomer)
	require.NoError(t, err)

	var gotClaims *jwtinfra.Claims
	var gotUser *domain.User
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, resolverWith(u))(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "u1", gotClaims.Subject)
	assert.Equal(t, domain.RoleCustomer, gotClaims.Role)
	require.NotNil(t, gotUser)
	assert.Equal(t, "a@x.com", gotUser.Email)
}

func TestAuth_CookieFallback(t *testing.T) {
	p := newTestProvider(t)
	u := &domain.User{UserID: "u1"}

	signed, err := p.SignAccess("u1", "a@x.com", domain.RoleCustomer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signed})
	rr := httptest.NewRecorder()
	Auth(p, resolverWith(u))(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuth_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	p := newTestProvider(t)
	u := &domain.User{UserID: "u1"}

	cookieTok, err := p.SignAccess("u1", "a@x.com", domain.RoleCustomer)
	require.NoError(t, err)

	// A garbage header must not silently fall back to the valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieTok})
	rr := httptest.NewRecorder()
	Auth(p, resolverWith(u))(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_DeletedAccount(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.SignAccess("ghost", "a@x.com", domain.RoleCustomer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, resolverWith())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

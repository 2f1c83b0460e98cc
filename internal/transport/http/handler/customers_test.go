package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	jwtinfra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/jwt"
	"github.com/GioMjds/Printify-Mobile/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCustomerSvc struct{ mock.Mock }

func (m *mockCustomerSvc) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerSvc) Update(ctx context.Context, userID string, req domain.UpdateCustomerRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerSvc) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- helpers ---

// asUser injects claims for the given user and a chi URL param "id".
func asUser(r *http.Request, userID, role, targetID string) *http.Request {
	claims := &jwtinfra.Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
	ctx := context.WithValue(r.Context(), middleware.ClaimsKey, claims)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", targetID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// --- Get tests ---

func TestCustomerGet_MissingClaims(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerSvc{})
	r := httptest.NewRequest(http.MethodGet, "/api/customer/u1", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCustomerGet_Self(t *testing.T) {
	svc := &mockCustomerSvc{}
	svc.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@x.com", PasswordHash: "secret-hash"}, nil)
	h := NewCustomerHandler(svc)

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/customer/u1", nil), "u1", domain.RoleCustomer, "u1")
	rr := httptest.NewRecorder()
	h.Get(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	raw := rr.Body.String()
	assert.NotContains(t, raw, "secret-hash")
	var resp SafeCustomer
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Equal(t, "a@x.com", resp.Email)
	svc.AssertExpectations(t)
}

func TestCustomerGet_OtherCustomer_Forbidden(t *testing.T) {
	svc := &mockCustomerSvc{}
	h := NewCustomerHandler(svc)

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/customer/u2", nil), "u1", domain.RoleCustomer, "u2")
	rr := httptest.NewRecorder()
	h.Get(rr, r)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCustomerGet_AdminSeesAnyCustomer(t *testing.T) {
	svc := &mockCustomerSvc{}
	svc.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)
	h := NewCustomerHandler(svc)

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/customer/u2", nil), "admin1", domain.RoleAdmin, "u2")
	rr := httptest.NewRecorder()
	h.Get(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- Update tests ---

func TestCustomerUpdate_NotOwnerOrAdmin(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerSvc{})
	name := "New Name"
	body, _ := json.Marshal(domain.UpdateCustomerRequest{Name: &name})

	r := asUser(httptest.NewRequest(http.MethodPut, "/api/customer/u2", bytes.NewReader(body)), "u1", domain.RoleCustomer, "u2")
	rr := httptest.NewRecorder()
	h.Update(rr, r)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCustomerUpdate_EmailConflict(t *testing.T) {
	svc := &mockCustomerSvc{}
	svc.On("Update", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrConflict)
	h := NewCustomerHandler(svc)
	email := "taken@x.com"
	body, _ := json.Marshal(domain.UpdateCustomerRequest{Email: &email})

	r := asUser(httptest.NewRequest(http.MethodPut, "/api/customer/u1", bytes.NewReader(body)), "u1", domain.RoleCustomer, "u1")
	rr := httptest.NewRecorder()
	h.Update(rr, r)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCustomerUpdate_HappyPath(t *testing.T) {
	svc := &mockCustomerSvc{}
	updated := &domain.User{UserID: "u1", Name: "New Name"}
	svc.On("Update", mock.Anything, "u1", mock.Anything).Return(updated, nil)
	h := NewCustomerHandler(svc)
	name := "New Name"
	body, _ := json.Marshal(domain.UpdateCustomerRequest{Name: &name})

	r := asUser(httptest.NewRequest(http.MethodPut, "/api/customer/u1", bytes.NewReader(body)), "u1", domain.RoleCustomer, "u1")
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SafeCustomer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "New Name", resp.Name)
	svc.AssertExpectations(t)
}

// --- Create / Delete tests ---

func TestCustomerCreate_ValidationFailure(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerSvc{})
	body, _ := json.Marshal(domain.CreateCustomerRequest{Email: "a@x.com"}) // missing password and name
	r := httptest.NewRequest(http.MethodPost, "/api/customer", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCustomerCreate_HappyPath(t *testing.T) {
	svc := &mockCustomerSvc{}
	svc.On("Create", mock.Anything, mock.Anything).Return(&domain.User{UserID: "u9", Email: "new@x.com"}, nil)
	h := NewCustomerHandler(svc)
	body, _ := json.Marshal(domain.CreateCustomerRequest{Email: "new@x.com", Password: "Passw0rd!", Name: "New Customer"})
	r := httptest.NewRequest(http.MethodPost, "/api/customer", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestCustomerDelete_HappyPath(t *testing.T) {
	svc := &mockCustomerSvc{}
	svc.On("Delete", mock.Anything, "u1").Return(nil)
	h := NewCustomerHandler(svc)

	r := asUser(httptest.NewRequest(http.MethodDelete, "/api/customer/u1", nil), "admin1", domain.RoleAdmin, "u1")
	rr := httptest.NewRecorder()
	h.Delete(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

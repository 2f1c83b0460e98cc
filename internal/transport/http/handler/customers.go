package handler

import (
	"encoding/json"
	"net/http"

	"github.com/GioMjds/Printify-Mobile/internal/application/customer"
	"github.com/GioMjds/Printify-Mobile/internal/domain"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/validate"
	"github.com/GioMjds/Printify-Mobile/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// CustomerHandler handles customer account endpoints.
type CustomerHandler struct {
	svc customer.Service
}

func NewCustomerHandler(svc customer.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Create is admin-only (enforced by the router).
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSafeCustomer(u))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if !selfOrAdmin(r, targetID) {
		writeError(w, http.StatusForbidden, "cannot view another customer")
		return
	}
	u, err := h.svc.Get(r.Context(), targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeCustomer(u))
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if !selfOrAdmin(r, targetID) {
		writeError(w, http.StatusForbidden, "cannot update another customer")
		return
	}
	var req domain.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	u, err := h.svc.Update(r.Context(), targetID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeCustomer(u))
}

// Delete is admin-only (enforced by the router).
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "customer deleted"})
}

func selfOrAdmin(r *http.Request, targetID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Subject == targetID || claims.Role == domain.RoleAdmin
}

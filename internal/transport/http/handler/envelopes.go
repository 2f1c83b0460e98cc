package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SafeCustomer is the public projection of an account; it never carries the
// password hash.
type SafeCustomer struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profile_image"`
	Role         string  `json:"role"`
	IsVerified   bool    `json:"isVerified"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Message      string        `json:"message,omitempty"`
	AccessToken  string        `json:"access_token,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	Customer     *SafeCustomer `json:"customer,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func toSafeCustomer(u *domain.User) *SafeCustomer {
	if u == nil {
		return nil
	}
	return &SafeCustomer{
		ID:           u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

package handler

import (
	"net/http"

	"github.com/GioMjds/Printify-Mobile/internal/application/upload"
	"github.com/GioMjds/Printify-Mobile/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps document uploads at 10 MB.
const maxUploadBytes = 10 << 20

// UploadHandler handles print-document upload endpoints.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file exceeds the 10 MB limit or the form is malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	u, err := h.svc.Create(r.Context(), claims.Subject, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UploadHandler) MyUploads(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	uploads, err := h.svc.ListByCustomer(r.Context(), claims.Subject)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}

func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.Get(r.Context(), claims.Subject, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

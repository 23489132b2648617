package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "error encoding response", "error", err)
	}
}

func (s *HTTPServer) respondDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	s.respondJSON(w, r, status, errorResponse{Detail: detail})
}

// respondError maps service errors to a status and a {"detail"} body.
// Errors without a client-facing message are logged and reported as 500.
func (s *HTTPServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.respondDetail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.respondDetail(w, r, statusFor(se.Kind), se.Detail)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, common.ErrorValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(kind, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(kind, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(kind, common.ErrorAlreadyExists),
		errors.Is(kind, common.ErrCartEmpty),
		errors.Is(kind, common.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v, answering 422 on failure.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondDetail(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

// idParam parses a positive integer URL parameter, answering 422 on failure.
func (s *HTTPServer) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		s.respondDetail(w, r, http.StatusUnprocessableEntity, "Invalid "+name)
		return 0, false
	}
	return id, true
}

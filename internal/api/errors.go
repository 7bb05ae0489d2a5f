package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joestump/linkpage/internal/store"
)

// Error codes carried in ErrorResponse.Code.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeConflict           = "CONFLICT"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeUnauthorized       = "UNAUTHORIZED"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"link not found"`
	Code  string `json:"code" example:"NOT_FOUND"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Link deleted"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeInternal logs err and writes a 500 without any detail.
func writeInternal(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
}

var validationErrors = []error{
	store.ErrInvalidUsername,
	store.ErrUsernameReserved,
	store.ErrInvalidPassword,
	store.ErrInvalidEmail,
	store.ErrInvalidURL,
	store.ErrInvalidTitle,
	store.ErrFieldTooLong,
}

var conflictErrors = []error{
	store.ErrUsernameTaken,
	store.ErrEmailTaken,
	store.ErrTitleTaken,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeStoreError maps validation, conflict and not-found errors to their
// client statuses. Anything else is logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, notFoundMsg string, err error) {
	switch {
	case isAny(err, validationErrors):
		writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
	case isAny(err, conflictErrors):
		writeError(w, http.StatusBadRequest, err.Error(), codeConflict)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg, codeNotFound)
	default:
		writeInternal(w, r, logger, "store operation failed", err)
	}
}

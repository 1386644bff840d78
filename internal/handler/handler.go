package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pizza-paradise/internal/model"

	"github.com/rs/zerolog"
)

// MessageResponse wraps a mutation result with a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps an error to its HTTP status and writes the standard
// error body. Unrecognised errors become 500s with a generic message so
// internals never leak to clients.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		logger.Warn().
			Str("code", domainErr.Code).
			Str("error", domainErr.Message).
			Int("status", status).
			Msg("request failed")
		writeJSON(w, status, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   "INTERNAL",
		Message: "internal server error",
	})
}

// statusForCode maps stable error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeConflict:
		return http.StatusConflict
	case model.ErrCodeAlreadyUsed, model.ErrCodeNoCouponApplied, model.ErrCodeEmptyCart,
		model.ErrCodeInvalidStatus, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses the {id} path segment of the request.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

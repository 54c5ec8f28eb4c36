// Package respond writes JSON responses and maps domain errors onto HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
)

// RetryAfterSeconds is sent with 503 responses caused by contention.
const RetryAfterSeconds = "1"

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Decode reads a JSON request body into v. A malformed body is reported as a
// validation error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// Status returns the HTTP status for err's kind.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an api.Error. Server errors are logged and their
// details withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := Status(err)
	body := api.Error{Error: err.Error(), Kind: apperr.Kind(err)}

	switch {
	case status == http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", RetryAfterSeconds)
	case status >= 500:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		body.Error = fmt.Sprintf("internal error (%s)", body.Kind)
	}
	JSON(w, status, body)
}

// ParamError is an api ErrorHandlerFunc for parameters that fail to bind.
func ParamError(w http.ResponseWriter, r *http.Request, err error) {
	JSON(w, http.StatusBadRequest, api.Error{Error: err.Error(), Kind: apperr.KindValidation})
}

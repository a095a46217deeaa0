package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/TanishaMaheshwari/vc-manager/internal/auth"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

// writeJSON emits a success response.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Business-rule violations
// (already settled, ineligible winner, bid too high) are conflicts: the
// request was well formed but the pool's state forbids it. Anything outside
// the taxonomy is an operational failure and surfaces as a generic 500 so
// storage details never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, settlement.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrEmailExists):
		code = http.StatusBadRequest
	case errors.Is(err, settlement.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, settlement.ErrAlreadySettled),
		errors.Is(err, settlement.ErrIneligibleWinner),
		errors.Is(err, settlement.ErrBidTooHigh):
		code = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = http.StatusUnauthorized
	default:
		slog.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

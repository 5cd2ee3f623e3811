package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetai/internal/core"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeFailure maps a pipeline error to the right status code. Identity and
// validation failures are the caller's fault; an empty ledger on the range
// endpoints is 404; everything else is a server error with the detail kept
// out of the response.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.Is(err, core.ErrNotLoggedIn), errors.Is(err, core.ErrUserIDNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, core.ErrNoTransactions):
		writeError(w, http.StatusNotFound, "No transactions found")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a request body into dst, rejecting unknown shapes early.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return core.Invalid("invalid JSON body")
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// APIError is an error the client is allowed to see. Anything else becomes a 500.
type APIError struct {
	Status int
	Msg    string
	Fields map[string]string
}

func (e *APIError) Error() string { return e.Msg }

// ValidationError: a required field is missing or malformed (400).
func ValidationError(msg string, fields map[string]string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Msg: msg, Fields: fields}
}

// ConflictError: the entity collides with an existing one (400).
func ConflictError(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Msg: msg}
}

// AuthError: bad credentials or an unusable token (401).
func AuthError(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Msg: msg}
}

// NotFoundError: the addressed entity does not exist (404).
func NotFoundError(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Msg: msg}
}

// JSONError sends a JSON error response with a single "msg" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"msg": message})
}

// writeError renders err. APIErrors are sent as-is; everything else is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		out := map[string]interface{}{"msg": apiErr.Msg}
		if len(apiErr.Fields) > 0 {
			out["fields"] = apiErr.Fields
		}
		writeJSON(w, apiErr.Status, out)
		return
	}

	slog.Error("request failed",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

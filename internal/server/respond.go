package server

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the uniform failure body of every endpoint.
type ErrorResponse struct {
	Error string `json:"error" example:"Failed to process chat request"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"error": message} response. message must be a fixed,
// caller-safe string; internal error detail belongs in the logs.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Human-readable error message
	// default: Internal server error
	Error string `json:"error"`
}

// MessageResponse is the JSON body for confirmations without a payload
// swagger:model MessageResponse
type MessageResponse struct {
	// Confirmation message
	// default: ok
	Message string `json:"message"`
}

// writeError writes an ErrorResponse with the given status code.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON writes an arbitrary JSON body with the given status code.
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

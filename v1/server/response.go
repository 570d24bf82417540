package server

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response, including the 503
// written by the request gate.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes data with status and an application/json content type.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Headers are already written, so an encode error cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes {"error": msg} with status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

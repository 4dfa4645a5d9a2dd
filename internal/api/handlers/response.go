package handlers

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON wrapper returned by every todo endpoint.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Count   *int64   `json:"count,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, env Envelope) {
	env.Success = true
	writeJSON(w, status, env)
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, Envelope{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

// NotFound answers every request that matched no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

// InternalError is the generic 500 envelope; internals stay in the logs.
func InternalError(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusInternalServerError, msg)
}

func count(n int64) *int64 {
	return &n
}

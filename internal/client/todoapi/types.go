package todoapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TWRT/todos/internal/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int64          `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
}

type CreateTodoRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`
}

// UpdateTodoRequest only sends the fields that are set.
type UpdateTodoRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// APIError is a non-2xx answer from the todo API.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

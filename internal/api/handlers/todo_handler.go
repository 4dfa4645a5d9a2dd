package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/models"
	"github.com/TWRT/todos/internal/repository"
	"github.com/TWRT/todos/internal/validation"
)

// maxBodyBytes bounds request bodies; the largest valid todo is far smaller.
const maxBodyBytes = 1 << 20

const (
	invalidJSONMessage = "Invalid JSON body"
	tooLargeMessage    = "Request body too large"
)

type TodoService interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	GetTodo(ctx context.Context, id int64) (models.Todo, error)
	CreateTodo(ctx context.Context, body any) (models.Todo, error)
	UpdateTodo(ctx context.Context, id int64, body any) (models.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	ClearTodos(ctx context.Context) (int64, error)
}

type TodoHandler struct {
	todoService TodoService
	logger      *log.Logger
}

func NewTodoHandler(todoService TodoService, logger *log.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ListTodos(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch todos", err)
		return
	}

	writeSuccess(w, http.StatusOK, Envelope{
		Data:  todos,
		Count: count(int64(len(todos))),
	})
}

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(r.Context(), id)
	if err != nil {
		h.handleError(w, r, "Failed to fetch todo", err)
		return
	}

	writeSuccess(w, http.StatusOK, Envelope{Data: todo})
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.CreateTodo(r.Context(), body)
	if err != nil {
		h.handleError(w, r, "Failed to create todo", err)
		return
	}

	writeSuccess(w, http.StatusCreated, Envelope{
		Data:    todo,
		Message: "Todo created successfully",
	})
}

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), id, body)
	if err != nil {
		h.handleError(w, r, "Failed to update todo", err)
		return
	}

	writeSuccess(w, http.StatusOK, Envelope{
		Data:    todo,
		Message: "Todo updated successfully",
	})
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(r.Context(), id); err != nil {
		h.handleError(w, r, "Failed to delete todo", err)
		return
	}

	writeSuccess(w, http.StatusOK, Envelope{Message: "Todo deleted successfully"})
}

func (h *TodoHandler) ClearTodos(w http.ResponseWriter, r *http.Request) {
	n, err := h.todoService.ClearTodos(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to delete todos", err)
		return
	}

	writeSuccess(w, http.StatusOK, Envelope{
		Message: fmt.Sprintf("Deleted %d todos", n),
		Count:   count(n),
	})
}

func (h *TodoHandler) handleError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "Validation error", ve.Details...)
	case errors.Is(err, repository.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	default:
		h.fail(w, r, msg, err)
	}
}

func (h *TodoHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "method", r.Method, "path", r.URL.Path, "err", err)
	InternalError(w, msg)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo ID")
		return 0, false
	}
	return id, true
}

// readBody decodes the request body, answering 413 or 400 itself when it
// cannot.
func readBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	body, err := decodeBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage)
		} else {
			writeError(w, http.StatusBadRequest, invalidJSONMessage)
		}
		return nil, false
	}
	return body, true
}

// decodeBody decodes a JSON request body into generic values. An empty body
// decodes as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return body, nil
}

package api

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/api/handlers"
	"github.com/TWRT/todos/internal/repository"
	"github.com/TWRT/todos/internal/service"
	"github.com/TWRT/todos/internal/validation"
)

type RouterOptions struct {
	CORSOrigin string
}

func SetupRouter(db *repository.DB, logger *log.Logger, opts RouterOptions) (http.Handler, error) {
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}

	todoRepo := repository.NewTodoRepository(db)
	todoService := service.NewTodoService(todoRepo, validator)

	todoHandler := handlers.NewTodoHandler(todoService, logger)
	healthHandler := handlers.NewHealthHandler(db, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	mux.HandleFunc("GET /api/todos", todoHandler.ListTodos)
	mux.HandleFunc("POST /api/todos", todoHandler.CreateTodo)
	mux.HandleFunc("DELETE /api/todos", todoHandler.ClearTodos)
	mux.HandleFunc("GET /api/todos/{id}", todoHandler.GetTodo)
	mux.HandleFunc("PUT /api/todos/{id}", todoHandler.UpdateTodo)
	mux.HandleFunc("DELETE /api/todos/{id}", todoHandler.DeleteTodo)

	mux.HandleFunc("/", handlers.NotFound)

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	var handler http.Handler = mux
	handler = Recover(logger)(handler)
	handler = CORS(origin)(handler)
	handler = Logging(logger)(handler)
	handler = WithRequestID(handler)

	return handler, nil
}

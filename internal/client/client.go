package client

import (
	"context"

	"github.com/TWRT/todos/internal/client/todoapi"
	"github.com/TWRT/todos/internal/models"
)

type TodoReader interface {
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (models.Todo, error)
}

type TodoWriter interface {
	Create(ctx context.Context, req todoapi.CreateTodoRequest) (models.Todo, error)
	Update(ctx context.Context, id int64, req todoapi.UpdateTodoRequest) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type HealthChecker interface {
	Health(ctx context.Context) (todoapi.HealthStatus, error)
}

type TodoClient interface {
	TodoReader
	TodoWriter
}

var _ TodoClient = (*todoapi.Client)(nil)
var _ HealthChecker = (*todoapi.Client)(nil)

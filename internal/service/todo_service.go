package service

import (
	"context"
	"fmt"

	"github.com/TWRT/todos/internal/models"
	"github.com/TWRT/todos/internal/repository"
	"github.com/TWRT/todos/internal/validation"
)

type TodoService struct {
	todoRepo  *repository.TodoRepository
	validator *validation.Validator
}

func NewTodoService(todoRepo *repository.TodoRepository, validator *validation.Validator) *TodoService {
	return &TodoService{
		todoRepo:  todoRepo,
		validator: validator,
	}
}

func (s *TodoService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	return s.todoRepo.List(ctx)
}

func (s *TodoService) GetTodo(ctx context.Context, id int64) (models.Todo, error) {
	return s.todoRepo.Get(ctx, id)
}

// CreateTodo validates a decoded JSON body and stores the new todo.
// Validation failures are returned as *validation.Error.
func (s *TodoService) CreateTodo(ctx context.Context, body any) (models.Todo, error) {
	newTodo, err := s.validator.Create(body)
	if err != nil {
		return models.Todo{}, err
	}
	return s.todoRepo.Create(ctx, newTodo)
}

// UpdateTodo validates a decoded JSON body and applies it as a partial update.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, body any) (models.Todo, error) {
	patch, err := s.validator.Update(body)
	if err != nil {
		return models.Todo{}, err
	}
	return s.todoRepo.Update(ctx, id, patch)
}

func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	removed, err := s.todoRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("delete todo %d: %w", id, repository.ErrTodoNotFound)
	}
	return nil
}

func (s *TodoService) ClearTodos(ctx context.Context) (int64, error) {
	return s.todoRepo.Clear(ctx)
}

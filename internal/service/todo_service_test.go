package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/TWRT/todos/internal/repository"
	"github.com/TWRT/todos/internal/validation"
)

func newTestService(t *testing.T) *TodoService {
	t.Helper()

	db, err := repository.InitDB(repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	validator, err := validation.New()
	if err != nil {
		t.Fatalf("validation.New() error = %v", err)
	}

	return NewTodoService(repository.NewTodoRepository(db), validator)
}

func body(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v
}

func TestCreateTodoValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTodo(ctx, body(t, `{"description":"no title"}`))
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("CreateTodo() error = %v, want *validation.Error", err)
	}

	todos, err := svc.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos() error = %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("invalid create stored %d todos", len(todos))
	}
}

func TestCreateTodoStoresTrimmedFields(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateTodo(context.Background(), body(t, `{"title":"  Walk dog  "}`))
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if created.Title != "Walk dog" || created.Priority != "medium" {
		t.Errorf("CreateTodo() = %+v", created)
	}
}

func TestUpdateTodo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, body(t, `{"title":"Test"}`))
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}

	updated, err := svc.UpdateTodo(ctx, created.ID, body(t, `{"completed":true}`))
	if err != nil {
		t.Fatalf("UpdateTodo() error = %v", err)
	}
	if !updated.Completed || updated.Title != "Test" {
		t.Errorf("UpdateTodo() = %+v", updated)
	}

	_, err = svc.UpdateTodo(ctx, created.ID, body(t, `{"priority":"urgent"}`))
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Errorf("UpdateTodo() error = %v, want *validation.Error", err)
	}

	_, err = svc.UpdateTodo(ctx, 999999, body(t, `{"completed":true}`))
	if !errors.Is(err, repository.ErrTodoNotFound) {
		t.Errorf("UpdateTodo() error = %v, want ErrTodoNotFound", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, body(t, `{"title":"Test"}`))
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}

	if err := svc.DeleteTodo(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTodo() error = %v", err)
	}
	if err := svc.DeleteTodo(ctx, created.ID); !errors.Is(err, repository.ErrTodoNotFound) {
		t.Errorf("second DeleteTodo() error = %v, want ErrTodoNotFound", err)
	}
	if _, err := svc.GetTodo(ctx, created.ID); !errors.Is(err, repository.ErrTodoNotFound) {
		t.Errorf("GetTodo() after delete error = %v, want ErrTodoNotFound", err)
	}
}

func TestClearTodos(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		if _, err := svc.CreateTodo(ctx, body(t, `{"title":"`+title+`"}`)); err != nil {
			t.Fatalf("CreateTodo() error = %v", err)
		}
	}

	n, err := svc.ClearTodos(ctx)
	if err != nil || n != 2 {
		t.Fatalf("ClearTodos() = %d, %v; want 2, nil", n, err)
	}
}

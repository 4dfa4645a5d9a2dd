package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/todos/internal/models"
)

var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = `id, title, description, completed, priority, created_at, updated_at`

type TodoRepository struct {
	db  *DB
	now func() time.Time
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var t models.Todo
	var priority string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&priority,
		timestamp{&t.CreatedAt},
		timestamp{&t.UpdatedAt},
	)
	if err != nil {
		return models.Todo{}, err
	}
	t.Priority = models.Priority(priority)
	return t, nil
}

// List returns every todo, newest first.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (models.Todo, error) {
	query := r.db.rebind(`SELECT ` + todoColumns + ` FROM todos WHERE id = ?`)

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, fmt.Errorf("get todo %d: %w", id, ErrTodoNotFound)
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo models.NewTodo) (models.Todo, error) {
	priority := todo.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := r.now()

	query := r.db.rebind(`
		INSERT INTO todos (title, description, completed, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + todoColumns)

	created, err := scanTodo(r.db.QueryRowContext(ctx, query,
		todo.Title,
		todo.Description,
		false,
		string(priority),
		now,
		now,
	))
	if err != nil {
		return models.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	return created, nil
}

// Update applies the non-nil fields of patch and refreshes updated_at. An
// empty patch returns the current record untouched.
func (r *TodoRepository) Update(ctx context.Context, id int64, patch models.TodoPatch) (models.Todo, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, id)
	}

	var sets []string
	var args []any

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	query := r.db.rebind(`UPDATE todos SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? RETURNING ` + todoColumns)

	updated, err := scanTodo(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, fmt.Errorf("update todo %d: %w", id, ErrTodoNotFound)
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}

	return updated, nil
}

// Delete reports whether a row was removed.
func (r *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete todo %d rows affected: %w", id, err)
	}
	return rows > 0, nil
}

// Clear removes every todo and returns how many were removed.
func (r *TodoRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, fmt.Errorf("clear todos: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear todos rows affected: %w", err)
	}
	return rows, nil
}

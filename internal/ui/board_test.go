package ui

import (
	"testing"

	"github.com/TWRT/todos/internal/models"
)

func todos(ids ...int64) []models.Todo {
	out := make([]models.Todo, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Todo{ID: id, Title: "t", Priority: models.PriorityMedium})
	}
	return out
}

func ids(b *Board) []int64 {
	out := make([]int64, 0, len(b.Todos))
	for _, t := range b.Todos {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBoardLoaded(t *testing.T) {
	b := NewBoard()
	if !b.Loading {
		t.Fatal("new board should be loading")
	}
	b.Err = "Failed to fetch todos"
	b.Loaded(todos(3, 2, 1))

	if b.Loading || b.Err != "" {
		t.Errorf("Loading = %v, Err = %q", b.Loading, b.Err)
	}
	if got := ids(b); !equalIDs(got, []int64{3, 2, 1}) {
		t.Errorf("ids = %v", got)
	}
}

func TestBoardCreatedPrepends(t *testing.T) {
	b := NewBoard()
	b.Loaded(todos(2, 1))
	b.StartCreate()
	b.Type("new")
	b.Created(models.Todo{ID: 3, Title: "new"})

	if got := ids(b); !equalIDs(got, []int64{3, 2, 1}) {
		t.Errorf("ids = %v", got)
	}
	if b.Editing() || b.Draft.Title != "" || b.Draft.Priority != models.PriorityMedium {
		t.Errorf("form not reset: mode=%v draft=%+v", b.Mode, b.Draft)
	}
}

func TestBoardReplacedInPlace(t *testing.T) {
	b := NewBoard()
	b.Loaded(todos(3, 2, 1))
	b.Replaced(models.Todo{ID: 2, Title: "changed", Completed: true})

	if got := ids(b); !equalIDs(got, []int64{3, 2, 1}) {
		t.Errorf("ids = %v", got)
	}
	if b.Todos[1].Title != "changed" || !b.Todos[1].Completed {
		t.Errorf("Todos[1] = %+v", b.Todos[1])
	}
}

func TestBoardRemoved(t *testing.T) {
	b := NewBoard()
	b.Loaded(todos(3, 2, 1))
	b.Cursor = 2
	b.Removed(1)

	if got := ids(b); !equalIDs(got, []int64{3, 2}) {
		t.Errorf("ids = %v", got)
	}
	if b.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", b.Cursor)
	}

	b.Removed(42)
	if len(b.Todos) != 2 {
		t.Errorf("removing unknown id changed list: %v", ids(b))
	}
}

func TestBoardFailKeepsState(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpFetch, "Failed to fetch todos"},
		{OpCreate, "Failed to create todo"},
		{OpUpdate, "Failed to update todo"},
		{OpDelete, "Failed to delete todo"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			b := NewBoard()
			b.Loaded(todos(2, 1))
			b.Fail(tt.op)

			if b.Err != tt.want {
				t.Errorf("Err = %q, want %q", b.Err, tt.want)
			}
			if len(b.Todos) != 2 {
				t.Errorf("todos dropped: %v", ids(b))
			}
		})
	}
}

func TestBoardFailedFetchStopsLoading(t *testing.T) {
	b := NewBoard()
	b.Fail(OpFetch)
	if b.Loading {
		t.Error("Loading still true after failed fetch")
	}
}

func TestBoardEditAndCancel(t *testing.T) {
	b := NewBoard()
	b.Loaded([]models.Todo{{ID: 7, Title: "Write", Description: "docs", Priority: models.PriorityHigh}})

	if !b.StartEdit() {
		t.Fatal("StartEdit() = false")
	}
	if b.EditingID != 7 || b.Draft != (Draft{Title: "Write", Description: "docs", Priority: models.PriorityHigh}) {
		t.Fatalf("draft = %+v, editing = %d", b.Draft, b.EditingID)
	}

	b.Type("!")
	b.NextField()
	b.Backspace()
	b.NextField()
	b.Type("x")
	if b.Draft != (Draft{Title: "Write!", Description: "doc", Priority: models.PriorityLow}) {
		t.Fatalf("draft = %+v", b.Draft)
	}

	b.CancelEdit()
	if b.Editing() || b.EditingID != 0 {
		t.Errorf("still editing after cancel")
	}
	if b.Todos[0].Title != "Write" {
		t.Errorf("cancel changed todo: %+v", b.Todos[0])
	}
}

func TestBoardSavedEditClearsForm(t *testing.T) {
	b := NewBoard()
	b.Loaded(todos(1))
	b.StartEdit()
	b.Err = "Failed to update todo"

	b.Replaced(models.Todo{ID: 1, Title: "saved"})
	if b.Editing() || b.Err != "" {
		t.Errorf("mode = %v, Err = %q", b.Mode, b.Err)
	}
}

func TestBoardStartEditEmpty(t *testing.T) {
	b := NewBoard()
	b.Loaded(nil)
	if b.StartEdit() {
		t.Error("StartEdit() on empty board = true")
	}
}

func TestBoardCursorBounds(t *testing.T) {
	b := NewBoard()
	b.Loaded(todos(2, 1))

	b.MoveUp()
	if b.Cursor != 0 {
		t.Errorf("Cursor = %d after MoveUp at top", b.Cursor)
	}
	b.MoveDown()
	b.MoveDown()
	if b.Cursor != 1 {
		t.Errorf("Cursor = %d after MoveDown past end", b.Cursor)
	}
}

func TestBackspaceMultibyte(t *testing.T) {
	b := NewBoard()
	b.StartCreate()
	b.Type("héé")
	b.Backspace()
	if b.Draft.Title != "hé" {
		t.Errorf("Title = %q, want %q", b.Draft.Title, "hé")
	}
}

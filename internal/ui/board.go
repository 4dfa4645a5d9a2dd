package ui

import (
	"github.com/TWRT/todos/internal/models"
)

// Op names a client action whose failure is reported to the user.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) FailureMessage() string {
	switch o {
	case OpFetch:
		return "Failed to fetch todos"
	case OpCreate:
		return "Failed to create todo"
	case OpUpdate:
		return "Failed to update todo"
	case OpDelete:
		return "Failed to delete todo"
	}
	return "Something went wrong"
}

type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldPriority
)

// Draft is the form state for a new todo or a todo being edited.
type Draft struct {
	Title       string
	Description string
	Priority    models.Priority
}

func emptyDraft() Draft {
	return Draft{Priority: models.PriorityMedium}
}

type Mode int

const (
	ModeBrowse Mode = iota
	ModeCreate
	ModeEdit
)

// Board is the client's local view of the todo list. It is only changed
// from server records, never re-fetched after a single mutation.
type Board struct {
	Todos   []models.Todo
	Loading bool
	Err     string
	Cursor  int

	Mode      Mode
	EditingID int64
	Draft     Draft
	Field     Field
}

func NewBoard() *Board {
	return &Board{Loading: true, Draft: emptyDraft()}
}

func (b *Board) Loaded(todos []models.Todo) {
	b.Todos = todos
	b.Loading = false
	b.Err = ""
	b.clampCursor()
}

// Created prepends the server's record, matching the list's newest-first order.
func (b *Board) Created(todo models.Todo) {
	b.Todos = append([]models.Todo{todo}, b.Todos...)
	b.Cursor = 0
	b.Err = ""
	b.resetForm()
}

// Replaced swaps in the server's record for the todo with the same id.
func (b *Board) Replaced(todo models.Todo) {
	for i := range b.Todos {
		if b.Todos[i].ID == todo.ID {
			b.Todos[i] = todo
			break
		}
	}
	if b.Mode == ModeEdit && b.EditingID == todo.ID {
		b.Err = ""
		b.resetForm()
	}
}

func (b *Board) Removed(id int64) {
	kept := b.Todos[:0]
	for _, t := range b.Todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	b.Todos = kept
	b.clampCursor()
}

// Fail records the failure of op and leaves everything already loaded in place.
func (b *Board) Fail(op Op) {
	b.Err = op.FailureMessage()
	if op == OpFetch {
		b.Loading = false
	}
}

func (b *Board) Selected() (models.Todo, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Todos) {
		return models.Todo{}, false
	}
	return b.Todos[b.Cursor], true
}

func (b *Board) MoveUp() {
	if b.Cursor > 0 {
		b.Cursor--
	}
}

func (b *Board) MoveDown() {
	if b.Cursor < len(b.Todos)-1 {
		b.Cursor++
	}
}

func (b *Board) StartCreate() {
	b.Mode = ModeCreate
	b.EditingID = 0
	b.Draft = emptyDraft()
	b.Field = FieldTitle
}

// StartEdit copies the selected todo into the draft.
func (b *Board) StartEdit() bool {
	todo, ok := b.Selected()
	if !ok {
		return false
	}
	b.Mode = ModeEdit
	b.EditingID = todo.ID
	b.Draft = Draft{Title: todo.Title, Description: todo.Description, Priority: todo.Priority}
	b.Field = FieldTitle
	return true
}

// CancelEdit discards the draft.
func (b *Board) CancelEdit() {
	b.resetForm()
}

func (b *Board) Editing() bool {
	return b.Mode != ModeBrowse
}

// NextField moves focus title -> description -> priority -> title.
func (b *Board) NextField() {
	b.Field = (b.Field + 1) % 3
}

// Type applies text input to the focused field. On the priority field any
// input cycles the priority.
func (b *Board) Type(s string) {
	switch b.Field {
	case FieldTitle:
		b.Draft.Title += s
	case FieldDescription:
		b.Draft.Description += s
	case FieldPriority:
		b.Draft.Priority = b.Draft.Priority.Next()
	}
}

func (b *Board) Backspace() {
	switch b.Field {
	case FieldTitle:
		b.Draft.Title = dropLastRune(b.Draft.Title)
	case FieldDescription:
		b.Draft.Description = dropLastRune(b.Draft.Description)
	}
}

func (b *Board) resetForm() {
	b.Mode = ModeBrowse
	b.EditingID = 0
	b.Draft = emptyDraft()
	b.Field = FieldTitle
}

func (b *Board) clampCursor() {
	if b.Cursor >= len(b.Todos) {
		b.Cursor = len(b.Todos) - 1
	}
	if b.Cursor < 0 {
		b.Cursor = 0
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// Package ui is the terminal client for the todo API.
package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/client"
	"github.com/TWRT/todos/internal/client/todoapi"
	"github.com/TWRT/todos/internal/models"
)

// Run starts the program and blocks until the user quits or ctx is done.
// Failure causes go to logger, which must not write to the terminal.
func Run(ctx context.Context, c client.TodoClient, logger *log.Logger) error {
	program := tea.NewProgram(NewModel(ctx, c, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type Model struct {
	ctx    context.Context
	client client.TodoClient
	logger *log.Logger
	board  *Board
}

type todosLoadedMsg struct{ todos []models.Todo }

type todoCreatedMsg struct{ todo models.Todo }

type todoUpdatedMsg struct{ todo models.Todo }

type todoDeletedMsg struct{ id int64 }

type opFailedMsg struct {
	op  Op
	err error
}

func NewModel(ctx context.Context, c client.TodoClient, logger *log.Logger) *Model {
	return &Model{ctx: ctx, client: c, logger: logger, board: NewBoard()}
}

func (m *Model) Board() *Board {
	return m.board
}

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		m.board.Loaded(msg.todos)
	case todoCreatedMsg:
		m.board.Created(msg.todo)
	case todoUpdatedMsg:
		m.board.Replaced(msg.todo)
	case todoDeletedMsg:
		m.board.Removed(msg.id)
	case opFailedMsg:
		m.logger.Debug(msg.op.FailureMessage(), "err", msg.err)
		m.board.Fail(msg.op)
	case tea.KeyMsg:
		if m.board.Editing() {
			return m, m.handleFormKey(msg)
		}
		return m, m.handleListKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "k", "up":
		m.board.MoveUp()
	case "j", "down":
		m.board.MoveDown()
	case "r":
		m.board.Loading = true
		return m.fetch()
	case "n":
		m.board.StartCreate()
	case "e":
		m.board.StartEdit()
	case " ":
		if todo, ok := m.board.Selected(); ok {
			completed := !todo.Completed
			return m.update(todo.ID, todoapi.UpdateTodoRequest{Completed: &completed})
		}
	case "d":
		if todo, ok := m.board.Selected(); ok {
			return m.remove(todo.ID)
		}
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.board.CancelEdit()
	case tea.KeyTab:
		m.board.NextField()
	case tea.KeyBackspace:
		m.board.Backspace()
	case tea.KeySpace:
		m.board.Type(" ")
	case tea.KeyRunes:
		m.board.Type(string(msg.Runes))
	case tea.KeyEnter:
		return m.save()
	}
	return nil
}

// save submits the draft. A blank title is not sent.
func (m *Model) save() tea.Cmd {
	draft := m.board.Draft
	if strings.TrimSpace(draft.Title) == "" {
		return nil
	}

	if m.board.Mode == ModeCreate {
		req := todoapi.CreateTodoRequest{
			Title:       draft.Title,
			Description: draft.Description,
			Priority:    draft.Priority,
		}
		return func() tea.Msg {
			todo, err := m.client.Create(m.ctx, req)
			if err != nil {
				return opFailedMsg{op: OpCreate, err: err}
			}
			return todoCreatedMsg{todo: todo}
		}
	}

	return m.update(m.board.EditingID, todoapi.UpdateTodoRequest{
		Title:       &draft.Title,
		Description: &draft.Description,
		Priority:    &draft.Priority,
	})
}

func (m *Model) fetch() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.client.List(m.ctx)
		if err != nil {
			return opFailedMsg{op: OpFetch, err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m *Model) update(id int64, req todoapi.UpdateTodoRequest) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.client.Update(m.ctx, id, req)
		if err != nil {
			return opFailedMsg{op: OpUpdate, err: err}
		}
		return todoUpdatedMsg{todo: todo}
	}
}

func (m *Model) remove(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Delete(m.ctx, id); err != nil {
			return opFailedMsg{op: OpDelete, err: err}
		}
		return todoDeletedMsg{id: id}
	}
}

func (m *Model) View() string {
	return render(m.board)
}

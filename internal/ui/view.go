package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/TWRT/todos/internal/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle    = lipgloss.NewStyle().Underline(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func render(b *Board) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Todos") + "\n\n")

	if b.Err != "" {
		sb.WriteString(errorStyle.Render(b.Err) + "\n\n")
	}

	if b.Loading {
		sb.WriteString("Loading todos...\n")
		return sb.String()
	}

	if b.Mode == ModeCreate {
		writeForm(&sb, "New todo", b)
	}

	if len(b.Todos) == 0 {
		sb.WriteString(mutedStyle.Render("No todos yet. Press n to add one.") + "\n")
	}
	for i, todo := range b.Todos {
		if b.Mode == ModeEdit && b.EditingID == todo.ID {
			writeForm(&sb, fmt.Sprintf("Editing #%d", todo.ID), b)
			continue
		}
		sb.WriteString(formatTodo(todo, i == b.Cursor) + "\n")
	}

	sb.WriteString("\n" + mutedStyle.Render(footer(b)) + "\n")
	return sb.String()
}

func formatTodo(t models.Todo, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = doneStyle.Render(title)
	} else if selected {
		title = selectedStyle.Render(title)
	}

	line := fmt.Sprintf("%s%s %s %s %s", cursor, check, title,
		priorityStyle(t.Priority).Render(string(t.Priority)),
		mutedStyle.Render("created "+humanize.Time(t.CreatedAt)))
	if t.Description != "" {
		line += "\n      " + mutedStyle.Render(t.Description)
	}
	return line
}

func writeForm(sb *strings.Builder, heading string, b *Board) {
	field := func(f Field, label, value string) string {
		text := label + ": " + value
		if b.Field == f {
			return focusStyle.Render(text + "_")
		}
		return text
	}

	sb.WriteString(heading + "\n")
	sb.WriteString("  " + field(FieldTitle, "Title", b.Draft.Title) + "\n")
	sb.WriteString("  " + field(FieldDescription, "Description", b.Draft.Description) + "\n")
	sb.WriteString("  " + field(FieldPriority, "Priority", priorityStyle(b.Draft.Priority).Render(string(b.Draft.Priority))) + "\n\n")
}

func priorityStyle(p models.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return mutedStyle
}

func footer(b *Board) string {
	if b.Editing() {
		return "tab next field | enter save | esc cancel"
	}
	return "j/k move | space toggle | n new | e edit | d delete | r reload | q quit"
}

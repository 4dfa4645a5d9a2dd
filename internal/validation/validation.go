// Package validation checks client-supplied todo fields against JSON schemas
// before they reach storage.
package validation

import (
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/TWRT/todos/internal/models"
)

const (
	createSchemaURL = "https://todos.local/schemas/todo-create.json"
	updateSchemaURL = "https://todos.local/schemas/todo-update.json"
)

const createSchema = `{
	"type": "object",
	"properties": {
		"title":       {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string", "maxLength": 1000},
		"priority":    {"type": "string", "enum": ["low", "medium", "high"]}
	},
	"required": ["title"]
}`

const updateSchema = `{
	"type": "object",
	"properties": {
		"title":       {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string", "maxLength": 1000},
		"completed":   {"type": "boolean"},
		"priority":    {"type": "string", "enum": ["low", "medium", "high"]}
	}
}`

// trimmedFields are trimmed before length constraints are checked.
var trimmedFields = []string{"title", "description"}

// Error lists every violated constraint of a request body.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "validation error: " + strings.Join(e.Details, "; ")
}

type Validator struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

func New() (*Validator, error) {
	create, err := compile(createSchemaURL, createSchema)
	if err != nil {
		return nil, err
	}
	update, err := compile(updateSchemaURL, updateSchema)
	if err != nil {
		return nil, err
	}
	return &Validator{create: create, update: update}, nil
}

func compile(url, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return schema, nil
}

// Create validates a decoded JSON body for todo creation. Priority defaults
// to medium when absent.
func (v *Validator) Create(body any) (models.NewTodo, error) {
	fields, err := validate(v.create, body)
	if err != nil {
		return models.NewTodo{}, err
	}

	todo := models.NewTodo{Priority: models.PriorityMedium}
	todo.Title, _ = fields["title"].(string)
	if s, ok := fields["description"].(string); ok {
		todo.Description = s
	}
	if s, ok := fields["priority"].(string); ok {
		todo.Priority = models.Priority(s)
	}
	return todo, nil
}

// Update validates a decoded JSON body for a partial update. Only fields
// present in the body are set on the returned patch.
func (v *Validator) Update(body any) (models.TodoPatch, error) {
	fields, err := validate(v.update, body)
	if err != nil {
		return models.TodoPatch{}, err
	}

	var patch models.TodoPatch
	if s, ok := fields["title"].(string); ok {
		patch.Title = &s
	}
	if s, ok := fields["description"].(string); ok {
		patch.Description = &s
	}
	if b, ok := fields["completed"].(bool); ok {
		patch.Completed = &b
	}
	if s, ok := fields["priority"].(string); ok {
		p := models.Priority(s)
		patch.Priority = &p
	}
	return patch, nil
}

func validate(schema *jsonschema.Schema, body any) (map[string]any, error) {
	fields, isObject := body.(map[string]any)
	if isObject {
		fields = trim(fields)
		body = fields
	}

	if err := schema.Validate(body); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("validate body: %w", err)
		}
		var details []string
		collectSchemaErrors(&details, ve)
		sort.Strings(details)
		return nil, &Error{Details: details}
	}
	return fields, nil
}

func trim(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range trimmedFields {
		if s, ok := out[name].(string); ok {
			out[name] = strings.TrimSpace(s)
		}
	}
	return out
}

func collectSchemaErrors(details *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*details = append(*details, formatDetail(err.InstanceLocation, err.Message))
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(details, cause)
	}
}

func formatDetail(location, message string) string {
	field := strings.TrimPrefix(strings.TrimPrefix(location, "#"), "/")
	if field == "" {
		return message
	}
	return fmt.Sprintf("%q %s", field, message)
}

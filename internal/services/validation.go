package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level validation failures. Handlers map
// it to a 400 response carrying the field details.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// validEmail reports whether the input is a plain well-formed address
// without a display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func statusValues() string {
	values := models.TaskStatuses()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func priorityValues() string {
	values := models.TaskPriorities()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func invalidStatusError() *ValidationError {
	return newFieldError("status", fmt.Sprintf("Status must be one of: %s", statusValues()))
}

func invalidPriorityError() *ValidationError {
	return newFieldError("priority", fmt.Sprintf("Priority must be one of: %s", priorityValues()))
}

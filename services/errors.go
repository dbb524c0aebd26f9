package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ValidationError reports malformed or missing input. Fields maps a field
// name to the problem found with it, when the problem is field-level.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	problems := make([]string, 0, len(names))
	for _, name := range names {
		problems = append(problems, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(problems, "; "))
}

// NotFoundError reports an operation on an id with no memory behind it.
type NotFoundError struct {
	ID  uuid.UUID
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("memory with id %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

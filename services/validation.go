package services

import (
	"encoding/json"

	"memories/models"

	"github.com/google/uuid"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
)

// fieldRule describes one body attribute: its type, whether it must be
// present, and the value used when it is absent.
type fieldRule struct {
	Name     string
	Kind     fieldKind
	Required bool
	Default  any
}

type bodySchema []fieldRule

// memoryBodySchema is shared by create and update.
var memoryBodySchema = bodySchema{
	{Name: "coverUrl", Kind: kindString, Required: true},
	{Name: "content", Kind: kindString, Required: true},
	{Name: "isPublic", Kind: kindBool, Default: false},
}

// parse checks body against the schema and returns the coerced values by
// field name. body is a decoded JSON value.
func (s bodySchema) parse(body any) (map[string]any, error) {
	if body == nil {
		return nil, &ValidationError{Message: "request body is required"}
	}

	object, ok := body.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: "request body must be a JSON object"}
	}

	values := make(map[string]any, len(s))
	problems := make(map[string]string)

	for _, rule := range s {
		raw, present := object[rule.Name]
		if !present {
			if rule.Required {
				problems[rule.Name] = "required"
				continue
			}
			values[rule.Name] = rule.Default
			continue
		}

		switch rule.Kind {
		case kindString:
			str, ok := raw.(string)
			if !ok {
				problems[rule.Name] = "must be a string"
				continue
			}
			values[rule.Name] = str
		case kindBool:
			values[rule.Name] = coerceBool(raw)
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Message: "invalid request body", Fields: problems}
	}

	return values, nil
}

// coerceBool turns loosely typed input into a bool using truthiness: any
// non-empty string is true, "false" and "0" included.
func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, _ := v.Float64()
		return f != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func parseMemoryFields(body any) (models.MemoryFields, error) {
	values, err := memoryBodySchema.parse(body)
	if err != nil {
		return models.MemoryFields{}, err
	}

	return models.MemoryFields{
		CoverURL: values["coverUrl"].(string),
		Content:  values["content"].(string),
		IsPublic: values["isPublic"].(bool),
	}, nil
}

// parseMemoryID accepts only the canonical 8-4-4-4-12 form.
func parseMemoryID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, &ValidationError{Message: "memory id is required", Fields: map[string]string{"id": "required"}}
	}

	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return uuid.Nil, &ValidationError{Message: "invalid memory id", Fields: map[string]string{"id": "must be a UUID"}}
	}

	return id, nil
}

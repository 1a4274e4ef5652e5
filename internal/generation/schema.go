package generation

import (
	"encoding/json"
	"fmt"
)

// FieldKind is the declared type of a payload field.
type FieldKind string

// Supported field kinds.
const (
	KindString      FieldKind = "string"
	KindNumber      FieldKind = "number"
	KindBoolean     FieldKind = "boolean"
	KindStringArray FieldKind = "array-of-string"
	KindObjectArray FieldKind = "array-of-object"
)

// Valid reports whether k is one of the supported kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindStringArray, KindObjectArray:
		return true
	default:
		return false
	}
}

// IsArray reports whether values of this kind are JSON arrays.
func (k FieldKind) IsArray() bool {
	return k == KindStringArray || k == KindObjectArray
}

// FieldSpec describes one field of a flow's input or output payload.
// Description is only a hint for the model; it never affects validation.
type FieldSpec struct {
	Name        string      `yaml:"name" json:"name"`
	Kind        FieldKind   `yaml:"kind" json:"kind"`
	Description string      `yaml:"description" json:"description,omitempty"`
	Required    bool        `yaml:"required" json:"required"`
	Fields      []FieldSpec `yaml:"fields" json:"fields,omitempty"`
}

// checkSchema verifies that a schema is well formed: unique non-empty names,
// known kinds, and element fields declared exactly for array-of-object.
func checkSchema(path string, fields []FieldSpec) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		name := joinPath(path, f.Name)
		if f.Name == "" {
			return fmt.Errorf("%w: %s: field name cannot be empty", ErrInvalidConfig, path)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidConfig, name)
		}
		seen[f.Name] = struct{}{}

		if !f.Kind.Valid() {
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidConfig, name, f.Kind)
		}
		if f.Kind == KindObjectArray {
			if len(f.Fields) == 0 {
				return fmt.Errorf("%w: field %q must declare element fields", ErrInvalidConfig, name)
			}
			if err := checkSchema(name+"[]", f.Fields); err != nil {
				return err
			}
		} else if len(f.Fields) > 0 {
			return fmt.Errorf("%w: field %q of kind %s cannot declare element fields",
				ErrInvalidConfig, name, f.Kind)
		}
	}
	return nil
}

func hasRequired(fields []FieldSpec) bool {
	for _, f := range fields {
		if f.Required {
			return true
		}
	}
	return false
}

func findField(fields []FieldSpec, name string) (FieldSpec, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func copyFields(fields []FieldSpec) []FieldSpec {
	if fields == nil {
		return nil
	}
	out := make([]FieldSpec, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Fields = copyFields(f.Fields)
	}
	return out
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// JSONSchema renders a schema as a JSON Schema object document. Adapters for
// backends that accept JSON Schema (OpenAI-compatible APIs, Claude prompts)
// use it to hint the expected output shape.
func JSONSchema(fields []FieldSpec) json.RawMessage {
	// Marshalling plain maps of strings and slices cannot fail.
	data, _ := json.Marshal(jsonSchemaObject(fields))
	return data
}

func jsonSchemaObject(fields []FieldSpec) map[string]any {
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = jsonSchemaField(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func jsonSchemaField(f FieldSpec) map[string]any {
	var prop map[string]any
	switch f.Kind {
	case KindString:
		prop = map[string]any{"type": "string"}
	case KindNumber:
		prop = map[string]any{"type": "number"}
	case KindBoolean:
		prop = map[string]any{"type": "boolean"}
	case KindStringArray:
		prop = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case KindObjectArray:
		prop = map[string]any{"type": "array", "items": jsonSchemaObject(f.Fields)}
	default:
		prop = map[string]any{}
	}
	if f.Description != "" {
		prop["description"] = f.Description
	}
	return prop
}

package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Violation describes one way a payload fails to conform to a schema.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations is the result of validating a payload. An empty list means the
// payload conforms.
type Violations []Violation

// OK reports whether the payload conformed.
func (v Violations) OK() bool {
	return len(v) == 0
}

// String joins all violations into a single human-readable line.
func (v Violations) String() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		if violation.Field == "" {
			parts = append(parts, violation.Reason)
			continue
		}
		parts = append(parts, violation.Field+" "+violation.Reason)
	}
	return strings.Join(parts, "; ")
}

// Validate checks a raw JSON payload against a schema. It never coerces
// values: a string "true" is not a boolean and "5" is not a number. Fields
// not declared in the schema are ignored.
func Validate(raw []byte, schema []FieldSpec) Violations {
	if !gjson.ValidBytes(raw) {
		return Violations{{Reason: "payload is not valid JSON"}}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Violations{{Reason: "payload must be a JSON object"}}
	}
	return validateObject("", doc, schema)
}

func validateObject(path string, obj gjson.Result, schema []FieldSpec) Violations {
	values := obj.Map()

	var out Violations
	for _, f := range schema {
		name := joinPath(path, f.Name)
		value, ok := values[f.Name]
		if !ok || value.Type == gjson.Null {
			if f.Required {
				out = append(out, Violation{Field: name, Reason: "is required"})
			}
			continue
		}
		out = append(out, validateValue(name, value, f)...)
	}
	return out
}

func validateValue(name string, value gjson.Result, f FieldSpec) Violations {
	switch f.Kind {
	case KindString:
		if value.Type != gjson.String {
			return Violations{{Field: name, Reason: "must be a string"}}
		}
		if f.Required && strings.TrimSpace(value.Str) == "" {
			return Violations{{Field: name, Reason: "must not be empty"}}
		}
	case KindNumber:
		if value.Type != gjson.Number {
			return Violations{{Field: name, Reason: "must be a number"}}
		}
	case KindBoolean:
		if value.Type != gjson.True && value.Type != gjson.False {
			return Violations{{Field: name, Reason: "must be a boolean"}}
		}
	case KindStringArray:
		if !value.IsArray() {
			return Violations{{Field: name, Reason: "must be an array of strings"}}
		}
		var out Violations
		for i, el := range value.Array() {
			if el.Type != gjson.String {
				out = append(out, Violation{Field: fmt.Sprintf("%s[%d]", name, i), Reason: "must be a string"})
			}
		}
		return out
	case KindObjectArray:
		if !value.IsArray() {
			return Violations{{Field: name, Reason: "must be an array of objects"}}
		}
		var out Violations
		for i, el := range value.Array() {
			elPath := fmt.Sprintf("%s[%d]", name, i)
			if !el.IsObject() {
				out = append(out, Violation{Field: elPath, Reason: "must be an object"})
				continue
			}
			out = append(out, validateObject(elPath, el, f.Fields)...)
		}
		return out
	default:
		return Violations{{Field: name, Reason: fmt.Sprintf("has unsupported kind %q", f.Kind)}}
	}
	return nil
}

// ValidatedOutput is a backend payload that has been checked against a flow's
// output schema.
type ValidatedOutput struct {
	flow string
	raw  json.RawMessage
}

// Raw returns a copy of the validated JSON payload.
func (o *ValidatedOutput) Raw() json.RawMessage {
	out := make(json.RawMessage, len(o.raw))
	copy(out, o.raw)
	return out
}

// Decode unmarshals the validated payload into v.
func (o *ValidatedOutput) Decode(v any) error {
	if err := json.Unmarshal(o.raw, v); err != nil {
		return &SchemaMismatchError{
			Flow:       o.flow,
			Violations: Violations{{Reason: "payload cannot be decoded: " + err.Error()}},
		}
	}
	return nil
}

// ValidateOutput confirms that a backend payload conforms to the output
// schema. Partial payloads are rejected as a whole with a SchemaMismatchError.
func ValidateOutput(flow string, raw json.RawMessage, schema []FieldSpec) (*ValidatedOutput, error) {
	if violations := Validate(raw, schema); !violations.OK() {
		return nil, &SchemaMismatchError{Flow: flow, Violations: violations}
	}
	return &ValidatedOutput{flow: flow, raw: raw}, nil
}

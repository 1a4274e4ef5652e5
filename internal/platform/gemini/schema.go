package gemini

import (
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"google.golang.org/genai"
)

// toSchema converts an output schema into Gemini's response schema.
func toSchema(fields []generation.FieldSpec) *genai.Schema {
	if len(fields) == 0 {
		return nil
	}
	return objectSchema(fields)
}

func objectSchema(fields []generation.FieldSpec) *genai.Schema {
	s := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = fieldSchema(f)
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func fieldSchema(f generation.FieldSpec) *genai.Schema {
	var s *genai.Schema
	switch f.Kind {
	case generation.KindNumber:
		s = &genai.Schema{Type: genai.TypeNumber}
	case generation.KindBoolean:
		s = &genai.Schema{Type: genai.TypeBoolean}
	case generation.KindStringArray:
		s = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case generation.KindObjectArray:
		s = &genai.Schema{Type: genai.TypeArray, Items: objectSchema(f.Fields)}
	default:
		s = &genai.Schema{Type: genai.TypeString}
	}
	s.Description = f.Description
	return s
}

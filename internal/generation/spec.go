package generation

import (
	"errors"
	"fmt"
)

// Definition is the declarative description of a flow as written in a flow
// catalogue.
type Definition struct {
	Name   string      `yaml:"name"`
	Model  string      `yaml:"model"`
	Input  []FieldSpec `yaml:"input"`
	Output []FieldSpec `yaml:"output"`
	Prompt string      `yaml:"prompt"`
}

// FlowSpec is a checked, immutable flow definition. It is created once at
// startup by Define and shared by all invocations of the flow.
type FlowSpec struct {
	name     string
	model    string
	input    []FieldSpec
	output   []FieldSpec
	template *Template
}

// Define checks a definition and builds its FlowSpec. Schema problems wrap
// ErrInvalidConfig; template problems are returned as *TemplateError.
func Define(def Definition) (*FlowSpec, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: flow name cannot be empty", ErrInvalidConfig)
	}
	if err := checkSchema("", def.Input); err != nil {
		return nil, fmt.Errorf("flow %s input schema: %w", def.Name, err)
	}
	if err := checkSchema("", def.Output); err != nil {
		return nil, fmt.Errorf("flow %s output schema: %w", def.Name, err)
	}
	if !hasRequired(def.Output) {
		return nil, fmt.Errorf("%w: flow %s output schema must have at least one required field",
			ErrInvalidConfig, def.Name)
	}

	tmpl, err := ParseTemplate(def.Prompt, def.Input)
	if err != nil {
		var templateErr *TemplateError
		if errors.As(err, &templateErr) {
			templateErr.Flow = def.Name
		}
		return nil, err
	}

	return &FlowSpec{
		name:     def.Name,
		model:    def.Model,
		input:    copyFields(def.Input),
		output:   copyFields(def.Output),
		template: tmpl,
	}, nil
}

// MustDefine is like Define but panics on error. It is meant for flows
// declared in code at package initialisation.
func MustDefine(def Definition) *FlowSpec {
	spec, err := Define(def)
	if err != nil {
		panic(err)
	}
	return spec
}

// Name returns the unique flow name.
func (s *FlowSpec) Name() string { return s.name }

// Model returns the flow's model override, or "" for the backend default.
func (s *FlowSpec) Model() string { return s.model }

// InputSchema returns a copy of the input schema.
func (s *FlowSpec) InputSchema() []FieldSpec { return copyFields(s.input) }

// OutputSchema returns a copy of the output schema.
func (s *FlowSpec) OutputSchema() []FieldSpec { return copyFields(s.output) }

// Template returns the parsed prompt template.
func (s *FlowSpec) Template() *Template { return s.template }

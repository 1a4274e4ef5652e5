package assistant

import (
	_ "embed"
	"fmt"

	"github.com/phrazzld/pocket-doctor/internal/generation"
	"gopkg.in/yaml.v2"
)

// Flow names as declared in the catalogue.
const (
	FlowMedicationGuide     = "medicationGuide"
	FlowMedicationAssistant = "medicationAssistant"
	FlowPrescriptionParser  = "prescriptionParser"
)

//go:embed flows.yaml
var catalogueYAML []byte

type catalogueEntry struct {
	Name   string                 `yaml:"name"`
	Models map[string]string      `yaml:"models"`
	Input  []generation.FieldSpec `yaml:"input"`
	Output []generation.FieldSpec `yaml:"output"`
	Prompt string                 `yaml:"prompt"`
}

// LoadCatalogue parses a flow catalogue and defines every flow in it. The
// provider selects each flow's pinned model, if it has one.
func LoadCatalogue(data []byte, provider string) (map[string]*generation.FlowSpec, error) {
	var entries []catalogueEntry
	if err := yaml.UnmarshalStrict(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: cannot parse flow catalogue: %v", generation.ErrInvalidConfig, err)
	}

	specs := make(map[string]*generation.FlowSpec, len(entries))
	for _, e := range entries {
		if _, dup := specs[e.Name]; dup {
			return nil, fmt.Errorf("%w: flow %q declared twice", generation.ErrInvalidConfig, e.Name)
		}
		spec, err := generation.Define(generation.Definition{
			Name:   e.Name,
			Model:  e.Models[provider],
			Input:  e.Input,
			Output: e.Output,
			Prompt: e.Prompt,
		})
		if err != nil {
			return nil, err
		}
		specs[e.Name] = spec
	}
	return specs, nil
}

func lookup(specs map[string]*generation.FlowSpec, name string) (*generation.FlowSpec, error) {
	spec, ok := specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: flow catalogue has no %q flow", generation.ErrInvalidConfig, name)
	}
	return spec, nil
}

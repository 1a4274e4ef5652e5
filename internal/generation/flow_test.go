package generation_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/mocks"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupInput struct {
	MedicationName string `json:"medicationName"`
}

type lookupOutput struct {
	MedicationName string   `json:"medicationName"`
	Advantages     []string `json:"advantages"`
	Disclaimer     string   `json:"disclaimer"`
}

const fixedDisclaimer = "Always consult your doctor or pharmacist."

func newLookupFlow(t *testing.T, backend generation.Backend) *generation.Flow[lookupInput, lookupOutput] {
	t.Helper()

	spec, err := generation.Define(generation.Definition{
		Name:  "lookup",
		Model: "test-model",
		Input: []generation.FieldSpec{
			{Name: "medicationName", Kind: generation.KindString, Required: true},
		},
		Output: []generation.FieldSpec{
			{Name: "medicationName", Kind: generation.KindString, Required: true},
			{Name: "advantages", Kind: generation.KindStringArray, Required: true},
			{Name: "disclaimer", Kind: generation.KindString, Required: true},
		},
		Prompt: "Describe {{medicationName}}.",
	})
	require.NoError(t, err)

	log, _ := logger.GetTestLogger(t)
	flow, err := generation.NewFlow[lookupInput, lookupOutput](spec, backend, log,
		generation.WithFixedOutput(func(lookupInput) map[string]string {
			return map[string]string{"disclaimer": fixedDisclaimer}
		}),
	)
	require.NoError(t, err)
	return flow
}

func TestFlowRun(t *testing.T) {
	backend := mocks.NewMockBackendWithJSON(
		`{"medicationName":"Lisinopril","advantages":["Lowers blood pressure"],"disclaimer":"ask someone"}`)
	flow := newLookupFlow(t, backend)

	out, err := flow.Run(context.Background(), lookupInput{MedicationName: "Lisinopril"})

	require.NoError(t, err)
	assert.Equal(t, "Lisinopril", out.MedicationName)
	assert.Equal(t, []string{"Lowers blood pressure"}, out.Advantages)
	assert.Equal(t, fixedDisclaimer, out.Disclaimer)

	req := backend.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "lookup", req.Flow)
	assert.Equal(t, "Describe Lisinopril.", req.Prompt)
	assert.Equal(t, "test-model", req.Model)
	assert.Len(t, req.OutputSchema, 3)
}

func TestFlowFixedOutputFillsOmittedField(t *testing.T) {
	for name, raw := range map[string]string{
		"omitted":    `{"medicationName":"Lisinopril","advantages":[]}`,
		"empty":      `{"medicationName":"Lisinopril","advantages":[],"disclaimer":""}`,
		"null":       `{"medicationName":"Lisinopril","advantages":[],"disclaimer":null}`,
		"wrong kind": `{"medicationName":"Lisinopril","advantages":[],"disclaimer":42}`,
	} {
		t.Run(name, func(t *testing.T) {
			flow := newLookupFlow(t, mocks.NewMockBackendWithJSON(raw))

			out, err := flow.Run(context.Background(), lookupInput{MedicationName: "Lisinopril"})

			require.NoError(t, err)
			assert.Equal(t, fixedDisclaimer, out.Disclaimer)
		})
	}
}

func TestFlowInputValidation(t *testing.T) {
	backend := mocks.NewMockBackendWithJSON(`{}`)
	flow := newLookupFlow(t, backend)

	out, err := flow.Run(context.Background(), lookupInput{})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrInputValidation))
	var inputErr *generation.InputValidationError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "lookup", inputErr.Flow)
	assert.Equal(t, "medicationName", inputErr.Violations[0].Field)
	assert.Equal(t, 0, backend.Calls(), "backend must not be called for invalid input")
}

func TestFlowBackendFailure(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	backend := mocks.NewMockBackendWithError(netErr)
	flow := newLookupFlow(t, backend)

	out, err := flow.Run(context.Background(), lookupInput{MedicationName: "Lisinopril"})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrBackend))
	assert.False(t, errors.Is(err, generation.ErrSchemaMismatch))

	var backendErr *generation.GenerationBackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "lookup", backendErr.Flow)
	assert.Equal(t, "test-model", backendErr.Model)

	var opErr *net.OpError
	assert.ErrorAs(t, err, &opErr, "original cause stays reachable")
	assert.Equal(t, 1, backend.Calls(), "no internal retry")
}

func TestFlowBackendEmptyResult(t *testing.T) {
	flow := newLookupFlow(t, &mocks.MockBackend{})

	_, err := flow.Run(context.Background(), lookupInput{MedicationName: "Lisinopril"})

	assert.True(t, errors.Is(err, generation.ErrBackend))
	assert.True(t, errors.Is(err, generation.ErrEmptyResponse))
}

func TestFlowSchemaMismatch(t *testing.T) {
	tests := map[string]string{
		"scalar for array": `{"medicationName":"Lisinopril","advantages":"many"}`,
		"not json":         `Sure! Here is your guide`,
		"json array":       `[{"medicationName":"Lisinopril"}]`,
		"missing field":    `{"advantages":["x"]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			flow := newLookupFlow(t, mocks.NewMockBackendWithJSON(raw))

			out, err := flow.Run(context.Background(), lookupInput{MedicationName: "Lisinopril"})

			assert.Nil(t, out)
			assert.True(t, errors.Is(err, generation.ErrSchemaMismatch))
			assert.False(t, errors.Is(err, generation.ErrBackend))
		})
	}
}

func TestFlowLogsStates(t *testing.T) {
	flow := newLookupFlow(t, mocks.NewMockBackendWithJSON(
		`{"medicationName":"Lisinopril","advantages":[],"disclaimer":"x"}`))
	ctx, logBuf := logger.NewTestContext(t)

	_, err := flow.Run(ctx, lookupInput{MedicationName: "Lisinopril"})
	require.NoError(t, err)

	for _, state := range []string{"rendering", "invoking", "validating", "done"} {
		logger.AssertLogField(t, logBuf, "state", state)
	}
	logger.AssertLogField(t, logBuf, "flow", "lookup")
}

func TestNewFlowRequiresDependencies(t *testing.T) {
	_, err := generation.NewFlow[lookupInput, lookupOutput](nil, &mocks.MockBackend{}, nil)
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig))

	spec := generation.MustDefine(generation.Definition{
		Name:   "x",
		Output: []generation.FieldSpec{{Name: "a", Kind: generation.KindString, Required: true}},
	})
	_, err = generation.NewFlow[lookupInput, lookupOutput](spec, nil, nil)
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig))
}

func TestDefine(t *testing.T) {
	valid := generation.Definition{
		Name:   "guide",
		Input:  []generation.FieldSpec{{Name: "medicationName", Kind: generation.KindString, Required: true}},
		Output: []generation.FieldSpec{{Name: "summary", Kind: generation.KindString, Required: true}},
		Prompt: "About {{medicationName}}",
	}

	t.Run("valid", func(t *testing.T) {
		spec, err := generation.Define(valid)
		require.NoError(t, err)
		assert.Equal(t, "guide", spec.Name())
		assert.Equal(t, "About {{medicationName}}", spec.Template().Source())

		schema := spec.InputSchema()
		schema[0].Name = "mutated"
		assert.Equal(t, "medicationName", spec.InputSchema()[0].Name, "spec is immutable")
	})

	t.Run("output needs a required field", func(t *testing.T) {
		def := valid
		def.Output = []generation.FieldSpec{{Name: "summary", Kind: generation.KindString}}
		_, err := generation.Define(def)
		assert.True(t, errors.Is(err, generation.ErrInvalidConfig))
	})

	t.Run("template error is reported with flow name", func(t *testing.T) {
		def := valid
		def.Prompt = "About {{drug}}"
		_, err := generation.Define(def)

		var templateErr *generation.TemplateError
		require.ErrorAs(t, err, &templateErr)
		assert.Equal(t, "guide", templateErr.Flow)
		assert.Equal(t, "drug", templateErr.Field)
	})

	schemaErrors := map[string][]generation.FieldSpec{
		"unknown kind":           {{Name: "a", Kind: "date", Required: true}},
		"duplicate field":        {{Name: "a", Kind: generation.KindString, Required: true}, {Name: "a", Kind: generation.KindString}},
		"empty name":             {{Kind: generation.KindString, Required: true}},
		"object array no fields": {{Name: "a", Kind: generation.KindObjectArray, Required: true}},
		"fields on scalar": {{
			Name: "a", Kind: generation.KindString, Required: true,
			Fields: []generation.FieldSpec{{Name: "b", Kind: generation.KindString}},
		}},
	}
	for name, output := range schemaErrors {
		t.Run(name, func(t *testing.T) {
			def := valid
			def.Output = output
			_, err := generation.Define(def)
			assert.True(t, errors.Is(err, generation.ErrInvalidConfig))
		})
	}
}

func TestJSONSchema(t *testing.T) {
	raw := generation.JSONSchema(parserOutput)

	assert.JSONEq(t, `{
		"type": "object",
		"required": ["medications"],
		"properties": {
			"medications": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["name", "dosage", "frequency"],
					"properties": {
						"name": {"type": "string"},
						"dosage": {"type": "string"},
						"frequency": {"type": "string"}
					}
				}
			}
		}
	}`, string(raw))
}

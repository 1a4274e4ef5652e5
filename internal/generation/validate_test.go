package generation_test

import (
	"errors"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guideOutput = []generation.FieldSpec{
	{Name: "medicationName", Kind: generation.KindString, Required: true},
	{Name: "advantages", Kind: generation.KindStringArray, Required: true},
	{Name: "dosesPerDay", Kind: generation.KindNumber},
	{Name: "withFood", Kind: generation.KindBoolean},
	{Name: "disclaimer", Kind: generation.KindString, Required: true},
}

var parserOutput = []generation.FieldSpec{
	{
		Name:     "medications",
		Kind:     generation.KindObjectArray,
		Required: true,
		Fields: []generation.FieldSpec{
			{Name: "name", Kind: generation.KindString, Required: true},
			{Name: "dosage", Kind: generation.KindString, Required: true},
			{Name: "frequency", Kind: generation.KindString, Required: true},
		},
	},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		schema     []generation.FieldSpec
		wantFields []string
	}{
		{
			name:    "minimal candidate with exactly the required fields",
			payload: `{"medicationName":"Lisinopril","advantages":[],"disclaimer":"d"}`,
			schema:  guideOutput,
		},
		{
			name:    "optional fields of the right kind",
			payload: `{"medicationName":"x","advantages":["a"],"disclaimer":"d","dosesPerDay":2,"withFood":false}`,
			schema:  guideOutput,
		},
		{
			name:    "extra undeclared fields are ignored",
			payload: `{"medicationName":"x","advantages":["a"],"disclaimer":"d","confidence":0.9}`,
			schema:  guideOutput,
		},
		{
			name:       "missing required field",
			payload:    `{"advantages":["a"],"disclaimer":"d"}`,
			schema:     guideOutput,
			wantFields: []string{"medicationName"},
		},
		{
			name:       "null counts as missing",
			payload:    `{"medicationName":null,"advantages":["a"],"disclaimer":"d"}`,
			schema:     guideOutput,
			wantFields: []string{"medicationName"},
		},
		{
			name:       "empty required string",
			payload:    `{"medicationName":"  ","advantages":["a"],"disclaimer":"d"}`,
			schema:     guideOutput,
			wantFields: []string{"medicationName"},
		},
		{
			name:       "scalar in place of array",
			payload:    `{"medicationName":"x","advantages":"lowers blood pressure","disclaimer":"d"}`,
			schema:     guideOutput,
			wantFields: []string{"advantages"},
		},
		{
			name:       "non-string array element",
			payload:    `{"medicationName":"x","advantages":["a",3],"disclaimer":"d"}`,
			schema:     guideOutput,
			wantFields: []string{"advantages[1]"},
		},
		{
			name:       "string is not coerced to boolean or number",
			payload:    `{"medicationName":"x","advantages":[],"disclaimer":"d","withFood":"true","dosesPerDay":"2"}`,
			schema:     guideOutput,
			wantFields: []string{"dosesPerDay", "withFood"},
		},
		{
			name:    "empty object array is valid",
			payload: `{"medications":[]}`,
			schema:  parserOutput,
		},
		{
			name:       "object array element missing a field",
			payload:    `{"medications":[{"name":"Amoxicillin","dosage":"500mg","frequency":"Twice a day"},{"name":"Ibuprofen"}]}`,
			schema:     parserOutput,
			wantFields: []string{"medications[1].dosage", "medications[1].frequency"},
		},
		{
			name:       "object array element that is not an object",
			payload:    `{"medications":["Amoxicillin"]}`,
			schema:     parserOutput,
			wantFields: []string{"medications[0]"},
		},
		{
			name:       "not an object",
			payload:    `["medicationName"]`,
			schema:     guideOutput,
			wantFields: []string{""},
		},
		{
			name:       "invalid JSON",
			payload:    `{"medicationName":`,
			schema:     guideOutput,
			wantFields: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := generation.Validate([]byte(tt.payload), tt.schema)

			if len(tt.wantFields) == 0 {
				assert.True(t, violations.OK(), "unexpected violations: %s", violations)
				return
			}
			require.False(t, violations.OK())
			fields := make([]string, 0, len(violations))
			for _, v := range violations {
				fields = append(fields, v.Field)
				assert.NotEmpty(t, v.Reason)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	payload := []byte(`{"advantages":"x"}`)

	first := generation.Validate(payload, guideOutput)
	second := generation.Validate(payload, guideOutput)

	assert.Equal(t, first, second)
	assert.Equal(t, `{"advantages":"x"}`, string(payload))
}

func TestViolationsString(t *testing.T) {
	v := generation.Violations{
		{Field: "medicationName", Reason: "is required"},
		{Reason: "payload must be a JSON object"},
	}
	assert.Equal(t, "medicationName is required; payload must be a JSON object", v.String())
}

func TestValidateOutput(t *testing.T) {
	t.Run("accepts extra fields and decodes", func(t *testing.T) {
		raw := []byte(`{"medications":[{"name":"Amoxicillin","dosage":"500mg","frequency":"Twice a day","notes":"x"}]}`)

		out, err := generation.ValidateOutput("prescriptionParser", raw, parserOutput)
		require.NoError(t, err)

		var decoded struct {
			Medications []struct {
				Name string `json:"name"`
			} `json:"medications"`
		}
		require.NoError(t, out.Decode(&decoded))
		require.Len(t, decoded.Medications, 1)
		assert.Equal(t, "Amoxicillin", decoded.Medications[0].Name)
		assert.JSONEq(t, string(raw), string(out.Raw()))
	})

	t.Run("rejects scalar for required array", func(t *testing.T) {
		out, err := generation.ValidateOutput("prescriptionParser", []byte(`{"medications":"none"}`), parserOutput)

		assert.Nil(t, out)
		require.Error(t, err)
		assert.True(t, errors.Is(err, generation.ErrSchemaMismatch))
		assert.False(t, errors.Is(err, generation.ErrBackend))

		var mismatch *generation.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "prescriptionParser", mismatch.Flow)
		assert.Equal(t, "medications", mismatch.Violations[0].Field)
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		_, err := generation.ValidateOutput("guide", []byte(`{"medicationName":"x","advantages":[]}`), guideOutput)

		var mismatch *generation.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "disclaimer", mismatch.Violations[0].Field)
	})
}

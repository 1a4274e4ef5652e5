package generation_test

import (
	"errors"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assistantInput = []generation.FieldSpec{
	{Name: "query", Kind: generation.KindString, Required: true},
	{Name: "currentMedications", Kind: generation.KindStringArray},
	{Name: "age", Kind: generation.KindNumber},
	{Name: "pregnant", Kind: generation.KindBoolean},
}

const assistantTemplate = `Patient context:
{{#if currentMedications}}Current medications: {{currentMedications}}{{else}}No current medications listed.{{/if}}
Question: {{query}}`

func TestTemplateRender(t *testing.T) {
	tmpl, err := generation.ParseTemplate(assistantTemplate, assistantInput)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "array joined as a list",
			input: `{"query":"Can I take ibuprofen?","currentMedications":["Metformin","Lisinopril"]}`,
			want:  "Patient context:\nCurrent medications: Metformin, Lisinopril\nQuestion: Can I take ibuprofen?",
		},
		{
			name:  "optional field omitted takes else branch",
			input: `{"query":"Is it safe?"}`,
			want:  "Patient context:\nNo current medications listed.\nQuestion: Is it safe?",
		},
		{
			name:  "empty array is falsy",
			input: `{"query":"Is it safe?","currentMedications":[]}`,
			want:  "Patient context:\nNo current medications listed.\nQuestion: Is it safe?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := tmpl.Render([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rendered.Text)
			assert.Empty(t, rendered.Media)
		})
	}
}

func TestTemplateRenderScalars(t *testing.T) {
	tmpl, err := generation.ParseTemplate(
		"age={{age}} pregnant={{pregnant}}{{#if pregnant}} (pregnant){{/if}}{{#if age}} (age known){{/if}}",
		assistantInput,
	)
	require.NoError(t, err)

	rendered, err := tmpl.Render([]byte(`{"query":"q","age":42,"pregnant":false}`))
	require.NoError(t, err)
	assert.Equal(t, "age=42 pregnant=false (age known)", rendered.Text)

	rendered, err = tmpl.Render([]byte(`{"query":"q"}`))
	require.NoError(t, err)
	assert.Equal(t, "age= pregnant=", rendered.Text)
}

func TestTemplateNestedConditionals(t *testing.T) {
	tmpl, err := generation.ParseTemplate(
		"{{#if currentMedications}}meds{{#if age}} and age{{else}} only{{/if}}{{else}}none{{/if}}",
		assistantInput,
	)
	require.NoError(t, err)

	cases := map[string]string{
		`{"query":"q","currentMedications":["a"],"age":30}`: "meds and age",
		`{"query":"q","currentMedications":["a"]}`:          "meds only",
		`{"query":"q","age":30}`:                            "none",
	}
	for input, want := range cases {
		rendered, err := tmpl.Render([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, want, rendered.Text, input)
	}
}

func TestTemplateRenderIsIdempotent(t *testing.T) {
	tmpl, err := generation.ParseTemplate(assistantTemplate, assistantInput)
	require.NoError(t, err)
	input := []byte(`{"query":"Can I take ibuprofen?","currentMedications":["Metformin"]}`)

	first, err := tmpl.Render(input)
	require.NoError(t, err)
	second, err := tmpl.Render(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTemplateMedia(t *testing.T) {
	inputs := []generation.FieldSpec{
		{Name: "photoDataUri", Kind: generation.KindString, Required: true},
	}
	tmpl, err := generation.ParseTemplate("Read this prescription:\n{{media url=photoDataUri}}", inputs)
	require.NoError(t, err)

	t.Run("extracted as attachment", func(t *testing.T) {
		rendered, err := tmpl.Render([]byte(`{"photoDataUri":"data:image/jpeg;base64,aGVsbG8="}`))
		require.NoError(t, err)

		assert.Equal(t, "Read this prescription:", rendered.Text)
		require.Len(t, rendered.Media, 1)
		assert.Equal(t, "image/jpeg", rendered.Media[0].MIMEType)
		assert.Equal(t, []byte("hello"), rendered.Media[0].Data)
		assert.NotContains(t, rendered.Text, "base64")
	})

	t.Run("malformed data uri is an input error", func(t *testing.T) {
		_, err := tmpl.Render([]byte(`{"photoDataUri":"https://example.com/rx.jpg"}`))

		require.Error(t, err)
		assert.True(t, errors.Is(err, generation.ErrInputValidation))
		var inputErr *generation.InputValidationError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "photoDataUri", inputErr.Violations[0].Field)
	})
}

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantField string
	}{
		{name: "undeclared substitution", source: "Tell me about {{medicationName}}", wantField: "medicationName"},
		{name: "undeclared condition", source: "{{#if allergies}}x{{/if}}", wantField: "allergies"},
		{name: "undeclared inside branch", source: "{{#if age}}{{weight}}{{/if}}", wantField: "weight"},
		{name: "undeclared media", source: "{{media url=photo}}", wantField: "photo"},
		{name: "media on non-string field", source: "{{media url=currentMedications}}", wantField: "currentMedications"},
		{name: "unterminated if", source: "{{#if age}}old", wantField: "age"},
		{name: "stray else", source: "x{{else}}y"},
		{name: "stray close", source: "x{{/if}}"},
		{name: "duplicate else", source: "{{#if age}}a{{else}}b{{else}}c{{/if}}", wantField: "age"},
		{name: "unterminated tag", source: "Question: {{query"},
		{name: "unsupported helper", source: "{{#each currentMedications}}x{{/each}}"},
		{name: "malformed media", source: "{{media photoDataUri}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := generation.ParseTemplate(tt.source, assistantInput)

			assert.Nil(t, tmpl)
			require.Error(t, err)
			assert.True(t, errors.Is(err, generation.ErrTemplate))
			var templateErr *generation.TemplateError
			require.ErrorAs(t, err, &templateErr)
			assert.Equal(t, tt.wantField, templateErr.Field)
		})
	}
}

func TestParseDataURI(t *testing.T) {
	media, err := generation.ParseDataURI("data:image/PNG;base64,aGk")
	require.NoError(t, err)
	assert.Equal(t, "image/png", media.MIMEType)
	assert.Equal(t, []byte("hi"), media.Data)
	assert.Equal(t, "data:image/png;base64,aGk=", media.DataURI())

	for _, bad := range []string{
		"",
		"image/png;base64,aGk=",
		"data:image/png,aGk=",
		"data:;base64,aGk=",
		"data:image/png;base64,",
		"data:image/png;base64,***",
	} {
		_, err := generation.ParseDataURI(bad)
		assert.Error(t, err, bad)
	}
}

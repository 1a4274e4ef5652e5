package generation_test

import (
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestUnwrapCodeBlock(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain json":         {in: ` {"a":1} `, want: `{"a":1}`},
		"json fence":         {in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		"bare fence":         {in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		"prose around":       {in: "Here you go:\n```json\n{\"a\":1}\n```\nThanks", want: `{"a":1}`},
		"first of two":       {in: "```json\n{\"a\":1}\n```\n```json\n{\"b\":2}\n```", want: `{"a":1}`},
		"unterminated fence": {in: "```json\n{\"a\":1}", want: "```json\n{\"a\":1}"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, generation.UnwrapCodeBlock(tt.in))
		})
	}
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", text: "Here is your report:\n{\"a\": {\"b\": 2}}\nGood luck!", want: `{"a": {"b": 2}}`},
		{name: "code fence", text: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "braces in strings", text: `{"tip": "use {curly} and \"quoted\" }"}`, want: `{"tip": "use {curly} and \"quoted\" }"}`},
		{name: "stray closing brace before", text: `} oops {"a":1}`, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObject_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "", want: ErrNoJSONObject},
		{name: "prose only", text: "I cannot help with that.", want: ErrNoJSONObject},
		{name: "array only", text: `[1, 2]`, want: ErrNoJSONObject},
		{name: "unclosed", text: `{"a": {"b": 1}`, want: ErrUnbalancedJSON},
		{name: "two objects", text: `{"a":1} and also {"b":2}`, want: ErrMultipleJSONObjects},
		{name: "not json", text: `{a: 1}`, want: ErrInvalidJSONObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSONObject(tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

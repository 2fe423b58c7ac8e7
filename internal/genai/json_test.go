package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONStripsFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "no fence",
			in:   "  {\"a\": 1}  ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Utterances []string `json:"utterances"`
	}

	err := DecodeJSON("```json\n{\"utterances\": [\"a\", \"b\"]}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Utterances)
}

func TestDecodeJSONMalformed(t *testing.T) {
	var out map[string]interface{}

	err := DecodeJSON("Sure! Here is your JSON: {\"a\": 1}", &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed model response")
}

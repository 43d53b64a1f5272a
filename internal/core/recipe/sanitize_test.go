package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"receptoPavadinimas\":\"X\",\"instrukcijos\":[\"a\"]}\n```",
			want:  `{"receptoPavadinimas":"X","instrukcijos":["a"]}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "crlf and surrounding whitespace",
			input: "  \r\n```JSON\r\n{\"a\":1}\r\n```  \n",
			want:  `{"a":1}`,
		},
		{
			name:  "fence without newlines",
			input: "```json{\"a\":1}```",
			want:  `{"a":1}`,
		},
		{
			name:  "no fence",
			input: "  {\"a\":1}\n",
			want:  `{"a":1}`,
		},
		{
			name:  "only leading fence",
			input: "```json\n{\"a\":1}",
			want:  `{"a":1}`,
		},
		{
			name:  "strips at most one fence on each side",
			input: "```json\n```json\n{\"a\":1}\n```\n```",
			want:  "```json\n{\"a\":1}\n```",
		},
		{
			name:  "inner fences untouched",
			input: "{\"a\":\"```x```\"}",
			want:  "{\"a\":\"```x```\"}",
		},
		{
			name:  "prose is kept",
			input: "Štai receptas: {\"a\":1}",
			want:  "Štai receptas: {\"a\":1}",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

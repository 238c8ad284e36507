package utils_test

import (
	"testing"

	"github.com/robalyx/tribunal/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCompressAllWhitespace(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already compact", input: "spamming invites", want: "spamming invites"},
		{name: "repeated spaces", input: "spamming    invites", want: "spamming invites"},
		{name: "multi-line reason", input: "spamming\n\n  invites  \n\n", want: "spamming invites"},
		{name: "tabs", input: "spamming\t\t  invites", want: "spamming invites"},
		{name: "empty", input: "", want: ""},
		{name: "blank", input: "   \n\t   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.CompressAllWhitespace(tt.input))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single line without newline",
			input: "Moderating appeals",
			want:  []string{"Moderating appeals"},
		},
		{
			name:  "windows line endings",
			input: "hello\r\nworld\r\n",
			want:  []string{"hello", "world"},
		},
		{
			name:  "blank lines dropped",
			input: "hello\n\n   \nworld\n",
			want:  []string{"hello", "world"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  hello  \n\tworld  ",
			want:  []string{"hello", "world"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.SplitLines(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short", input: "spam", limit: 10, want: "spam"},
		{name: "exact", input: "spam", limit: 4, want: "spam"},
		{name: "cut", input: "repeated spam", limit: 8, want: "repea..."},
		{name: "tiny limit", input: "spam", limit: 2, want: "sp"},
		{name: "multibyte", input: "ééééé", limit: 4, want: "é..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.Truncate(tt.input, tt.limit))
		})
	}
}

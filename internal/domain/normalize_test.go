package domain

import "testing"

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  happy  ", want: "happy"},
		{name: "lowercase", input: "Happy", want: "happy"},
		{name: "compress multiple spaces", input: "look   up", want: "look up"},
		{name: "underscore multiword", input: "look_up", want: "look up"},
		{name: "mixed separators", input: "give _ up", want: "give up"},
		{name: "leading underscore", input: "_up_", want: "up"},
		{name: "hyphens preserved", input: "well-known", want: "well-known"},
		{name: "apostrophes preserved", input: "don't", want: "don't"},
		{name: "diacritics preserved", input: "Café", want: "café"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeWord(tt.input); got != tt.want {
				t.Errorf("NormalizeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

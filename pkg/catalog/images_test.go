package catalog

import "testing"

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		color    string
		expected string
	}{
		{
			name:     "placeholder substitution",
			ref:      "chums-hat-{color}.jpg",
			color:    "red",
			expected: "chums-hat-red.jpg",
		},
		{
			name:     "no placeholder inserts before extension",
			ref:      "hat.jpg",
			color:    "blu",
			expected: "hat_blu.jpg",
		},
		{
			name:     "empty color strips placeholder and separator",
			ref:      "chums-hat-{color}.jpg",
			color:    "",
			expected: "chums-hat.jpg",
		},
		{
			name:     "underscore separator stripped",
			ref:      "hat_{color}.png",
			color:    "",
			expected: "hat.png",
		},
		{
			name:     "empty color without placeholder is unchanged",
			ref:      "hat.jpg",
			color:    "",
			expected: "hat.jpg",
		},
		{
			name:     "empty ref stays empty",
			ref:      "",
			color:    "red",
			expected: "",
		},
		{
			name:     "no extension still appends",
			ref:      "images/hat",
			color:    "grn",
			expected: "images/hat_grn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveImage(tt.ref, tt.color)
			if got != tt.expected {
				t.Errorf("ResolveImage(%q, %q) = %q, want %q", tt.ref, tt.color, got, tt.expected)
			}
		})
	}
}

package content

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Deep Sleep", "deep-sleep"},
		{"punctuation stripped", "Meditation to Manifest Abundance!", "meditation-to-manifest-abundance"},
		{"whitespace runs collapse", "Morning   Calm \t Ritual", "morning-calm-ritual"},
		{"leading and trailing trimmed", "  -Focus-  ", "focus"},
		{"digits kept", "432Hz Healing", "432hz-healing"},
		{"already a slug", "evening-wind-down", "evening-wind-down"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Meditation to Manifest Abundance!",
		"Chakra  Cleanse   (Crown)",
		"already-a-slug",
	}
	for _, input := range inputs {
		once := Slugify(input)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

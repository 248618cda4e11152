package content

import (
	"testing"

	"breathadmin/pkg/models"
)

func TestFormatDurationLabel(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{305, "5:05"},
		{60, "1:00"},
		{59, "0:59"},
		{3600, "60:00"},
		{0, "--"},
		{-10, "--"},
	}

	for _, tt := range tests {
		if got := FormatDurationLabel(tt.seconds); got != tt.want {
			t.Errorf("FormatDurationLabel(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rfc3339", "2026-02-15T08:30:00Z", "2/15/2026"},
		{"rfc3339 nano", "2026-02-15T08:30:00.123456Z", "2/15/2026"},
		{"date only", "2026-02-15", "2/15/2026"},
		{"empty", "", "--"},
		{"garbage", "yesterday", "--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDisplayDate(tt.input); got != tt.want {
				t.Errorf("FormatDisplayDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDisplayDateRoundTrip(t *testing.T) {
	display := FormatDisplayDate("2026-02-15T08:30:00Z")
	parsed := ParseDisplayDate(display)
	if parsed.IsZero() {
		t.Fatalf("round-tripped display date %q did not parse", display)
	}
	if parsed.Year() != 2026 || int(parsed.Month()) != 2 || parsed.Day() != 15 {
		t.Errorf("parsed %v, want 2026-02-15", parsed)
	}

	if !ParseDisplayDate("--").IsZero() {
		t.Error("sentinel date should parse to the zero time")
	}
}

func TestMusicToContentItem(t *testing.T) {
	t.Run("sleep music stays MP3", func(t *testing.T) {
		entry := models.MusicEntry{
			ID:            "abc",
			Name:          "Deep Sleep",
			Duration:      305,
			AudioFilename: "https://cdn.example.com/deep-sleep.mp3",
			Plays:         12,
			CreatedAt:     "2026-02-15T08:30:00Z",
		}
		item := MusicToContentItem(entry, models.CategorySleepMusic)

		if item.Type != "MP3" {
			t.Errorf("type = %q, want MP3", item.Type)
		}
		if item.Duration != "5:05" {
			t.Errorf("duration = %q, want 5:05", item.Duration)
		}
		if item.Plays != 12 {
			t.Errorf("plays = %d, want 12", item.Plays)
		}
		if item.URL != entry.AudioFilename {
			t.Errorf("url = %q, want audio filename", item.URL)
		}
		if item.Date != "2/15/2026" {
			t.Errorf("date = %q, want 2/15/2026", item.Date)
		}
	})

	t.Run("chakra with visual becomes MP4", func(t *testing.T) {
		entry := models.MusicEntry{
			ID:            "ch1",
			Name:          "Crown Chakra",
			AudioFilename: "https://cdn.example.com/crown.mp3",
			VisualURL:     "https://cdn.example.com/crown.mp4",
		}
		item := MusicToContentItem(entry, models.CategoryChakra)

		if item.Type != "MP4" {
			t.Errorf("type = %q, want MP4", item.Type)
		}
		if item.URL != entry.VisualURL {
			t.Errorf("url = %q, want visual url", item.URL)
		}
	})

	t.Run("chakra without visual stays MP3", func(t *testing.T) {
		entry := models.MusicEntry{ID: "ch2", Name: "Root Chakra", AudioFilename: "https://cdn.example.com/root.mp3"}
		item := MusicToContentItem(entry, models.CategoryChakra)
		if item.Type != "MP3" {
			t.Errorf("type = %q, want MP3", item.Type)
		}
	})

	t.Run("missing plays default to zero", func(t *testing.T) {
		item := MusicToContentItem(models.MusicEntry{ID: "x", Name: "Silent"}, models.CategorySleepMusic)
		if item.Plays != 0 {
			t.Errorf("plays = %d, want 0", item.Plays)
		}
	})

	t.Run("alt id fallback", func(t *testing.T) {
		item := MusicToContentItem(models.MusicEntry{AltID: "alt-1", Name: "Alt"}, models.CategorySleepMusic)
		if item.ID != "alt-1" {
			t.Errorf("id = %q, want alt-1", item.ID)
		}
	})
}

func TestMantraToContentItem(t *testing.T) {
	inactive := false

	t.Run("inactive mantra is a draft", func(t *testing.T) {
		entry := models.MantraEntry{
			ID:       "m1",
			Title:    "Om Namah Shivaya",
			Duration: 125,
			Views:    7,
			IsActive: &inactive,
		}
		item := MantraToContentItem(entry)

		if item.Status != "Draft" {
			t.Errorf("status = %q, want Draft", item.Status)
		}
		if item.Plays != 7 {
			t.Errorf("plays = %d, want views count 7", item.Plays)
		}
		if item.Duration != "2:05" {
			t.Errorf("duration = %q, want 2:05", item.Duration)
		}
		if item.Category != models.CategoryMantras {
			t.Errorf("category = %q, want mantras", item.Category)
		}
	})

	t.Run("untitled fallback", func(t *testing.T) {
		item := MantraToContentItem(models.MantraEntry{ID: "m2"})
		if item.Title != "Untitled Mantra" {
			t.Errorf("title = %q, want Untitled Mantra", item.Title)
		}
		if item.Status != "Active" {
			t.Errorf("status = %q, want Active (absent flag means active)", item.Status)
		}
	})

	t.Run("updated-at fallback date", func(t *testing.T) {
		item := MantraToContentItem(models.MantraEntry{ID: "m3", Title: "T", UpdatedAt: "2026-03-01T00:00:00Z"})
		if item.Date != "3/1/2026" {
			t.Errorf("date = %q, want 3/1/2026", item.Date)
		}
	})
}

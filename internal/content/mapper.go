// Package content holds the display projection and field mapping every
// content category is normalized through, plus the per-category form
// validation rules.
package content

import (
	"fmt"
	"time"

	"breathadmin/pkg/models"
)

// displayDateLayout is the date form all projected items carry. Parsing and
// formatting round-trip through the same layout so date sorting stays exact.
const displayDateLayout = "1/2/2006"

// noDate is the sentinel shown when a source entry has no usable timestamp.
const noDate = "--"

// FormatDurationLabel renders seconds as "m:ss"; non-positive or unknown
// durations render as "--".
func FormatDurationLabel(durationSeconds int) string {
	if durationSeconds <= 0 {
		return noDate
	}
	minutes := durationSeconds / 60
	seconds := durationSeconds % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatDisplayDate renders a backend timestamp (RFC 3339 or date-only) as
// the display date, or "--" when it cannot be parsed.
func FormatDisplayDate(value string) string {
	t, ok := parseBackendTime(value)
	if !ok {
		return noDate
	}
	return t.Format(displayDateLayout)
}

// ParseDisplayDate converts a display date back to a timestamp for sorting.
// The zero time is returned for "--" and anything unparsable, which sinks
// dateless items to the bottom of a descending sort.
func ParseDisplayDate(value string) time.Time {
	t, err := time.Parse(displayDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseBackendTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MusicToContentItem projects a music entry into the unified display shape.
// Plays come from the entry's own plays counter, defaulting to zero; the
// preview type resolves to MP4 only for chakra entries carrying a video.
func MusicToContentItem(m models.MusicEntry, category models.Category) models.ContentItem {
	id := m.ID
	if id == "" {
		id = m.AltID
	}

	itemType := "MP3"
	url := m.AudioFilename
	if category == models.CategoryChakra && m.VisualURL != "" {
		itemType = "MP4"
		url = m.VisualURL
	}

	return models.ContentItem{
		ID:       id,
		Title:    m.Name,
		Category: category,
		Type:     itemType,
		Duration: FormatDurationLabel(m.Duration),
		Status:   "Active",
		Date:     FormatDisplayDate(m.CreatedAt),
		Plays:    maxInt(m.Plays, 0),
		URL:      url,
	}
}

// MantraToContentItem projects a mantra into the unified display shape.
// Plays come from the views counter; inactive mantras show as drafts.
func MantraToContentItem(m models.MantraEntry) models.ContentItem {
	title := m.Title
	if title == "" {
		title = "Untitled Mantra"
	}

	status := "Active"
	if !m.Active() {
		status = "Draft"
	}

	date := m.CreatedAt
	if date == "" {
		date = m.UpdatedAt
	}

	return models.ContentItem{
		ID:       m.ID,
		Title:    title,
		Category: models.CategoryMantras,
		Type:     "MP3",
		Duration: FormatDurationLabel(m.Duration),
		Status:   status,
		Date:     FormatDisplayDate(date),
		Plays:    maxInt(m.Views, 0),
		URL:      m.AudioURL,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

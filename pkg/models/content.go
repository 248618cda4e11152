package models

import "encoding/json"

// Category partitions the platform's content types. The values mirror the
// slugs the mobile app and backends use.
type Category string

const (
	CategorySleepMusic    Category = "sleep-music"
	CategoryMeditation    Category = "meditation"
	CategoryMantras       Category = "mantras"
	CategoryChakra        Category = "chakra"
	CategoryCourses       Category = "courses"
	CategoryNotifications Category = "notifications"
)

// ContentCategories lists the four categories that hold playable content,
// in the order the dashboard concatenates them.
var ContentCategories = []Category{
	CategorySleepMusic,
	CategoryMeditation,
	CategoryChakra,
	CategoryMantras,
}

// ContentItem is the display projection every category is normalized into.
// It is derived from the source entities on each fetch and never persisted.
type ContentItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Type     string   `json:"type"`     // "MP3" or "MP4"
	Duration string   `json:"duration"` // "m:ss" or "--"
	Status   string   `json:"status"`   // Active, Draft, Processing
	Date     string   `json:"date"`     // display date, e.g. "2/15/2026"
	Plays    int      `json:"plays"`
	URL      string   `json:"url,omitempty"`
}

// CategoryType is a backend content category record (/categories/admin).
type CategoryType struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Slug string `json:"slug"`
}

// CategoryRef is the reference shape a music entry's categories array may
// carry: either a bare id string or a populated category object.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// UnmarshalJSON accepts both representations the content backend emits.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		c.ID = id
		return nil
	}
	type ref CategoryRef
	var r ref
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*c = CategoryRef(r)
	return nil
}

// MarshalJSON always emits the bare id, which is what the create and edit
// endpoints expect back.
func (c CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID)
}

// MusicEntry is a sleep-music / guided-meditation / chakra source record.
type MusicEntry struct {
	ID            string        `json:"_id"`
	AltID         string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Position      int           `json:"position,omitempty"`
	Duration      int           `json:"duration,omitempty"` // seconds
	AudioFilename string        `json:"audioFilename"`
	ImageFilename string        `json:"imageFilename"`
	VisualURL     string        `json:"visualUrl,omitempty"`
	Categories    []CategoryRef `json:"categories,omitempty"`
	Slug          string        `json:"slug,omitempty"`
	IsPremium     bool          `json:"isPremium,omitempty"`
	Plays         int           `json:"plays,omitempty"`
	TypeContent   string        `json:"typeContent,omitempty"` // "music" or "app"
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// MantraEntry is a mantra source record. Duration is in seconds; plays are
// reported through the Views field.
type MantraEntry struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	AudioURL     string `json:"audioUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Deity        string `json:"deity"`
	Benefit      string `json:"benefit"`
	Difficulty   string `json:"difficulty,omitempty"`
	IsPremium    bool   `json:"isPremium,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
	Views        int    `json:"views,omitempty"`
	Position     int    `json:"position,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Active reports whether a mantra is active; absent means active.
func (m *MantraEntry) Active() bool {
	return m.IsActive == nil || *m.IsActive
}

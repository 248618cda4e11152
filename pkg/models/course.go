package models

// CreationMethod distinguishes courses authored here from ones imported
// out of the Systeme.io catalog.
type CreationMethod string

const (
	FromScratch   CreationMethod = "fromScratch"
	FromSystemeio CreationMethod = "fromSystemeio"
)

// LessonType selects which media field of a lesson is relevant.
type LessonType string

const (
	LessonVideo LessonType = "video"
	LessonAudio LessonType = "audio"
	LessonFile  LessonType = "file"
)

// Lesson is a single unit inside a course section. Exactly one of VideoURL,
// AudioURL and File matters, depending on Type.
type Lesson struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Type          LessonType `json:"type,omitempty"`
	VideoURL      string     `json:"videoUrl,omitempty"`
	AudioURL      string     `json:"audioUrl,omitempty"`
	File          string     `json:"file,omitempty"`
	IsFromYoutube bool       `json:"isFromYoutube,omitempty"`
	IsPremium     *bool      `json:"isPremium,omitempty"`
}

// Section groups lessons under a title. The premium flag cascades one-way
// onto every contained lesson when toggled.
type Section struct {
	Section   string   `json:"section"`
	Lessons   []Lesson `json:"lessons"`
	IsPremium *bool    `json:"isPremium,omitempty"`
}

// Author describes the course instructor.
type Author struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

// Course is the nested document the course builder produces.
type Course struct {
	ServerID       string         `json:"_id,omitempty"`
	ID             string         `json:"id"`
	SystemeIoID    string         `json:"systemeIoId,omitempty"`
	CreationMethod CreationMethod `json:"creationMethod"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Image          string         `json:"image"`
	Type           string         `json:"type"`
	Days           string         `json:"days"`
	Time           string         `json:"time"`
	CourseTheme    string         `json:"courseTheme"`
	Order          int            `json:"order,omitempty"`
	Author         Author         `json:"author"`
	Sections       []Section      `json:"sections"`
	AccessTags     []string       `json:"accessTags,omitempty"`
	CreatedAt      string         `json:"createdAt,omitempty"`
}

// Premium reports a section's effective premium state; absent means premium,
// matching how the course app treats unset flags.
func (s *Section) Premium() bool {
	return s.IsPremium == nil || *s.IsPremium
}

// Premium reports a lesson's effective premium state.
func (l *Lesson) Premium() bool {
	return l.IsPremium == nil || *l.IsPremium
}

// BoolPtr is a convenience for the optional premium flags.
func BoolPtr(v bool) *bool { return &v }

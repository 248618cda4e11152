package models

// ThemeColors holds the fifteen named hex fields a course theme defines.
type ThemeColors struct {
	PrimaryColor              string `json:"primaryColor"`
	SecondaryColor            string `json:"secondaryColor"`
	BackgroundColor           string `json:"backgroundColor"`
	TextColor                 string `json:"textColor"`
	AccentColor               string `json:"accentColor"`
	HeaderColor               string `json:"headerColor"`
	CourseTitleColor          string `json:"courseTitleColor"`
	InstructorTextColor       string `json:"instructorTextColor"`
	TabBackgroundColor        string `json:"tabBackgroundColor"`
	DayBackgroundColor        string `json:"dayBackgroundColor"`
	SectionBackgroundColor    string `json:"sectionBackgroundColor"`
	SubsectionBackgroundColor string `json:"subsectionBackgroundColor"`
	LessonBackgroundColor     string `json:"lessonBackgroundColor"`
	ReviewBackgroundColor     string `json:"reviewBackgroundColor"`
	DescriptionColor          string `json:"descriptionColor"`
}

// Fields returns the color values in declaration order, for validation.
func (c *ThemeColors) Fields() map[string]string {
	return map[string]string{
		"primaryColor":              c.PrimaryColor,
		"secondaryColor":            c.SecondaryColor,
		"backgroundColor":           c.BackgroundColor,
		"textColor":                 c.TextColor,
		"accentColor":               c.AccentColor,
		"headerColor":               c.HeaderColor,
		"courseTitleColor":          c.CourseTitleColor,
		"instructorTextColor":       c.InstructorTextColor,
		"tabBackgroundColor":        c.TabBackgroundColor,
		"dayBackgroundColor":        c.DayBackgroundColor,
		"sectionBackgroundColor":    c.SectionBackgroundColor,
		"subsectionBackgroundColor": c.SubsectionBackgroundColor,
		"lessonBackgroundColor":     c.LessonBackgroundColor,
		"reviewBackgroundColor":     c.ReviewBackgroundColor,
		"descriptionColor":          c.DescriptionColor,
	}
}

// Theme is a reusable color scheme referenced by Course.CourseTheme.
type Theme struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Colors    ThemeColors `json:"colors"`
	IsDefault bool        `json:"isDefault"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

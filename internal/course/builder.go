package course

import (
	"fmt"

	"breathadmin/pkg/models"

	"github.com/google/uuid"
)

// Step identifies a position in the course builder flow. The quarter steps
// are the method-specific pickers between choosing a creation method and
// editing the course itself.
type Step float64

const (
	StepMethod    Step = 1    // choose fromScratch vs fromSystemeio
	StepScratch   Step = 1.25 // scratch course picker / blank start
	StepSystemeio Step = 1.5  // systeme.io catalog picker
	StepDetails   Step = 2    // title, description, author, theme
	StepSections  Step = 3    // sections and lessons
)

// Builder holds the in-progress state of one course editing session.
type Builder struct {
	Step   Step
	Method models.CreationMethod
	Course models.Course
}

// NewBuilder starts a builder at the method selection step.
func NewBuilder() *Builder {
	return &Builder{Step: StepMethod}
}

// EditBuilder starts a builder for an existing course, landing directly on
// the details step.
func EditBuilder(course models.Course) *Builder {
	method := course.CreationMethod
	if method == "" {
		method = models.FromScratch
	}
	return &Builder{Step: StepDetails, Method: method, Course: course}
}

// ChooseMethod records the creation method and advances to the matching
// picker step.
func (b *Builder) ChooseMethod(method models.CreationMethod) error {
	switch method {
	case models.FromScratch:
		b.Method = method
		b.Step = StepScratch
	case models.FromSystemeio:
		b.Method = method
		b.Step = StepSystemeio
	default:
		return fmt.Errorf("unknown creation method %q", method)
	}
	return nil
}

// StartBlank seeds an empty scratch course and moves to the details step.
func (b *Builder) StartBlank() {
	b.Method = models.FromScratch
	b.Course = models.Course{
		ID:             uuid.New().String(),
		CreationMethod: models.FromScratch,
		Sections:       []models.Section{},
	}
	b.Step = StepDetails
}

// AdoptCourse loads a picked course (existing scratch course or an imported
// systeme.io document) and moves to the details step.
func (b *Builder) AdoptCourse(course models.Course) {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	course.CreationMethod = b.Method
	b.Course = course
	b.Step = StepDetails
}

// CanNavigate reports whether jumping directly to a step is allowed given
// the current state. Later steps need the earlier ones satisfied: details
// needs a course identity, sections additionally needs a title.
func (b *Builder) CanNavigate(to Step) bool {
	switch to {
	case StepMethod:
		return true
	case StepScratch:
		return b.Method == models.FromScratch
	case StepSystemeio:
		return b.Method == models.FromSystemeio
	case StepDetails:
		return b.Course.ID != ""
	case StepSections:
		return b.Course.ID != "" && b.Course.Title != ""
	default:
		return false
	}
}

// Navigate moves to the given step when allowed.
func (b *Builder) Navigate(to Step) error {
	if !b.CanNavigate(to) {
		return fmt.Errorf("cannot navigate to step %v yet", to)
	}
	b.Step = to
	return nil
}

// Back steps to the nearest lower step, collapsing the method-specific
// quarter steps back onto method selection.
func (b *Builder) Back() {
	switch b.Step {
	case StepSections:
		b.Step = StepDetails
	case StepDetails:
		switch b.Method {
		case models.FromScratch:
			b.Step = StepScratch
		case models.FromSystemeio:
			b.Step = StepSystemeio
		default:
			b.Step = StepMethod
		}
	case StepScratch, StepSystemeio:
		b.Step = StepMethod
	}
}

// AllowSectionModification reports whether section structure may change.
// Imported courses keep the structure systeme.io defined.
func (b *Builder) AllowSectionModification() bool {
	return b.Method == models.FromScratch
}

// AddSection appends a new section.
func (b *Builder) AddSection(title string) error {
	if !b.AllowSectionModification() {
		return fmt.Errorf("sections of imported courses cannot be modified")
	}
	b.Course.Sections = append(b.Course.Sections, models.Section{
		Section:   title,
		Lessons:   []models.Lesson{},
		IsPremium: models.BoolPtr(true),
	})
	return nil
}

// RemoveSection deletes the section at index.
func (b *Builder) RemoveSection(index int) error {
	if !b.AllowSectionModification() {
		return fmt.Errorf("sections of imported courses cannot be modified")
	}
	if index < 0 || index >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", index)
	}
	b.Course.Sections = append(b.Course.Sections[:index], b.Course.Sections[index+1:]...)
	return nil
}

// RenameSection sets a section's title.
func (b *Builder) RenameSection(index int, title string) error {
	if index < 0 || index >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", index)
	}
	b.Course.Sections[index].Section = title
	return nil
}

// AddLesson appends a lesson to a section. New lessons inherit the
// section's premium flag.
func (b *Builder) AddLesson(sectionIndex int, lesson models.Lesson) error {
	if !b.AllowSectionModification() {
		return fmt.Errorf("sections of imported courses cannot be modified")
	}
	if sectionIndex < 0 || sectionIndex >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", sectionIndex)
	}
	if lesson.ID == "" {
		lesson.ID = uuid.New().String()
	}
	section := &b.Course.Sections[sectionIndex]
	if lesson.IsPremium == nil {
		lesson.IsPremium = models.BoolPtr(section.Premium())
	}
	section.Lessons = append(section.Lessons, lesson)
	return nil
}

// RemoveLesson deletes a lesson from a section.
func (b *Builder) RemoveLesson(sectionIndex, lessonIndex int) error {
	if !b.AllowSectionModification() {
		return fmt.Errorf("sections of imported courses cannot be modified")
	}
	if sectionIndex < 0 || sectionIndex >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", sectionIndex)
	}
	section := &b.Course.Sections[sectionIndex]
	if lessonIndex < 0 || lessonIndex >= len(section.Lessons) {
		return fmt.Errorf("lesson index %d out of range", lessonIndex)
	}
	section.Lessons = append(section.Lessons[:lessonIndex], section.Lessons[lessonIndex+1:]...)
	return nil
}

// UpdateLesson replaces a lesson's fields, keeping its id.
func (b *Builder) UpdateLesson(sectionIndex, lessonIndex int, lesson models.Lesson) error {
	if sectionIndex < 0 || sectionIndex >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", sectionIndex)
	}
	section := &b.Course.Sections[sectionIndex]
	if lessonIndex < 0 || lessonIndex >= len(section.Lessons) {
		return fmt.Errorf("lesson index %d out of range", lessonIndex)
	}
	lesson.ID = section.Lessons[lessonIndex].ID
	section.Lessons[lessonIndex] = lesson
	return nil
}

// CascadePremium sets a section's premium flag and pushes the same value
// onto every lesson in it. The cascade only flows downward: flipping a
// single lesson afterwards never changes the section flag.
func (b *Builder) CascadePremium(sectionIndex int, premium bool) error {
	if sectionIndex < 0 || sectionIndex >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", sectionIndex)
	}
	section := &b.Course.Sections[sectionIndex]
	section.IsPremium = models.BoolPtr(premium)
	for i := range section.Lessons {
		section.Lessons[i].IsPremium = models.BoolPtr(premium)
	}
	return nil
}

// SetLessonPremium flips one lesson's flag without touching the section.
func (b *Builder) SetLessonPremium(sectionIndex, lessonIndex int, premium bool) error {
	if sectionIndex < 0 || sectionIndex >= len(b.Course.Sections) {
		return fmt.Errorf("section index %d out of range", sectionIndex)
	}
	section := &b.Course.Sections[sectionIndex]
	if lessonIndex < 0 || lessonIndex >= len(section.Lessons) {
		return fmt.Errorf("lesson index %d out of range", lessonIndex)
	}
	section.Lessons[lessonIndex].IsPremium = models.BoolPtr(premium)
	return nil
}

package course

import (
	"testing"

	"breathadmin/pkg/models"
)

func scratchBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	if err := b.ChooseMethod(models.FromScratch); err != nil {
		t.Fatalf("ChooseMethod: %v", err)
	}
	b.StartBlank()
	return b
}

func TestBuilderSteps(t *testing.T) {
	t.Run("starts at method selection", func(t *testing.T) {
		b := NewBuilder()
		if b.Step != StepMethod {
			t.Errorf("step = %v, want %v", b.Step, StepMethod)
		}
	})

	t.Run("scratch path goes through 1.25", func(t *testing.T) {
		b := NewBuilder()
		if err := b.ChooseMethod(models.FromScratch); err != nil {
			t.Fatal(err)
		}
		if b.Step != StepScratch {
			t.Errorf("step = %v, want %v", b.Step, StepScratch)
		}
		b.StartBlank()
		if b.Step != StepDetails {
			t.Errorf("step = %v, want %v", b.Step, StepDetails)
		}
		if b.Course.ID == "" {
			t.Error("blank course should get an id")
		}
	})

	t.Run("systemeio path goes through 1.5", func(t *testing.T) {
		b := NewBuilder()
		if err := b.ChooseMethod(models.FromSystemeio); err != nil {
			t.Fatal(err)
		}
		if b.Step != StepSystemeio {
			t.Errorf("step = %v, want %v", b.Step, StepSystemeio)
		}
		b.AdoptCourse(models.Course{ID: "imported", Title: "Imported"})
		if b.Course.CreationMethod != models.FromSystemeio {
			t.Errorf("creation method = %v, want fromSystemeio", b.Course.CreationMethod)
		}
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		b := NewBuilder()
		if err := b.ChooseMethod("fromNowhere"); err == nil {
			t.Error("expected error for unknown method")
		}
		if b.Step != StepMethod {
			t.Errorf("step moved to %v on rejected method", b.Step)
		}
	})
}

func TestBuilderCanNavigate(t *testing.T) {
	t.Run("sections need a title", func(t *testing.T) {
		b := scratchBuilder(t)
		if b.CanNavigate(StepSections) {
			t.Error("should not reach sections without a title")
		}
		b.Course.Title = "Breath Basics"
		if !b.CanNavigate(StepSections) {
			t.Error("should reach sections with id and title")
		}
	})

	t.Run("details need a course identity", func(t *testing.T) {
		b := NewBuilder()
		if b.CanNavigate(StepDetails) {
			t.Error("should not reach details before a course exists")
		}
	})

	t.Run("navigate enforces the predicate", func(t *testing.T) {
		b := scratchBuilder(t)
		if err := b.Navigate(StepSections); err == nil {
			t.Error("expected navigation error without title")
		}
		b.Course.Title = "Breath Basics"
		if err := b.Navigate(StepSections); err != nil {
			t.Errorf("Navigate: %v", err)
		}
	})
}

func TestBuilderBack(t *testing.T) {
	b := scratchBuilder(t)
	b.Course.Title = "Breath Basics"
	if err := b.Navigate(StepSections); err != nil {
		t.Fatal(err)
	}

	b.Back()
	if b.Step != StepDetails {
		t.Errorf("step = %v, want details", b.Step)
	}
	b.Back()
	if b.Step != StepScratch {
		t.Errorf("step = %v, want scratch picker", b.Step)
	}
	b.Back()
	if b.Step != StepMethod {
		t.Errorf("step = %v, want method selection", b.Step)
	}
}

func TestBuilderSectionOps(t *testing.T) {
	t.Run("imported courses lock section structure", func(t *testing.T) {
		b := NewBuilder()
		b.ChooseMethod(models.FromSystemeio)
		b.AdoptCourse(models.Course{ID: "imported", Title: "Imported", Sections: []models.Section{{Section: "Week 1"}}})

		if b.AllowSectionModification() {
			t.Error("imported course should not allow section modification")
		}
		if err := b.AddSection("Week 2"); err == nil {
			t.Error("expected AddSection to fail on imported course")
		}
		if err := b.RemoveSection(0); err == nil {
			t.Error("expected RemoveSection to fail on imported course")
		}
	})

	t.Run("scratch course section lifecycle", func(t *testing.T) {
		b := scratchBuilder(t)
		if err := b.AddSection("Week 1"); err != nil {
			t.Fatal(err)
		}
		if err := b.AddLesson(0, models.Lesson{Title: "Intro", Type: models.LessonVideo}); err != nil {
			t.Fatal(err)
		}

		lesson := b.Course.Sections[0].Lessons[0]
		if lesson.ID == "" {
			t.Error("lesson should get an id")
		}
		if !lesson.Premium() {
			t.Error("lesson should inherit the premium default from its section")
		}

		if err := b.RemoveLesson(0, 0); err != nil {
			t.Fatal(err)
		}
		if len(b.Course.Sections[0].Lessons) != 0 {
			t.Error("lesson not removed")
		}

		if err := b.RemoveSection(0); err != nil {
			t.Fatal(err)
		}
		if len(b.Course.Sections) != 0 {
			t.Error("section not removed")
		}
	})

	t.Run("out of range indices rejected", func(t *testing.T) {
		b := scratchBuilder(t)
		if err := b.RemoveSection(3); err == nil {
			t.Error("expected range error")
		}
		if err := b.AddLesson(0, models.Lesson{}); err == nil {
			t.Error("expected range error with no sections")
		}
	})
}

func TestCascadePremium(t *testing.T) {
	newSectionBuilder := func(t *testing.T) *Builder {
		b := scratchBuilder(t)
		if err := b.AddSection("Week 1"); err != nil {
			t.Fatal(err)
		}
		for _, title := range []string{"Intro", "Practice", "Review"} {
			if err := b.AddLesson(0, models.Lesson{Title: title}); err != nil {
				t.Fatal(err)
			}
		}
		return b
	}

	t.Run("cascade sets every lesson", func(t *testing.T) {
		b := newSectionBuilder(t)
		if err := b.CascadePremium(0, false); err != nil {
			t.Fatal(err)
		}
		if b.Course.Sections[0].Premium() {
			t.Error("section should be free")
		}
		for i, lesson := range b.Course.Sections[0].Lessons {
			if lesson.Premium() {
				t.Errorf("lesson %d still premium after cascade", i)
			}
		}
	})

	t.Run("cascade pair restores the original state", func(t *testing.T) {
		b := newSectionBuilder(t)
		if err := b.CascadePremium(0, false); err != nil {
			t.Fatal(err)
		}
		if err := b.CascadePremium(0, true); err != nil {
			t.Fatal(err)
		}
		if !b.Course.Sections[0].Premium() {
			t.Error("section should be premium again")
		}
		for i, lesson := range b.Course.Sections[0].Lessons {
			if !lesson.Premium() {
				t.Errorf("lesson %d should be premium again", i)
			}
		}
	})

	t.Run("lesson flip does not touch the section", func(t *testing.T) {
		b := newSectionBuilder(t)
		if err := b.SetLessonPremium(0, 1, false); err != nil {
			t.Fatal(err)
		}
		if !b.Course.Sections[0].Premium() {
			t.Error("section flag changed by a lesson flip")
		}
		if b.Course.Sections[0].Lessons[1].Premium() {
			t.Error("lesson flag not applied")
		}
		if !b.Course.Sections[0].Lessons[0].Premium() {
			t.Error("sibling lesson changed by a single-lesson flip")
		}
	})
}

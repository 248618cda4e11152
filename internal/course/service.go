package course

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Service wraps the courses backend with validation and the reorder and
// premium-cascade behavior the builder needs.
type Service struct {
	gateway *gateway.CoursesClient
	logger  *logrus.Logger
}

func NewService(coursesClient *gateway.CoursesClient, logger *logrus.Logger) *Service {
	return &Service{gateway: coursesClient, logger: logger}
}

// List returns scratch courses sorted by their explicit order.
func (s *Service) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.gateway.GetScratchCourses(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Order < courses[j].Order
	})
	return courses, nil
}

// ListSystemeio returns the importable systeme.io catalog.
func (s *Service) ListSystemeio(ctx context.Context) ([]models.Course, error) {
	return s.gateway.GetSystemeioCourses(ctx)
}

// GetBySystemeIoID fetches one imported course document.
func (s *Service) GetBySystemeIoID(ctx context.Context, systemeIoID string) (models.Course, error) {
	return s.gateway.GetCourseBySystemeIoID(ctx, systemeIoID)
}

// Save persists a course, creating when it has never been stored and
// updating when the server already assigned it an id.
func (s *Service) Save(ctx context.Context, course models.Course) (models.Course, error) {
	if course.Title == "" {
		return models.Course{}, fmt.Errorf("course title is required")
	}
	if course.CreationMethod == "" {
		course.CreationMethod = models.FromScratch
	}

	payload := gateway.CourseSavePayload{
		CourseData:     course,
		CreationMethod: course.CreationMethod,
	}

	var saved models.Course
	var err error
	if course.ServerID == "" {
		saved, err = s.gateway.CreateCourse(ctx, payload)
	} else {
		saved, err = s.gateway.UpdateCourse(ctx, payload)
	}
	if err != nil {
		return models.Course{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"course": saved.Title,
		"method": saved.CreationMethod,
	}).Info("Saved course")
	return saved, nil
}

// Delete removes a scratch course.
func (s *Service) Delete(ctx context.Context, courseID string) error {
	return s.gateway.DeleteScratchCourse(ctx, courseID)
}

// Reorder persists a new course ordering. The reordered list is returned
// immediately on success; on backend failure the pre-drag list is returned
// so callers can roll their view back.
func (s *Service) Reorder(ctx context.Context, before, after []models.Course) ([]models.Course, error) {
	updates := make([]gateway.OrderUpdate, 0, len(after))
	for i, course := range after {
		id := course.ServerID
		if id == "" {
			id = course.ID
		}
		updates = append(updates, gateway.OrderUpdate{ID: id, Order: i})
		after[i].Order = i
	}

	if err := s.gateway.UpdateCourseOrder(ctx, updates); err != nil {
		s.logger.WithError(err).Warn("Course reorder failed, reverting")
		return before, err
	}
	return after, nil
}

// Themes lists the stored color themes.
func (s *Service) Themes(ctx context.Context) ([]models.Theme, error) {
	return s.gateway.GetThemes(ctx)
}

// SaveTheme creates or updates a theme after validating every color.
func (s *Service) SaveTheme(ctx context.Context, theme models.Theme) (models.Theme, error) {
	if theme.Name == "" {
		return models.Theme{}, fmt.Errorf("theme name is required")
	}
	if err := validateColors(theme.Colors); err != nil {
		return models.Theme{}, err
	}

	payload := gateway.ThemeSavePayload{Name: theme.Name, Colors: theme.Colors}
	if theme.ID == "" {
		return s.gateway.CreateTheme(ctx, payload)
	}
	return s.gateway.UpdateTheme(ctx, theme.ID, payload)
}

// DeleteTheme removes a theme.
func (s *Service) DeleteTheme(ctx context.Context, id string) error {
	return s.gateway.DeleteTheme(ctx, id)
}

// validateColors requires every named color to be a hex value.
func validateColors(colors models.ThemeColors) error {
	for field, value := range colors.Fields() {
		if value == "" {
			return fmt.Errorf("theme color %s is required", field)
		}
		if !hexColorPattern.MatchString(value) {
			return fmt.Errorf("theme color %s must be a hex value, got %q", field, value)
		}
	}
	return nil
}

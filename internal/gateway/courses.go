package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"breathadmin/internal/env"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

// CoursesClient talks to the courses backend: course CRUD, ordering,
// Systeme.io imports and the theme catalog.
type CoursesClient struct {
	client
}

// NewCoursesClient creates a courses backend client.
func NewCoursesClient(envMgr *env.Manager, timeout time.Duration, logger *logrus.Logger) *CoursesClient {
	return &CoursesClient{client: newClient(envMgr, timeout, logger)}
}

func (c *CoursesClient) base() string {
	return c.env.CoursesURL()
}

// CourseSavePayload wraps a course document with its creation method, which
// is how both the create and update endpoints take their body.
type CourseSavePayload struct {
	CourseData     models.Course         `json:"courseData"`
	CreationMethod models.CreationMethod `json:"creationMethod"`
}

// OrderUpdate assigns an explicit position to one course.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// GetScratchCourses lists courses authored in this system. The backend
// answers with either a bare array or {courses:[...]}.
func (c *CoursesClient) GetScratchCourses(ctx context.Context) ([]models.Course, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/courses/scratch", nil, &raw, nil); err != nil {
		return nil, err
	}

	var list []models.Course
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Courses []models.Course `json:"courses"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected scratch courses response shape: %w", err)
	}
	return wrapped.Courses, nil
}

// GetCourseBySystemeIoID fetches an imported course by its Systeme.io id.
func (c *CoursesClient) GetCourseBySystemeIoID(ctx context.Context, systemeIoID string) (models.Course, error) {
	var out models.Course
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/courses/course/"+url.PathEscape(systemeIoID), nil, &out, nil); err != nil {
		return models.Course{}, err
	}
	return out, nil
}

// GetSystemeioCourses lists the importable Systeme.io catalog.
func (c *CoursesClient) GetSystemeioCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/courses/usersystemeio", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse creates a course document.
func (c *CoursesClient) CreateCourse(ctx context.Context, payload CourseSavePayload) (models.Course, error) {
	var out models.Course
	if err := c.doJSON(ctx, http.MethodPost, c.base()+"/courses/create", payload, &out, nil); err != nil {
		return models.Course{}, err
	}
	return out, nil
}

// UpdateCourse updates an existing course document.
func (c *CoursesClient) UpdateCourse(ctx context.Context, payload CourseSavePayload) (models.Course, error) {
	var out models.Course
	if err := c.doJSON(ctx, http.MethodPut, c.base()+"/courses/update", payload, &out, nil); err != nil {
		return models.Course{}, err
	}
	return out, nil
}

// DeleteScratchCourse removes a scratch course.
func (c *CoursesClient) DeleteScratchCourse(ctx context.Context, courseID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.base()+"/courses/scratch/"+url.PathEscape(courseID), nil, nil, nil)
}

// UpdateCourseOrder persists an explicit display order for courses.
func (c *CoursesClient) UpdateCourseOrder(ctx context.Context, updates []OrderUpdate) error {
	body := struct {
		Updates []OrderUpdate `json:"updates"`
	}{Updates: updates}
	return c.doJSON(ctx, http.MethodPut, c.base()+"/courses/order", body, nil, nil)
}

// GetThemes lists all course themes.
func (c *CoursesClient) GetThemes(ctx context.Context) ([]models.Theme, error) {
	var out []models.Theme
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/themes", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ThemeSavePayload is the create/update body for a theme.
type ThemeSavePayload struct {
	Name   string             `json:"name"`
	Colors models.ThemeColors `json:"colors"`
}

// CreateTheme creates a theme.
func (c *CoursesClient) CreateTheme(ctx context.Context, payload ThemeSavePayload) (models.Theme, error) {
	var out models.Theme
	if err := c.doJSON(ctx, http.MethodPost, c.base()+"/themes", payload, &out, nil); err != nil {
		return models.Theme{}, err
	}
	return out, nil
}

// UpdateTheme updates a theme.
func (c *CoursesClient) UpdateTheme(ctx context.Context, id string, payload ThemeSavePayload) (models.Theme, error) {
	var out models.Theme
	if err := c.doJSON(ctx, http.MethodPut, c.base()+"/themes/"+url.PathEscape(id), payload, &out, nil); err != nil {
		return models.Theme{}, err
	}
	return out, nil
}

// DeleteTheme removes a theme.
func (c *CoursesClient) DeleteTheme(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.base()+"/themes/"+url.PathEscape(id), nil, nil, nil)
}

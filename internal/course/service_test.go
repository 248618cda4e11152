package course

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"breathadmin/internal/config"
	"breathadmin/internal/env"
	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.BackendsConfig{
		Dev:       config.BackendEndpoints{Content: ts.URL, Courses: ts.URL, Notifications: ts.URL},
		Prod:      config.BackendEndpoints{Content: ts.URL, Courses: ts.URL, Notifications: ts.URL},
		StateFile: filepath.Join(t.TempDir(), "environment"),
	}
	envManager, err := env.NewManager(cfg, quietLogger())
	if err != nil {
		t.Fatalf("env manager: %v", err)
	}
	t.Cleanup(envManager.Close)

	return NewService(gateway.NewCoursesClient(envManager, 0, quietLogger()), quietLogger())
}

func TestSaveDispatchesOnServerID(t *testing.T) {
	var createdPath, updatedPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/create", func(w http.ResponseWriter, r *http.Request) {
		createdPath = r.Method + " " + r.URL.Path
		var payload gateway.CourseSavePayload
		json.NewDecoder(r.Body).Decode(&payload)
		payload.CourseData.ServerID = "srv-1"
		json.NewEncoder(w).Encode(payload.CourseData)
	})
	mux.HandleFunc("/courses/update", func(w http.ResponseWriter, r *http.Request) {
		updatedPath = r.Method + " " + r.URL.Path
		var payload gateway.CourseSavePayload
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(payload.CourseData)
	})
	svc := newTestService(t, mux)

	t.Run("no server id creates", func(t *testing.T) {
		saved, err := svc.Save(context.Background(), models.Course{ID: "local-1", Title: "Breath Basics"})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if createdPath != "POST /courses/create" {
			t.Errorf("hit %q, want POST /courses/create", createdPath)
		}
		if saved.ServerID != "srv-1" {
			t.Errorf("server id = %q, want srv-1", saved.ServerID)
		}
	})

	t.Run("server id updates", func(t *testing.T) {
		_, err := svc.Save(context.Background(), models.Course{ServerID: "srv-1", ID: "local-1", Title: "Breath Basics v2"})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if updatedPath != "PUT /courses/update" {
			t.Errorf("hit %q, want PUT /courses/update", updatedPath)
		}
	})

	t.Run("title required", func(t *testing.T) {
		if _, err := svc.Save(context.Background(), models.Course{ID: "x"}); err == nil {
			t.Error("expected error for missing title")
		}
	})
}

func TestReorder(t *testing.T) {
	before := []models.Course{
		{ServerID: "a", Title: "A", Order: 0},
		{ServerID: "b", Title: "B", Order: 1},
	}
	after := []models.Course{
		{ServerID: "b", Title: "B", Order: 1},
		{ServerID: "a", Title: "A", Order: 0},
	}

	t.Run("success persists new order", func(t *testing.T) {
		var got struct {
			Updates []gateway.OrderUpdate `json:"updates"`
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/courses/order", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			w.Write([]byte(`{}`))
		})
		svc := newTestService(t, mux)

		result, err := svc.Reorder(context.Background(), before, append([]models.Course(nil), after...))
		if err != nil {
			t.Fatalf("Reorder: %v", err)
		}
		if len(got.Updates) != 2 || got.Updates[0].ID != "b" || got.Updates[0].Order != 0 {
			t.Errorf("updates = %+v, want b first at order 0", got.Updates)
		}
		if result[0].ServerID != "b" || result[0].Order != 0 {
			t.Errorf("result[0] = %+v, want b at order 0", result[0])
		}
	})

	t.Run("backend failure returns the pre-drag order", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/courses/order", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"nope"}`, http.StatusInternalServerError)
		})
		svc := newTestService(t, mux)

		result, err := svc.Reorder(context.Background(), before, append([]models.Course(nil), after...))
		if err == nil {
			t.Fatal("expected error")
		}
		if len(result) != 2 || result[0].ServerID != "a" {
			t.Errorf("rollback order = %+v, want the pre-drag list", result)
		}
	})
}

func TestSaveThemeValidation(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	colors := models.ThemeColors{}
	theme := models.Theme{Name: "Dawn", Colors: colors}
	if _, err := svc.SaveTheme(context.Background(), theme); err == nil {
		t.Error("expected error for empty colors")
	}

	if _, err := svc.SaveTheme(context.Background(), models.Theme{Colors: colors}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestValidateColors(t *testing.T) {
	full := models.ThemeColors{
		PrimaryColor: "#112233", SecondaryColor: "#445566", BackgroundColor: "#fff",
		TextColor: "#000", AccentColor: "#abcdef", HeaderColor: "#123",
		CourseTitleColor: "#456", InstructorTextColor: "#789", TabBackgroundColor: "#abc",
		DayBackgroundColor: "#def", SectionBackgroundColor: "#111", SubsectionBackgroundColor: "#222",
		LessonBackgroundColor: "#333", ReviewBackgroundColor: "#444", DescriptionColor: "#55667788",
	}

	if err := validateColors(full); err != nil {
		t.Errorf("valid colors rejected: %v", err)
	}

	bad := full
	bad.AccentColor = "blue"
	if err := validateColors(bad); err == nil {
		t.Error("expected error for non-hex color")
	}
}

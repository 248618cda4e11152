package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"breathadmin/internal/config"
	"breathadmin/internal/env"
	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

func TestFormatTime12(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"08:00", "8:00 AM"},
		{"00:30", "12:30 AM"},
		{"12:00", "12:00 PM"},
		{"17:45", "5:45 PM"},
		{"23:59", "11:59 PM"},
		{"bogus", "bogus"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatTime12(tt.input); got != tt.want {
			t.Errorf("FormatTime12(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTimeTo24(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"8:00 AM", "08:00"},
		{"12:30 AM", "00:30"},
		{"12:00 PM", "12:00"},
		{"5:45 PM", "17:45"},
		{"5:45pm", "17:45"},
		{"11:59 pm", "23:59"},
		// Unparsable input passes through unchanged
		{"17:45", "17:45"},
		{"soonish", "soonish"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ParseTimeTo24(tt.input); got != tt.want {
			t.Errorf("ParseTimeTo24(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	for _, time24 := range []string{"00:00", "08:05", "12:00", "12:01", "23:59"} {
		if got := ParseTimeTo24(FormatTime12(time24)); got != time24 {
			t.Errorf("round trip of %q produced %q", time24, got)
		}
	}
}

func TestFillTemplate(t *testing.T) {
	t.Run("fills provided params", func(t *testing.T) {
		got := FillTemplate("/course/{courseId}", map[string]string{"courseId": "42"})
		if got != "/course/42" {
			t.Errorf("got %q, want /course/42", got)
		}
	})

	t.Run("blank params stay unresolved", func(t *testing.T) {
		got := FillTemplate("/course/{courseId}", map[string]string{"courseId": "  "})
		if got != "/course/{courseId}" {
			t.Errorf("got %q, want the placeholder kept", got)
		}
	})

	t.Run("multiple params", func(t *testing.T) {
		got := FillTemplate("/meditate?tab=guided&collectionId={collectionId}&ref={ref}",
			map[string]string{"collectionId": "c9"})
		if got != "/meditate?tab=guided&collectionId=c9&ref={ref}" {
			t.Errorf("got %q", got)
		}
	})
}

func TestHasUnresolvedParams(t *testing.T) {
	if !HasUnresolvedParams("/course/{courseId}") {
		t.Error("placeholder not detected")
	}
	if HasUnresolvedParams("/course/42") {
		t.Error("false positive on resolved link")
	}
}

func TestTemplateParams(t *testing.T) {
	params := TemplateParams("sob://x/{a}/{b}")
	if len(params) != 2 || params[0] != "a" || params[1] != "b" {
		t.Errorf("params = %v, want [a b]", params)
	}
}

func TestValidateBlast(t *testing.T) {
	valid := models.NewReleasesBlastConfig{
		Title:    "New Releases",
		Body:     "Fresh sessions",
		DeepLink: "/meditate?tab=guided",
	}

	if err := ValidateBlast(valid); err != nil {
		t.Errorf("valid blast rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.NewReleasesBlastConfig)
	}{
		{"missing title", func(b *models.NewReleasesBlastConfig) { b.Title = " " }},
		{"missing body", func(b *models.NewReleasesBlastConfig) { b.Body = "" }},
		{"missing deep link", func(b *models.NewReleasesBlastConfig) { b.DeepLink = "" }},
		{"unresolved params", func(b *models.NewReleasesBlastConfig) { b.DeepLink = "/course/{courseId}" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blast := valid
			tc.mutate(&blast)
			if err := ValidateBlast(blast); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestConsole(t *testing.T, handler http.Handler) *Console {
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

	return NewConsole(gateway.NewNotificationsClient(envManager, "test-key", 0, quietLogger()), quietLogger())
}

func TestSendBlast(t *testing.T) {
	t.Run("immediate delivery summary", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/breath/notifications/new-releases", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-admin-key") != "test-key" {
				t.Errorf("missing admin key header")
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok": true,
				"result": map[string]int{
					"successCount": 812,
					"failureCount": 3,
					"totalDevices": 815,
				},
			})
		})
		console := newTestConsole(t, mux)

		summary, err := console.SendBlast(context.Background(), models.NewReleasesBlastConfig{
			Title: "T", Body: "B", DeepLink: "/meditate?tab=guided",
		})
		if err != nil {
			t.Fatalf("SendBlast: %v", err)
		}
		want := "New release sent: 812 successful deliveries out of 815 device tokens."
		if summary != want {
			t.Errorf("summary = %q, want %q", summary, want)
		}
	})

	t.Run("queued summary", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/breath/notifications/new-releases", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"queued":      true,
				"campaignId":  "cmp-1",
				"scheduledAt": "2026-09-01T08:00:00Z",
			})
		})
		console := newTestConsole(t, mux)

		summary, err := console.SendBlast(context.Background(), models.NewReleasesBlastConfig{
			Title: "T", Body: "B", DeepLink: "/meditate?tab=guided", ScheduleAt: "2026-09-01T08:00:00Z",
		})
		if err != nil {
			t.Fatalf("SendBlast: %v", err)
		}
		if !strings.HasPrefix(summary, "Campaign queued for ") {
			t.Errorf("summary = %q, want queued message", summary)
		}
	})

	t.Run("validation failure makes no network call", func(t *testing.T) {
		called := false
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
		console := newTestConsole(t, mux)

		_, err := console.SendBlast(context.Background(), models.NewReleasesBlastConfig{
			Title: "T", Body: "B", DeepLink: "/course/{courseId}",
		})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if called {
			t.Error("network call made despite failed validation")
		}
	})

	t.Run("embedded error surfaces", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/breath/notifications/new-releases", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid admin key"})
		})
		console := newTestConsole(t, mux)

		_, err := console.SendBlast(context.Background(), models.NewReleasesBlastConfig{
			Title: "T", Body: "B", DeepLink: "/meditate?tab=guided",
		})
		if err == nil || !strings.Contains(err.Error(), "invalid admin key") {
			t.Errorf("err = %v, want embedded backend message", err)
		}
	})
}

func TestUpdateScheduleConfigNormalizesTime(t *testing.T) {
	var got models.NotificationScheduleConfig
	mux := http.NewServeMux()
	mux.HandleFunc("/breath/notifications/schedule-config", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(got)
	})
	console := newTestConsole(t, mux)

	cfg := DefaultScheduleConfig()
	cfg.BreathingTime = "7:30 PM"
	saved, err := console.UpdateScheduleConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("UpdateScheduleConfig: %v", err)
	}
	if got.BreathingTime != "19:30" {
		t.Errorf("sent time = %q, want 19:30", got.BreathingTime)
	}
	if saved.BreathingTime != "19:30" {
		t.Errorf("saved time = %q, want 19:30", saved.BreathingTime)
	}
}

func TestUpdateScheduleConfigValidation(t *testing.T) {
	console := newTestConsole(t, http.NewServeMux())

	cfg := DefaultScheduleConfig()
	cfg.BreathingCadence = "weekly"
	if _, err := console.UpdateScheduleConfig(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown cadence")
	}

	cfg = DefaultScheduleConfig()
	cfg.BreathingCadence = models.CadenceOccasional
	cfg.BreathingIntervalDays = 0
	if _, err := console.UpdateScheduleConfig(context.Background(), cfg); err == nil {
		t.Error("expected error for zero interval with occasional cadence")
	}
}

func TestLinkOptionsFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/breath/notifications/new-releases/link-options", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	console := newTestConsole(t, mux)

	options, err := console.LinkOptions(context.Background())
	if err != nil {
		t.Fatalf("LinkOptions: %v", err)
	}
	if len(options.Options) != 5 {
		t.Errorf("got %d default options, want 5", len(options.Options))
	}
	var courseOption *models.NewReleaseLinkOption
	for i := range options.Options {
		if options.Options[i].Key == "course-detail" {
			courseOption = &options.Options[i]
		}
	}
	if courseOption == nil {
		t.Fatal("course-detail option missing from defaults")
	}
	if courseOption.ResolvesTo != "/course/{courseId}" {
		t.Errorf("resolvesTo = %q", courseOption.ResolvesTo)
	}
}

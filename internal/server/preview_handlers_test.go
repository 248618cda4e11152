package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"breathadmin/internal/preview"
)

func previewRequest(t *testing.T, as *AdminServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	if path == "/api/preview/start" {
		as.handlePreviewStart(w, r)
	} else {
		as.handlePreviewState(w, r)
	}
	return w
}

func TestHandlePreviewStart(t *testing.T) {
	as := testServer()

	w := previewRequest(t, as, http.MethodPost, "/api/preview/start",
		`{"id":"s1","title":"Deep Sleep Rain","category":"sleep-music","url":"https://cdn.example.com/rain.mp3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var state preview.State
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("invalid state JSON: %v", err)
	}
	if state.Item == nil || state.Item.ID != "s1" || !state.IsPlaying {
		t.Errorf("state = %+v", state)
	}
}

func TestHandlePreviewStartWithoutURL(t *testing.T) {
	as := testServer()

	w := previewRequest(t, as, http.MethodPost, "/api/preview/start",
		`{"id":"m1","title":"Om Namah Shivaya","category":"mantras"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestHandlePreviewStartMethodGuard(t *testing.T) {
	as := testServer()
	w := previewRequest(t, as, http.MethodGet, "/api/preview/start", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandlePreviewStateLifecycle(t *testing.T) {
	as := testServer()

	previewRequest(t, as, http.MethodPost, "/api/preview/start",
		`{"id":"s1","title":"Rain","category":"sleep-music","url":"https://cdn.example.com/rain.mp3"}`)

	// Pause at 30 seconds.
	w := previewRequest(t, as, http.MethodPut, "/api/preview", `{"isPlaying":false,"currentTime":30}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", w.Code)
	}
	var state preview.State
	json.Unmarshal(w.Body.Bytes(), &state)
	if state.IsPlaying || state.CurrentTime != 30 {
		t.Errorf("after pause: %+v", state)
	}

	// A partial update touches only the provided field.
	w = previewRequest(t, as, http.MethodPut, "/api/preview", `{"isPlaying":true}`)
	json.Unmarshal(w.Body.Bytes(), &state)
	if !state.IsPlaying || state.CurrentTime != 30 {
		t.Errorf("after resume: %+v", state)
	}

	w = previewRequest(t, as, http.MethodDelete, "/api/preview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	w = previewRequest(t, as, http.MethodGet, "/api/preview", "")
	json.Unmarshal(w.Body.Bytes(), &state)
	if state.Item != nil || state.IsPlaying {
		t.Errorf("after clear: %+v", state)
	}
}

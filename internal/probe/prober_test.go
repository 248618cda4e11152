package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"breathadmin/internal/config"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testProber(t *testing.T) *Prober {
	t.Helper()
	cfg := &config.Config{
		Probe: config.ProbeConfig{
			TimeoutSeconds:  10,
			MaxDownloadSize: 1 << 20,
			CacheTTLMinutes: 5,
		},
	}
	return NewProber(cfg, quietLogger())
}

// wavBytes builds a canonical 44-byte-header PCM WAV file holding the given
// number of seconds of silence.
func wavBytes(sampleRate, channels, bitDepth, seconds int) []byte {
	bytesPerFrame := channels * bitDepth / 8
	dataSize := sampleRate * bytesPerFrame * seconds

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*bytesPerFrame))
	binary.Write(&buf, binary.LittleEndian, uint16(bytesPerFrame))
	binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDurationWAV(t *testing.T) {
	path := writeTempFile(t, "tone.wav", wavBytes(8000, 1, 16, 3))

	seconds, err := durationWAV(path)
	if err != nil {
		t.Fatalf("durationWAV: %v", err)
	}
	if seconds != 3 {
		t.Errorf("duration = %d, want 3", seconds)
	}
}

func TestDurationWAVStereo(t *testing.T) {
	path := writeTempFile(t, "tone.wav", wavBytes(44100, 2, 16, 2))

	seconds, err := durationWAV(path)
	if err != nil {
		t.Fatalf("durationWAV: %v", err)
	}
	if seconds != 2 {
		t.Errorf("duration = %d, want 2", seconds)
	}
}

func TestDurationWAVRejectsGarbage(t *testing.T) {
	path := writeTempFile(t, "noise.wav", []byte("this is not a wav file at all"))

	if _, err := durationWAV(path); !errors.Is(err, ErrUnparsable) {
		t.Errorf("err = %v, want ErrUnparsable", err)
	}
}

func TestDurationOfFileDispatch(t *testing.T) {
	path := writeTempFile(t, "audio.bin", wavBytes(8000, 1, 16, 1))

	// Extension comes from the URL, not the local temp file name.
	seconds, err := durationOfFile(path, "https://cdn.example.com/tracks/calm.wav?alt=media&v=2")
	if err != nil {
		t.Fatalf("durationOfFile: %v", err)
	}
	if seconds != 1 {
		t.Errorf("duration = %d, want 1", seconds)
	}

	if _, err := durationOfFile(path, "https://cdn.example.com/tracks/calm.ogg"); !errors.Is(err, ErrUnparsable) {
		t.Errorf("unsupported format: err = %v, want ErrUnparsable", err)
	}
}

func TestURLPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://x.com/a.mp3", "https://x.com/a.mp3"},
		{"https://x.com/a.mp3?alt=media&token=abc", "https://x.com/a.mp3"},
		{"https://x.com/a.wav#t=10", "https://x.com/a.wav"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := urlPath(tt.raw); got != tt.want {
			t.Errorf("urlPath(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(wavBytes(8000, 1, 16, 4))
	}))
	defer ts.Close()

	p := testProber(t)
	url := ts.URL + "/sessions/morning.wav"

	seconds, err := p.Detect(context.Background(), url)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if seconds != 4 {
		t.Errorf("duration = %d, want 4", seconds)
	}

	// Second probe of the same URL is served from cache.
	if _, err := p.Detect(context.Background(), url); err != nil {
		t.Fatalf("cached Detect: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("backend hit %d times, want 1", n)
	}
}

func TestDetectUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	p := testProber(t)
	if _, err := p.Detect(context.Background(), ts.URL+"/missing.wav"); !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
}

func TestDetectRejectsOversizedFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer ts.Close()

	cfg := &config.Config{
		Probe: config.ProbeConfig{
			TimeoutSeconds:  10,
			MaxDownloadSize: 1024,
			CacheTTLMinutes: 5,
		},
	}
	p := NewProber(cfg, quietLogger())

	_, err := p.Detect(context.Background(), ts.URL+"/huge.wav")
	if err == nil {
		t.Fatal("expected error for oversized download")
	}
}

func TestProbeJobLifecycle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(wavBytes(8000, 1, 16, 2))
	}))
	defer ts.Close()

	p := testProber(t)
	job := p.Probe(ts.URL + "/clip.wav")
	if job.ID == "" {
		t.Fatal("empty job ID")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, ok := p.GetJob(job.ID)
		if !ok {
			t.Fatal("job disappeared")
		}
		if got.Status == StatusCompleted {
			if got.Duration != 2 {
				t.Errorf("duration = %d, want 2", got.Duration)
			}
			if got.CompletedAt == nil {
				t.Error("CompletedAt not set")
			}
			break
		}
		if got.Status == StatusFailed {
			t.Fatalf("job failed: %s", got.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in status %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := p.GetJob("no-such-job"); ok {
		t.Error("unknown job ID found")
	}
	if len(p.GetJobs()) != 1 {
		t.Errorf("GetJobs() = %d jobs, want 1", len(p.GetJobs()))
	}

	// Finished jobs older than the cutoff get reaped.
	p.CleanupJobs(0)
	if len(p.GetJobs()) != 0 {
		t.Error("completed job survived cleanup")
	}
}

func TestProbeJobFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	p := testProber(t)
	job := p.Probe(ts.URL + "/blocked.wav")

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, _ := p.GetJob(job.ID)
		if got.Status == StatusFailed {
			if got.Error == "" {
				t.Error("failed job missing error message")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never failed, status %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

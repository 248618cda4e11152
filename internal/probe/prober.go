package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"breathadmin/internal/cache"
	"breathadmin/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JobStatus represents the status of a probe job
type JobStatus string

const (
	StatusPending     JobStatus = "pending"
	StatusDownloading JobStatus = "downloading"
	StatusAnalyzing   JobStatus = "analyzing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job represents an asynchronous duration probe
type Job struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Status      JobStatus  `json:"status"`
	Duration    int        `json:"duration,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ErrUnreachable marks audio URLs that could not be downloaded.
var ErrUnreachable = errors.New("could not download audio file")

// ErrTimeout marks probes that exceeded the configured deadline.
var ErrTimeout = errors.New("audio probe timed out")

// Prober downloads remote audio files and reads their playback duration.
// Results are cached per URL so repeated saves of the same item do not
// re-download the file.
type Prober struct {
	config     *config.Config
	httpClient *http.Client
	durations  *cache.DurationCache
	jobs       map[string]*Job
	jobsMux    sync.RWMutex
	logger     *logrus.Logger
}

// NewProber creates a prober using the probe settings from config.
func NewProber(cfg *config.Config, logger *logrus.Logger) *Prober {
	ttl := time.Duration(cfg.Probe.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Prober{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		},
		durations: cache.NewDurationCache(ttl),
		jobs:      make(map[string]*Job),
		logger:    logger,
	}
}

// Detect downloads the audio at audioURL and returns its duration in
// seconds. It blocks until the probe finishes or the context/configured
// timeout expires.
func (p *Prober) Detect(ctx context.Context, audioURL string) (int, error) {
	if seconds, ok := p.durations.GetDuration(audioURL); ok {
		p.logger.WithFields(logrus.Fields{
			"url":      audioURL,
			"duration": seconds,
		}).Debug("Probe cache hit")
		return seconds, nil
	}

	timeout := time.Duration(p.config.Probe.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path, err := p.download(ctx, audioURL)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return 0, err
	}
	defer os.Remove(path)

	seconds, err := durationOfFile(path, audioURL)
	if err != nil {
		return 0, err
	}

	p.durations.SetDuration(audioURL, seconds)
	p.logger.WithFields(logrus.Fields{
		"url":      audioURL,
		"duration": seconds,
	}).Info("Detected audio duration")
	return seconds, nil
}

// download fetches the URL to a temp file, refusing bodies larger than
// the configured cap.
func (p *Prober) download(ctx context.Context, audioURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	maxSize := p.config.Probe.MaxDownloadSize
	if maxSize <= 0 {
		maxSize = 64 << 20
	}
	if resp.ContentLength > maxSize {
		return "", fmt.Errorf("audio file too large: %d bytes", resp.ContentLength)
	}

	tmp, err := os.CreateTemp("", "probe-*.audio")
	if err != nil {
		return "", err
	}

	written, err := io.Copy(tmp, io.LimitReader(resp.Body, maxSize+1))
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", closeErr
	}
	if written > maxSize {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("audio file too large: exceeds %d bytes", maxSize)
	}

	return tmp.Name(), nil
}

// Probe starts an asynchronous probe and returns the job immediately.
// Callers poll GetJob for completion.
func (p *Prober) Probe(audioURL string) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		URL:       audioURL,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	p.jobsMux.Lock()
	p.jobs[job.ID] = job
	p.jobsMux.Unlock()

	go p.processJob(job.ID, audioURL)

	return job
}

func (p *Prober) processJob(jobID, audioURL string) {
	p.updateJob(jobID, StatusDownloading, 0, "")

	seconds, err := p.Detect(context.Background(), audioURL)
	if err != nil {
		p.logger.WithError(err).WithField("url", audioURL).Warn("Probe job failed")
		p.updateJob(jobID, StatusFailed, 0, err.Error())
		return
	}

	p.updateJob(jobID, StatusCompleted, seconds, "")
}

func (p *Prober) updateJob(jobID string, status JobStatus, duration int, errMsg string) {
	p.jobsMux.Lock()
	defer p.jobsMux.Unlock()

	job, exists := p.jobs[jobID]
	if !exists {
		return
	}
	job.Status = status
	job.Duration = duration
	job.Error = errMsg
	if status == StatusCompleted || status == StatusFailed {
		now := time.Now()
		job.CompletedAt = &now
	}
}

// GetJob returns a probe job by ID.
func (p *Prober) GetJob(jobID string) (*Job, bool) {
	p.jobsMux.RLock()
	defer p.jobsMux.RUnlock()

	job, exists := p.jobs[jobID]
	if !exists {
		return nil, false
	}
	copied := *job
	return &copied, true
}

// GetJobs returns all known probe jobs.
func (p *Prober) GetJobs() []*Job {
	p.jobsMux.RLock()
	defer p.jobsMux.RUnlock()

	jobs := make([]*Job, 0, len(p.jobs))
	for _, job := range p.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}
	return jobs
}

// CleanupJobs removes finished jobs older than maxAge.
func (p *Prober) CleanupJobs(maxAge time.Duration) {
	p.jobsMux.Lock()
	defer p.jobsMux.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, job := range p.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(p.jobs, id)
		}
	}
}

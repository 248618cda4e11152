package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"breathadmin/internal/env"

	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx backend response. Message carries the backend's own
// {message} or {error} body field when one was parseable, so callers can
// surface it verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status of err when it is an APIError, else 0.
func StatusOf(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status
	}
	return 0
}

// client is the shared HTTP plumbing all three backend clients sit on.
type client struct {
	env        *env.Manager
	httpClient *http.Client
	logger     *logrus.Logger
}

func newClient(envMgr *env.Manager, timeout time.Duration, logger *logrus.Logger) client {
	return client{
		env:        envMgr,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// doJSON issues a request and decodes the JSON response into out (skipped
// when out is nil). body, when non-nil, is JSON-encoded. extraHeaders are
// applied after the defaults.
func (c *client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}, extraHeaders map[string]string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// parseAPIError extracts the backend's message/error field when present.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}

	return apiErr
}

// retriableStatus reports whether the primary endpoint's failure should be
// retried against its legacy fallback route.
func retriableStatus(err error) bool {
	status := StatusOf(err)
	return status == http.StatusNotFound || status == http.StatusMethodNotAllowed
}

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

// NotificationsClient talks to the notifications backend. Every admin route
// there is guarded by a bearer token plus an x-admin-key header carrying the
// same key.
type NotificationsClient struct {
	client
	adminKey string
}

// NewNotificationsClient creates a notifications backend client.
func NewNotificationsClient(envMgr *env.Manager, adminKey string, timeout time.Duration, logger *logrus.Logger) *NotificationsClient {
	return &NotificationsClient{
		client:   newClient(envMgr, timeout, logger),
		adminKey: adminKey,
	}
}

func (c *NotificationsClient) base() string {
	return c.env.NotificationsURL()
}

func (c *NotificationsClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.adminKey,
		"x-admin-key":   c.adminKey,
	}
}

// adminError is the {error:"..."} body the notifications backend returns
// with a 200 status on some admin routes.
type adminError struct {
	Error string `json:"error"`
}

func (c *NotificationsClient) doAdmin(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var raw json.RawMessage
	if err := c.doJSON(ctx, method, url, body, &raw, c.headers()); err != nil {
		return err
	}

	var embedded adminError
	if err := json.Unmarshal(raw, &embedded); err == nil && embedded.Error != "" {
		return &APIError{Status: http.StatusOK, Message: embedded.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// GetHistory lists the delivered-campaign history.
func (c *NotificationsClient) GetHistory(ctx context.Context) ([]models.NotificationRecord, error) {
	var out []models.NotificationRecord
	err := c.doAdmin(ctx, http.MethodGet, c.base()+"/breath/notifications/admin/history", nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetScheduleConfig fetches the scheduled-campaign configuration. Missing
// fields keep the provided defaults.
func (c *NotificationsClient) GetScheduleConfig(ctx context.Context, defaults models.NotificationScheduleConfig) (models.NotificationScheduleConfig, error) {
	cfg := defaults
	if err := c.doAdmin(ctx, http.MethodGet, c.base()+"/breath/notifications/schedule-config", nil, &cfg); err != nil {
		return defaults, err
	}
	return cfg, nil
}

// UpdateScheduleConfig persists schedule settings and returns the merged
// configuration the backend now holds.
func (c *NotificationsClient) UpdateScheduleConfig(ctx context.Context, payload models.NotificationScheduleConfig) (models.NotificationScheduleConfig, error) {
	cfg := payload
	if err := c.doAdmin(ctx, http.MethodPut, c.base()+"/breath/notifications/schedule-config", payload, &cfg); err != nil {
		return models.NotificationScheduleConfig{}, err
	}
	return cfg, nil
}

// RunBreathingSessionsCron triggers the breathing-sessions campaign.
func (c *NotificationsClient) RunBreathingSessionsCron(ctx context.Context, force, manual bool) error {
	query := url.Values{}
	if force {
		query.Set("force", "true")
	}
	if manual {
		query.Set("manual", "true")
	}
	u := c.base() + "/breath/notifications/cron/breathing-sessions"
	if qs := query.Encode(); qs != "" {
		u += "?" + qs
	}
	return c.doAdmin(ctx, http.MethodPost, u, nil, nil)
}

// RunCourseRemindersCron triggers the course-reminder campaign.
func (c *NotificationsClient) RunCourseRemindersCron(ctx context.Context, force bool) error {
	u := c.base() + "/breath/notifications/cron/course-reminders"
	if force {
		u += "?force=true"
	}
	return c.doAdmin(ctx, http.MethodPost, u, nil, nil)
}

// LinkOptionsResponse is the deep-link option catalog.
type LinkOptionsResponse struct {
	Options        []models.NewReleaseLinkOption    `json:"options"`
	TargetSegments []models.NewReleaseTargetSegment `json:"targetSegments"`
	ContentTypes   []models.NewReleaseContentType   `json:"contentTypes"`
}

// GetNewReleaseLinkOptions fetches the deep-link option catalog.
func (c *NotificationsClient) GetNewReleaseLinkOptions(ctx context.Context) (LinkOptionsResponse, error) {
	var out LinkOptionsResponse
	if err := c.doAdmin(ctx, http.MethodGet, c.base()+"/breath/notifications/new-releases/link-options", nil, &out); err != nil {
		return LinkOptionsResponse{}, err
	}
	return out, nil
}

// SendResult is the response of a new-release send: either a queued
// acknowledgement (scheduled) or immediate delivery counts.
type SendResult struct {
	OK          bool   `json:"ok,omitempty"`
	Queued      bool   `json:"queued,omitempty"`
	CampaignID  string `json:"campaignId,omitempty"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	Result      *struct {
		SuccessCount int `json:"successCount"`
		FailureCount int `json:"failureCount"`
		TotalDevices int `json:"totalDevices"`
	} `json:"result,omitempty"`
}

// SendNewRelease submits a blast.
func (c *NotificationsClient) SendNewRelease(ctx context.Context, blast models.NewReleasesBlastConfig) (SendResult, error) {
	var out SendResult
	if err := c.doAdmin(ctx, http.MethodPost, c.base()+"/breath/notifications/new-releases", blast, &out); err != nil {
		return SendResult{}, err
	}
	return out, nil
}

package notify

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

var (
	time12Pattern   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	templateParam   = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)
	scheduleLayouts = []string{time.RFC3339Nano, time.RFC3339}
)

// DefaultScheduleConfig is the breathing-session schedule shown before the
// backend has stored anything.
func DefaultScheduleConfig() models.NotificationScheduleConfig {
	return models.NotificationScheduleConfig{
		BreathingTime:         "08:00",
		BreathingTitle:        "Breathing Session Reminder",
		BreathingBody:         "Take a few mindful breaths with {{patternName}}.",
		BreathingEnabled:      true,
		BreathingCadence:      models.CadenceDaily,
		BreathingIntervalDays: 3,
		Timezone:              "America/New_York",
		CourseRemindersOn:     true,
	}
}

// DefaultBlast is the prefilled new-release campaign.
func DefaultBlast() models.NewReleasesBlastConfig {
	return models.NewReleasesBlastConfig{
		Title:         "New Releases",
		Body:          "Explore the newest guided sessions.",
		DeepLink:      "/meditate?tab=guided",
		ContentType:   models.ReleaseOther,
		TargetSegment: models.SegmentAllUsers,
	}
}

// DefaultLinkOptions is the deep-link catalog used when the backend does not
// serve its own.
func DefaultLinkOptions() []models.NewReleaseLinkOption {
	return []models.NewReleaseLinkOption{
		{
			Key:            "discover-guided",
			Label:          "Discover guided sessions",
			Description:    "Open the guided meditations discovery tab.",
			ContentType:    models.ReleaseOther,
			Template:       "/meditate?tab=guided",
			RequiredParams: nil,
			ResolvesTo:     "/meditate?tab=guided",
		},
		{
			Key:            "course-detail",
			Label:          "Course detail",
			Description:    "Open a specific course page.",
			ContentType:    models.ReleaseCourse,
			Template:       "sob://course/{courseId}",
			RequiredParams: []string{"courseId"},
			ResolvesTo:     "/course/{courseId}",
		},
		{
			Key:            "track-detail",
			Label:          "Sleep music track",
			Description:    "Open Sleep Music and preselect a track.",
			ContentType:    models.ReleaseTrack,
			Template:       "sob://track/{trackId}",
			RequiredParams: []string{"trackId"},
			ResolvesTo:     "/sleep-music?trackId={trackId}",
		},
		{
			Key:            "mantra-detail",
			Label:          "Mantra item",
			Description:    "Open Mantra Explorer and preselect a mantra.",
			ContentType:    models.ReleaseMantra,
			Template:       "sob://mantra/{mantraId}",
			RequiredParams: []string{"mantraId"},
			ResolvesTo:     "/mantra-explorer?mantraId={mantraId}",
		},
		{
			Key:            "collection-detail",
			Label:          "Meditation collection",
			Description:    "Open a specific guided collection.",
			ContentType:    models.ReleaseCollection,
			Template:       "sob://collection/{collectionId}",
			RequiredParams: []string{"collectionId"},
			ResolvesTo:     "/meditate?tab=guided&collectionId={collectionId}",
		},
	}
}

// FormatTime12 renders a 24h "HH:MM" time for the 12h input field. Values
// that do not split into two numbers come back unchanged.
func FormatTime12(time24 string) string {
	parts := strings.SplitN(time24, ":", 2)
	if len(parts) != 2 {
		return time24
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return time24
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, period)
}

// ParseTimeTo24 converts "h:MM AM/PM" input into 24h "HH:MM". Input that
// does not match the 12h shape passes through unchanged, so already-24h
// values and half-typed text survive a save round trip.
func ParseTimeTo24(input string) string {
	match := time12Pattern.FindStringSubmatch(strings.TrimSpace(input))
	if match == nil {
		return input
	}
	h, _ := strconv.Atoi(match[1])
	period := strings.ToUpper(match[3])
	if period == "PM" && h != 12 {
		h += 12
	}
	if period == "AM" && h == 12 {
		h = 0
	}
	return fmt.Sprintf("%02d:%s", h, match[2])
}

// FillTemplate substitutes {param} placeholders with the given values.
// Params with blank values stay unresolved in the output.
func FillTemplate(template string, params map[string]string) string {
	return templateParam.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]
		if value, ok := params[name]; ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return placeholder
	})
}

// HasUnresolvedParams reports whether a deep link still contains {param}
// placeholders.
func HasUnresolvedParams(deepLink string) bool {
	return templateParam.MatchString(deepLink)
}

// TemplateParams lists the placeholder names in a template, in order.
func TemplateParams(template string) []string {
	matches := templateParam.FindAllStringSubmatch(template, -1)
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		params = append(params, m[1])
	}
	return params
}

// Console drives the notification admin surface: history, schedule config,
// cron triggers and new-release blasts.
type Console struct {
	gateway *gateway.NotificationsClient
	logger  *logrus.Logger
}

func NewConsole(notificationsClient *gateway.NotificationsClient, logger *logrus.Logger) *Console {
	return &Console{gateway: notificationsClient, logger: logger}
}

// History returns the delivered-campaign history.
func (c *Console) History(ctx context.Context) ([]models.NotificationRecord, error) {
	return c.gateway.GetHistory(ctx)
}

// ScheduleConfig fetches the stored schedule, with defaults filled in for
// fields the backend has never stored.
func (c *Console) ScheduleConfig(ctx context.Context) (models.NotificationScheduleConfig, error) {
	return c.gateway.GetScheduleConfig(ctx, DefaultScheduleConfig())
}

// UpdateScheduleConfig validates and persists schedule changes. Incoming
// times may be in either 12h or 24h form.
func (c *Console) UpdateScheduleConfig(ctx context.Context, cfg models.NotificationScheduleConfig) (models.NotificationScheduleConfig, error) {
	cfg.BreathingTime = ParseTimeTo24(cfg.BreathingTime)
	if cfg.BreathingCadence != models.CadenceDaily && cfg.BreathingCadence != models.CadenceOccasional {
		return models.NotificationScheduleConfig{}, fmt.Errorf("unknown cadence %q", cfg.BreathingCadence)
	}
	if cfg.BreathingCadence == models.CadenceOccasional && cfg.BreathingIntervalDays < 1 {
		return models.NotificationScheduleConfig{}, fmt.Errorf("interval days must be at least 1 for occasional cadence")
	}

	saved, err := c.gateway.UpdateScheduleConfig(ctx, cfg)
	if err != nil {
		return models.NotificationScheduleConfig{}, err
	}
	c.logger.WithFields(logrus.Fields{
		"time":    saved.BreathingTime,
		"cadence": saved.BreathingCadence,
	}).Info("Updated notification schedule")
	return saved, nil
}

// RunBreathingSessionsCron triggers the breathing-session campaign now.
func (c *Console) RunBreathingSessionsCron(ctx context.Context, force bool) error {
	return c.gateway.RunBreathingSessionsCron(ctx, force, true)
}

// RunCourseRemindersCron triggers the course-reminder campaign now.
func (c *Console) RunCourseRemindersCron(ctx context.Context, force bool) error {
	return c.gateway.RunCourseRemindersCron(ctx, force)
}

// LinkOptions returns the deep-link catalog, falling back to the built-in
// defaults when the backend has none.
func (c *Console) LinkOptions(ctx context.Context) (gateway.LinkOptionsResponse, error) {
	resp, err := c.gateway.GetNewReleaseLinkOptions(ctx)
	if err != nil || len(resp.Options) == 0 {
		if err != nil {
			c.logger.WithError(err).Warn("Link-option catalog unavailable, using defaults")
		}
		return gateway.LinkOptionsResponse{
			Options: DefaultLinkOptions(),
			TargetSegments: []models.NewReleaseTargetSegment{
				models.SegmentAllUsers,
				models.SegmentActiveSubscribers,
				models.SegmentNewUsers7d,
				models.SegmentNewUsers30d,
			},
			ContentTypes: []models.NewReleaseContentType{
				models.ReleaseCourse,
				models.ReleaseTrack,
				models.ReleaseMantra,
				models.ReleaseCollection,
				models.ReleaseOther,
			},
		}, nil
	}
	return resp, nil
}

// ValidateBlast checks a blast before any network call.
func ValidateBlast(blast models.NewReleasesBlastConfig) error {
	if strings.TrimSpace(blast.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(blast.Body) == "" {
		return fmt.Errorf("body is required")
	}
	if strings.TrimSpace(blast.DeepLink) == "" {
		return fmt.Errorf("deep link is required")
	}
	if HasUnresolvedParams(blast.DeepLink) {
		return fmt.Errorf("please fill all required deep-link parameters before sending")
	}
	return nil
}

// SendBlast validates and submits a new-release blast, returning a
// human-readable summary of what the backend did with it.
func (c *Console) SendBlast(ctx context.Context, blast models.NewReleasesBlastConfig) (string, error) {
	if err := ValidateBlast(blast); err != nil {
		return "", err
	}

	result, err := c.gateway.SendNewRelease(ctx, blast)
	if err != nil {
		return "", err
	}

	summary := summarizeSend(result)
	c.logger.WithFields(logrus.Fields{
		"title":   blast.Title,
		"segment": blast.TargetSegment,
		"queued":  result.Queued,
	}).Info("Submitted new-release blast")
	return summary, nil
}

func summarizeSend(result gateway.SendResult) string {
	if result.Queued {
		display := "scheduled time"
		for _, layout := range scheduleLayouts {
			if t, err := time.Parse(layout, result.ScheduledAt); err == nil {
				display = t.Local().Format("1/2/2006 3:04 PM")
				break
			}
		}
		return fmt.Sprintf("Campaign queued for %s.", display)
	}

	sent, total := 0, 0
	if result.Result != nil {
		sent = result.Result.SuccessCount
		total = result.Result.TotalDevices
	}
	if total > 0 {
		return fmt.Sprintf("New release sent: %d successful deliveries out of %d device tokens.", sent, total)
	}
	return fmt.Sprintf("New release sent: %d successful deliveries.", sent)
}

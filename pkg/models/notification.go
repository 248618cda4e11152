package models

// NotificationRecord is one entry of the delivered-campaign history.
type NotificationRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Recipients int    `json:"recipients"`
	SentDate   string `json:"sentDate"`
	OpenRate   string `json:"openRate"` // e.g. "87%"
	Status     string `json:"status"`   // Delivered, Pending
}

// Cadence controls how often the breathing-session campaign fires.
type Cadence string

const (
	CadenceDaily      Cadence = "daily"
	CadenceOccasional Cadence = "occasional"
)

// NotificationScheduleConfig holds the two scheduled campaign settings.
// Times are stored in 24h "HH:MM" form.
type NotificationScheduleConfig struct {
	BreathingTime         string  `json:"breathingTime"`
	BreathingTitle        string  `json:"breathingTitle"`
	BreathingBody         string  `json:"breathingBody"`
	BreathingEnabled      bool    `json:"breathingEnabled"`
	BreathingCadence      Cadence `json:"breathingCadence"`
	BreathingIntervalDays int     `json:"breathingIntervalDays"`
	Timezone              string  `json:"timezone"`
	CourseRemindersOn     bool    `json:"courseRemindersEnabled"`
}

// NewReleaseContentType classifies what a new-release blast promotes.
type NewReleaseContentType string

const (
	ReleaseCourse     NewReleaseContentType = "course"
	ReleaseTrack      NewReleaseContentType = "track"
	ReleaseMantra     NewReleaseContentType = "mantra"
	ReleaseCollection NewReleaseContentType = "collection"
	ReleaseOther      NewReleaseContentType = "other"
)

// NewReleaseTargetSegment selects the audience of a blast.
type NewReleaseTargetSegment string

const (
	SegmentAllUsers          NewReleaseTargetSegment = "all-users"
	SegmentActiveSubscribers NewReleaseTargetSegment = "active-subscribers"
	SegmentNewUsers7d        NewReleaseTargetSegment = "new-users-7d"
	SegmentNewUsers30d       NewReleaseTargetSegment = "new-users-30d"
)

// NewReleaseLinkOption is a named deep-link template. Template strings may
// contain {param} placeholders listed in RequiredParams.
type NewReleaseLinkOption struct {
	Key            string                `json:"key"`
	Label          string                `json:"label"`
	Description    string                `json:"description"`
	ContentType    NewReleaseContentType `json:"contentType"`
	Template       string                `json:"template"`
	RequiredParams []string              `json:"requiredParams"`
	ResolvesTo     string                `json:"resolvesTo"`
}

// NewReleasesBlastConfig is an ad-hoc campaign to send (or schedule).
type NewReleasesBlastConfig struct {
	Title         string                  `json:"title"`
	Body          string                  `json:"body"`
	DeepLink      string                  `json:"deepLink"`
	ContentType   NewReleaseContentType   `json:"contentType"`
	TargetSegment NewReleaseTargetSegment `json:"targetSegment"`
	ScheduleAt    string                  `json:"scheduleAt,omitempty"`
	Data          map[string]string       `json:"data,omitempty"`
}

package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"breathadmin/internal/content"
	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// NoOpenRate is shown for the notifications card when no history entry
// carries a parsable open rate.
const NoOpenRate = "—"

// CategoryStat summarizes one category card.
type CategoryStat struct {
	Count int    `json:"count"`
	Plays int    `json:"plays"`
	Label string `json:"label,omitempty"` // notifications card: avg open rate
}

// Data is the aggregated dashboard payload.
type Data struct {
	CategoryStats  map[models.Category]CategoryStat `json:"categoryStats"`
	RecentActivity []models.ContentItem             `json:"recentActivity"`
	TotalTracks    int                              `json:"totalTracks"`
	ActiveCourses  int                              `json:"activeCourses"`
}

// Service aggregates content, course and notification data into a single
// dashboard snapshot.
type Service struct {
	content       *content.Service
	courses       *gateway.CoursesClient
	notifications *gateway.NotificationsClient
	logger        *logrus.Logger
}

func NewService(contentSvc *content.Service, courses *gateway.CoursesClient, notifications *gateway.NotificationsClient, logger *logrus.Logger) *Service {
	return &Service{
		content:       contentSvc,
		courses:       courses,
		notifications: notifications,
		logger:        logger,
	}
}

// FetchDashboardData fans out over every category plus courses and
// notification history. Content failures abort the whole fetch; course and
// notification failures degrade to empty sections so the content cards
// still render.
func (s *Service) FetchDashboardData(ctx context.Context) (*Data, error) {
	categoryItems := make([][]models.ContentItem, len(models.ContentCategories))
	var courses []models.Course
	var history []models.NotificationRecord

	g, gctx := errgroup.WithContext(ctx)

	for i, cat := range models.ContentCategories {
		i, cat := i, cat
		g.Go(func() error {
			items, err := s.content.ListItems(gctx, cat)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", cat, err)
			}
			categoryItems[i] = items
			return nil
		})
	}

	g.Go(func() error {
		list, err := s.courses.GetScratchCourses(gctx)
		if err != nil {
			s.logger.WithError(err).Warn("Dashboard: course fetch failed, showing empty")
			return nil
		}
		courses = list
		return nil
	})

	g.Go(func() error {
		records, err := s.notifications.GetHistory(gctx)
		if err != nil {
			s.logger.WithError(err).Warn("Dashboard: notification history fetch failed, showing empty")
			return nil
		}
		history = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := make(map[models.Category]CategoryStat, len(models.ContentCategories)+2)
	totalTracks := 0
	for i, cat := range models.ContentCategories {
		items := categoryItems[i]
		plays := 0
		for _, item := range items {
			plays += item.Plays
		}
		stats[cat] = CategoryStat{Count: len(items), Plays: plays}
		totalTracks += len(items)
	}
	stats[models.CategoryCourses] = CategoryStat{Count: len(courses)}
	stats[models.CategoryNotifications] = CategoryStat{
		Count: len(history),
		Label: averageOpenRate(history),
	}

	return &Data{
		CategoryStats:  stats,
		RecentActivity: recentActivity(categoryItems),
		TotalTracks:    totalTracks,
		ActiveCourses:  len(courses),
	}, nil
}

// recentActivity concatenates every category's items in the fixed category
// order, sorts by parsed date descending and keeps the newest five. The
// stable sort preserves the concatenation order among equal dates.
func recentActivity(categoryItems [][]models.ContentItem) []models.ContentItem {
	var all []models.ContentItem
	for _, items := range categoryItems {
		all = append(all, items...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return content.ParseDisplayDate(all[i].Date).After(content.ParseDisplayDate(all[j].Date))
	})

	if len(all) > 5 {
		all = all[:5]
	}
	return all
}

// averageOpenRate averages the parsable percentage values in the history.
// Records whose open rate is absent or not a percentage are skipped; with
// nothing to average the placeholder is returned.
func averageOpenRate(history []models.NotificationRecord) string {
	sum := 0.0
	n := 0
	for _, rec := range history {
		raw := strings.TrimSuffix(strings.TrimSpace(rec.OpenRate), "%")
		if raw == "" || raw == NoOpenRate {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return NoOpenRate
	}
	return fmt.Sprintf("%d%%", int(sum/float64(n)+0.5))
}

package content

import (
	"context"
	"fmt"
	"strings"

	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

// DurationProber resolves the duration in seconds of a remote audio URL.
// Detection failures abort the submission that needed them.
type DurationProber interface {
	Detect(ctx context.Context, audioURL string) (int, error)
}

// Service is the admin-facing content layer: category listings projected
// into ContentItems, and the create/update/delete paths for each of the
// five form variants. Nothing is cached; every mutation is followed by a
// fresh listing fetch on the caller's side.
type Service struct {
	gateway *gateway.ContentClient
	prober  DurationProber
	logger  *logrus.Logger
}

// NewService creates the content service.
func NewService(gw *gateway.ContentClient, prober DurationProber, logger *logrus.Logger) *Service {
	return &Service{
		gateway: gw,
		prober:  prober,
		logger:  logger,
	}
}

// ListEntries fetches the raw music entries of one content category.
func (s *Service) ListEntries(ctx context.Context, category models.Category) ([]models.MusicEntry, error) {
	switch category {
	case models.CategorySleepMusic:
		return s.gateway.GetSleepMusic(ctx)
	case models.CategoryMeditation:
		return s.gateway.GetGuidedMeditation(ctx, 1, 100)
	case models.CategoryChakra:
		return s.gateway.GetChakraMusic(ctx)
	default:
		return s.listByKeyword(ctx, category)
	}
}

// listByKeyword filters the raw music collection down to the backend
// category matching the content type's keywords. Without a match the whole
// collection is returned, mirroring the admin listing's permissive default.
func (s *Service) listByKeyword(ctx context.Context, category models.Category) ([]models.MusicEntry, error) {
	musics, err := s.gateway.GetMusics(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.gateway.GetMusicCategories(ctx)
	if err != nil {
		return nil, err
	}

	match, ok := MatchCategory(categories, category)
	if !ok {
		return musics, nil
	}

	filtered := musics[:0]
	for _, m := range musics {
		if BelongsTo(m, match.ID) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// ListItems returns one category's entries projected into display items.
func (s *Service) ListItems(ctx context.Context, category models.Category) ([]models.ContentItem, error) {
	if category == models.CategoryMantras {
		mantras, err := s.gateway.GetMantras(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]models.ContentItem, 0, len(mantras))
		for _, m := range mantras {
			items = append(items, MantraToContentItem(m))
		}
		return items, nil
	}

	entries, err := s.ListEntries(ctx, category)
	if err != nil {
		return nil, err
	}
	items := make([]models.ContentItem, 0, len(entries))
	for _, m := range entries {
		items = append(items, MusicToContentItem(m, category))
	}
	return items, nil
}

// CreateMusic validates and creates an entry in a music-like category.
// Validation failures are returned before any network call is made.
func (s *Service) CreateMusic(ctx context.Context, category models.Category, in MusicInput) (models.MusicEntry, []FieldError, error) {
	if errs := ValidateMusicInput(in, category); len(errs) > 0 {
		return models.MusicEntry{}, errs, nil
	}

	if category == models.CategoryMeditation {
		if strings.TrimSpace(in.Slug) == "" {
			in.Slug = Slugify(in.Name)
		}
		duration, err := s.detectDuration(ctx, in.AudioFilename)
		if err != nil {
			return models.MusicEntry{}, nil, err
		}
		in.Duration = duration
	}

	payload, err := s.buildCreatePayload(ctx, category, in)
	if err != nil {
		return models.MusicEntry{}, nil, err
	}

	entry, err := s.gateway.CreateMusic(ctx, payload)
	if err != nil {
		return models.MusicEntry{}, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"category": category,
		"name":     in.Name,
		"id":       entry.ID,
	}).Info("Created content entry")
	return entry, nil, nil
}

// UpdateMusic validates and updates an entry in a music-like category.
func (s *Service) UpdateMusic(ctx context.Context, category models.Category, id string, in MusicInput) (models.MusicEntry, []FieldError, error) {
	if errs := ValidateMusicInput(in, category); len(errs) > 0 {
		return models.MusicEntry{}, errs, nil
	}

	if category == models.CategoryMeditation {
		if strings.TrimSpace(in.Slug) == "" {
			in.Slug = Slugify(in.Name)
		}
		duration, err := s.detectDuration(ctx, in.AudioFilename)
		if err != nil {
			return models.MusicEntry{}, nil, err
		}
		in.Duration = duration
	}

	categoryID, err := s.resolveCategoryID(ctx, category, in.CategoryID)
	if err != nil {
		return models.MusicEntry{}, nil, err
	}

	payload := gateway.UpdateMusicPayload{
		Name:          strings.TrimSpace(in.Name),
		Description:   descriptionOrBlank(in.Description),
		Categories:    []string{categoryID},
		CategoryID:    categoryID,
		IsPremium:     premiumString(in.IsPremium),
		TypeContent:   "app",
		AudioFilename: strings.TrimSpace(in.AudioFilename),
		ImageFilename: strings.TrimSpace(in.ImageFilename),
		VisualURL:     strings.TrimSpace(in.VisualURL),
		Duration:      in.Duration,
		Slug:          strings.TrimSpace(in.Slug),
		Position:      in.Position,
	}

	entry, err := s.gateway.UpdateMusic(ctx, id, payload)
	if err != nil {
		return models.MusicEntry{}, nil, err
	}
	return entry, nil, nil
}

// DeleteMusic removes a music entry.
func (s *Service) DeleteMusic(ctx context.Context, id string) error {
	return s.gateway.DeleteMusic(ctx, id)
}

// GetMusic fetches one entry for the edit forms.
func (s *Service) GetMusic(ctx context.Context, id string) (models.MusicEntry, error) {
	return s.gateway.GetMusicByID(ctx, id)
}

// CreateMantra validates and creates a mantra.
func (s *Service) CreateMantra(ctx context.Context, in MantraInput) (models.MantraEntry, []FieldError, error) {
	if errs := ValidateMantraInput(in); len(errs) > 0 {
		return models.MantraEntry{}, errs, nil
	}

	entry, err := s.gateway.CreateMantra(ctx, mantraPayload(in))
	if err != nil {
		return models.MantraEntry{}, nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"title": in.Title,
		"deity": in.Deity,
		"id":    entry.ID,
	}).Info("Created mantra")
	return entry, nil, nil
}

// UpdateMantra validates and updates a mantra.
func (s *Service) UpdateMantra(ctx context.Context, id string, in MantraInput) (models.MantraEntry, []FieldError, error) {
	if errs := ValidateMantraInput(in); len(errs) > 0 {
		return models.MantraEntry{}, errs, nil
	}

	entry, err := s.gateway.UpdateMantra(ctx, id, mantraPayload(in))
	if err != nil {
		return models.MantraEntry{}, nil, err
	}
	return entry, nil, nil
}

// DeleteMantra removes a mantra.
func (s *Service) DeleteMantra(ctx context.Context, id string) error {
	return s.gateway.DeleteMantra(ctx, id)
}

// Categories exposes the backend music categories to the forms.
func (s *Service) Categories(ctx context.Context) ([]models.CategoryType, error) {
	return s.gateway.GetMusicCategories(ctx)
}

func (s *Service) buildCreatePayload(ctx context.Context, category models.Category, in MusicInput) (gateway.CreateMusicPayload, error) {
	categoryID, err := s.resolveCategoryID(ctx, category, in.CategoryID)
	if err != nil {
		return gateway.CreateMusicPayload{}, err
	}

	return gateway.CreateMusicPayload{
		Name:          strings.TrimSpace(in.Name),
		Description:   descriptionOrBlank(in.Description),
		Categories:    []string{categoryID},
		IsPremium:     premiumString(in.IsPremium),
		TypeContent:   "app",
		AudioFilename: strings.TrimSpace(in.AudioFilename),
		ImageFilename: strings.TrimSpace(in.ImageFilename),
		VisualURL:     strings.TrimSpace(in.VisualURL),
		Duration:      in.Duration,
		Slug:          strings.TrimSpace(in.Slug),
		Position:      in.Position,
	}, nil
}

// resolveCategoryID keeps an explicit category choice, otherwise resolves
// the category's default by keyword match.
func (s *Service) resolveCategoryID(ctx context.Context, category models.Category, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	categories, err := s.gateway.GetMusicCategories(ctx)
	if err != nil {
		return "", err
	}
	match, ok := ResolveDefaultCategory(categories, category)
	if !ok {
		return "", fmt.Errorf("no %s category found, create it in the backend first", category)
	}
	return match.ID, nil
}

// detectDuration blocks the submission on the duration probe.
func (s *Service) detectDuration(ctx context.Context, audioURL string) (int, error) {
	duration, err := s.prober.Detect(ctx, strings.TrimSpace(audioURL))
	if err != nil {
		return 0, fmt.Errorf("audio duration detection failed: %w", err)
	}
	return duration, nil
}

func mantraPayload(in MantraInput) gateway.CreateMantraPayload {
	return gateway.CreateMantraPayload{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Duration:    in.Duration,
		AudioURL:    strings.TrimSpace(in.AudioURL),
		Deity:       in.Deity,
		Benefit:     in.Benefit,
		IsPremium:   in.IsPremium,
		IsActive:    in.IsActive,
	}
}

// descriptionOrBlank substitutes the single-space placeholder the backend
// requires for empty descriptions.
func descriptionOrBlank(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return " "
	}
	return trimmed
}

func premiumString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

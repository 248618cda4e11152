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

// ContentClient talks to the content backend: categories, the music
// collections (sleep music, guided meditation, chakra) and mantras.
type ContentClient struct {
	client
}

// NewContentClient creates a content backend client.
func NewContentClient(envMgr *env.Manager, timeout time.Duration, logger *logrus.Logger) *ContentClient {
	return &ContentClient{client: newClient(envMgr, timeout, logger)}
}

func (c *ContentClient) base() string {
	return c.env.ContentURL()
}

// CreateMusicPayload is the body POST /musics/create expects. The backend
// takes isPremium as the strings "true"/"false".
type CreateMusicPayload struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories,omitempty"`
	IsPremium     string   `json:"isPremium"`
	TypeContent   string   `json:"typeContent"`
	AudioFilename string   `json:"audioFilename"`
	ImageFilename string   `json:"imageFilename,omitempty"`
	VisualURL     string   `json:"visualUrl,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	Slug          string   `json:"slug,omitempty"`
	Position      int      `json:"position,omitempty"`
}

// UpdateMusicPayload mirrors CreateMusicPayload for PUT /musics/edit/:id.
// CategoryID duplicates the first category id, which the legacy edit route
// still reads.
type UpdateMusicPayload struct {
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CategoryID    string   `json:"categoryId,omitempty"`
	IsPremium     string   `json:"isPremium,omitempty"`
	TypeContent   string   `json:"typeContent,omitempty"`
	AudioFilename string   `json:"audioFilename,omitempty"`
	ImageFilename string   `json:"imageFilename,omitempty"`
	VisualURL     string   `json:"visualUrl,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	Slug          string   `json:"slug,omitempty"`
	Position      int      `json:"position,omitempty"`
}

// CreateMantraPayload is the body POST /mantras expects.
type CreateMantraPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	AudioURL     string `json:"audioUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Deity        string `json:"deity"`
	Benefit      string `json:"benefit"`
	Difficulty   string `json:"difficulty,omitempty"`
	IsPremium    bool   `json:"isPremium"`
	IsActive     bool   `json:"isActive"`
}

// musicEnvelope covers the response wrappers the backend uses
// interchangeably for single-entry endpoints.
type musicEnvelope struct {
	models.MusicEntry
	Data  *models.MusicEntry `json:"data,omitempty"`
	Music *models.MusicEntry `json:"music,omitempty"`
}

func (e *musicEnvelope) unwrap() models.MusicEntry {
	if e.Data != nil {
		return *e.Data
	}
	if e.Music != nil {
		return *e.Music
	}
	return e.MusicEntry
}

// GetCategories lists all backend content categories (admin view). The
// endpoint returns either a bare array or {data:[...]}.
func (c *ContentClient) GetCategories(ctx context.Context) ([]models.CategoryType, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/categories/admin", nil, &raw, nil); err != nil {
		return nil, err
	}

	var list []models.CategoryType
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []models.CategoryType `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected categories response shape: %w", err)
	}
	return wrapped.Data, nil
}

// GetMusicCategories lists only the categories of type "music".
func (c *ContentClient) GetMusicCategories(ctx context.Context) ([]models.CategoryType, error) {
	all, err := c.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	music := make([]models.CategoryType, 0, len(all))
	for _, cat := range all {
		if cat.Type == "music" {
			music = append(music, cat)
		}
	}
	return music, nil
}

// GetSleepMusic lists sleep music through the same preview endpoint the app
// uses (excludes chakra and guided meditation).
func (c *ContentClient) GetSleepMusic(ctx context.Context) ([]models.MusicEntry, error) {
	var out struct {
		MusicList []models.MusicEntry `json:"musicList"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/app/musics/preview?category=", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.MusicList, nil
}

// GetGuidedMeditation lists guided meditations via the dedicated endpoint.
func (c *ContentClient) GetGuidedMeditation(ctx context.Context, page, limit int) ([]models.MusicEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	var out struct {
		MusicList []models.MusicEntry `json:"musicList"`
	}
	u := fmt.Sprintf("%s/app/musics/guided-meditation?page=%d&limit=%d", c.base(), page, limit)
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out, nil); err != nil {
		return nil, err
	}
	return out.MusicList, nil
}

// GetChakraMusic lists chakra music via the dedicated endpoint. The route
// spells it "shakra"; that is the backend's spelling, not ours.
func (c *ContentClient) GetChakraMusic(ctx context.Context) ([]models.MusicEntry, error) {
	var out struct {
		MusicList []models.MusicEntry `json:"musicList"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/app/musics/shakra", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.MusicList, nil
}

// GetMusics lists the full raw music collection.
func (c *ContentClient) GetMusics(ctx context.Context) ([]models.MusicEntry, error) {
	var raw []models.MusicEntry
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/musics", nil, &raw, nil); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateMusic creates a music entry.
func (c *ContentClient) CreateMusic(ctx context.Context, payload CreateMusicPayload) (models.MusicEntry, error) {
	var out musicEnvelope
	if err := c.doJSON(ctx, http.MethodPost, c.base()+"/musics/create", payload, &out, nil); err != nil {
		return models.MusicEntry{}, err
	}
	return out.unwrap(), nil
}

// GetMusicByID fetches one entry, falling back from the detail route to the
// legacy id route when the detail route is missing on the active backend.
func (c *ContentClient) GetMusicByID(ctx context.Context, id string) (models.MusicEntry, error) {
	var out musicEnvelope
	err := c.doJSON(ctx, http.MethodGet, c.base()+"/musics/detail/"+url.PathEscape(id), nil, &out, nil)
	if err != nil && retriableStatus(err) {
		out = musicEnvelope{}
		err = c.doJSON(ctx, http.MethodGet, c.base()+"/musics/"+url.PathEscape(id), nil, &out, nil)
	}
	if err != nil {
		return models.MusicEntry{}, err
	}
	return out.unwrap(), nil
}

// UpdateMusic updates an entry, with the same legacy-route fallback
// (PUT /musics/edit/:id, then PATCH /musics/:id).
func (c *ContentClient) UpdateMusic(ctx context.Context, id string, payload UpdateMusicPayload) (models.MusicEntry, error) {
	var out musicEnvelope
	err := c.doJSON(ctx, http.MethodPut, c.base()+"/musics/edit/"+url.PathEscape(id), payload, &out, nil)
	if err != nil && retriableStatus(err) {
		out = musicEnvelope{}
		err = c.doJSON(ctx, http.MethodPatch, c.base()+"/musics/"+url.PathEscape(id), payload, &out, nil)
	}
	if err != nil {
		return models.MusicEntry{}, err
	}
	return out.unwrap(), nil
}

// DeleteMusic removes an entry and its uploaded files. The primary route is
// DELETE /uploadFiles/delete/:id; some deployments only accept POST there.
func (c *ContentClient) DeleteMusic(ctx context.Context, id string) error {
	err := c.doJSON(ctx, http.MethodDelete, c.base()+"/uploadFiles/delete/"+url.PathEscape(id), nil, nil, nil)
	if err != nil && retriableStatus(err) {
		err = c.doJSON(ctx, http.MethodPost, c.base()+"/uploadFiles/delete/"+url.PathEscape(id), nil, nil, nil)
	}
	return err
}

// GetMantras lists all mantras, inactive ones included.
func (c *ContentClient) GetMantras(ctx context.Context) ([]models.MantraEntry, error) {
	var out struct {
		Mantras []models.MantraEntry `json:"mantras"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.base()+"/mantras?limit=500&includeInactive=true", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Mantras, nil
}

// CreateMantra creates a mantra.
func (c *ContentClient) CreateMantra(ctx context.Context, payload CreateMantraPayload) (models.MantraEntry, error) {
	var out struct {
		Data models.MantraEntry `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.base()+"/mantras", payload, &out, nil); err != nil {
		return models.MantraEntry{}, err
	}
	return out.Data, nil
}

// UpdateMantra updates a mantra in place.
func (c *ContentClient) UpdateMantra(ctx context.Context, id string, payload CreateMantraPayload) (models.MantraEntry, error) {
	var out struct {
		Data models.MantraEntry `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPut, c.base()+"/mantras/"+url.PathEscape(id), payload, &out, nil); err != nil {
		return models.MantraEntry{}, err
	}
	return out.Data, nil
}

// DeleteMantra removes a mantra.
func (c *ContentClient) DeleteMantra(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.base()+"/mantras/"+url.PathEscape(id), nil, nil, nil)
}

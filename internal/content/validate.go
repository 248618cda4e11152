package content

import (
	"fmt"
	"net/url"
	"strings"

	"breathadmin/pkg/models"
)

// FieldError is a single field-specific validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MusicInput is the operator-entered form for the sleep-music, guided
// meditation and chakra categories.
type MusicInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"categoryId"`
	IsPremium     bool   `json:"isPremium"`
	AudioFilename string `json:"audioFilename"`
	ImageFilename string `json:"imageFilename"`
	VisualURL     string `json:"visualUrl"`
	Slug          string `json:"slug"`
	Duration      int    `json:"duration"`
	Position      int    `json:"position"`
}

// MantraInput is the operator-entered mantra form.
type MantraInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	AudioURL    string `json:"audioUrl"`
	Deity       string `json:"deity"`
	Benefit     string `json:"benefit"`
	IsPremium   bool   `json:"isPremium"`
	IsActive    bool   `json:"isActive"`
}

// IsValidHTTPURL reports whether value parses as an absolute http(s) URL.
func IsValidHTTPURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func requireName(errs []FieldError, value, field string) []FieldError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, FieldError{
			Field:   field,
			Message: "Name is required",
			Code:    "MISSING_NAME",
		})
	}
	return errs
}

func requireURL(errs []FieldError, value, field, label string) []FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs = append(errs, FieldError{
			Field:   field,
			Message: label + " is required",
			Code:    "MISSING_URL",
		})
	} else if !IsValidHTTPURL(trimmed) {
		errs = append(errs, FieldError{
			Field:   field,
			Message: label + " must be a valid http(s) URL",
			Code:    "INVALID_URL",
		})
	}
	return errs
}

// ValidateMusicInput applies the category-specific required-field rules.
// All failures are reported at once; no network call may be made while any
// remain.
func ValidateMusicInput(in MusicInput, category models.Category) []FieldError {
	var errs []FieldError

	errs = requireName(errs, in.Name, "name")

	switch category {
	case models.CategorySleepMusic:
		errs = requireURL(errs, in.AudioFilename, "audioFilename", "Audio URL")
		errs = requireURL(errs, in.ImageFilename, "imageFilename", "Image URL")
	case models.CategoryChakra:
		errs = requireURL(errs, in.AudioFilename, "audioFilename", "Audio URL")
		errs = requireURL(errs, in.VisualURL, "visualUrl", "Visual URL")
		if in.ImageFilename != "" && !IsValidHTTPURL(in.ImageFilename) {
			errs = append(errs, FieldError{
				Field:   "imageFilename",
				Message: "Image URL must be a valid http(s) URL",
				Code:    "INVALID_URL",
			})
		}
	case models.CategoryMeditation:
		errs = requireURL(errs, in.AudioFilename, "audioFilename", "Audio URL")
		// A blank slug is filled in from the name later; only an explicit
		// slug is held to the canonical form.
		if slug := strings.TrimSpace(in.Slug); slug != "" && slug != Slugify(slug) {
			errs = append(errs, FieldError{
				Field:   "slug",
				Message: "Slug may only contain lowercase letters, digits and hyphens",
				Code:    "INVALID_SLUG",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "category",
			Message: fmt.Sprintf("Unknown music category: %s", category),
			Code:    "UNKNOWN_CATEGORY",
		})
	}

	return errs
}

// ValidateMantraInput applies the mantra form rules, including the
// deity/benefit membership invariant.
func ValidateMantraInput(in MantraInput) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: "Title is required",
			Code:    "MISSING_TITLE",
		})
	}
	errs = requireURL(errs, in.AudioURL, "audioUrl", "Audio URL")
	if in.Duration <= 0 {
		errs = append(errs, FieldError{
			Field:   "duration",
			Message: "Duration must be a positive number of seconds",
			Code:    "INVALID_DURATION",
		})
	}

	deityKnown := false
	for _, d := range DeityOptions {
		if d == in.Deity {
			deityKnown = true
			break
		}
	}
	if !deityKnown {
		errs = append(errs, FieldError{
			Field:   "deity",
			Message: "Unknown deity",
			Code:    "UNKNOWN_DEITY",
		})
	} else if NormalizeBenefit(in.Deity, in.Benefit) != in.Benefit {
		errs = append(errs, FieldError{
			Field:   "benefit",
			Message: fmt.Sprintf("Benefit %q is not available for %s", in.Benefit, in.Deity),
			Code:    "BENEFIT_MISMATCH",
		})
	}

	return errs
}

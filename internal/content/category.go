package content

import (
	"strings"

	"breathadmin/pkg/models"
)

// categoryKeywords drive default-category resolution per content type: the
// first backend category whose name or slug contains one of these keywords
// wins.
var categoryKeywords = map[models.Category][]string{
	models.CategorySleepMusic: {"sleep", "sleep-music", "sleep music"},
	models.CategoryMeditation: {"meditation", "guided"},
	models.CategoryChakra:     {"chakra", "shakra", "crown", "root", "sacral"},
}

// ResolveDefaultCategory picks the backend category a new entry of the
// given content type should default to: first keyword match on slug or
// name, else the first available category. ok is false only when the
// backend has no categories at all.
func ResolveDefaultCategory(categories []models.CategoryType, contentType models.Category) (models.CategoryType, bool) {
	if len(categories) == 0 {
		return models.CategoryType{}, false
	}

	for _, keyword := range categoryKeywords[contentType] {
		for _, cat := range categories {
			if strings.Contains(strings.ToLower(cat.Slug), keyword) ||
				strings.Contains(strings.ToLower(cat.Name), keyword) {
				return cat, true
			}
		}
	}

	return categories[0], true
}

// MatchCategory finds the backend category matching a content type's
// keywords, without the first-available fallback. Used when filtering an
// unscoped music listing down to one category.
func MatchCategory(categories []models.CategoryType, contentType models.Category) (models.CategoryType, bool) {
	for _, keyword := range categoryKeywords[contentType] {
		for _, cat := range categories {
			if strings.Contains(strings.ToLower(cat.Slug), keyword) ||
				strings.Contains(strings.ToLower(cat.Name), keyword) {
				return cat, true
			}
		}
	}
	return models.CategoryType{}, false
}

// BelongsTo reports whether a music entry references the given backend
// category id.
func BelongsTo(m models.MusicEntry, categoryID string) bool {
	for _, ref := range m.Categories {
		if ref.ID == categoryID {
			return true
		}
	}
	return false
}

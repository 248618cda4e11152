package content

import (
	"sort"
	"strings"

	"breathadmin/pkg/models"
)

// SortKey names a sortable content-table column.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByPlays  SortKey = "plays"
	SortByStatus SortKey = "status"
	SortByDate   SortKey = "date"
)

// SortDirection is asc or desc; empty means unsorted.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// NextDirection implements the three-state column toggle: unsorted or a
// different column goes to asc, asc goes to desc, desc back to asc.
func NextDirection(activeKey SortKey, activeDir SortDirection, clicked SortKey) SortDirection {
	if activeKey == clicked && activeDir == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortItems orders items by the given key and direction, stable so equal
// keys keep their fetch order. An empty key leaves the slice untouched.
func SortItems(items []models.ContentItem, key SortKey, dir SortDirection) {
	if key == "" {
		return
	}
	if dir != SortDesc {
		dir = SortAsc
	}

	less := func(a, b models.ContentItem) int {
		switch key {
		case SortByTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortByPlays:
			return a.Plays - b.Plays
		case SortByStatus:
			return strings.Compare(a.Status, b.Status)
		case SortByDate:
			at := ParseDisplayDate(a.Date)
			bt := ParseDisplayDate(b.Date)
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		default:
			return 0
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		cmp := less(items[i], items[j])
		if dir == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

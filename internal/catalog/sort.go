package catalog

import (
	"slices"
	"strings"

	"tandabase/shared/go/models"
)

// SortField selects the primary key of a song listing.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByOrchestra SortField = "orchestra"
	SortBySinger    SortField = "singer"
	SortByType      SortField = "type"
	SortByStyle     SortField = "style"
	SortByYear      SortField = "year"
)

// ParseSortField validates a user supplied sort key.
func ParseSortField(raw string) (SortField, bool) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(raw))); f {
	case SortByTitle, SortByOrchestra, SortBySinger, SortByType, SortByStyle, SortByYear:
		return f, true
	}
	return "", false
}

// SortState is the current sort selection of a listing.
type SortState struct {
	Field SortField `json:"field"`
	Desc  bool      `json:"desc"`
}

// Select returns the state after the user picks field: the same field flips
// direction, a new field starts ascending.
func (s SortState) Select(field SortField) SortState {
	if s.Field == field {
		return SortState{Field: field, Desc: !s.Desc}
	}
	return SortState{Field: field}
}

// CompareSongs orders a and b by field, then by type, then by year. The
// tie-break chain is the same whichever field is selected.
func CompareSongs(a, b models.Song, field SortField) int {
	var c int
	switch field {
	case SortByOrchestra:
		c = strings.Compare(a.OrchestraName(), b.OrchestraName())
	case SortBySinger:
		c = strings.Compare(a.FirstSingerName(), b.FirstSingerName())
	case SortByType:
		c = strings.Compare(string(a.Type), string(b.Type))
	case SortByStyle:
		c = strings.Compare(string(a.Style), string(b.Style))
	case SortByYear:
		c = compareInt(a.Year(), b.Year())
	default:
		c = strings.Compare(a.Title, b.Title)
	}
	if c != 0 {
		return c
	}
	if c = strings.Compare(string(a.Type), string(b.Type)); c != 0 {
		return c
	}
	return compareInt(a.Year(), b.Year())
}

// SortSongs sorts songs in place. Descending reverses the full comparison,
// tie-breaks included. The sort is stable so sorting a sorted slice again
// leaves it unchanged.
func SortSongs(songs []models.Song, state SortState) {
	field := state.Field
	if field == "" {
		field = SortByTitle
	}
	slices.SortStableFunc(songs, func(a, b models.Song) int {
		c := CompareSongs(a, b, field)
		if state.Desc {
			return -c
		}
		return c
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

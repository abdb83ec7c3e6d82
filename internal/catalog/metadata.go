package catalog

import (
	"strconv"

	"tandabase/shared/go/models"
)

// NoYearRange is reported when no song in a tanda has a recording year.
const NoYearRange = "N/A"

// TandaMetadata summarises the songs of a tanda for listings.
type TandaMetadata struct {
	SongCount  int      `json:"songCount"`
	Orchestras []string `json:"orchestras"`
	Types      []string `json:"types"`
	Styles     []string `json:"styles"`
	YearRange  string   `json:"yearRange"`
}

// DescribeTanda derives the metadata of t. Distinct values keep the order
// in which they first appear.
func DescribeTanda(t models.Tanda) TandaMetadata {
	meta := TandaMetadata{
		SongCount:  len(t.Songs),
		Orchestras: []string{},
		Types:      []string{},
		Styles:     []string{},
	}

	minYear, maxYear := 0, 0
	for _, ts := range t.Songs {
		s := ts.Song
		meta.Orchestras = appendDistinct(meta.Orchestras, s.OrchestraName())
		meta.Types = appendDistinct(meta.Types, string(s.Type))
		meta.Styles = appendDistinct(meta.Styles, string(s.Style))

		if s.RecordingYear == nil {
			continue
		}
		y := *s.RecordingYear
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	meta.YearRange = formatYearRange(minYear, maxYear)
	return meta
}

func formatYearRange(minYear, maxYear int) string {
	switch {
	case minYear == 0 && maxYear == 0:
		return NoYearRange
	case minYear == maxYear:
		return strconv.Itoa(minYear)
	default:
		return strconv.Itoa(minYear) + "-" + strconv.Itoa(maxYear)
	}
}

func appendDistinct(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

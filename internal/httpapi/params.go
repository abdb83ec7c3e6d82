package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

// queryReader collects the first parse error so handlers can report it once.
type queryReader struct {
	values url.Values
	err    error
}

func (q *queryReader) str(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

func (q *queryReader) boolean(name string) bool {
	raw := q.str(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && q.err == nil {
		q.err = fmt.Errorf("invalid %s parameter", name)
	}
	return v
}

func (q *queryReader) year(name string) *int {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if q.err == nil {
			q.err = fmt.Errorf("invalid %s parameter", name)
		}
		return nil
	}
	return &v
}

func (q *queryReader) songType(name string) models.SongType {
	t := models.SongType(strings.ToLower(q.str(name)))
	if t != "" && !t.Valid() && q.err == nil {
		q.err = fmt.Errorf("invalid %s parameter", name)
	}
	return t
}

func (q *queryReader) style(name string) models.SongStyle {
	st := models.SongStyle(strings.ToLower(q.str(name)))
	if st != "" && !st.Valid() && q.err == nil {
		q.err = fmt.Errorf("invalid %s parameter", name)
	}
	return st
}

func (q *queryReader) flags() catalog.VisibilityFlags {
	return catalog.VisibilityFlags{
		IncludeMine:   q.boolean("includeMine"),
		IncludeShared: q.boolean("includeShared"),
		IncludePublic: q.boolean("includePublic"),
		IncludeLiked:  q.boolean("includeLiked"),
	}
}

func parseSongSearch(values url.Values) (catalog.SongSearch, catalog.SortState, error) {
	q := &queryReader{values: values}
	params := catalog.SongSearch{
		Title:          q.str("title"),
		Orchestra:      q.str("orchestra"),
		AlsoPlayedBy:   q.str("alsoPlayedBy"),
		Singer:         q.str("singer"),
		YearFrom:       q.year("yearFrom"),
		YearTo:         q.year("yearTo"),
		Type:           q.songType("type"),
		Style:          q.style("style"),
		IsInstrumental: q.boolean("isInstrumental"),
		LikedOnly:      q.boolean("likedOnly"),
	}

	var sort catalog.SortState
	if raw := q.str("sort"); raw != "" {
		field, ok := catalog.ParseSortField(raw)
		if !ok && q.err == nil {
			q.err = fmt.Errorf("invalid sort parameter")
		}
		sort.Field = field
	}
	sort.Desc = q.boolean("desc")

	return params, sort, q.err
}

func parseTandaSearch(values url.Values) (catalog.TandaSearch, error) {
	q := &queryReader{values: values}
	params := catalog.TandaSearch{
		Title:           q.str("title"),
		Orchestra:       q.str("orchestra"),
		Singer:          q.str("singer"),
		YearFrom:        q.year("yearFrom"),
		YearTo:          q.year("yearTo"),
		Type:            q.songType("type"),
		Style:           q.style("style"),
		IsInstrumental:  q.boolean("isInstrumental"),
		VisibilityFlags: q.flags(),
	}
	return params, q.err
}

func parsePlaylistSearch(values url.Values) (catalog.PlaylistSearch, error) {
	q := &queryReader{values: values}
	params := catalog.PlaylistSearch{
		Title:           q.str("title"),
		VisibilityFlags: q.flags(),
	}
	return params, q.err
}

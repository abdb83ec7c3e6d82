package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tandabase/shared/go/models"
)

func titles(songs []models.Song) []string {
	out := make([]string, 0, len(songs))
	for _, s := range songs {
		out = append(out, s.Title)
	}
	return out
}

func sortFixture() []models.Song {
	a := song(1, "Organito de la Tarde", models.SongTypeTango, 1942, "Di Sarli")
	b := song(2, "El Choclo", models.SongTypeTango, 0, "D'Arienzo", "Alberto Echague")
	c := song(3, "Corazon de Oro", models.SongTypeVals, 1940, "Canaro")
	d := song(4, "El Choclo", models.SongTypeMilonga, 1937, "Di Sarli", "Ernesto Fama")
	e := song(5, "El Choclo", models.SongTypeTango, 1954, "Di Sarli")
	return []models.Song{a, b, c, d, e}
}

func TestSortSongsByTitleTieBreaksByTypeThenYear(t *testing.T) {
	songs := sortFixture()
	SortSongs(songs, SortState{Field: SortByTitle})

	var got []int64
	for _, s := range songs {
		got = append(got, s.ID)
	}
	// The three "El Choclo" recordings fall back to type (milonga < tango)
	// and then year (missing year counts as 0).
	assert.Equal(t, []int64{3, 4, 2, 5, 1}, got)
}

func TestSortSongsTieBreakIndependentOfField(t *testing.T) {
	x := song(1, "B", models.SongTypeVals, 1940, "Same")
	y := song(2, "A", models.SongTypeTango, 1950, "Same")
	z := song(3, "C", models.SongTypeTango, 1945, "Same")

	for _, field := range []SortField{SortByOrchestra, SortBySinger, SortByStyle} {
		songs := []models.Song{x, y, z}
		SortSongs(songs, SortState{Field: field})
		assert.Equal(t, []string{"C", "A", "B"}, titles(songs), "field %s", field)
	}
}

func TestSortSongsByYearDescending(t *testing.T) {
	songs := sortFixture()
	SortSongs(songs, SortState{Field: SortByYear, Desc: true})

	var years []int
	for _, s := range songs {
		years = append(years, s.Year())
	}
	assert.Equal(t, []int{1954, 1942, 1940, 1937, 0}, years)
}

func TestSortSongsIsIdempotent(t *testing.T) {
	for _, field := range []SortField{SortByTitle, SortByOrchestra, SortBySinger, SortByType, SortByStyle, SortByYear} {
		for _, desc := range []bool{false, true} {
			songs := sortFixture()
			state := SortState{Field: field, Desc: desc}
			SortSongs(songs, state)
			once := append([]models.Song(nil), songs...)
			SortSongs(songs, state)
			assert.Equal(t, once, songs, "field %s desc %v", field, desc)
		}
	}
}

func TestSortStateSelect(t *testing.T) {
	s := SortState{}.Select(SortByYear)
	assert.Equal(t, SortState{Field: SortByYear}, s)

	s = s.Select(SortByYear)
	assert.Equal(t, SortState{Field: SortByYear, Desc: true}, s)

	s = s.Select(SortByYear)
	assert.Equal(t, SortState{Field: SortByYear}, s)

	s = s.Select(SortByYear).Select(SortByTitle)
	assert.Equal(t, SortState{Field: SortByTitle}, s)
}

func TestParseSortField(t *testing.T) {
	f, ok := ParseSortField(" Orchestra ")
	assert.True(t, ok)
	assert.Equal(t, SortByOrchestra, f)

	_, ok = ParseSortField("duration")
	assert.False(t, ok)
}

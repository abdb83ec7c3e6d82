package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/shared/go/models"
)

func TestPlanSongSearchBuildsConditions(t *testing.T) {
	lk := &fakeLookup{
		orchestras: map[string]int64{"Carlos Di Sarli": 1, "Osvaldo Pugliese": 2},
		titles:     map[int64][]string{2: {"La Yumba", "Recuerdo"}},
		singers:    map[string][]int64{"Roberto Rufino": {10, 11}},
		liked:      map[models.LikeTarget][]int64{models.TargetSong: {11}},
	}
	params := SongSearch{
		Title:          " noche ",
		Orchestra:      "Carlos Di Sarli",
		AlsoPlayedBy:   "Osvaldo Pugliese",
		Singer:         "Roberto Rufino",
		YearFrom:       intPtr(1940),
		YearTo:         intPtr(1945),
		Type:           models.SongTypeTango,
		Style:          models.SongStyleMelodic,
		IsInstrumental: true,
		LikedOnly:      true,
	}

	plan, err := PlanSongSearch(context.Background(), lk, models.Requester{UserID: 3}, params)
	require.NoError(t, err)
	require.False(t, plan.Empty)

	assert.Equal(t, []Condition{
		Contains(FieldSongTitle, "noche"),
		Eq(FieldSongOrchestraID, int64(1)),
		InStrings(FieldSongTitle, []string{"La Yumba", "Recuerdo"}),
		InIDs(FieldSongID, []int64{10, 11}),
		AtLeast(FieldSongYear, 1940),
		AtMost(FieldSongYear, 1945),
		Eq(FieldSongType, "tango"),
		Eq(FieldSongStyle, "melodic"),
		Eq(FieldSongInstrumental, true),
		InIDs(FieldSongID, []int64{11}),
	}, plan.Where)
	assert.Empty(t, plan.AnyOf)
	assert.Empty(t, plan.Relations)
}

func TestPlanSongSearchStyleWithoutTango(t *testing.T) {
	plan, err := PlanSongSearch(context.Background(), &fakeLookup{}, models.Requester{},
		SongSearch{Type: models.SongTypeVals, Style: models.SongStyleDramatic})
	require.NoError(t, err)
	assert.Equal(t, []Condition{
		Eq(FieldSongType, "vals"),
		Eq(FieldSongStyle, "dramatic"),
	}, plan.Where)
}

func TestPlanSongSearchUnmatchedFiltersAreEmpty(t *testing.T) {
	lk := &fakeLookup{
		orchestras: map[string]int64{"Juan D'Arienzo": 5, "Edgardo Donato": 6},
		titles:     map[int64][]string{5: {"Pensalo Bien"}},
	}

	tests := []struct {
		name   string
		req    models.Requester
		params SongSearch
		reason string
	}{
		{"unknown orchestra", models.Requester{}, SongSearch{Orchestra: "Nobody"}, ReasonOrchestraNotFound},
		{"unknown also played by", models.Requester{}, SongSearch{AlsoPlayedBy: "Nobody"}, ReasonAlsoPlayedNotFound},
		{"also played by without titles", models.Requester{}, SongSearch{AlsoPlayedBy: "Edgardo Donato"}, ReasonNoSharedTitles},
		{"unknown singer", models.Requester{}, SongSearch{Orchestra: "Juan D'Arienzo", Singer: "Nobody"}, ReasonSingerNotFound},
		{"liked only anonymous", models.Requester{}, SongSearch{LikedOnly: true}, ReasonUnauthenticated},
		{"liked only without likes", models.Requester{UserID: 4}, SongSearch{LikedOnly: true}, ReasonNoLikes},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanSongSearch(context.Background(), lk, tc.req, tc.params)
			require.NoError(t, err)
			assert.True(t, plan.Empty, "an unmatched filter must never widen the search")
			assert.Equal(t, tc.reason, plan.Reason)
			assert.Empty(t, plan.Where)
		})
	}
}

func TestPlanSongSearchStopsAtFirstMiss(t *testing.T) {
	lk := &fakeLookup{}
	plan, err := PlanSongSearch(context.Background(), lk, models.Requester{UserID: 1},
		SongSearch{Orchestra: "Nobody", Singer: "Alberto Podesta", LikedOnly: true})
	require.NoError(t, err)
	assert.True(t, plan.Empty)
	assert.Equal(t, []string{"orchestra:Nobody"}, lk.calls)
}

func TestPlanTandaSearch(t *testing.T) {
	lk := &fakeLookup{
		orchestras: map[string]int64{"Carlos Di Sarli": 9},
		singers:    map[string][]int64{"Alberto Podesta": {21}},
	}
	params := TandaSearch{
		Title:           "di sarli",
		Orchestra:       "Carlos Di Sarli",
		Singer:          "Alberto Podesta",
		YearFrom:        intPtr(1941),
		Type:            models.SongTypeTango,
		Style:           models.SongStyleMelodic,
		IsInstrumental:  true,
		VisibilityFlags: VisibilityFlags{IncludePublic: true},
	}

	plan, err := PlanTandaSearch(context.Background(), lk, models.Requester{UserID: 2}, params)
	require.NoError(t, err)
	assert.Equal(t, []Condition{Contains(FieldTandaTitle, "di sarli")}, plan.Where)
	assert.Equal(t, []Condition{Eq(FieldTandaVisibility, "public")}, plan.AnyOf)

	var names []string
	var quantifiers []Quantifier
	for _, r := range plan.Relations {
		names = append(names, r.Name)
		quantifiers = append(quantifiers, r.Quantifier)
	}
	assert.Equal(t, []string{"orchestra", "singer", "year", "type", "style", "instrumental"}, names)
	assert.Equal(t, []Quantifier{AnySong, AnySong, AnySong, AnySong, AnySong, EverySong}, quantifiers)
}

func TestPlanTandaSearchStyleIgnoredUnlessTango(t *testing.T) {
	plan, err := PlanTandaSearch(context.Background(), &fakeLookup{}, models.Requester{UserID: 2}, TandaSearch{
		Type:            models.SongTypeMilonga,
		Style:           models.SongStyleDramatic,
		VisibilityFlags: VisibilityFlags{IncludeMine: true},
	})
	require.NoError(t, err)
	require.Len(t, plan.Relations, 1)
	assert.Equal(t, "type", plan.Relations[0].Name)
}

func TestPlanTandaSearchEmptyCases(t *testing.T) {
	user := models.Requester{UserID: 2}
	tests := []struct {
		name   string
		req    models.Requester
		params TandaSearch
		reason string
	}{
		{"anonymous", models.Requester{}, TandaSearch{VisibilityFlags: VisibilityFlags{IncludePublic: true}}, ReasonUnauthenticated},
		{"no flags", user, TandaSearch{Title: "x"}, ReasonNoVisibilityFlags},
		{"unknown orchestra", user, TandaSearch{Orchestra: "Nobody", VisibilityFlags: VisibilityFlags{IncludeMine: true}}, ReasonOrchestraNotFound},
		{"unknown singer", user, TandaSearch{Singer: "Nobody", VisibilityFlags: VisibilityFlags{IncludeMine: true}}, ReasonSingerNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanTandaSearch(context.Background(), &fakeLookup{}, tc.req, tc.params)
			require.NoError(t, err)
			assert.True(t, plan.Empty)
			assert.Equal(t, tc.reason, plan.Reason)
		})
	}
}

func TestPlanPlaylistSearch(t *testing.T) {
	plan, err := PlanPlaylistSearch(context.Background(), &fakeLookup{}, models.Requester{UserID: 5}, PlaylistSearch{
		Title:           "milonga night",
		VisibilityFlags: VisibilityFlags{IncludeMine: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []Condition{Contains(FieldPlaylistTitle, "milonga night")}, plan.Where)
	assert.Equal(t, []Condition{Eq(FieldPlaylistOwner, int64(5))}, plan.AnyOf)
}

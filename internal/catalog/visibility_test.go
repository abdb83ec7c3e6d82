package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/shared/go/models"
)

func TestResolveVisibility(t *testing.T) {
	user := models.Requester{UserID: 7, Role: models.RoleUser}

	tests := []struct {
		name      string
		req       models.Requester
		flags     VisibilityFlags
		lookup    *fakeLookup
		wantEmpty string
		wantAnyOf []Condition
		wantIDs   []int64
	}{
		{
			name:      "all flags false",
			req:       user,
			lookup:    &fakeLookup{},
			wantEmpty: ReasonNoVisibilityFlags,
		},
		{
			name:      "mine without a session",
			req:       models.Requester{},
			flags:     VisibilityFlags{IncludeMine: true},
			lookup:    &fakeLookup{},
			wantEmpty: ReasonUnauthenticated,
		},
		{
			name:      "mine",
			req:       user,
			flags:     VisibilityFlags{IncludeMine: true},
			lookup:    &fakeLookup{},
			wantAnyOf: []Condition{Eq(FieldTandaOwner, int64(7))},
		},
		{
			name:   "mine public and shared are unioned",
			req:    user,
			flags:  VisibilityFlags{IncludeMine: true, IncludePublic: true, IncludeShared: true},
			lookup: &fakeLookup{shared: map[models.LikeTarget][]int64{models.TargetTanda: {3, 4}}},
			wantAnyOf: []Condition{
				Eq(FieldTandaOwner, int64(7)),
				Eq(FieldTandaVisibility, "public"),
				InIDs(FieldTandaID, []int64{3, 4}),
			},
		},
		{
			name:      "shared without share rows contributes nothing",
			req:       user,
			flags:     VisibilityFlags{IncludePublic: true, IncludeShared: true},
			lookup:    &fakeLookup{},
			wantAnyOf: []Condition{Eq(FieldTandaVisibility, "public")},
		},
		{
			name:      "only shared without share rows is empty",
			req:       user,
			flags:     VisibilityFlags{IncludeShared: true},
			lookup:    &fakeLookup{},
			wantEmpty: ReasonNothingVisible,
		},
		{
			name:    "liked restricts after fetch",
			req:     user,
			flags:   VisibilityFlags{IncludeMine: true, IncludeLiked: true},
			lookup:  &fakeLookup{liked: map[models.LikeTarget][]int64{models.TargetTanda: {9, 2}}},
			wantIDs: []int64{2, 9},
			wantAnyOf: []Condition{
				Eq(FieldTandaOwner, int64(7)),
			},
		},
		{
			name:      "liked without likes is empty",
			req:       user,
			flags:     VisibilityFlags{IncludePublic: true, IncludeLiked: true},
			lookup:    &fakeLookup{},
			wantEmpty: ReasonNoLikes,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ResolveVisibility(context.Background(), tc.lookup, tc.req, tc.flags, models.TargetTanda)
			require.NoError(t, err)

			if tc.wantEmpty != "" {
				assert.True(t, plan.Empty)
				assert.Equal(t, tc.wantEmpty, plan.Reason)
				return
			}
			assert.False(t, plan.Empty)
			assert.Equal(t, tc.wantAnyOf, plan.AnyOf)
			if tc.wantIDs == nil {
				assert.Nil(t, plan.RestrictTo)
			} else {
				assert.Equal(t, tc.wantIDs, plan.RestrictTo.IDs())
			}
		})
	}
}

func TestResolveVisibilityPlaylistFields(t *testing.T) {
	plan, err := ResolveVisibility(context.Background(), &fakeLookup{}, models.Requester{UserID: 1},
		VisibilityFlags{IncludeMine: true, IncludePublic: true}, models.TargetPlaylist)
	require.NoError(t, err)
	assert.Equal(t, []Condition{
		Eq(FieldPlaylistOwner, int64(1)),
		Eq(FieldPlaylistVisibility, "public"),
	}, plan.AnyOf)
}

func TestResolveVisibilityLookupError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ResolveVisibility(context.Background(), &fakeLookup{err: boom}, models.Requester{UserID: 1},
		VisibilityFlags{IncludeShared: true}, models.TargetTanda)
	assert.ErrorIs(t, err, boom)
}

func TestResolveVisibilityRejectsSongs(t *testing.T) {
	_, err := ResolveVisibility(context.Background(), &fakeLookup{}, models.Requester{UserID: 1},
		VisibilityFlags{IncludeMine: true}, models.TargetSong)
	assert.Error(t, err)
}

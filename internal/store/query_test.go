package store

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

func TestWhereBuilderCompilesPlan(t *testing.T) {
	plan := catalog.Plan{
		Where: []catalog.Condition{
			catalog.Contains(catalog.FieldSongTitle, "50%"),
			catalog.AtLeast(catalog.FieldSongYear, 1940),
			catalog.InStrings(catalog.FieldSongTitle, []string{"Bahía Blanca"}),
		},
		AnyOf: []catalog.Condition{
			catalog.Eq(catalog.FieldTandaOwner, int64(42)),
			catalog.InIDs(catalog.FieldTandaID, []int64{3, 5}),
		},
	}

	var w whereBuilder
	require.NoError(t, w.applyPlan(plan))

	assert.Equal(t,
		" WHERE s.title ILIKE $1 AND s.recording_year >= $2 AND s.title = ANY($3) AND (t.owner_id = $4 OR t.id = ANY($5))",
		w.String())
	require.Len(t, w.args, 5)
	assert.Equal(t, `%50\%%`, w.args[0])
	assert.Equal(t, 1940, w.args[1])
	assert.Equal(t, pq.Array([]string{"Bahía Blanca"}), w.args[2])
	assert.Equal(t, int64(42), w.args[3])
}

func TestWhereBuilderRejectsUnknownField(t *testing.T) {
	var w whereBuilder
	err := w.applyPlan(catalog.Plan{Where: []catalog.Condition{{Field: "song.secret", Op: catalog.OpEq, Value: 1}}})
	assert.Error(t, err)
}

func TestWhereBuilderEmpty(t *testing.T) {
	var w whereBuilder
	require.NoError(t, w.applyPlan(catalog.Plan{}))
	assert.Empty(t, w.String())
}

func TestReadableBy(t *testing.T) {
	t.Run("anonymous sees public rows", func(t *testing.T) {
		var w whereBuilder
		w.readableBy(models.Requester{}, "t", "tanda_shares", "tanda_id")
		assert.Equal(t, " WHERE t.visibility = 'public'", w.String())
		assert.Empty(t, w.args)
	})

	t.Run("user sees own, public and shared rows", func(t *testing.T) {
		var w whereBuilder
		w.readableBy(owner, "p", "playlist_shares", "playlist_id")
		assert.Equal(t,
			" WHERE (p.owner_id = $1 OR p.visibility = 'public' OR EXISTS (SELECT 1 FROM playlist_shares sh WHERE sh.playlist_id = p.id AND sh.user_id = $1))",
			w.String())
		assert.Equal(t, []any{int64(42)}, w.args)
	})
}

package catalog

import "tandabase/shared/go/models"

// Quantifier states how a relation predicate folds over a tanda's songs.
type Quantifier int

const (
	// AnySong matches when at least one member song satisfies the predicate.
	AnySong Quantifier = iota
	// EverySong matches only when all member songs satisfy the predicate.
	EverySong
)

func (q Quantifier) String() string {
	if q == EverySong {
		return "every"
	}
	return "any"
}

// RelationPredicate is a song-level condition evaluated in memory against
// the songs of a fetched tanda.
type RelationPredicate struct {
	Name       string
	Quantifier Quantifier
	Match      func(models.Song) bool
}

// MatchesTanda folds the predicate over t's member songs. EverySong holds
// vacuously for a tanda without songs; AnySong does not.
func (p RelationPredicate) MatchesTanda(t models.Tanda) bool {
	switch p.Quantifier {
	case EverySong:
		for _, ts := range t.Songs {
			if !p.Match(ts.Song) {
				return false
			}
		}
		return true
	default:
		for _, ts := range t.Songs {
			if p.Match(ts.Song) {
				return true
			}
		}
		return false
	}
}

// SongHasOrchestra matches tandas with at least one song by the orchestra.
func SongHasOrchestra(orchestraID int64) RelationPredicate {
	return RelationPredicate{
		Name:       "orchestra",
		Quantifier: AnySong,
		Match: func(s models.Song) bool {
			return s.Orchestra != nil && s.Orchestra.ID == orchestraID
		},
	}
}

// SongIn matches tandas with at least one song whose id is in ids.
func SongIn(name string, ids IDSet) RelationPredicate {
	return RelationPredicate{
		Name:       name,
		Quantifier: AnySong,
		Match:      func(s models.Song) bool { return ids.Has(s.ID) },
	}
}

// SongYearWithin matches tandas with at least one song recorded inside the
// inclusive range. Songs without a year never match.
func SongYearWithin(from, to *int) RelationPredicate {
	return RelationPredicate{
		Name:       "year",
		Quantifier: AnySong,
		Match: func(s models.Song) bool {
			if s.RecordingYear == nil {
				return false
			}
			y := *s.RecordingYear
			if from != nil && y < *from {
				return false
			}
			if to != nil && y > *to {
				return false
			}
			return true
		},
	}
}

// SongOfType matches tandas with at least one song of type t.
func SongOfType(t models.SongType) RelationPredicate {
	return RelationPredicate{
		Name:       "type",
		Quantifier: AnySong,
		Match:      func(s models.Song) bool { return s.Type == t },
	}
}

// SongOfStyle matches tandas with at least one song of style st.
func SongOfStyle(st models.SongStyle) RelationPredicate {
	return RelationPredicate{
		Name:       "style",
		Quantifier: AnySong,
		Match:      func(s models.Song) bool { return s.Style == st },
	}
}

// AllSongsInstrumental matches tandas in which no song has a vocalist: each
// song is flagged instrumental or credits no singer.
func AllSongsInstrumental() RelationPredicate {
	return RelationPredicate{
		Name:       "instrumental",
		Quantifier: EverySong,
		Match: func(s models.Song) bool {
			return s.Instrumental() || len(s.Singers) == 0
		},
	}
}

// FilterTandas applies the in-memory part of plan: the id restriction first,
// then each relation predicate in turn.
func FilterTandas(tandas []models.Tanda, plan Plan) []models.Tanda {
	if plan.Empty {
		return []models.Tanda{}
	}
	out := make([]models.Tanda, 0, len(tandas))
	for _, t := range tandas {
		if plan.RestrictTo != nil && !plan.RestrictTo.Has(t.ID) {
			continue
		}
		if matchesAll(t, plan.Relations) {
			out = append(out, t)
		}
	}
	return out
}

func matchesAll(t models.Tanda, preds []RelationPredicate) bool {
	for _, p := range preds {
		if !p.MatchesTanda(t) {
			return false
		}
	}
	return true
}

// FilterPlaylists applies the id restriction of plan.
func FilterPlaylists(playlists []models.Playlist, plan Plan) []models.Playlist {
	if plan.Empty {
		return []models.Playlist{}
	}
	if plan.RestrictTo == nil {
		return playlists
	}
	out := make([]models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if plan.RestrictTo.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"tandabase/shared/go/models"
)

// SongSearch is the sparse parameter object for song listings. Zero values
// mean "not constrained".
type SongSearch struct {
	Title          string           `json:"title,omitempty"`
	Orchestra      string           `json:"orchestra,omitempty"`
	AlsoPlayedBy   string           `json:"alsoPlayedBy,omitempty"`
	Singer         string           `json:"singer,omitempty"`
	YearFrom       *int             `json:"yearFrom,omitempty"`
	YearTo         *int             `json:"yearTo,omitempty"`
	Type           models.SongType  `json:"type,omitempty"`
	Style          models.SongStyle `json:"style,omitempty"`
	IsInstrumental bool             `json:"isInstrumental,omitempty"`
	LikedOnly      bool             `json:"likedOnly,omitempty"`
}

// TandaSearch is the parameter object for tanda listings.
type TandaSearch struct {
	Title          string           `json:"title,omitempty"`
	Orchestra      string           `json:"orchestra,omitempty"`
	Singer         string           `json:"singer,omitempty"`
	YearFrom       *int             `json:"yearFrom,omitempty"`
	YearTo         *int             `json:"yearTo,omitempty"`
	Type           models.SongType  `json:"type,omitempty"`
	Style          models.SongStyle `json:"style,omitempty"`
	IsInstrumental bool             `json:"isInstrumental,omitempty"`
	VisibilityFlags
}

// PlaylistSearch is the parameter object for playlist listings.
type PlaylistSearch struct {
	Title string `json:"title,omitempty"`
	VisibilityFlags
}

// PlanSongSearch builds the song listing plan. Lookups run one after the
// other and the first unmatched one short-circuits the whole search.
func PlanSongSearch(ctx context.Context, lk Lookup, req models.Requester, p SongSearch) (Plan, error) {
	var plan Plan

	if title := strings.TrimSpace(p.Title); title != "" {
		plan.Where = append(plan.Where, Contains(FieldSongTitle, title))
	}

	if name := strings.TrimSpace(p.Orchestra); name != "" {
		id, ok, err := lk.OrchestraIDByName(ctx, name)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup orchestra: %w", err)
		}
		if !ok {
			return emptyPlan(ReasonOrchestraNotFound), nil
		}
		plan.Where = append(plan.Where, Eq(FieldSongOrchestraID, id))
	}

	// Cross-reference by title only: songs sharing a title with anything the
	// other orchestra recorded.
	if name := strings.TrimSpace(p.AlsoPlayedBy); name != "" {
		id, ok, err := lk.OrchestraIDByName(ctx, name)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup also played by: %w", err)
		}
		if !ok {
			return emptyPlan(ReasonAlsoPlayedNotFound), nil
		}
		titles, err := lk.SongTitlesByOrchestra(ctx, id)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup titles by orchestra: %w", err)
		}
		if len(titles) == 0 {
			return emptyPlan(ReasonNoSharedTitles), nil
		}
		plan.Where = append(plan.Where, InStrings(FieldSongTitle, titles))
	}

	if name := strings.TrimSpace(p.Singer); name != "" {
		ids, err := lk.SongIDsBySinger(ctx, name)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup singer: %w", err)
		}
		if len(ids) == 0 {
			return emptyPlan(ReasonSingerNotFound), nil
		}
		plan.Where = append(plan.Where, InIDs(FieldSongID, ids))
	}

	if p.YearFrom != nil {
		plan.Where = append(plan.Where, AtLeast(FieldSongYear, *p.YearFrom))
	}
	if p.YearTo != nil {
		plan.Where = append(plan.Where, AtMost(FieldSongYear, *p.YearTo))
	}
	if p.Type != "" {
		plan.Where = append(plan.Where, Eq(FieldSongType, string(p.Type)))
	}
	if p.Style != "" {
		plan.Where = append(plan.Where, Eq(FieldSongStyle, string(p.Style)))
	}
	if p.IsInstrumental {
		plan.Where = append(plan.Where, Eq(FieldSongInstrumental, true))
	}

	if p.LikedOnly {
		if !req.Authenticated() {
			return emptyPlan(ReasonUnauthenticated), nil
		}
		ids, err := lk.LikedIDs(ctx, req.UserID, models.TargetSong)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup liked songs: %w", err)
		}
		if len(ids) == 0 {
			return emptyPlan(ReasonNoLikes), nil
		}
		plan.Where = append(plan.Where, InIDs(FieldSongID, ids))
	}

	return plan, nil
}

// PlanTandaSearch builds the tanda listing plan. Only the title and the
// visibility group are pushed down; every song-level filter becomes a
// relation predicate over the fetched tandas.
func PlanTandaSearch(ctx context.Context, lk Lookup, req models.Requester, p TandaSearch) (Plan, error) {
	plan, err := ResolveVisibility(ctx, lk, req, p.VisibilityFlags, models.TargetTanda)
	if err != nil || plan.Empty {
		return plan, err
	}

	if title := strings.TrimSpace(p.Title); title != "" {
		plan.Where = append(plan.Where, Contains(FieldTandaTitle, title))
	}

	if name := strings.TrimSpace(p.Orchestra); name != "" {
		id, ok, err := lk.OrchestraIDByName(ctx, name)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup orchestra: %w", err)
		}
		if !ok {
			return emptyPlan(ReasonOrchestraNotFound), nil
		}
		plan.Relations = append(plan.Relations, SongHasOrchestra(id))
	}

	if name := strings.TrimSpace(p.Singer); name != "" {
		ids, err := lk.SongIDsBySinger(ctx, name)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup singer: %w", err)
		}
		if len(ids) == 0 {
			return emptyPlan(ReasonSingerNotFound), nil
		}
		plan.Relations = append(plan.Relations, SongIn("singer", NewIDSet(ids)))
	}

	if p.YearFrom != nil || p.YearTo != nil {
		plan.Relations = append(plan.Relations, SongYearWithin(p.YearFrom, p.YearTo))
	}
	if p.Type != "" {
		plan.Relations = append(plan.Relations, SongOfType(p.Type))
		if p.Type == models.SongTypeTango && p.Style != "" {
			plan.Relations = append(plan.Relations, SongOfStyle(p.Style))
		}
	}
	if p.IsInstrumental {
		plan.Relations = append(plan.Relations, AllSongsInstrumental())
	}

	return plan, nil
}

// PlanPlaylistSearch builds the playlist listing plan.
func PlanPlaylistSearch(ctx context.Context, lk Lookup, req models.Requester, p PlaylistSearch) (Plan, error) {
	plan, err := ResolveVisibility(ctx, lk, req, p.VisibilityFlags, models.TargetPlaylist)
	if err != nil || plan.Empty {
		return plan, err
	}
	if title := strings.TrimSpace(p.Title); title != "" {
		plan.Where = append(plan.Where, Contains(FieldPlaylistTitle, title))
	}
	return plan, nil
}

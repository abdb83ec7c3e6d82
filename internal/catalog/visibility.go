package catalog

import (
	"context"
	"fmt"

	"tandabase/shared/go/models"
)

// VisibilityFlags selects which tandas or playlists a listing includes.
type VisibilityFlags struct {
	IncludeMine   bool `json:"includeMine"`
	IncludeShared bool `json:"includeShared"`
	IncludePublic bool `json:"includePublic"`
	IncludeLiked  bool `json:"includeLiked"`
}

// Any reports whether at least one flag is set.
func (f VisibilityFlags) Any() bool {
	return f.IncludeMine || f.IncludeShared || f.IncludePublic || f.IncludeLiked
}

type entityFields struct {
	id, owner, visibility Field
}

func fieldsFor(target models.LikeTarget) (entityFields, error) {
	switch target {
	case models.TargetTanda:
		return entityFields{FieldTandaID, FieldTandaOwner, FieldTandaVisibility}, nil
	case models.TargetPlaylist:
		return entityFields{FieldPlaylistID, FieldPlaylistOwner, FieldPlaylistVisibility}, nil
	}
	return entityFields{}, fmt.Errorf("visibility: unsupported target %q", target)
}

// ResolveVisibility turns the flags into the OR group of candidate
// conditions for a tanda or playlist listing. The liked flag never becomes
// a condition; it restricts the fetched rows afterwards.
func ResolveVisibility(ctx context.Context, lk Lookup, req models.Requester, flags VisibilityFlags, target models.LikeTarget) (Plan, error) {
	fields, err := fieldsFor(target)
	if err != nil {
		return Plan{}, err
	}
	if !req.Authenticated() {
		return emptyPlan(ReasonUnauthenticated), nil
	}
	if !flags.Any() {
		return emptyPlan(ReasonNoVisibilityFlags), nil
	}

	var plan Plan
	if flags.IncludeMine {
		plan.AnyOf = append(plan.AnyOf, Eq(fields.owner, req.UserID))
	}
	if flags.IncludePublic {
		plan.AnyOf = append(plan.AnyOf, Eq(fields.visibility, string(models.VisibilityPublic)))
	}
	if flags.IncludeShared {
		ids, err := lk.SharedIDs(ctx, req.UserID, target)
		if err != nil {
			return Plan{}, fmt.Errorf("resolve shared %ss: %w", target, err)
		}
		if len(ids) > 0 {
			plan.AnyOf = append(plan.AnyOf, InIDs(fields.id, ids))
		}
	}
	if flags.IncludeLiked {
		ids, err := lk.LikedIDs(ctx, req.UserID, target)
		if err != nil {
			return Plan{}, fmt.Errorf("resolve liked %ss: %w", target, err)
		}
		if len(ids) == 0 {
			return emptyPlan(ReasonNoLikes), nil
		}
		plan.RestrictTo = NewIDSet(ids)
	}

	if len(plan.AnyOf) == 0 && plan.RestrictTo == nil {
		return emptyPlan(ReasonNothingVisible), nil
	}
	return plan, nil
}

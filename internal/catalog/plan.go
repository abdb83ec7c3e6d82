package catalog

import (
	"context"

	"tandabase/shared/go/models"
)

// Lookup resolves the secondary lookups a search needs before the main
// listing query can be issued. The store implements it.
type Lookup interface {
	OrchestraIDByName(ctx context.Context, name string) (int64, bool, error)
	SongTitlesByOrchestra(ctx context.Context, orchestraID int64) ([]string, error)
	SongIDsBySinger(ctx context.Context, name string) ([]int64, error)
	LikedIDs(ctx context.Context, userID int64, target models.LikeTarget) ([]int64, error)
	SharedIDs(ctx context.Context, userID int64, target models.LikeTarget) ([]int64, error)
}

// Short-circuit reasons reported on empty plans.
const (
	ReasonUnauthenticated    = "unauthenticated"
	ReasonNoVisibilityFlags  = "no visibility flags"
	ReasonNothingVisible     = "no visible entities"
	ReasonNoLikes            = "no likes"
	ReasonOrchestraNotFound  = "orchestra not found"
	ReasonAlsoPlayedNotFound = "also played by orchestra not found"
	ReasonNoSharedTitles     = "no titles recorded by orchestra"
	ReasonSingerNotFound     = "singer not found"
)

// Plan is the outcome of building a search. Where and AnyOf are pushed down
// into the listing query; Relations and RestrictTo are applied to the
// fetched rows in memory.
type Plan struct {
	// Empty means the search short-circuited and no query should run.
	Empty  bool
	Reason string

	// Where conditions are combined with AND.
	Where []Condition
	// AnyOf conditions are combined with OR and then ANDed with Where. An
	// empty AnyOf adds no constraint.
	AnyOf []Condition

	// Relations are evaluated against each fetched tanda's member songs.
	Relations []RelationPredicate
	// RestrictTo, when non-nil, keeps only rows whose id is in the set.
	RestrictTo IDSet
}

func emptyPlan(reason string) Plan {
	return Plan{Empty: true, Reason: reason}
}

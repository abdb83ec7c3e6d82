package catalog

import "sort"

// Field names a column that a pushdown condition may constrain. The set is
// closed; the store maps each field to a concrete column expression.
type Field string

const (
	FieldSongID           Field = "song.id"
	FieldSongTitle        Field = "song.title"
	FieldSongOrchestraID  Field = "song.orchestra_id"
	FieldSongYear         Field = "song.recording_year"
	FieldSongType         Field = "song.type"
	FieldSongStyle        Field = "song.style"
	FieldSongInstrumental Field = "song.is_instrumental"

	FieldTandaID         Field = "tanda.id"
	FieldTandaTitle      Field = "tanda.title"
	FieldTandaOwner      Field = "tanda.owner_id"
	FieldTandaVisibility Field = "tanda.visibility"

	FieldPlaylistID         Field = "playlist.id"
	FieldPlaylistTitle      Field = "playlist.title"
	FieldPlaylistOwner      Field = "playlist.owner_id"
	FieldPlaylistVisibility Field = "playlist.visibility"
)

// Op is the comparison a Condition applies.
type Op string

const (
	OpContains Op = "ilike"
	OpEq       Op = "eq"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpIn       Op = "in"
)

// Condition is a predicate that can be pushed down into the main listing
// query. Value is a string, int, bool, int64 slice or string slice depending
// on Op.
type Condition struct {
	Field Field
	Op    Op
	Value any
}

func Contains(f Field, substr string) Condition {
	return Condition{Field: f, Op: OpContains, Value: substr}
}
func Eq(f Field, v any) Condition              { return Condition{Field: f, Op: OpEq, Value: v} }
func AtLeast(f Field, v int) Condition         { return Condition{Field: f, Op: OpGte, Value: v} }
func AtMost(f Field, v int) Condition          { return Condition{Field: f, Op: OpLte, Value: v} }
func InIDs(f Field, ids []int64) Condition     { return Condition{Field: f, Op: OpIn, Value: ids} }
func InStrings(f Field, vs []string) Condition { return Condition{Field: f, Op: OpIn, Value: vs} }

// IDSet is a set of entity ids.
type IDSet map[int64]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids []int64) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership. A nil set contains nothing.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s IDSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package store

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

var fieldColumns = map[catalog.Field]string{
	catalog.FieldSongID:           "s.id",
	catalog.FieldSongTitle:        "s.title",
	catalog.FieldSongOrchestraID:  "s.orchestra_id",
	catalog.FieldSongYear:         "s.recording_year",
	catalog.FieldSongType:         "s.type",
	catalog.FieldSongStyle:        "s.style",
	catalog.FieldSongInstrumental: "s.is_instrumental",

	catalog.FieldTandaID:         "t.id",
	catalog.FieldTandaTitle:      "t.title",
	catalog.FieldTandaOwner:      "t.owner_id",
	catalog.FieldTandaVisibility: "t.visibility",

	catalog.FieldPlaylistID:         "p.id",
	catalog.FieldPlaylistTitle:      "p.title",
	catalog.FieldPlaylistOwner:      "p.owner_id",
	catalog.FieldPlaylistVisibility: "p.visibility",
}

// whereBuilder accumulates AND-ed clauses and their positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) condition(c catalog.Condition) (string, error) {
	col, ok := fieldColumns[c.Field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", c.Field)
	}

	switch c.Op {
	case catalog.OpContains:
		s, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("field %s: contains needs a string", c.Field)
		}
		return fmt.Sprintf("%s ILIKE %s", col, w.arg("%"+escapeLike(s)+"%")), nil
	case catalog.OpEq:
		return fmt.Sprintf("%s = %s", col, w.arg(c.Value)), nil
	case catalog.OpGte:
		return fmt.Sprintf("%s >= %s", col, w.arg(c.Value)), nil
	case catalog.OpLte:
		return fmt.Sprintf("%s <= %s", col, w.arg(c.Value)), nil
	case catalog.OpIn:
		switch v := c.Value.(type) {
		case []int64:
			return fmt.Sprintf("%s = ANY(%s)", col, w.arg(pq.Array(v))), nil
		case []string:
			return fmt.Sprintf("%s = ANY(%s)", col, w.arg(pq.Array(v))), nil
		}
		return "", fmt.Errorf("field %s: unsupported in value %T", c.Field, c.Value)
	}
	return "", fmt.Errorf("field %s: unsupported op %q", c.Field, c.Op)
}

// applyPlan adds the pushdown part of plan: Where as AND clauses and AnyOf
// as a single OR group.
func (w *whereBuilder) applyPlan(plan catalog.Plan) error {
	for _, c := range plan.Where {
		clause, err := w.condition(c)
		if err != nil {
			return err
		}
		w.add(clause)
	}

	if len(plan.AnyOf) == 0 {
		return nil
	}
	ors := make([]string, 0, len(plan.AnyOf))
	for _, c := range plan.AnyOf {
		clause, err := w.condition(c)
		if err != nil {
			return err
		}
		ors = append(ors, clause)
	}
	w.add("(" + strings.Join(ors, " OR ") + ")")
	return nil
}

// readableBy adds the access rule for tandas or playlists: owners, grantees
// and, for everyone, public rows. Anonymous requesters only see public rows.
func (w *whereBuilder) readableBy(req models.Requester, alias, shareTable, shareColumn string) {
	w.add(w.readable(req, alias, shareTable, shareColumn))
}

// readable returns the access rule as an expression without adding it, for
// use inside subqueries.
func (w *whereBuilder) readable(req models.Requester, alias, shareTable, shareColumn string) string {
	public := fmt.Sprintf("%s.visibility = 'public'", alias)
	if !req.Authenticated() {
		return public
	}
	me := w.arg(req.UserID)
	return fmt.Sprintf("(%[1]s.owner_id = %[2]s OR %[3]s OR EXISTS (SELECT 1 FROM %[4]s sh WHERE sh.%[5]s = %[1]s.id AND sh.user_id = %[2]s))",
		alias, me, public, shareTable, shareColumn)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

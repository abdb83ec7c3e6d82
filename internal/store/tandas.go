package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

const tandaColumns = `t.id, t.title, t.comments, t.visibility, t.owner_id, u.username, t.created_at`

func scanTanda(row rowScanner) (models.Tanda, error) {
	var (
		tanda    models.Tanda
		comments sql.NullString
	)
	if err := row.Scan(&tanda.ID, &tanda.Title, &comments, &tanda.Visibility, &tanda.OwnerID,
		&tanda.Owner, &tanda.CreatedAt); err != nil {
		return models.Tanda{}, err
	}
	tanda.Comments = comments.String
	tanda.Songs = []models.TandaSong{}
	return tanda, nil
}

// ListTandas runs the pushdown part of a tanda search plan and returns the
// readable candidates with their songs loaded. Relation predicates are left
// to the caller.
func (s *Store) ListTandas(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Tanda, error) {
	tandas := []models.Tanda{}
	if plan.Empty || !req.Authenticated() {
		return tandas, nil
	}

	var w whereBuilder
	w.readableBy(req, "t", "tanda_shares", "tanda_id")
	if err := w.applyPlan(plan); err != nil {
		return nil, fmt.Errorf("build tanda query: %w", err)
	}
	if plan.RestrictTo != nil {
		w.add(fmt.Sprintf("t.id = ANY(%s)", w.arg(pq.Array(plan.RestrictTo.IDs()))))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tandaColumns+`
		FROM tandas t
		JOIN users u ON u.id = t.owner_id`+w.String()+`
		ORDER BY t.created_at DESC, t.id DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list tandas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tanda, err := scanTanda(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tanda: %w", err)
		}
		tandas = append(tandas, tanda)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tandas: %w", err)
	}

	if err := s.attachTandaSongs(ctx, req, tandas); err != nil {
		return nil, err
	}
	return tandas, nil
}

// GetTanda returns a tanda the requester may read.
func (s *Store) GetTanda(ctx context.Context, req models.Requester, id int64) (models.Tanda, error) {
	var w whereBuilder
	w.add(fmt.Sprintf("t.id = %s", w.arg(id)))
	w.readableBy(req, "t", "tanda_shares", "tanda_id")

	tanda, err := scanTanda(s.db.QueryRowContext(ctx, `
		SELECT `+tandaColumns+`
		FROM tandas t
		JOIN users u ON u.id = t.owner_id`+w.String(), w.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tanda{}, ErrTandaNotFound
	}
	if err != nil {
		return models.Tanda{}, fmt.Errorf("get tanda: %w", err)
	}

	tandas := []models.Tanda{tanda}
	if err := s.attachTandaSongs(ctx, req, tandas); err != nil {
		return models.Tanda{}, err
	}
	return tandas[0], nil
}

// attachTandaSongs loads the ordered songs of every tanda in one query and
// marks likes for authenticated requesters.
func (s *Store) attachTandaSongs(ctx context.Context, req models.Requester, tandas []models.Tanda) error {
	if len(tandas) == 0 {
		return nil
	}
	ids := make([]int64, len(tandas))
	for i, t := range tandas {
		ids[i] = t.ID
	}

	songsByTanda, err := s.tandaSongs(ctx, req, ids)
	if err != nil {
		return err
	}

	var liked catalog.IDSet
	if req.Authenticated() {
		likedIDs, err := s.LikedIDs(ctx, req.UserID, models.TargetTanda)
		if err != nil {
			return err
		}
		liked = catalog.NewIDSet(likedIDs)
	}

	for i := range tandas {
		if songs, ok := songsByTanda[tandas[i].ID]; ok {
			tandas[i].Songs = songs
		}
		tandas[i].Liked = liked.Has(tandas[i].ID)
	}
	return nil
}

func (s *Store) tandaSongs(ctx context.Context, req models.Requester, tandaIDs []int64) (map[int64][]models.TandaSong, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`, ts.tanda_id, ts.position, ts.is_active
		FROM tanda_songs ts
		JOIN songs s ON s.id = ts.song_id
		LEFT JOIN orchestras o ON o.id = s.orchestra_id
		WHERE ts.tanda_id = ANY($1)
		ORDER BY ts.tanda_id, ts.position`, pq.Array(tandaIDs))
	if err != nil {
		return nil, fmt.Errorf("list tanda songs: %w", err)
	}
	defer rows.Close()

	type entry struct {
		tandaID int64
		ts      models.TandaSong
	}
	var (
		entries []entry
		songs   []models.Song
	)
	for rows.Next() {
		var e entry
		song, err := scanSong(rows, &e.tandaID, &e.ts.Position, &e.ts.IsActive)
		if err != nil {
			return nil, fmt.Errorf("scan tanda song: %w", err)
		}
		entries = append(entries, e)
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tanda songs: %w", err)
	}
	rows.Close()

	if err := s.attachSongDetails(ctx, req, songs); err != nil {
		return nil, err
	}

	out := make(map[int64][]models.TandaSong)
	for i, e := range entries {
		e.ts.Song = songs[i]
		out[e.tandaID] = append(out[e.tandaID], e.ts)
	}
	return out, nil
}

func visibilityOrDefault(v models.Visibility) (models.Visibility, error) {
	if v == "" {
		return models.VisibilityPrivate, nil
	}
	if !v.Valid() {
		return "", fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, v)
	}
	return v, nil
}

// CreateTanda inserts the tanda row and its ordered song links in one
// transaction. Positions are 1-based and follow the order of SongIDs.
func (s *Store) CreateTanda(ctx context.Context, req models.Requester, in models.TandaInput) (models.Tanda, error) {
	if err := requireAuth(req); err != nil {
		return models.Tanda{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Tanda{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	visibility, err := visibilityOrDefault(in.Visibility)
	if err != nil {
		return models.Tanda{}, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO tandas (title, comments, visibility, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			strings.TrimSpace(in.Title), nullIfEmpty(in.Comments), visibility, req.UserID).Scan(&id); err != nil {
			return fmt.Errorf("insert tanda: %w", err)
		}
		return linkTandaSongs(ctx, tx, id, in.SongIDs)
	})
	if err != nil {
		return models.Tanda{}, err
	}
	return s.GetTanda(ctx, req, id)
}

func linkTandaSongs(ctx context.Context, q queryer, tandaID int64, songIDs []int64) error {
	for i, songID := range songIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO tanda_songs (tanda_id, song_id, position)
			VALUES ($1, $2, $3)`, tandaID, songID, i+1); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("song %d: %w", songID, ErrSongNotFound)
			}
			return fmt.Errorf("link song %d: %w", songID, err)
		}
	}
	return nil
}

// checkOwner locks the row and verifies the requester owns it.
func checkOwner(ctx context.Context, q queryer, table string, id int64, req models.Requester, notFound error) error {
	if err := requireAuth(req); err != nil {
		return err
	}
	var ownerID int64
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT owner_id FROM %s WHERE id = $1 FOR UPDATE`, table), id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("lookup owner: %w", err)
	}
	if ownerID != req.UserID {
		return ErrForbidden
	}
	return nil
}

// UpdateTanda replaces the tanda's fields and its ordered songs.
func (s *Store) UpdateTanda(ctx context.Context, req models.Requester, id int64, in models.TandaInput) (models.Tanda, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Tanda{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	visibility, err := visibilityOrDefault(in.Visibility)
	if err != nil {
		return models.Tanda{}, err
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "tandas", id, req, ErrTandaNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE tandas SET title = $1, comments = $2, visibility = $3
			WHERE id = $4`,
			strings.TrimSpace(in.Title), nullIfEmpty(in.Comments), visibility, id); err != nil {
			return fmt.Errorf("update tanda: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tanda_songs WHERE tanda_id = $1`, id); err != nil {
			return fmt.Errorf("clear tanda songs: %w", err)
		}
		return linkTandaSongs(ctx, tx, id, in.SongIDs)
	})
	if err != nil {
		return models.Tanda{}, err
	}
	return s.GetTanda(ctx, req, id)
}

// DeleteTanda removes a tanda owned by the requester.
func (s *Store) DeleteTanda(ctx context.Context, req models.Requester, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "tandas", id, req, ErrTandaNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tandas WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete tanda: %w", err)
		}
		return nil
	})
}

// SetTandaVisibility changes who may read a tanda.
func (s *Store) SetTandaVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) error {
	if !v.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, v)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "tandas", id, req, ErrTandaNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tandas SET visibility = $1 WHERE id = $2`, v, id); err != nil {
			return fmt.Errorf("update tanda visibility: %w", err)
		}
		return nil
	})
}

// SetTandaSongActive toggles whether a member song is currently played.
func (s *Store) SetTandaSongActive(ctx context.Context, req models.Requester, tandaID, songID int64, active bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "tandas", tandaID, req, ErrTandaNotFound); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE tanda_songs SET is_active = $1
			WHERE tanda_id = $2 AND song_id = $3`, active, tandaID, songID)
		if err != nil {
			return fmt.Errorf("update tanda song: %w", err)
		}
		return affectedOrNotFound(res, ErrSongNotFound)
	})
}

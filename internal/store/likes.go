package store

import (
	"context"
	"fmt"

	"tandabase/shared/go/models"
)

// Like records that the requester likes a song, tanda or playlist. Tandas
// and playlists must be readable.
func (s *Store) Like(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error {
	if err := requireAuth(req); err != nil {
		return err
	}
	t, ok := likeTables[target]
	if !ok {
		return fmt.Errorf("%w: cannot like %q", ErrInvalidInput, target)
	}
	if err := s.checkReadable(ctx, req, target, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, %s)
		VALUES ($1, $2)`, t.table, t.column), req.UserID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyLiked
		}
		if isForeignKeyViolation(err) {
			return notFoundFor(target)
		}
		return fmt.Errorf("insert %s like: %w", target, err)
	}
	return nil
}

// Unlike removes a like.
func (s *Store) Unlike(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error {
	if err := requireAuth(req); err != nil {
		return err
	}
	t, ok := likeTables[target]
	if !ok {
		return fmt.Errorf("%w: cannot like %q", ErrInvalidInput, target)
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND %s = $2`, t.table, t.column), req.UserID, id)
	if err != nil {
		return fmt.Errorf("delete %s like: %w", target, err)
	}
	return affectedOrNotFound(res, ErrLikeNotFound)
}

func (s *Store) checkReadable(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error {
	var (
		w     whereBuilder
		table string
	)
	switch target {
	case models.TargetTanda:
		table = "tandas t"
		w.add(fmt.Sprintf("t.id = %s", w.arg(id)))
		w.readableBy(req, "t", "tanda_shares", "tanda_id")
	case models.TargetPlaylist:
		table = "playlists p"
		w.add(fmt.Sprintf("p.id = %s", w.arg(id)))
		w.readableBy(req, "p", "playlist_shares", "playlist_id")
	default:
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+w.String()+`)`, w.args...).Scan(&exists); err != nil {
		return fmt.Errorf("check %s access: %w", target, err)
	}
	if !exists {
		return notFoundFor(target)
	}
	return nil
}

func notFoundFor(target models.LikeTarget) error {
	switch target {
	case models.TargetTanda:
		return ErrTandaNotFound
	case models.TargetPlaylist:
		return ErrPlaylistNotFound
	}
	return ErrSongNotFound
}

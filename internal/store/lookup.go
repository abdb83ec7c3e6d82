package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

var _ catalog.Lookup = (*Store)(nil)

// OrchestraIDByName resolves an exact orchestra name. The lowest id wins on
// duplicates.
func (s *Store) OrchestraIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM orchestras
		WHERE name = $1
		ORDER BY id
		LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup orchestra: %w", err)
	}
	return id, true, nil
}

// SongTitlesByOrchestra lists the distinct titles recorded by an orchestra.
func (s *Store) SongTitlesByOrchestra(ctx context.Context, orchestraID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT title FROM songs
		WHERE orchestra_id = $1
		ORDER BY title`, orchestraID)
	if err != nil {
		return nil, fmt.Errorf("list titles by orchestra: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return titles, nil
}

// SongIDsBySinger returns the songs credited to every singer with exactly
// the given name.
func (s *Store) SongIDsBySinger(ctx context.Context, name string) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT DISTINCT ss.song_id
		FROM song_singers ss
		JOIN singers si ON si.id = ss.singer_id
		WHERE si.name = $1
		ORDER BY ss.song_id`, name)
}

var likeTables = map[models.LikeTarget]struct{ table, column string }{
	models.TargetSong:     {"song_likes", "song_id"},
	models.TargetTanda:    {"tanda_likes", "tanda_id"},
	models.TargetPlaylist: {"playlist_likes", "playlist_id"},
}

var shareTables = map[models.LikeTarget]struct{ table, column string }{
	models.TargetTanda:    {"tanda_shares", "tanda_id"},
	models.TargetPlaylist: {"playlist_shares", "playlist_id"},
}

// LikedIDs lists the ids of every entity of target kind the user liked.
func (s *Store) LikedIDs(ctx context.Context, userID int64, target models.LikeTarget) ([]int64, error) {
	t, ok := likeTables[target]
	if !ok {
		return nil, fmt.Errorf("%w: cannot like %q", ErrInvalidInput, target)
	}
	return s.queryIDs(ctx, fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY 1`, t.column, t.table), userID)
}

// SharedIDs lists the ids of every tanda or playlist shared with the user.
func (s *Store) SharedIDs(ctx context.Context, userID int64, target models.LikeTarget) ([]int64, error) {
	t, ok := shareTables[target]
	if !ok {
		return nil, fmt.Errorf("%w: cannot share %q", ErrInvalidInput, target)
	}
	return s.queryIDs(ctx, fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY 1`, t.column, t.table), userID)
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}

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

const playlistColumns = `p.id, p.title, p.description, p.spotify_link, p.visibility, p.owner_id, u.username, p.created_at`

// playlistDuration sums the songs of the member tandas the requester may
// read, matching what GetPlaylist returns.
func playlistDuration(w *whereBuilder, req models.Requester) string {
	return `COALESCE((
			SELECT SUM(s.duration)
			FROM playlist_tandas pt
			JOIN tandas t ON t.id = pt.tanda_id
			JOIN tanda_songs ts ON ts.tanda_id = pt.tanda_id
			JOIN songs s ON s.id = ts.song_id
			WHERE pt.playlist_id = p.id AND ` + w.readable(req, "t", "tanda_shares", "tanda_id") + `), 0)`
}

func scanPlaylist(row rowScanner, extra ...any) (models.Playlist, error) {
	var (
		playlist    models.Playlist
		description sql.NullString
		spotifyLink sql.NullString
	)
	dest := append([]any{&playlist.ID, &playlist.Title, &description, &spotifyLink, &playlist.Visibility,
		&playlist.OwnerID, &playlist.Owner, &playlist.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Playlist{}, err
	}
	playlist.Description = description.String
	playlist.SpotifyLink = spotifyLink.String
	playlist.Tandas = []models.PlaylistTanda{}
	return playlist, nil
}

// ListPlaylists runs a playlist search plan. Tandas are not loaded; the
// total duration is computed in SQL.
func (s *Store) ListPlaylists(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Playlist, error) {
	playlists := []models.Playlist{}
	if plan.Empty || !req.Authenticated() {
		return playlists, nil
	}

	var w whereBuilder
	w.readableBy(req, "p", "playlist_shares", "playlist_id")
	if err := w.applyPlan(plan); err != nil {
		return nil, fmt.Errorf("build playlist query: %w", err)
	}
	if plan.RestrictTo != nil {
		w.add(fmt.Sprintf("p.id = ANY(%s)", w.arg(pq.Array(plan.RestrictTo.IDs()))))
	}

	duration := playlistDuration(&w, req)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playlistColumns+`, `+duration+`
		FROM playlists p
		JOIN users u ON u.id = p.owner_id`+w.String()+`
		ORDER BY p.created_at DESC, p.id DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var total int
		playlist, err := scanPlaylist(rows, &total)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlist.TotalDuration = total
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	rows.Close()

	liked, err := s.likedSet(ctx, req, models.TargetPlaylist)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		playlists[i].Liked = liked.Has(playlists[i].ID)
	}
	return playlists, nil
}

// GetPlaylist returns a readable playlist with its tandas in position order.
// Member tandas the requester may not read are left out.
func (s *Store) GetPlaylist(ctx context.Context, req models.Requester, id int64) (models.Playlist, error) {
	var w whereBuilder
	w.add(fmt.Sprintf("p.id = %s", w.arg(id)))
	w.readableBy(req, "p", "playlist_shares", "playlist_id")

	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists p
		JOIN users u ON u.id = p.owner_id`+w.String(), w.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return models.Playlist{}, fmt.Errorf("get playlist: %w", err)
	}

	var tw whereBuilder
	tw.add(fmt.Sprintf("pt.playlist_id = %s", tw.arg(id)))
	tw.readableBy(req, "t", "tanda_shares", "tanda_id")
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tandaColumns+`, pt.position
		FROM playlist_tandas pt
		JOIN tandas t ON t.id = pt.tanda_id
		JOIN users u ON u.id = t.owner_id`+tw.String()+`
		ORDER BY pt.position`, tw.args...)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("list playlist tandas: %w", err)
	}
	defer rows.Close()

	var (
		tandas    []models.Tanda
		positions []int
	)
	for rows.Next() {
		var (
			tanda    models.Tanda
			comments sql.NullString
			position int
		)
		if err := rows.Scan(&tanda.ID, &tanda.Title, &comments, &tanda.Visibility, &tanda.OwnerID,
			&tanda.Owner, &tanda.CreatedAt, &position); err != nil {
			return models.Playlist{}, fmt.Errorf("scan playlist tanda: %w", err)
		}
		tanda.Comments = comments.String
		tanda.Songs = []models.TandaSong{}
		tandas = append(tandas, tanda)
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return models.Playlist{}, fmt.Errorf("iterate playlist tandas: %w", err)
	}
	rows.Close()

	if err := s.attachTandaSongs(ctx, req, tandas); err != nil {
		return models.Playlist{}, err
	}
	for i, t := range tandas {
		playlist.Tandas = append(playlist.Tandas, models.PlaylistTanda{Position: positions[i], Tanda: t})
	}
	playlist.ComputeTotalDuration()

	liked, err := s.likedSet(ctx, req, models.TargetPlaylist)
	if err != nil {
		return models.Playlist{}, err
	}
	playlist.Liked = liked.Has(playlist.ID)
	return playlist, nil
}

func (s *Store) likedSet(ctx context.Context, req models.Requester, target models.LikeTarget) (catalog.IDSet, error) {
	if !req.Authenticated() {
		return nil, nil
	}
	ids, err := s.LikedIDs(ctx, req.UserID, target)
	if err != nil {
		return nil, err
	}
	return catalog.NewIDSet(ids), nil
}

// CreatePlaylist inserts the playlist and its ordered tanda links in one
// transaction. Every tanda must be readable by the requester.
func (s *Store) CreatePlaylist(ctx context.Context, req models.Requester, in models.PlaylistInput) (models.Playlist, error) {
	if err := requireAuth(req); err != nil {
		return models.Playlist{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Playlist{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	visibility, err := visibilityOrDefault(in.Visibility)
	if err != nil {
		return models.Playlist{}, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO playlists (title, description, spotify_link, visibility, owner_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			strings.TrimSpace(in.Title), nullIfEmpty(in.Description), nullIfEmpty(in.SpotifyLink),
			visibility, req.UserID).Scan(&id); err != nil {
			return fmt.Errorf("insert playlist: %w", err)
		}
		if err := linkPlaylistTandas(ctx, tx, req, id, in.TandaIDs); err != nil {
			return err
		}
		if visibility == models.VisibilityPublic {
			_, err := cascadePublic(ctx, tx, id, req.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Playlist{}, err
	}
	return s.GetPlaylist(ctx, req, id)
}

func linkPlaylistTandas(ctx context.Context, q queryer, req models.Requester, playlistID int64, tandaIDs []int64) error {
	if len(tandaIDs) == 0 {
		return nil
	}

	var w whereBuilder
	w.add(fmt.Sprintf("t.id = ANY(%s)", w.arg(pq.Array(tandaIDs))))
	w.readableBy(req, "t", "tanda_shares", "tanda_id")
	var readable int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tandas t`+w.String(), w.args...).Scan(&readable); err != nil {
		return fmt.Errorf("check tandas: %w", err)
	}
	if readable != len(catalog.NewIDSet(tandaIDs)) {
		return ErrTandaNotFound
	}

	for i, tandaID := range tandaIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO playlist_tandas (playlist_id, tanda_id, position)
			VALUES ($1, $2, $3)`, playlistID, tandaID, i+1); err != nil {
			return fmt.Errorf("link tanda %d: %w", tandaID, err)
		}
	}
	return nil
}

// UpdatePlaylist replaces the playlist's fields and its ordered tandas.
func (s *Store) UpdatePlaylist(ctx context.Context, req models.Requester, id int64, in models.PlaylistInput) (models.Playlist, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Playlist{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	visibility, err := visibilityOrDefault(in.Visibility)
	if err != nil {
		return models.Playlist{}, err
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "playlists", id, req, ErrPlaylistNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE playlists SET title = $1, description = $2, spotify_link = $3, visibility = $4
			WHERE id = $5`,
			strings.TrimSpace(in.Title), nullIfEmpty(in.Description), nullIfEmpty(in.SpotifyLink), visibility, id); err != nil {
			return fmt.Errorf("update playlist: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tandas WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("clear playlist tandas: %w", err)
		}
		if err := linkPlaylistTandas(ctx, tx, req, id, in.TandaIDs); err != nil {
			return err
		}
		if visibility == models.VisibilityPublic {
			_, err := cascadePublic(ctx, tx, id, req.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Playlist{}, err
	}
	return s.GetPlaylist(ctx, req, id)
}

// DeletePlaylist removes a playlist owned by the requester. Its tandas are
// left untouched.
func (s *Store) DeletePlaylist(ctx context.Context, req models.Requester, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "playlists", id, req, ErrPlaylistNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		return nil
	})
}

// DuplicatePlaylist copies a readable playlist into a new private playlist
// owned by the requester, titled "<original> - copy", with the same tandas
// in the same order.
func (s *Store) DuplicatePlaylist(ctx context.Context, req models.Requester, id int64) (models.Playlist, error) {
	if err := requireAuth(req); err != nil {
		return models.Playlist{}, err
	}

	var newID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var w whereBuilder
		w.add(fmt.Sprintf("p.id = %s", w.arg(id)))
		w.readableBy(req, "p", "playlist_shares", "playlist_id")

		var (
			title       string
			description sql.NullString
			spotifyLink sql.NullString
		)
		err := tx.QueryRowContext(ctx, `
			SELECT p.title, p.description, p.spotify_link
			FROM playlists p`+w.String(), w.args...).Scan(&title, &description, &spotifyLink)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlaylistNotFound
		}
		if err != nil {
			return fmt.Errorf("load source playlist: %w", err)
		}

		if err := tx.QueryRowContext(ctx, `
			INSERT INTO playlists (title, description, spotify_link, visibility, owner_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			title+" - copy", description, spotifyLink, models.VisibilityPrivate, req.UserID).Scan(&newID); err != nil {
			return fmt.Errorf("insert playlist copy: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_tandas (playlist_id, tanda_id, position)
			SELECT $1, tanda_id, position
			FROM playlist_tandas
			WHERE playlist_id = $2
			ORDER BY position`, newID, id); err != nil {
			return fmt.Errorf("copy playlist tandas: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Playlist{}, err
	}
	return s.GetPlaylist(ctx, req, newID)
}

// SetPlaylistVisibility changes who may read a playlist. Making a playlist
// public also makes every referenced tanda of the same owner public; the
// cascade is one-way. It returns the number of tandas changed.
func (s *Store) SetPlaylistVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) (int64, error) {
	if !v.Valid() {
		return 0, fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, v)
	}

	var cascaded int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "playlists", id, req, ErrPlaylistNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE playlists SET visibility = $1 WHERE id = $2`, v, id); err != nil {
			return fmt.Errorf("update playlist visibility: %w", err)
		}
		if v != models.VisibilityPublic {
			return nil
		}
		var err error
		cascaded, err = cascadePublic(ctx, tx, id, req.UserID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return cascaded, nil
}

func cascadePublic(ctx context.Context, q queryer, playlistID, ownerID int64) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE tandas SET visibility = 'public'
		WHERE owner_id = $1
		  AND visibility <> 'public'
		  AND id IN (SELECT tanda_id FROM playlist_tandas WHERE playlist_id = $2)`, ownerID, playlistID)
	if err != nil {
		return 0, fmt.Errorf("cascade tanda visibility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

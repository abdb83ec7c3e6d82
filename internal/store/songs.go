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

const songColumns = `s.id, s.title, s.type, s.style, s.recording_year, s.is_instrumental,
		s.spotify_id, s.duration, o.id, o.name, o.is_modern`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner, extra ...any) (models.Song, error) {
	var (
		song         models.Song
		style        sql.NullString
		year         sql.NullInt64
		instrumental sql.NullBool
		spotifyID    sql.NullString
		duration     sql.NullInt64
		orchID       sql.NullInt64
		orchName     sql.NullString
		orchModern   sql.NullBool
	)
	dest := append([]any{&song.ID, &song.Title, &song.Type, &style, &year, &instrumental,
		&spotifyID, &duration, &orchID, &orchName, &orchModern}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Song{}, err
	}
	song.Style = models.SongStyle(style.String)
	song.RecordingYear = intPtr(year)
	song.IsInstrumental = boolPtr(instrumental)
	song.SpotifyID = spotifyID.String
	song.Duration = intPtr(duration)
	if orchID.Valid {
		song.Orchestra = &models.Orchestra{ID: orchID.Int64, Name: orchName.String, IsModern: orchModern.Bool}
	}
	song.Singers = []models.Singer{}
	return song, nil
}

// ListSongs runs the pushdown part of a song search plan. An empty plan
// returns an empty slice without touching the database.
func (s *Store) ListSongs(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Song, error) {
	songs := []models.Song{}
	if plan.Empty {
		return songs, nil
	}

	var w whereBuilder
	if err := w.applyPlan(plan); err != nil {
		return nil, fmt.Errorf("build song query: %w", err)
	}
	if plan.RestrictTo != nil {
		w.add(fmt.Sprintf("s.id = ANY(%s)", w.arg(pq.Array(plan.RestrictTo.IDs()))))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM songs s
		LEFT JOIN orchestras o ON o.id = s.orchestra_id`+w.String()+`
		ORDER BY s.title, s.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	if err := s.attachSongDetails(ctx, req, songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// GetSong returns a single song with its orchestra and singers.
func (s *Store) GetSong(ctx context.Context, req models.Requester, id int64) (models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, `
		SELECT `+songColumns+`
		FROM songs s
		LEFT JOIN orchestras o ON o.id = s.orchestra_id
		WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Song{}, ErrSongNotFound
	}
	if err != nil {
		return models.Song{}, fmt.Errorf("get song: %w", err)
	}

	songs := []models.Song{song}
	if err := s.attachSongDetails(ctx, req, songs); err != nil {
		return models.Song{}, err
	}
	return songs[0], nil
}

// attachSongDetails fills singers and, for authenticated requesters, the
// liked flag.
func (s *Store) attachSongDetails(ctx context.Context, req models.Requester, songs []models.Song) error {
	if len(songs) == 0 {
		return nil
	}
	ids := make([]int64, len(songs))
	for i, song := range songs {
		ids[i] = song.ID
	}

	singers, err := s.singersBySong(ctx, s.db, ids)
	if err != nil {
		return err
	}

	var liked catalog.IDSet
	if req.Authenticated() {
		likedIDs, err := s.LikedIDs(ctx, req.UserID, models.TargetSong)
		if err != nil {
			return err
		}
		liked = catalog.NewIDSet(likedIDs)
	}

	for i := range songs {
		if list, ok := singers[songs[i].ID]; ok {
			songs[i].Singers = list
		}
		songs[i].Liked = liked.Has(songs[i].ID)
	}
	return nil
}

func (s *Store) singersBySong(ctx context.Context, q queryer, songIDs []int64) (map[int64][]models.Singer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT ss.song_id, si.id, si.name, si.sex
		FROM song_singers ss
		JOIN singers si ON si.id = ss.singer_id
		WHERE ss.song_id = ANY($1)
		ORDER BY ss.song_id, ss.position, si.id`, pq.Array(songIDs))
	if err != nil {
		return nil, fmt.Errorf("list song singers: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]models.Singer)
	for rows.Next() {
		var (
			songID int64
			singer models.Singer
		)
		if err := rows.Scan(&songID, &singer.ID, &singer.Name, &singer.Sex); err != nil {
			return nil, fmt.Errorf("scan singer: %w", err)
		}
		out[songID] = append(out[songID], singer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate singers: %w", err)
	}
	return out, nil
}

// CreateSong adds a song to the shared catalog.
func (s *Store) CreateSong(ctx context.Context, req models.Requester, in models.SongInput) (models.Song, error) {
	if !req.CanModerate() {
		return models.Song{}, moderationError(req)
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = insertSong(ctx, tx, in)
		return err
	})
	if err != nil {
		return models.Song{}, err
	}
	return s.GetSong(ctx, req, id)
}

func insertSong(ctx context.Context, q queryer, in models.SongInput) (int64, error) {
	if strings.TrimSpace(in.Title) == "" || !in.Type.Valid() {
		return 0, fmt.Errorf("%w: title and a valid type are required", ErrInvalidInput)
	}

	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO songs (title, type, style, recording_year, is_instrumental, spotify_id, duration, orchestra_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		strings.TrimSpace(in.Title), in.Type, nullIfEmpty(string(in.Style)), nullInt(in.RecordingYear),
		nullBool(in.IsInstrumental), nullIfEmpty(in.SpotifyID), nullInt(in.Duration), nullInt64(in.OrchestraID),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrOrchestraNotFound
		}
		return 0, fmt.Errorf("insert song: %w", err)
	}

	if err := linkSingers(ctx, q, id, in.SingerIDs); err != nil {
		return 0, err
	}
	return id, nil
}

// linkSingers writes one song_singers row per singer, in order.
func linkSingers(ctx context.Context, q queryer, songID int64, singerIDs []int64) error {
	for i, singerID := range singerIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO song_singers (song_id, singer_id, position)
			VALUES ($1, $2, $3)`, songID, singerID, i+1); err != nil {
			return fmt.Errorf("link singer %d: %w", singerID, err)
		}
	}
	return nil
}

// UpdateSong replaces every writable field of a song, singers included.
func (s *Store) UpdateSong(ctx context.Context, req models.Requester, id int64, in models.SongInput) (models.Song, error) {
	if !req.CanModerate() {
		return models.Song{}, moderationError(req)
	}
	if strings.TrimSpace(in.Title) == "" || !in.Type.Valid() {
		return models.Song{}, fmt.Errorf("%w: title and a valid type are required", ErrInvalidInput)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE songs
			SET title = $1, type = $2, style = $3, recording_year = $4, is_instrumental = $5,
			    spotify_id = $6, duration = $7, orchestra_id = $8
			WHERE id = $9`,
			strings.TrimSpace(in.Title), in.Type, nullIfEmpty(string(in.Style)), nullInt(in.RecordingYear),
			nullBool(in.IsInstrumental), nullIfEmpty(in.SpotifyID), nullInt(in.Duration), nullInt64(in.OrchestraID), id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrOrchestraNotFound
			}
			return fmt.Errorf("update song: %w", err)
		}
		if err := affectedOrNotFound(res, ErrSongNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM song_singers WHERE song_id = $1`, id); err != nil {
			return fmt.Errorf("clear singers: %w", err)
		}
		return linkSingers(ctx, tx, id, in.SingerIDs)
	})
	if err != nil {
		return models.Song{}, err
	}
	return s.GetSong(ctx, req, id)
}

// DeleteSong removes a song from the catalog.
func (s *Store) DeleteSong(ctx context.Context, req models.Requester, id int64) error {
	if !req.CanModerate() {
		return moderationError(req)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return affectedOrNotFound(res, ErrSongNotFound)
}

// SetSongDuration records a duration fetched from the streaming provider.
func (s *Store) SetSongDuration(ctx context.Context, id int64, seconds int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE songs SET duration = $1 WHERE id = $2`, seconds, id)
	if err != nil {
		return fmt.Errorf("update duration: %w", err)
	}
	return affectedOrNotFound(res, ErrSongNotFound)
}

// ListOrchestras returns every orchestra ordered by name.
func (s *Store) ListOrchestras(ctx context.Context) ([]models.Orchestra, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_modern FROM orchestras ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list orchestras: %w", err)
	}
	defer rows.Close()

	orchestras := []models.Orchestra{}
	for rows.Next() {
		var o models.Orchestra
		if err := rows.Scan(&o.ID, &o.Name, &o.IsModern); err != nil {
			return nil, fmt.Errorf("scan orchestra: %w", err)
		}
		orchestras = append(orchestras, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orchestras: %w", err)
	}
	return orchestras, nil
}

// CreateOrchestra adds an orchestra.
func (s *Store) CreateOrchestra(ctx context.Context, req models.Requester, o models.Orchestra) (models.Orchestra, error) {
	if !req.CanModerate() {
		return models.Orchestra{}, moderationError(req)
	}
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return models.Orchestra{}, fmt.Errorf("%w: orchestra name is required", ErrInvalidInput)
	}
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO orchestras (name, is_modern) VALUES ($1, $2)
		RETURNING id`, o.Name, o.IsModern).Scan(&o.ID); err != nil {
		return models.Orchestra{}, fmt.Errorf("insert orchestra: %w", err)
	}
	return o, nil
}

// ListSingers returns every singer ordered by name.
func (s *Store) ListSingers(ctx context.Context) ([]models.Singer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, sex FROM singers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list singers: %w", err)
	}
	defer rows.Close()

	singers := []models.Singer{}
	for rows.Next() {
		var si models.Singer
		if err := rows.Scan(&si.ID, &si.Name, &si.Sex); err != nil {
			return nil, fmt.Errorf("scan singer: %w", err)
		}
		singers = append(singers, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate singers: %w", err)
	}
	return singers, nil
}

// CreateSinger adds a singer.
func (s *Store) CreateSinger(ctx context.Context, req models.Requester, si models.Singer) (models.Singer, error) {
	if !req.CanModerate() {
		return models.Singer{}, moderationError(req)
	}
	si.Name = strings.TrimSpace(si.Name)
	if si.Name == "" || (si.Sex != models.SexMale && si.Sex != models.SexFemale) {
		return models.Singer{}, fmt.Errorf("%w: singer name and sex are required", ErrInvalidInput)
	}
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO singers (name, sex) VALUES ($1, $2)
		RETURNING id`, si.Name, si.Sex).Scan(&si.ID); err != nil {
		return models.Singer{}, fmt.Errorf("insert singer: %w", err)
	}
	return si, nil
}

func moderationError(req models.Requester) error {
	if !req.Authenticated() {
		return ErrUnauthorized
	}
	return ErrForbidden
}

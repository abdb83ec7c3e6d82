package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tandabase/shared/go/models"
)

const suggestionColumns = `id, title, type, style, recording_year, is_instrumental, spotify_id, duration,
		orchestra_id, singer_ids, status, submitted_by, song_id, created_at, updated_at`

func scanSuggestion(row rowScanner) (models.SongSuggestion, error) {
	var (
		sg           models.SongSuggestion
		style        sql.NullString
		year         sql.NullInt64
		instrumental sql.NullBool
		spotifyID    sql.NullString
		duration     sql.NullInt64
		orchestraID  sql.NullInt64
		songID       sql.NullInt64
	)
	if err := row.Scan(&sg.ID, &sg.Title, &sg.Type, &style, &year, &instrumental, &spotifyID, &duration,
		&orchestraID, pq.Array(&sg.SingerIDs), &sg.Status, &sg.SubmittedBy, &songID,
		&sg.CreatedAt, &sg.UpdatedAt); err != nil {
		return models.SongSuggestion{}, err
	}
	sg.Style = models.SongStyle(style.String)
	sg.RecordingYear = intPtr(year)
	sg.IsInstrumental = boolPtr(instrumental)
	sg.SpotifyID = spotifyID.String
	sg.Duration = intPtr(duration)
	if orchestraID.Valid {
		sg.OrchestraID = &orchestraID.Int64
	}
	if songID.Valid {
		sg.SongID = &songID.Int64
	}
	if sg.SingerIDs == nil {
		sg.SingerIDs = []int64{}
	}
	return sg, nil
}

// CreateSuggestion stores a candidate song for moderator review.
func (s *Store) CreateSuggestion(ctx context.Context, req models.Requester, in models.SongInput) (models.SongSuggestion, error) {
	if err := requireAuth(req); err != nil {
		return models.SongSuggestion{}, err
	}
	if strings.TrimSpace(in.Title) == "" || !in.Type.Valid() {
		return models.SongSuggestion{}, fmt.Errorf("%w: title and a valid type are required", ErrInvalidInput)
	}
	singerIDs := in.SingerIDs
	if singerIDs == nil {
		singerIDs = []int64{}
	}

	sg, err := scanSuggestion(s.db.QueryRowContext(ctx, `
		INSERT INTO song_suggestions (title, type, style, recording_year, is_instrumental, spotify_id, duration,
			orchestra_id, singer_ids, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+suggestionColumns,
		strings.TrimSpace(in.Title), in.Type, nullIfEmpty(string(in.Style)), nullInt(in.RecordingYear),
		nullBool(in.IsInstrumental), nullIfEmpty(in.SpotifyID), nullInt(in.Duration), nullInt64(in.OrchestraID),
		pq.Array(singerIDs), req.UserID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.SongSuggestion{}, ErrOrchestraNotFound
		}
		return models.SongSuggestion{}, fmt.Errorf("insert suggestion: %w", err)
	}
	return sg, nil
}

// GetSuggestion returns a suggestion to its submitter or a moderator.
func (s *Store) GetSuggestion(ctx context.Context, req models.Requester, id int64) (models.SongSuggestion, error) {
	if err := requireAuth(req); err != nil {
		return models.SongSuggestion{}, err
	}
	sg, err := scanSuggestion(s.db.QueryRowContext(ctx, `
		SELECT `+suggestionColumns+`
		FROM song_suggestions
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SongSuggestion{}, ErrSuggestionNotFound
	}
	if err != nil {
		return models.SongSuggestion{}, fmt.Errorf("get suggestion: %w", err)
	}
	if sg.SubmittedBy != req.UserID && !req.CanModerate() {
		return models.SongSuggestion{}, ErrSuggestionNotFound
	}
	return sg, nil
}

// ListSuggestions returns suggestions in a given status for moderators. An
// empty status lists everything.
func (s *Store) ListSuggestions(ctx context.Context, req models.Requester, status models.SuggestionStatus) ([]models.SongSuggestion, error) {
	if !req.CanModerate() {
		return nil, moderationError(req)
	}
	var w whereBuilder
	if status != "" {
		w.add(fmt.Sprintf("status = %s", w.arg(status)))
	}
	return s.querySuggestions(ctx, `
		SELECT `+suggestionColumns+`
		FROM song_suggestions`+w.String()+`
		ORDER BY created_at, id`, w.args...)
}

// ListMySuggestions returns the requester's own suggestions, newest first.
func (s *Store) ListMySuggestions(ctx context.Context, req models.Requester) ([]models.SongSuggestion, error) {
	if err := requireAuth(req); err != nil {
		return nil, err
	}
	return s.querySuggestions(ctx, `
		SELECT `+suggestionColumns+`
		FROM song_suggestions
		WHERE submitted_by = $1
		ORDER BY created_at DESC, id DESC`, req.UserID)
}

func (s *Store) querySuggestions(ctx context.Context, query string, args ...any) ([]models.SongSuggestion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []models.SongSuggestion{}
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return suggestions, nil
}

// ApproveSuggestion turns a pending suggestion into a catalog song. The song
// row, one link per singer and the status change commit together. When
// edits is non-nil the song is created from it and the status becomes
// approved-edited.
func (s *Store) ApproveSuggestion(ctx context.Context, req models.Requester, id int64, edits *models.SongInput) (models.Song, error) {
	if !req.CanModerate() {
		return models.Song{}, moderationError(req)
	}

	var songID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sg, err := lockPendingSuggestion(ctx, tx, id)
		if err != nil {
			return err
		}

		in, status := sg.SongInput(), models.SuggestionApproved
		if edits != nil {
			in, status = *edits, models.SuggestionApprovedEdited
		}

		songID, err = insertSong(ctx, tx, in)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE song_suggestions
			SET status = $1, song_id = $2, updated_at = NOW()
			WHERE id = $3`, status, songID, id); err != nil {
			return fmt.Errorf("mark suggestion %s: %w", status, err)
		}
		return nil
	})
	if err != nil {
		return models.Song{}, err
	}
	return s.GetSong(ctx, req, songID)
}

// RejectSuggestion closes a pending suggestion without creating a song.
func (s *Store) RejectSuggestion(ctx context.Context, req models.Requester, id int64) error {
	if !req.CanModerate() {
		return moderationError(req)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := lockPendingSuggestion(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE song_suggestions
			SET status = $1, updated_at = NOW()
			WHERE id = $2`, models.SuggestionRejected, id); err != nil {
			return fmt.Errorf("mark suggestion rejected: %w", err)
		}
		return nil
	})
}

func lockPendingSuggestion(ctx context.Context, q queryer, id int64) (models.SongSuggestion, error) {
	sg, err := scanSuggestion(q.QueryRowContext(ctx, `
		SELECT `+suggestionColumns+`
		FROM song_suggestions
		WHERE id = $1
		FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SongSuggestion{}, ErrSuggestionNotFound
	}
	if err != nil {
		return models.SongSuggestion{}, fmt.Errorf("load suggestion: %w", err)
	}
	if sg.Status != models.SuggestionPending {
		return models.SongSuggestion{}, ErrSuggestionClosed
	}
	return sg, nil
}

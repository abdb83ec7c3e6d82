package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tandabase/shared/go/models"
)

var suggestionRowColumns = []string{"id", "title", "type", "style", "recording_year", "is_instrumental", "spotify_id",
	"duration", "orchestra_id", "singer_ids", "status", "submitted_by", "song_id", "created_at", "updated_at"}

func pendingSuggestionRows(status string) *sqlmock.Rows {
	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(suggestionRowColumns).
		AddRow(int64(9), "Cornetín", "tango", "rhythmic", 1942, false, nil, 165, int64(1),
			"{3,4}", status, int64(42), nil, now, now)
}

func TestApproveSuggestionCreatesSongAndSingerLinks(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM song_suggestions WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(pendingSuggestionRows("pending"))
	mock.ExpectQuery(q("INSERT INTO songs")).
		WithArgs("Cornetín", models.SongTypeTango, "rhythmic", 1942, false, nil, 165, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(55)))
	mock.ExpectExec(q("INSERT INTO song_singers (song_id, singer_id, position)")).
		WithArgs(int64(55), int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO song_singers (song_id, singer_id, position)")).
		WithArgs(int64(55), int64(4), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE song_suggestions SET status = $1, song_id = $2")).
		WithArgs(models.SuggestionApproved, int64(55), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(q("FROM songs s LEFT JOIN orchestras o ON o.id = s.orchestra_id WHERE s.id = $1")).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow(int64(55), "Cornetín", "tango", "rhythmic", 1942, false, nil, 165, int64(1), "Carlos Di Sarli", false))
	mock.ExpectQuery(q("FROM song_singers ss")).
		WillReturnRows(sqlmock.NewRows([]string{"song_id", "id", "name", "sex"}).
			AddRow(int64(55), int64(3), "Alberto Podestá", "male").
			AddRow(int64(55), int64(4), "Roberto Rufino", "male"))
	expectLikedIDs(mock, "song_likes", 1)

	song, err := s.ApproveSuggestion(t.Context(), moderator, 9, nil)
	if err != nil {
		t.Fatalf("ApproveSuggestion: %v", err)
	}
	if song.ID != 55 || len(song.Singers) != 2 {
		t.Fatalf("unexpected song %+v", song)
	}
}

func TestApproveSuggestionWithEditsMarksEdited(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WillReturnRows(pendingSuggestionRows("pending"))
	mock.ExpectQuery(q("INSERT INTO songs")).
		WithArgs("Cornetín (1942)", models.SongTypeTango, nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(56)))
	mock.ExpectExec(q("UPDATE song_suggestions")).
		WithArgs(models.SuggestionApprovedEdited, int64(56), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(q("WHERE s.id = $1")).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow(int64(56), "Cornetín (1942)", "tango", nil, nil, nil, nil, nil, nil, nil, nil))
	mock.ExpectQuery(q("FROM song_singers ss")).
		WillReturnRows(sqlmock.NewRows([]string{"song_id", "id", "name", "sex"}))
	expectLikedIDs(mock, "song_likes", 1)

	edits := &models.SongInput{Title: "Cornetín (1942)", Type: models.SongTypeTango}
	song, err := s.ApproveSuggestion(t.Context(), moderator, 9, edits)
	if err != nil {
		t.Fatalf("ApproveSuggestion: %v", err)
	}
	if song.Orchestra != nil || song.Singers == nil {
		t.Fatalf("unexpected song %+v", song)
	}
}

func TestApproveSuggestionAlreadyReviewed(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WillReturnRows(pendingSuggestionRows("rejected"))
	mock.ExpectRollback()

	_, err := s.ApproveSuggestion(t.Context(), moderator, 9, nil)
	if !errors.Is(err, ErrSuggestionClosed) {
		t.Fatalf("expected ErrSuggestionClosed, got %v", err)
	}
}

func TestApproveSuggestionRequiresModerator(t *testing.T) {
	s, _ := newMockStore(t)

	if _, err := s.ApproveSuggestion(t.Context(), owner, 9, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.ApproveSuggestion(t.Context(), models.Requester{}, 9, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetSuggestionHiddenFromOtherUsers(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM song_suggestions WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(pendingSuggestionRows("pending"))

	_, err := s.GetSuggestion(t.Context(), stranger, 9)
	if !errors.Is(err, ErrSuggestionNotFound) {
		t.Fatalf("expected ErrSuggestionNotFound, got %v", err)
	}
}

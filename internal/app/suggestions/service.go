package suggestions

import (
	"context"

	"tandabase/internal/app"
	"tandabase/internal/app/songs"
	"tandabase/shared/go/models"
)

// Store captures the persistence needs for suggestion review.
type Store interface {
	CreateSuggestion(ctx context.Context, req models.Requester, in models.SongInput) (models.SongSuggestion, error)
	GetSuggestion(ctx context.Context, req models.Requester, id int64) (models.SongSuggestion, error)
	ListSuggestions(ctx context.Context, req models.Requester, status models.SuggestionStatus) ([]models.SongSuggestion, error)
	ListMySuggestions(ctx context.Context, req models.Requester) ([]models.SongSuggestion, error)
	ApproveSuggestion(ctx context.Context, req models.Requester, id int64, edits *models.SongInput) (models.Song, error)
	RejectSuggestion(ctx context.Context, req models.Requester, id int64) error
	SetSongDuration(ctx context.Context, id int64, seconds int) error
}

// Service handles song suggestions from submission to review.
type Service interface {
	Submit(ctx context.Context, req models.Requester, in models.SongInput) (models.SongSuggestion, error)
	Mine(ctx context.Context, req models.Requester) ([]models.SongSuggestion, error)
	List(ctx context.Context, req models.Requester, status models.SuggestionStatus) ([]models.SongSuggestion, error)
	Get(ctx context.Context, req models.Requester, id int64) (models.SongSuggestion, error)
	Approve(ctx context.Context, req models.Requester, id int64, edits *models.SongInput) (models.Song, error)
	Reject(ctx context.Context, req models.Requester, id int64) error
}

type service struct {
	store    Store
	enricher *songs.Enricher
}

// New constructs a Service. enricher may be nil.
func New(store Store, enricher *songs.Enricher) Service {
	return &service{store: store, enricher: enricher}
}

func (s *service) Submit(ctx context.Context, req models.Requester, in models.SongInput) (models.SongSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return models.SongSuggestion{}, err
	}
	return s.store.CreateSuggestion(ctx, req, in)
}

func (s *service) Mine(ctx context.Context, req models.Requester) ([]models.SongSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListMySuggestions(ctx, req)
}

func (s *service) List(ctx context.Context, req models.Requester, status models.SuggestionStatus) ([]models.SongSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSuggestions(ctx, req, status)
}

func (s *service) Get(ctx context.Context, req models.Requester, id int64) (models.SongSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return models.SongSuggestion{}, err
	}
	return s.store.GetSuggestion(ctx, req, id)
}

// Approve turns the suggestion into a catalog song. A missing duration is
// fetched from Spotify once the approval has been committed.
func (s *service) Approve(ctx context.Context, req models.Requester, id int64, edits *models.SongInput) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	song, err := s.store.ApproveSuggestion(ctx, req, id, edits)
	app.RecordWorkflow(ctx, "approve_suggestion", err)
	if err != nil {
		return models.Song{}, err
	}
	s.enricher.Backfill(ctx, s.store, &song)
	return song, nil
}

func (s *service) Reject(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RejectSuggestion(ctx, req, id)
}

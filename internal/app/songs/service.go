package songs

import (
	"context"
	"errors"

	"tandabase/internal/app"
	"tandabase/internal/catalog"
	"tandabase/internal/musicapi"
	"tandabase/shared/go/models"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	catalog.Lookup
	ListSongs(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Song, error)
	GetSong(ctx context.Context, req models.Requester, id int64) (models.Song, error)
	CreateSong(ctx context.Context, req models.Requester, in models.SongInput) (models.Song, error)
	UpdateSong(ctx context.Context, req models.Requester, id int64, in models.SongInput) (models.Song, error)
	DeleteSong(ctx context.Context, req models.Requester, id int64) error
	SetSongDuration(ctx context.Context, id int64, seconds int) error
	ListOrchestras(ctx context.Context) ([]models.Orchestra, error)
	CreateOrchestra(ctx context.Context, req models.Requester, o models.Orchestra) (models.Orchestra, error)
	ListSingers(ctx context.Context) ([]models.Singer, error)
	CreateSinger(ctx context.Context, req models.Requester, s models.Singer) (models.Singer, error)
	Like(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
	Unlike(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
}

// Service exposes the song catalog.
type Service interface {
	Search(ctx context.Context, req models.Requester, params catalog.SongSearch, sort catalog.SortState) ([]models.Song, error)
	Get(ctx context.Context, req models.Requester, id int64) (models.Song, error)
	Create(ctx context.Context, req models.Requester, in models.SongInput) (models.Song, error)
	Update(ctx context.Context, req models.Requester, id int64, in models.SongInput) (models.Song, error)
	Delete(ctx context.Context, req models.Requester, id int64) error
	Like(ctx context.Context, req models.Requester, id int64) error
	Unlike(ctx context.Context, req models.Requester, id int64) error
	Orchestras(ctx context.Context) ([]models.Orchestra, error)
	CreateOrchestra(ctx context.Context, req models.Requester, o models.Orchestra) (models.Orchestra, error)
	Singers(ctx context.Context) ([]models.Singer, error)
	CreateSinger(ctx context.Context, req models.Requester, s models.Singer) (models.Singer, error)
	SpotifyTracks(ctx context.Context, req models.Requester, query string, limit int) ([]musicapi.Track, error)
}

// ErrModeratorOnly is returned when a non-moderator calls a catalog tool.
var ErrModeratorOnly = errors.New("moderator role required")

type service struct {
	store    Store
	enricher *Enricher
}

// New constructs a Service backed by the provided Store. enricher may be nil.
func New(store Store, enricher *Enricher) Service {
	return &service{store: store, enricher: enricher}
}

func (s *service) Search(ctx context.Context, req models.Requester, params catalog.SongSearch, sort catalog.SortState) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := catalog.PlanSongSearch(ctx, s.store, req, params)
	if err != nil {
		return nil, err
	}

	songs, err := s.store.ListSongs(ctx, req, plan)
	if err != nil {
		return nil, err
	}
	catalog.SortSongs(songs, sort)

	app.RecordSearch(ctx, "song", plan, len(songs))
	return songs, nil
}

func (s *service) Get(ctx context.Context, req models.Requester, id int64) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	return s.store.GetSong(ctx, req, id)
}

func (s *service) Create(ctx context.Context, req models.Requester, in models.SongInput) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	s.enricher.Enrich(ctx, &in)
	return s.store.CreateSong(ctx, req, in)
}

func (s *service) Update(ctx context.Context, req models.Requester, id int64, in models.SongInput) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	s.enricher.Enrich(ctx, &in)
	return s.store.UpdateSong(ctx, req, id, in)
}

func (s *service) Delete(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, req, id)
}

func (s *service) Like(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Like(ctx, req, models.TargetSong, id)
}

func (s *service) Unlike(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Unlike(ctx, req, models.TargetSong, id)
}

func (s *service) Orchestras(ctx context.Context) ([]models.Orchestra, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListOrchestras(ctx)
}

func (s *service) CreateOrchestra(ctx context.Context, req models.Requester, o models.Orchestra) (models.Orchestra, error) {
	if err := ctx.Err(); err != nil {
		return models.Orchestra{}, err
	}
	return s.store.CreateOrchestra(ctx, req, o)
}

func (s *service) Singers(ctx context.Context) ([]models.Singer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSingers(ctx)
}

func (s *service) CreateSinger(ctx context.Context, req models.Requester, singer models.Singer) (models.Singer, error) {
	if err := ctx.Err(); err != nil {
		return models.Singer{}, err
	}
	return s.store.CreateSinger(ctx, req, singer)
}

// SpotifyTracks lets moderators look up Spotify ids while curating songs.
func (s *service) SpotifyTracks(ctx context.Context, req models.Requester, query string, limit int) ([]musicapi.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !req.CanModerate() {
		return nil, ErrModeratorOnly
	}
	return s.enricher.SearchTracks(ctx, query, limit)
}

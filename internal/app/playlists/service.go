package playlists

import (
	"context"

	"tandabase/internal/app"
	"tandabase/internal/catalog"
	"tandabase/shared/go/logging"
	"tandabase/shared/go/models"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	catalog.Lookup
	ListPlaylists(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, req models.Requester, id int64) (models.Playlist, error)
	CreatePlaylist(ctx context.Context, req models.Requester, in models.PlaylistInput) (models.Playlist, error)
	UpdatePlaylist(ctx context.Context, req models.Requester, id int64, in models.PlaylistInput) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, req models.Requester, id int64) error
	DuplicatePlaylist(ctx context.Context, req models.Requester, id int64) (models.Playlist, error)
	SetPlaylistVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) (int64, error)
	Like(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
	Unlike(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
	Share(ctx context.Context, req models.Requester, target models.LikeTarget, id int64, username string) (models.Share, error)
	Unshare(ctx context.Context, req models.Requester, target models.LikeTarget, id, userID int64) error
	ListShares(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) ([]models.Share, error)
}

// Service coordinates playlist-related operations.
type Service interface {
	Search(ctx context.Context, req models.Requester, params catalog.PlaylistSearch) ([]models.Playlist, error)
	Get(ctx context.Context, req models.Requester, id int64) (models.Playlist, error)
	Create(ctx context.Context, req models.Requester, in models.PlaylistInput) (models.Playlist, error)
	Update(ctx context.Context, req models.Requester, id int64, in models.PlaylistInput) (models.Playlist, error)
	Delete(ctx context.Context, req models.Requester, id int64) error
	Duplicate(ctx context.Context, req models.Requester, id int64) (models.Playlist, error)
	SetVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) (int64, error)
	Like(ctx context.Context, req models.Requester, id int64) error
	Unlike(ctx context.Context, req models.Requester, id int64) error
	Share(ctx context.Context, req models.Requester, id int64, username string) (models.Share, error)
	Unshare(ctx context.Context, req models.Requester, id, userID int64) error
	Shares(ctx context.Context, req models.Requester, id int64) ([]models.Share, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Search(ctx context.Context, req models.Requester, params catalog.PlaylistSearch) ([]models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := catalog.PlanPlaylistSearch(ctx, s.store, req, params)
	if err != nil {
		return nil, err
	}

	playlists, err := s.store.ListPlaylists(ctx, req, plan)
	if err != nil {
		return nil, err
	}
	playlists = catalog.FilterPlaylists(playlists, plan)

	app.RecordSearch(ctx, "playlist", plan, len(playlists))
	return playlists, nil
}

func (s *service) Get(ctx context.Context, req models.Requester, id int64) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	return s.store.GetPlaylist(ctx, req, id)
}

func (s *service) Create(ctx context.Context, req models.Requester, in models.PlaylistInput) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	p, err := s.store.CreatePlaylist(ctx, req, in)
	app.RecordWorkflow(ctx, "create_playlist", err)
	return p, err
}

func (s *service) Update(ctx context.Context, req models.Requester, id int64, in models.PlaylistInput) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	p, err := s.store.UpdatePlaylist(ctx, req, id, in)
	app.RecordWorkflow(ctx, "update_playlist", err)
	return p, err
}

func (s *service) Delete(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, req, id)
}

func (s *service) Duplicate(ctx context.Context, req models.Requester, id int64) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	p, err := s.store.DuplicatePlaylist(ctx, req, id)
	app.RecordWorkflow(ctx, "duplicate_playlist", err)
	return p, err
}

// SetVisibility changes the playlist visibility and reports how many of the
// owner's tandas were made public alongside it.
func (s *service) SetVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cascaded, err := s.store.SetPlaylistVisibility(ctx, req, id, v)
	app.RecordWorkflow(ctx, "playlist_visibility", err)
	if err != nil {
		return 0, err
	}
	if cascaded > 0 {
		logging.WithContext(ctx).Info().
			Int64("playlist_id", id).
			Int64("tandas", cascaded).
			Msg("tandas made public with playlist")
	}
	return cascaded, nil
}

func (s *service) Like(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Like(ctx, req, models.TargetPlaylist, id)
}

func (s *service) Unlike(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Unlike(ctx, req, models.TargetPlaylist, id)
}

func (s *service) Share(ctx context.Context, req models.Requester, id int64, username string) (models.Share, error) {
	if err := ctx.Err(); err != nil {
		return models.Share{}, err
	}
	return s.store.Share(ctx, req, models.TargetPlaylist, id, username)
}

func (s *service) Unshare(ctx context.Context, req models.Requester, id, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Unshare(ctx, req, models.TargetPlaylist, id, userID)
}

func (s *service) Shares(ctx context.Context, req models.Requester, id int64) ([]models.Share, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListShares(ctx, req, models.TargetPlaylist, id)
}

package songs

import (
	"context"
	"errors"

	"tandabase/internal/metrics"
	"tandabase/internal/musicapi"
	"tandabase/shared/go/logging"
	"tandabase/shared/go/models"
)

// ErrSpotifyDisabled is returned by track lookups when no Spotify
// credentials are configured.
var ErrSpotifyDisabled = errors.New("spotify lookup disabled")

// DurationSetter records a fetched duration on an existing song.
type DurationSetter interface {
	SetSongDuration(ctx context.Context, id int64, seconds int) error
}

// Enricher fills missing song durations from the streaming provider.
// Provider failures are logged and never fail the caller. A nil Enricher
// does nothing.
type Enricher struct {
	provider musicapi.TrackProvider
}

// NewEnricher returns nil when provider is nil.
func NewEnricher(provider musicapi.TrackProvider) *Enricher {
	if provider == nil {
		return nil
	}
	return &Enricher{provider: provider}
}

// Enrich sets in.Duration when a Spotify id is present and no duration is.
func (e *Enricher) Enrich(ctx context.Context, in *models.SongInput) {
	if e == nil || in.SpotifyID == "" || in.Duration != nil {
		return
	}
	if seconds, ok := e.lookup(ctx, in.SpotifyID); ok {
		in.Duration = &seconds
	}
}

// Backfill fetches and stores the duration of an already stored song.
func (e *Enricher) Backfill(ctx context.Context, store DurationSetter, song *models.Song) {
	if e == nil || song.SpotifyID == "" || song.Duration != nil {
		return
	}
	seconds, ok := e.lookup(ctx, song.SpotifyID)
	if !ok {
		return
	}
	if err := store.SetSongDuration(ctx, song.ID, seconds); err != nil {
		logging.WithContext(ctx).Warn().Err(err).Int64("song_id", song.ID).Msg("store spotify duration")
		return
	}
	song.Duration = &seconds
}

func (e *Enricher) lookup(ctx context.Context, spotifyID string) (int, bool) {
	track, err := e.provider.GetTrack(ctx, spotifyID)
	metrics.SpotifyRequestsTotal.WithLabelValues("get_track", metrics.Outcome(err)).Inc()
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Str("spotify_id", spotifyID).Msg("spotify lookup failed")
		return 0, false
	}
	if track.Duration <= 0 {
		return 0, false
	}
	return track.Duration, true
}

// SearchTracks finds candidate Spotify recordings for a catalog entry.
func (e *Enricher) SearchTracks(ctx context.Context, query string, limit int) ([]musicapi.Track, error) {
	if e == nil {
		return nil, ErrSpotifyDisabled
	}
	tracks, err := e.provider.SearchTracks(ctx, query, limit)
	metrics.SpotifyRequestsTotal.WithLabelValues("search_tracks", metrics.Outcome(err)).Inc()
	return tracks, err
}

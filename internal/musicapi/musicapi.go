package musicapi

import (
	"context"
	"errors"
)

// MusicProvider represents a music streaming service
type MusicProvider string

const (
	ProviderSpotify MusicProvider = "spotify"
)

// ErrTrackNotFound is returned when the provider has no track with the id.
var ErrTrackNotFound = errors.New("track not found")

// Track represents a recording on an external music service
type Track struct {
	ExternalID  string        `json:"external_id"`
	Title       string        `json:"title"`
	Artists     []string      `json:"artists"`
	Album       string        `json:"album,omitempty"`
	ReleaseYear int           `json:"release_year,omitempty"`
	Provider    MusicProvider `json:"provider"`
	Duration    int           `json:"duration"` // in seconds
	ExternalURL string        `json:"external_url,omitempty"`
}

// TrackProvider looks up recordings on a streaming service.
type TrackProvider interface {
	// GetTrack fetches a single track by its provider id.
	GetTrack(ctx context.Context, id string) (Track, error)

	// SearchTracks searches for tracks by title or artist.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
}

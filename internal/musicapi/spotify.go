package musicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultSpotifyAPI   = "https://api.spotify.com/v1"
	defaultSpotifyToken = "https://accounts.spotify.com/api/token"
)

// SpotifyClient implements TrackProvider for Spotify. Tokens come from the
// client-credentials flow and are cached and refreshed by oauth2.
type SpotifyClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ TrackProvider = (*SpotifyClient)(nil)

// SpotifyOptions overrides endpoints, mainly for tests.
type SpotifyOptions struct {
	BaseURL  string
	TokenURL string
	Timeout  time.Duration
}

// NewSpotifyClient creates a new Spotify API client
func NewSpotifyClient(clientID, clientSecret string, opts SpotifyOptions) *SpotifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultSpotifyAPI
	}
	if opts.TokenURL == "" {
		opts.TokenURL = defaultSpotifyToken
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     opts.TokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = opts.Timeout

	return &SpotifyClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
	}
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifySearchResponse struct {
	Tracks *spotifyTracksPage `json:"tracks,omitempty"`
}

type spotifyTrack struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Artists      []spotifySimpleArtist `json:"artists"`
	Album        *spotifySimpleAlbum   `json:"album,omitempty"`
	Duration     int                   `json:"duration_ms"`
	ExternalURLs spotifyExternalURLs   `json:"external_urls"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySimpleAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// doRequest performs an authenticated GET against the Spotify API
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	apiURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTrackNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetTrack fetches a track by its Spotify id.
func (c *SpotifyClient) GetTrack(ctx context.Context, id string) (Track, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Track{}, ErrTrackNotFound
	}

	var st spotifyTrack
	if err := c.doRequest(ctx, "tracks/"+url.PathEscape(id), nil, &st); err != nil {
		return Track{}, err
	}
	return st.toTrack(), nil
}

// SearchTracks searches for tracks by title or artist
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var resp spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	tracks := []Track{}
	if resp.Tracks == nil {
		return tracks, nil
	}
	for _, st := range resp.Tracks.Items {
		tracks = append(tracks, st.toTrack())
	}
	return tracks, nil
}

func (st spotifyTrack) toTrack() Track {
	artists := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, a.Name)
	}

	track := Track{
		ExternalID:  st.ID,
		Title:       st.Name,
		Artists:     artists,
		Provider:    ProviderSpotify,
		Duration:    st.Duration / 1000,
		ExternalURL: st.ExternalURLs.Spotify,
	}
	if st.Album != nil {
		track.Album = st.Album.Name
		track.ReleaseYear = parseReleaseYear(st.Album.ReleaseDate)
	}
	return track
}

// parseReleaseYear extracts the year from dates like "1941", "1941-05" or
// "1941-05-12".
func parseReleaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

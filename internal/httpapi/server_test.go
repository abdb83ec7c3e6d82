package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tandabase/internal/app/playlists"
	"tandabase/internal/app/songs"
	"tandabase/internal/app/suggestions"
	"tandabase/internal/app/tandas"
	"tandabase/internal/catalog"
	"tandabase/internal/musicapi"
	"tandabase/internal/querycache"
	"tandabase/internal/store"
	"tandabase/shared/go/models"
)

type stubTokens struct{}

func (stubTokens) Parse(raw string) (models.Requester, error) {
	switch raw {
	case "owner":
		return models.Requester{UserID: 42, Role: models.RoleUser}, nil
	case "mod":
		return models.Requester{UserID: 1, Role: models.RoleModerator}, nil
	}
	return models.Requester{}, errors.New("bad token")
}

type stubSongService struct {
	songs.Service

	calls      int
	lastParams catalog.SongSearch
	lastSort   catalog.SortState
	result     []models.Song
	spotifyOff bool
}

func (s *stubSongService) Search(_ context.Context, _ models.Requester, params catalog.SongSearch, sort catalog.SortState) ([]models.Song, error) {
	s.calls++
	s.lastParams = params
	s.lastSort = sort
	return s.result, nil
}

func (s *stubSongService) SpotifyTracks(_ context.Context, req models.Requester, query string, _ int) ([]musicapi.Track, error) {
	if !req.CanModerate() {
		return nil, songs.ErrModeratorOnly
	}
	if s.spotifyOff {
		return nil, songs.ErrSpotifyDisabled
	}
	return []musicapi.Track{{ExternalID: "sp1", Title: query}}, nil
}

type stubTandaService struct {
	tandas.Service

	searches int
	lastReq  models.Requester
	getErr   error
	created  models.TandaInput
}

func (s *stubTandaService) Search(_ context.Context, req models.Requester, _ catalog.TandaSearch) ([]tandas.Detail, error) {
	s.searches++
	s.lastReq = req
	if !req.Authenticated() {
		return []tandas.Detail{}, nil
	}
	return []tandas.Detail{{Tanda: models.Tanda{ID: 1, Title: "Di Sarli 40s"}}}, nil
}

func (s *stubTandaService) Get(context.Context, models.Requester, int64) (tandas.Detail, error) {
	if s.getErr != nil {
		return tandas.Detail{}, s.getErr
	}
	return tandas.Detail{Tanda: models.Tanda{ID: 1}}, nil
}

func (s *stubTandaService) Create(_ context.Context, req models.Requester, in models.TandaInput) (tandas.Detail, error) {
	s.created = in
	return tandas.Detail{Tanda: models.Tanda{ID: 9, Title: in.Title, OwnerID: req.UserID}}, nil
}

type stubPlaylistService struct {
	playlists.Service
}

func (stubPlaylistService) SetVisibility(context.Context, models.Requester, int64, models.Visibility) (int64, error) {
	return 2, nil
}

type stubSuggestionService struct {
	suggestions.Service

	edits *models.SongInput
	calls int
}

func (s *stubSuggestionService) Approve(_ context.Context, _ models.Requester, id int64, edits *models.SongInput) (models.Song, error) {
	s.calls++
	s.edits = edits
	return models.Song{ID: id + 100, Title: "Bahía Blanca"}, nil
}

type fixture struct {
	songs       *stubSongService
	tandas      *stubTandaService
	suggestions *stubSuggestionService
	handler     http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		songs:       &stubSongService{result: []models.Song{{ID: 1, Title: "Champagne tango"}}},
		tandas:      &stubTandaService{},
		suggestions: &stubSuggestionService{},
	}
	srv := New(Services{
		Songs:       f.songs,
		Tandas:      f.tandas,
		Playlists:   stubPlaylistService{},
		Suggestions: f.suggestions,
	}, Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Tokens:         stubTokens{},
		Cache:          querycache.New(time.Minute),
	})
	f.handler = srv.Routes()
	return f
}

func (f *fixture) do(method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSongSearchParsesQueryAndCaches(t *testing.T) {
	f := newFixture()
	target := "/api/v1/songs?title=tango&yearFrom=1940&type=tango&sort=year&desc=true"

	rec := f.do(http.MethodGet, target, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("expected cache miss, got %q", got)
	}
	if f.songs.lastParams.Title != "tango" || f.songs.lastParams.YearFrom == nil || *f.songs.lastParams.YearFrom != 1940 {
		t.Fatalf("unexpected params: %+v", f.songs.lastParams)
	}
	if f.songs.lastSort != (catalog.SortState{Field: catalog.SortByYear, Desc: true}) {
		t.Fatalf("unexpected sort: %+v", f.songs.lastSort)
	}

	var body struct {
		Songs []models.Song `json:"songs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Songs) != 1 {
		t.Fatalf("expected one song, got %d", len(body.Songs))
	}

	rec = f.do(http.MethodGet, target, "", nil)
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("expected cache hit, got %q", got)
	}
	if f.songs.calls != 1 {
		t.Fatalf("expected one service call, got %d", f.songs.calls)
	}
}

func TestSongSearchRejectsBadParameters(t *testing.T) {
	f := newFixture()
	for _, target := range []string{
		"/api/v1/songs?sort=tempo",
		"/api/v1/songs?yearFrom=nineteen",
		"/api/v1/songs?type=foxtrot",
		"/api/v1/songs?likedOnly=maybe",
	} {
		rec := f.do(http.MethodGet, target, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
	if f.songs.calls != 0 {
		t.Fatalf("service should not be called, got %d calls", f.songs.calls)
	}
}

func TestAnonymousTandaSearchIsEmpty(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/v1/tandas?includePublic=true", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.tandas.lastReq.Authenticated() {
		t.Fatalf("expected anonymous requester")
	}
	if !strings.Contains(rec.Body.String(), `"tandas":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/v1/tandas", "forged", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateTandaRequiresSession(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/v1/tandas", "", models.TandaInput{Title: "x"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateTandaValidatesPayload(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/v1/tandas", "owner", models.TandaInput{SongIDs: []int64{1}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title failed required") {
		t.Fatalf("expected validation detail, got %s", rec.Body.String())
	}
}

func TestCreateTandaInvalidatesListings(t *testing.T) {
	f := newFixture()
	f.do(http.MethodGet, "/api/v1/tandas?includeMine=true", "owner", nil)
	f.do(http.MethodGet, "/api/v1/tandas?includeMine=true", "owner", nil)
	if f.tandas.searches != 1 {
		t.Fatalf("expected cached second search, got %d searches", f.tandas.searches)
	}

	rec := f.do(http.MethodPost, "/api/v1/tandas", "owner", models.TandaInput{Title: "Di Sarli 40s", SongIDs: []int64{1, 2, 3}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.tandas.created.SongIDs) != 3 {
		t.Fatalf("expected three songs, got %v", f.tandas.created.SongIDs)
	}

	f.do(http.MethodGet, "/api/v1/tandas?includeMine=true", "owner", nil)
	if f.tandas.searches != 2 {
		t.Fatalf("expected search after invalidation, got %d searches", f.tandas.searches)
	}
}

func TestStoreErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{store.ErrTandaNotFound, http.StatusNotFound},
		{store.ErrForbidden, http.StatusForbidden},
		{store.ErrUnauthorized, http.StatusUnauthorized},
		{store.ErrAlreadyLiked, http.StatusConflict},
		{store.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		f := newFixture()
		f.tandas.getErr = tc.err
		rec := f.do(http.MethodGet, "/api/v1/tandas/1", "owner", nil)
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	f := newFixture()
	f.tandas.getErr = errors.New("pq: relation tandas does not exist")
	rec := f.do(http.MethodGet, "/api/v1/tandas/1", "owner", nil)
	if strings.Contains(rec.Body.String(), "relation") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestApproveSuggestionBody(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/suggestions/3/approve", "mod", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.suggestions.edits != nil {
		t.Fatalf("expected approval without edits")
	}

	rec = f.do(http.MethodPost, "/api/v1/suggestions/3/approve", "mod", models.SongInput{Title: "Bahía Blanca", Type: models.SongTypeTango})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.suggestions.edits == nil || f.suggestions.edits.Title != "Bahía Blanca" {
		t.Fatalf("expected edits to be forwarded, got %+v", f.suggestions.edits)
	}

	rec = f.do(http.MethodPost, "/api/v1/suggestions/3/approve", "mod", models.SongInput{Type: "foxtrot"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid edits, got %d", rec.Code)
	}
	if f.suggestions.calls != 2 {
		t.Fatalf("expected two approvals, got %d", f.suggestions.calls)
	}
}

func TestPlaylistVisibilityReportsCascade(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPut, "/api/v1/playlists/5/visibility", "owner", map[string]string{"visibility": "public"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		TandasUpdated int64 `json:"tandas_updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TandasUpdated != 2 {
		t.Fatalf("expected 2 cascaded tandas, got %d", body.TandasUpdated)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tandas", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
}

func TestSpotifyTrackLookup(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodGet, "/api/v1/spotify/tracks?q=pavadita", "owner", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-moderator, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/v1/spotify/tracks", "mod", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", rec.Code)
	}

	rec := f.do(http.MethodGet, "/api/v1/spotify/tracks?q=pavadita&limit=3", "mod", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"sp1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	f.songs.spotifyOff = true
	if rec := f.do(http.MethodGet, "/api/v1/spotify/tracks?q=pavadita", "mod", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when spotify is off, got %d", rec.Code)
	}
}

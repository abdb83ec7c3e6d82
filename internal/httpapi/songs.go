package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tandabase/internal/musicapi"
	"tandabase/shared/go/models"
)

type orchestraRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	IsModern bool   `json:"is_modern"`
}

type singerRequest struct {
	Name string     `json:"name" validate:"required,max=200"`
	Sex  models.Sex `json:"sex" validate:"omitempty,oneof=male female"`
}

func (s *Server) registerSongRoutes(r *mux.Router) {
	r.HandleFunc("/songs", s.handleSearchSongs).Methods(http.MethodGet)
	r.HandleFunc("/songs", authenticated(s.handleCreateSong)).Methods(http.MethodPost)
	r.HandleFunc("/songs/{id:[0-9]+}", s.handleGetSong).Methods(http.MethodGet)
	r.HandleFunc("/songs/{id:[0-9]+}", authenticated(s.handleUpdateSong)).Methods(http.MethodPut)
	r.HandleFunc("/songs/{id:[0-9]+}", authenticated(s.handleDeleteSong)).Methods(http.MethodDelete)
	r.HandleFunc("/songs/{id:[0-9]+}/like", authenticated(s.handleLikeSong)).Methods(http.MethodPost)
	r.HandleFunc("/songs/{id:[0-9]+}/like", authenticated(s.handleUnlikeSong)).Methods(http.MethodDelete)

	r.HandleFunc("/orchestras", s.handleListOrchestras).Methods(http.MethodGet)
	r.HandleFunc("/orchestras", authenticated(s.handleCreateOrchestra)).Methods(http.MethodPost)
	r.HandleFunc("/singers", s.handleListSingers).Methods(http.MethodGet)
	r.HandleFunc("/singers", authenticated(s.handleCreateSinger)).Methods(http.MethodPost)

	r.HandleFunc("/spotify/tracks", authenticated(s.handleSpotifyTracks)).Methods(http.MethodGet)
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	params, sort, err := parseSongSearch(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.cachedJSON(w, r, func() (any, error) {
		songs, err := s.songs.Search(r.Context(), requester(r), params, sort)
		if err != nil {
			return nil, err
		}
		return struct {
			Songs []models.Song `json:"songs"`
		}{Songs: songs}, nil
	})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	song, err := s.songs.Get(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var in models.SongInput
	if !s.decode(w, r, &in) {
		return
	}
	song, err := s.songs.Create(r.Context(), requester(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute)
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.SongInput
	if !s.decode(w, r, &in) {
		return
	}
	song, err := s.songs.Update(r.Context(), requester(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute, tandasRoute, playlistsRoute)
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.songs.Delete(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute, tandasRoute, playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikeSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.songs.Like(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikeSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.songs.Unlike(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListOrchestras(w http.ResponseWriter, r *http.Request) {
	orchestras, err := s.songs.Orchestras(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Orchestras []models.Orchestra `json:"orchestras"`
	}{Orchestras: orchestras})
}

func (s *Server) handleCreateOrchestra(w http.ResponseWriter, r *http.Request) {
	var req orchestraRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.songs.CreateOrchestra(r.Context(), requester(r), models.Orchestra{Name: req.Name, IsModern: req.IsModern})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleListSingers(w http.ResponseWriter, r *http.Request) {
	singers, err := s.songs.Singers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Singers []models.Singer `json:"singers"`
	}{Singers: singers})
}

func (s *Server) handleCreateSinger(w http.ResponseWriter, r *http.Request) {
	var req singerRequest
	if !s.decode(w, r, &req) {
		return
	}
	singer, err := s.songs.CreateSinger(r.Context(), requester(r), models.Singer{Name: req.Name, Sex: req.Sex})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, singer)
}

func (s *Server) handleSpotifyTracks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q parameter is required"})
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		limit = n
	}

	tracks, err := s.songs.SpotifyTracks(r.Context(), requester(r), query, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tracks []musicapi.Track `json:"tracks"`
	}{Tracks: tracks})
}

package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"tandabase/shared/go/models"
)

func (s *Server) registerPlaylistRoutes(r *mux.Router) {
	r.HandleFunc("/playlists", s.handleSearchPlaylists).Methods(http.MethodGet)
	r.HandleFunc("/playlists", authenticated(s.handleCreatePlaylist)).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}", s.handleGetPlaylist).Methods(http.MethodGet)
	r.HandleFunc("/playlists/{id:[0-9]+}", authenticated(s.handleUpdatePlaylist)).Methods(http.MethodPut)
	r.HandleFunc("/playlists/{id:[0-9]+}", authenticated(s.handleDeletePlaylist)).Methods(http.MethodDelete)
	r.HandleFunc("/playlists/{id:[0-9]+}/duplicate", authenticated(s.handleDuplicatePlaylist)).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}/visibility", authenticated(s.handlePlaylistVisibility)).Methods(http.MethodPut)
	r.HandleFunc("/playlists/{id:[0-9]+}/like", authenticated(s.handleLikePlaylist)).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}/like", authenticated(s.handleUnlikePlaylist)).Methods(http.MethodDelete)
	r.HandleFunc("/playlists/{id:[0-9]+}/shares", authenticated(s.handleListPlaylistShares)).Methods(http.MethodGet)
	r.HandleFunc("/playlists/{id:[0-9]+}/shares", authenticated(s.handleSharePlaylist)).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}/shares/{userId:[0-9]+}", authenticated(s.handleUnsharePlaylist)).Methods(http.MethodDelete)
}

func (s *Server) handleSearchPlaylists(w http.ResponseWriter, r *http.Request) {
	params, err := parsePlaylistSearch(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.cachedJSON(w, r, func() (any, error) {
		found, err := s.playlists.Search(r.Context(), requester(r), params)
		if err != nil {
			return nil, err
		}
		return struct {
			Playlists []models.Playlist `json:"playlists"`
		}{Playlists: found}, nil
	})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.playlists.Get(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var in models.PlaylistInput
	if !s.decode(w, r, &in) {
		return
	}
	p, err := s.playlists.Create(r.Context(), requester(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute, tandasRoute)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.PlaylistInput
	if !s.decode(w, r, &in) {
		return
	}
	p, err := s.playlists.Update(r.Context(), requester(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute, tandasRoute)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.playlists.Delete(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.playlists.Duplicate(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePlaylistVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req visibilityRequest
	if !s.decode(w, r, &req) {
		return
	}
	cascaded, err := s.playlists.SetVisibility(r.Context(), requester(r), id, req.Visibility)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute, tandasRoute)
	writeJSON(w, http.StatusOK, struct {
		Visibility    models.Visibility `json:"visibility"`
		TandasUpdated int64             `json:"tandas_updated"`
	}{Visibility: req.Visibility, TandasUpdated: cascaded})
}

func (s *Server) handleLikePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.playlists.Like(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.playlists.Unlike(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPlaylistShares(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	shares, err := s.playlists.Shares(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Shares []models.Share `json:"shares"`
	}{Shares: shares})
}

func (s *Server) handleSharePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req shareRequest
	if !s.decode(w, r, &req) {
		return
	}
	share, err := s.playlists.Share(r.Context(), requester(r), id, req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	writeJSON(w, http.StatusCreated, share)
}

func (s *Server) handleUnsharePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := s.playlists.Unshare(r.Context(), requester(r), id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

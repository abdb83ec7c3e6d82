package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"tandabase/internal/app/tandas"
	"tandabase/shared/go/models"
)

type visibilityRequest struct {
	Visibility models.Visibility `json:"visibility" validate:"required,oneof=private public shared"`
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type shareRequest struct {
	Username string `json:"username" validate:"required"`
}

func (s *Server) registerTandaRoutes(r *mux.Router) {
	r.HandleFunc("/tandas", s.handleSearchTandas).Methods(http.MethodGet)
	r.HandleFunc("/tandas", authenticated(s.handleCreateTanda)).Methods(http.MethodPost)
	r.HandleFunc("/tandas/{id:[0-9]+}", s.handleGetTanda).Methods(http.MethodGet)
	r.HandleFunc("/tandas/{id:[0-9]+}", authenticated(s.handleUpdateTanda)).Methods(http.MethodPut)
	r.HandleFunc("/tandas/{id:[0-9]+}", authenticated(s.handleDeleteTanda)).Methods(http.MethodDelete)
	r.HandleFunc("/tandas/{id:[0-9]+}/visibility", authenticated(s.handleTandaVisibility)).Methods(http.MethodPut)
	r.HandleFunc("/tandas/{id:[0-9]+}/songs/{songId:[0-9]+}/active", authenticated(s.handleTandaSongActive)).Methods(http.MethodPut)
	r.HandleFunc("/tandas/{id:[0-9]+}/like", authenticated(s.handleLikeTanda)).Methods(http.MethodPost)
	r.HandleFunc("/tandas/{id:[0-9]+}/like", authenticated(s.handleUnlikeTanda)).Methods(http.MethodDelete)
	r.HandleFunc("/tandas/{id:[0-9]+}/shares", authenticated(s.handleListTandaShares)).Methods(http.MethodGet)
	r.HandleFunc("/tandas/{id:[0-9]+}/shares", authenticated(s.handleShareTanda)).Methods(http.MethodPost)
	r.HandleFunc("/tandas/{id:[0-9]+}/shares/{userId:[0-9]+}", authenticated(s.handleUnshareTanda)).Methods(http.MethodDelete)
}

func (s *Server) handleSearchTandas(w http.ResponseWriter, r *http.Request) {
	params, err := parseTandaSearch(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.cachedJSON(w, r, func() (any, error) {
		found, err := s.tandas.Search(r.Context(), requester(r), params)
		if err != nil {
			return nil, err
		}
		return struct {
			Tandas []tandas.Detail `json:"tandas"`
		}{Tandas: found}, nil
	})
}

func (s *Server) handleGetTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := s.tandas.Get(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTanda(w http.ResponseWriter, r *http.Request) {
	var in models.TandaInput
	if !s.decode(w, r, &in) {
		return
	}
	t, err := s.tandas.Create(r.Context(), requester(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.TandaInput
	if !s.decode(w, r, &in) {
		return
	}
	t, err := s.tandas.Update(r.Context(), requester(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute, playlistsRoute)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.tandas.Delete(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute, playlistsRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTandaVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req visibilityRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.tandas.SetVisibility(r.Context(), requester(r), id, req.Visibility); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTandaSongActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "songId")
	if !ok {
		return
	}
	var req activeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.tandas.SetSongActive(r.Context(), requester(r), id, songID, *req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikeTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.tandas.Like(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikeTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.tandas.Unlike(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTandaShares(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	shares, err := s.tandas.Shares(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Shares []models.Share `json:"shares"`
	}{Shares: shares})
}

func (s *Server) handleShareTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req shareRequest
	if !s.decode(w, r, &req) {
		return
	}
	share, err := s.tandas.Share(r.Context(), requester(r), id, req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	writeJSON(w, http.StatusCreated, share)
}

func (s *Server) handleUnshareTanda(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := s.tandas.Unshare(r.Context(), requester(r), id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(tandasRoute)
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"tandabase/shared/go/models"
)

func (s *Server) registerSuggestionRoutes(r *mux.Router) {
	r.HandleFunc("/suggestions", authenticated(s.handleSubmitSuggestion)).Methods(http.MethodPost)
	r.HandleFunc("/suggestions", authenticated(s.handleListSuggestions)).Methods(http.MethodGet)
	r.HandleFunc("/suggestions/mine", authenticated(s.handleMySuggestions)).Methods(http.MethodGet)
	r.HandleFunc("/suggestions/{id:[0-9]+}", authenticated(s.handleGetSuggestion)).Methods(http.MethodGet)
	r.HandleFunc("/suggestions/{id:[0-9]+}/approve", authenticated(s.handleApproveSuggestion)).Methods(http.MethodPost)
	r.HandleFunc("/suggestions/{id:[0-9]+}/reject", authenticated(s.handleRejectSuggestion)).Methods(http.MethodPost)
}

func (s *Server) handleSubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	var in models.SongInput
	if !s.decode(w, r, &in) {
		return
	}
	sg, err := s.suggestions.Submit(r.Context(), requester(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sg)
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	status := models.SuggestionStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.SuggestionPending, models.SuggestionApproved, models.SuggestionApprovedEdited, models.SuggestionRejected:
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid status parameter"})
		return
	}
	list, err := s.suggestions.List(r.Context(), requester(r), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Suggestions []models.SongSuggestion `json:"suggestions"`
	}{Suggestions: list})
}

func (s *Server) handleMySuggestions(w http.ResponseWriter, r *http.Request) {
	list, err := s.suggestions.Mine(r.Context(), requester(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Suggestions []models.SongSuggestion `json:"suggestions"`
	}{Suggestions: list})
}

func (s *Server) handleGetSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sg, err := s.suggestions.Get(r.Context(), requester(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sg)
}

// handleApproveSuggestion accepts an optional body with edited song fields.
// An empty body approves the suggestion as submitted.
func (s *Server) handleApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var edits *models.SongInput
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(body) > 0 {
		var in models.SongInput
		if !s.decodeBytes(w, body, &in) {
			return
		}
		edits = &in
	}

	song, err := s.suggestions.Approve(r.Context(), requester(r), id, edits)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(songsRoute)
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleRejectSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.suggestions.Reject(r.Context(), requester(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

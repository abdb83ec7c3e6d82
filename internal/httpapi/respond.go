package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"tandabase/internal/app/songs"
	"tandabase/internal/musicapi"
	"tandabase/internal/querycache"
	"tandabase/internal/store"
	"tandabase/shared/go/logging"
	"tandabase/shared/go/middleware"
	"tandabase/shared/go/models"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps store sentinels onto HTTP statuses. Anything unknown is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrUnauthorized), errors.Is(err, store.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrForbidden), errors.Is(err, songs.ErrModeratorOnly):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrOrchestraNotFound),
		errors.Is(err, store.ErrTandaNotFound),
		errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrSuggestionNotFound),
		errors.Is(err, store.ErrIssueNotFound),
		errors.Is(err, store.ErrLikeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrUserExists),
		errors.Is(err, store.ErrAlreadyLiked),
		errors.Is(err, store.ErrSuggestionClosed):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, songs.ErrSpotifyDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, musicapi.ErrTrackNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode reads a JSON body into dst and validates its tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return s.check(w, dst)
}

func (s *Server) decodeBytes(w http.ResponseWriter, body []byte, dst any) bool {
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return s.check(w, dst)
}

func (s *Server) check(w http.ResponseWriter, dst any) bool {
	err := s.validate.Struct(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: details})
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	return false
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func requester(r *http.Request) models.Requester {
	return middleware.RequesterFrom(r.Context())
}

// authenticated wraps handlers that need a session.
func authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requester(r).Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		next(w, r)
	}
}

// cachedJSON serves a GET listing through the query cache. The key carries
// the requester so per-user visibility never leaks between sessions.
func (s *Server) cachedJSON(w http.ResponseWriter, r *http.Request, fn func() (any, error)) {
	key := querycache.Key{
		Route:  r.URL.Path,
		Query:  r.URL.Query().Encode(),
		UserID: requester(r).UserID,
	}
	body, hit, err := s.cache.Do(key, func() ([]byte, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// invalidate drops cached listings under each route prefix.
func (s *Server) invalidate(routes ...string) {
	for _, route := range routes {
		s.cache.InvalidatePrefix(route)
	}
}

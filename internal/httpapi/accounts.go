package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tandabase/shared/go/models"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type usernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

type roleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=user moderator admin"`
}

func (s *Server) registerAccountRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/me", authenticated(s.handleMe)).Methods(http.MethodGet)
	r.HandleFunc("/me/password", authenticated(s.handleChangePassword)).Methods(http.MethodPut)
	r.HandleFunc("/me/username", authenticated(s.handleChangeUsername)).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}/role", authenticated(s.handleSetRole)).Methods(http.MethodPut)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.users.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	session, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Me(r.Context(), requester(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.users.ChangePassword(r.Context(), requester(r), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.users.ChangeUsername(r.Context(), requester(r), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Owner names are embedded in cached tanda and playlist listings.
	s.invalidate(tandasRoute, playlistsRoute)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.users.SetRole(r.Context(), requester(r), id, req.Role); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": strconv.FormatInt(id, 10), "role": string(req.Role)})
}

package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"tandabase/shared/go/models"
)

type issueRequest struct {
	TypeID      int64  `json:"type_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=2000"`
}

type issueStatusRequest struct {
	Status models.IssueStatus `json:"status" validate:"required,oneof=pending resolved rejected"`
}

func (s *Server) registerIssueRoutes(r *mux.Router) {
	r.HandleFunc("/issue-types", s.handleIssueTypes).Methods(http.MethodGet)
	r.HandleFunc("/issues", authenticated(s.handleReportIssue)).Methods(http.MethodPost)
	r.HandleFunc("/issues", authenticated(s.handleListIssues)).Methods(http.MethodGet)
	r.HandleFunc("/issues/{id:[0-9]+}/status", authenticated(s.handleIssueStatus)).Methods(http.MethodPut)
}

func (s *Server) handleIssueTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.issues.Types(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		IssueTypes []models.IssueType `json:"issue_types"`
	}{IssueTypes: types})
}

func (s *Server) handleReportIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !s.decode(w, r, &req) {
		return
	}
	issue, err := s.issues.Report(r.Context(), requester(r), req.TypeID, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	status := models.IssueStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid status parameter"})
		return
	}
	list, err := s.issues.List(r.Context(), requester(r), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Issues []models.Issue `json:"issues"`
	}{Issues: list})
}

func (s *Server) handleIssueStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req issueStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.issues.SetStatus(r.Context(), requester(r), id, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

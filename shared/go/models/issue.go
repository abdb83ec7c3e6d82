package models

import "time"

// IssueStatus tracks the review state of an issue report.
type IssueStatus string

const (
	IssuePending  IssueStatus = "pending"
	IssueResolved IssueStatus = "resolved"
	IssueRejected IssueStatus = "rejected"
)

// Valid reports whether s is a known issue status.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssuePending, IssueResolved, IssueRejected:
		return true
	}
	return false
}

// IssueType classifies a report (wrong data, broken link, ...).
type IssueType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Issue is a user report about catalog data.
type Issue struct {
	ID          int64       `json:"id" db:"id"`
	Description string      `json:"description" db:"description"`
	Status      IssueStatus `json:"status" db:"status"`
	TypeID      int64       `json:"type_id" db:"type_id"`
	TypeName    string      `json:"type_name,omitempty" db:"type_name"`
	SubmittedBy int64       `json:"submitted_by" db:"submitted_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

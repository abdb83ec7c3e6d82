package store

import (
	"context"
	"fmt"
	"strings"

	"tandabase/shared/go/models"
)

// ListIssueTypes returns the report categories.
func (s *Store) ListIssueTypes(ctx context.Context) ([]models.IssueType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM issue_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list issue types: %w", err)
	}
	defer rows.Close()

	types := []models.IssueType{}
	for rows.Next() {
		var it models.IssueType
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan issue type: %w", err)
		}
		types = append(types, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue types: %w", err)
	}
	return types, nil
}

// CreateIssue files a report.
func (s *Store) CreateIssue(ctx context.Context, req models.Requester, typeID int64, description string) (models.Issue, error) {
	if err := requireAuth(req); err != nil {
		return models.Issue{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return models.Issue{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	issue := models.Issue{Description: description, Status: models.IssuePending, TypeID: typeID, SubmittedBy: req.UserID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO issues (description, status, type_id, submitted_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, description, issue.Status, typeID, req.UserID).Scan(&issue.ID, &issue.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Issue{}, fmt.Errorf("%w: unknown issue type %d", ErrInvalidInput, typeID)
		}
		return models.Issue{}, fmt.Errorf("insert issue: %w", err)
	}
	return issue, nil
}

// ListIssues returns reports for moderators, optionally filtered by status.
func (s *Store) ListIssues(ctx context.Context, req models.Requester, status models.IssueStatus) ([]models.Issue, error) {
	if !req.CanModerate() {
		return nil, moderationError(req)
	}

	var w whereBuilder
	if status != "" {
		w.add(fmt.Sprintf("i.status = %s", w.arg(status)))
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.description, i.status, i.type_id, it.name, i.submitted_by, i.created_at
		FROM issues i
		JOIN issue_types it ON it.id = i.type_id`+w.String()+`
		ORDER BY i.created_at DESC, i.id DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	issues := []models.Issue{}
	for rows.Next() {
		var issue models.Issue
		if err := rows.Scan(&issue.ID, &issue.Description, &issue.Status, &issue.TypeID, &issue.TypeName,
			&issue.SubmittedBy, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}

// SetIssueStatus records a moderator's decision on a report.
func (s *Store) SetIssueStatus(ctx context.Context, req models.Requester, id int64, status models.IssueStatus) error {
	if !req.CanModerate() {
		return moderationError(req)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown issue status %q", ErrInvalidInput, status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE issues SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update issue status: %w", err)
	}
	return affectedOrNotFound(res, ErrIssueNotFound)
}

package issues

import (
	"context"

	"tandabase/shared/go/models"
)

// Store captures the persistence needs for issue reports.
type Store interface {
	ListIssueTypes(ctx context.Context) ([]models.IssueType, error)
	CreateIssue(ctx context.Context, req models.Requester, typeID int64, description string) (models.Issue, error)
	ListIssues(ctx context.Context, req models.Requester, status models.IssueStatus) ([]models.Issue, error)
	SetIssueStatus(ctx context.Context, req models.Requester, id int64, status models.IssueStatus) error
}

// Service handles catalog issue reports.
type Service interface {
	Types(ctx context.Context) ([]models.IssueType, error)
	Report(ctx context.Context, req models.Requester, typeID int64, description string) (models.Issue, error)
	List(ctx context.Context, req models.Requester, status models.IssueStatus) ([]models.Issue, error)
	SetStatus(ctx context.Context, req models.Requester, id int64, status models.IssueStatus) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Types(ctx context.Context) ([]models.IssueType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListIssueTypes(ctx)
}

func (s *service) Report(ctx context.Context, req models.Requester, typeID int64, description string) (models.Issue, error) {
	if err := ctx.Err(); err != nil {
		return models.Issue{}, err
	}
	return s.store.CreateIssue(ctx, req, typeID, description)
}

func (s *service) List(ctx context.Context, req models.Requester, status models.IssueStatus) ([]models.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, req, status)
}

func (s *service) SetStatus(ctx context.Context, req models.Requester, id int64, status models.IssueStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetIssueStatus(ctx, req, id, status)
}

package tandas

import (
	"context"

	"tandabase/internal/app"
	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

// Store captures the persistence needs for tanda workflows.
type Store interface {
	catalog.Lookup
	ListTandas(ctx context.Context, req models.Requester, plan catalog.Plan) ([]models.Tanda, error)
	GetTanda(ctx context.Context, req models.Requester, id int64) (models.Tanda, error)
	CreateTanda(ctx context.Context, req models.Requester, in models.TandaInput) (models.Tanda, error)
	UpdateTanda(ctx context.Context, req models.Requester, id int64, in models.TandaInput) (models.Tanda, error)
	DeleteTanda(ctx context.Context, req models.Requester, id int64) error
	SetTandaVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) error
	SetTandaSongActive(ctx context.Context, req models.Requester, tandaID, songID int64, active bool) error
	Like(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
	Unlike(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) error
	Share(ctx context.Context, req models.Requester, target models.LikeTarget, id int64, username string) (models.Share, error)
	Unshare(ctx context.Context, req models.Requester, target models.LikeTarget, id, userID int64) error
	ListShares(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) ([]models.Share, error)
}

// Detail is a tanda together with its derived metadata.
type Detail struct {
	models.Tanda
	Metadata catalog.TandaMetadata `json:"metadata"`
}

// Service exposes tanda workflows.
type Service interface {
	Search(ctx context.Context, req models.Requester, params catalog.TandaSearch) ([]Detail, error)
	Get(ctx context.Context, req models.Requester, id int64) (Detail, error)
	Create(ctx context.Context, req models.Requester, in models.TandaInput) (Detail, error)
	Update(ctx context.Context, req models.Requester, id int64, in models.TandaInput) (Detail, error)
	Delete(ctx context.Context, req models.Requester, id int64) error
	SetVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) error
	SetSongActive(ctx context.Context, req models.Requester, tandaID, songID int64, active bool) error
	Like(ctx context.Context, req models.Requester, id int64) error
	Unlike(ctx context.Context, req models.Requester, id int64) error
	Share(ctx context.Context, req models.Requester, id int64, username string) (models.Share, error)
	Unshare(ctx context.Context, req models.Requester, id, userID int64) error
	Shares(ctx context.Context, req models.Requester, id int64) ([]models.Share, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func describe(t models.Tanda) Detail {
	return Detail{Tanda: t, Metadata: catalog.DescribeTanda(t)}
}

func (s *service) Search(ctx context.Context, req models.Requester, params catalog.TandaSearch) ([]Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := catalog.PlanTandaSearch(ctx, s.store, req, params)
	if err != nil {
		return nil, err
	}

	tandas, err := s.store.ListTandas(ctx, req, plan)
	if err != nil {
		return nil, err
	}
	tandas = catalog.FilterTandas(tandas, plan)

	app.RecordSearch(ctx, "tanda", plan, len(tandas))

	out := make([]Detail, 0, len(tandas))
	for _, t := range tandas {
		out = append(out, describe(t))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, req models.Requester, id int64) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, err
	}
	t, err := s.store.GetTanda(ctx, req, id)
	if err != nil {
		return Detail{}, err
	}
	return describe(t), nil
}

func (s *service) Create(ctx context.Context, req models.Requester, in models.TandaInput) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, err
	}
	t, err := s.store.CreateTanda(ctx, req, in)
	app.RecordWorkflow(ctx, "create_tanda", err)
	if err != nil {
		return Detail{}, err
	}
	return describe(t), nil
}

func (s *service) Update(ctx context.Context, req models.Requester, id int64, in models.TandaInput) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, err
	}
	t, err := s.store.UpdateTanda(ctx, req, id, in)
	app.RecordWorkflow(ctx, "update_tanda", err)
	if err != nil {
		return Detail{}, err
	}
	return describe(t), nil
}

func (s *service) Delete(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteTanda(ctx, req, id)
}

func (s *service) SetVisibility(ctx context.Context, req models.Requester, id int64, v models.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetTandaVisibility(ctx, req, id, v)
}

func (s *service) SetSongActive(ctx context.Context, req models.Requester, tandaID, songID int64, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetTandaSongActive(ctx, req, tandaID, songID, active)
}

func (s *service) Like(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Like(ctx, req, models.TargetTanda, id)
}

func (s *service) Unlike(ctx context.Context, req models.Requester, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Unlike(ctx, req, models.TargetTanda, id)
}

func (s *service) Share(ctx context.Context, req models.Requester, id int64, username string) (models.Share, error) {
	if err := ctx.Err(); err != nil {
		return models.Share{}, err
	}
	return s.store.Share(ctx, req, models.TargetTanda, id, username)
}

func (s *service) Unshare(ctx context.Context, req models.Requester, id, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Unshare(ctx, req, models.TargetTanda, id, userID)
}

func (s *service) Shares(ctx context.Context, req models.Requester, id int64) ([]models.Share, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListShares(ctx, req, models.TargetTanda, id)
}

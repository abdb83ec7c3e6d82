package users

import (
	"context"
	"time"

	"tandabase/shared/go/models"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	ChangePassword(ctx context.Context, req models.Requester, current, next string) error
	ChangeUsername(ctx context.Context, req models.Requester, username string) (models.User, error)
	SetRole(ctx context.Context, req models.Requester, userID int64, role models.Role) error
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, time.Time, error)
}

// Session is returned by a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Service exposes account workflows.
type Service interface {
	Signup(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (Session, error)
	Me(ctx context.Context, req models.Requester) (models.User, error)
	ChangePassword(ctx context.Context, req models.Requester, current, next string) error
	ChangeUsername(ctx context.Context, req models.Requester, username string) (models.User, error)
	SetRole(ctx context.Context, req models.Requester, userID int64, role models.Role) error
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, username, password string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.store.CreateUser(ctx, username, password)
}

func (s *service) Login(ctx context.Context, username, password string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: user}, nil
}

func (s *service) Me(ctx context.Context, req models.Requester) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.store.UserByID(ctx, req.UserID)
}

func (s *service) ChangePassword(ctx context.Context, req models.Requester, current, next string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.ChangePassword(ctx, req, current, next)
}

func (s *service) ChangeUsername(ctx context.Context, req models.Requester, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.store.ChangeUsername(ctx, req, username)
}

func (s *service) SetRole(ctx context.Context, req models.Requester, userID int64, role models.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetRole(ctx, req, userID, role)
}

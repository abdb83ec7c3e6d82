package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tandabase/shared/go/models"
)

var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

// CreateUser registers a new account with the default user role.
func (s *Store) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, Role: models.RoleUser}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, username, string(hash), user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the matching user.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var (
		user models.User
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, role, created_at, password_hash
		FROM users
		WHERE username = $1
	`, strings.TrimSpace(username)).Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID returns the account behind an authenticated requester.
func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, role, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) userIDByUsername(ctx context.Context, q queryer, username string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, strings.TrimSpace(username)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	return id, nil
}

// ChangePassword replaces the requester's password after checking the
// current one.
func (s *Store) ChangePassword(ctx context.Context, req models.Requester, current, next string) error {
	if err := requireAuth(req); err != nil {
		return err
	}
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = $1`, req.UserID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, string(newHash), req.UserID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangeUsername renames the requester's account.
func (s *Store) ChangeUsername(ctx context.Context, req models.Requester, username string) (models.User, error) {
	if err := requireAuth(req); err != nil {
		return models.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	var user models.User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET username = $1
		WHERE id = $2
		RETURNING id, username, role, created_at
	`, username, req.UserID).Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("update username: %w", err)
	}
	return user, nil
}

// SetRole changes the role of another account. Only admins may do this.
func (s *Store) SetRole(ctx context.Context, req models.Requester, userID int64, role models.Role) error {
	if err := requireAuth(req); err != nil {
		return err
	}
	if req.Role != models.RoleAdmin {
		return ErrForbidden
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return affectedOrNotFound(res, ErrUserNotFound)
}

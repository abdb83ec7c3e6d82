package store

import (
	"context"
	"database/sql"
	"fmt"

	"tandabase/shared/go/models"
)

var ownerTables = map[models.LikeTarget]string{
	models.TargetTanda:    "tandas",
	models.TargetPlaylist: "playlists",
}

// Share grants the named user read access to a tanda or playlist owned by
// the requester. A private entity becomes shared; sharing twice is a no-op.
func (s *Store) Share(ctx context.Context, req models.Requester, target models.LikeTarget, id int64, username string) (models.Share, error) {
	t, ok := shareTables[target]
	if !ok {
		return models.Share{}, fmt.Errorf("%w: cannot share %q", ErrInvalidInput, target)
	}
	owners := ownerTables[target]

	share := models.Share{Target: target, EntityID: id}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, owners, id, req, notFoundFor(target)); err != nil {
			return err
		}
		userID, err := s.userIDByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		if userID == req.UserID {
			return fmt.Errorf("%w: cannot share with yourself", ErrInvalidInput)
		}
		share.UserID = userID

		if err := tx.QueryRowContext(ctx, fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, user_id)
			VALUES ($1, $2)
			ON CONFLICT (%[2]s, user_id) DO UPDATE SET created_at = %[1]s.created_at
			RETURNING created_at`, t.table, t.column), id, userID).Scan(&share.CreatedAt); err != nil {
			return fmt.Errorf("insert share: %w", err)
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %s SET visibility = 'shared'
			WHERE id = $1 AND visibility = 'private'`, owners), id); err != nil {
			return fmt.Errorf("mark shared: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Share{}, err
	}
	share.Username = username
	return share, nil
}

// Unshare revokes a grant.
func (s *Store) Unshare(ctx context.Context, req models.Requester, target models.LikeTarget, id, userID int64) error {
	t, ok := shareTables[target]
	if !ok {
		return fmt.Errorf("%w: cannot share %q", ErrInvalidInput, target)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, ownerTables[target], id, req, notFoundFor(target)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`
			DELETE FROM %s
			WHERE %s = $1 AND user_id = $2`, t.table, t.column), id, userID)
		if err != nil {
			return fmt.Errorf("delete share: %w", err)
		}
		return affectedOrNotFound(res, ErrUserNotFound)
	})
}

// ListShares returns the grants of an entity owned by the requester.
func (s *Store) ListShares(ctx context.Context, req models.Requester, target models.LikeTarget, id int64) ([]models.Share, error) {
	t, ok := shareTables[target]
	if !ok {
		return nil, fmt.Errorf("%w: cannot share %q", ErrInvalidInput, target)
	}
	if err := checkOwner(ctx, s.db, ownerTables[target], id, req, notFoundFor(target)); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT sh.user_id, u.username, sh.created_at
		FROM %s sh
		JOIN users u ON u.id = sh.user_id
		WHERE sh.%s = $1
		ORDER BY u.username`, t.table, t.column), id)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.Share{}
	for rows.Next() {
		share := models.Share{Target: target, EntityID: id}
		if err := rows.Scan(&share.UserID, &share.Username, &share.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}
	return shares, nil
}

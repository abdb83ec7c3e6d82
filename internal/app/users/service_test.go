package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/shared/go/models"
)

var errBadLogin = errors.New("invalid credentials")

type stubStore struct {
	Store
	user models.User
}

func (s *stubStore) Authenticate(_ context.Context, username, password string) (models.User, error) {
	if username != s.user.Username || password != "milonguero" {
		return models.User{}, errBadLogin
	}
	return s.user, nil
}

type stubTokens struct{ issued []int64 }

func (s *stubTokens) Issue(user models.User) (string, time.Time, error) {
	s.issued = append(s.issued, user.ID)
	return "signed", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), nil
}

func TestLoginIssuesToken(t *testing.T) {
	tokens := &stubTokens{}
	svc := New(&stubStore{user: models.User{ID: 3, Username: "ana", Role: models.RoleUser}}, tokens)

	session, err := svc.Login(context.Background(), "ana", "milonguero")
	require.NoError(t, err)
	assert.Equal(t, "signed", session.Token)
	assert.Equal(t, int64(3), session.User.ID)
	assert.Equal(t, []int64{3}, tokens.issued)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	tokens := &stubTokens{}
	svc := New(&stubStore{user: models.User{ID: 3, Username: "ana"}}, tokens)

	_, err := svc.Login(context.Background(), "ana", "wrong")
	assert.ErrorIs(t, err, errBadLogin)
	assert.Empty(t, tokens.issued)
}

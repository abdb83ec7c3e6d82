package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/shared/go/models"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", time.Hour)

	token, expires, err := m.Issue(models.User{ID: 42, Username: "ana", Role: models.RoleModerator})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	req, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.Requester{UserID: 42, Role: models.RoleModerator}, req)
	assert.True(t, req.CanModerate())
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(models.User{ID: 42, Role: models.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuerManager := NewTokenManager("0123456789abcdef0123", time.Hour)
	token, _, err := issuerManager.Issue(models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-entirely", time.Hour).Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuerManager.Parse("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

package tandas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandabase/internal/catalog"
	"tandabase/shared/go/models"
)

type stubStore struct {
	Store

	orchestras map[string]int64
	tandas     []models.Tanda
	listed     bool
	createErr  error
}

func (s *stubStore) OrchestraIDByName(_ context.Context, name string) (int64, bool, error) {
	id, ok := s.orchestras[name]
	return id, ok, nil
}

func (s *stubStore) ListTandas(_ context.Context, _ models.Requester, plan catalog.Plan) ([]models.Tanda, error) {
	s.listed = true
	if plan.Empty {
		return []models.Tanda{}, nil
	}
	return s.tandas, nil
}

func (s *stubStore) CreateTanda(_ context.Context, req models.Requester, in models.TandaInput) (models.Tanda, error) {
	if s.createErr != nil {
		return models.Tanda{}, s.createErr
	}
	return models.Tanda{ID: 5, Title: in.Title, OwnerID: req.UserID, Songs: []models.TandaSong{}}, nil
}

var me = models.Requester{UserID: 42, Role: models.RoleUser}

func member(id int64, orchestraID int64, year int) models.TandaSong {
	y := year
	return models.TandaSong{Song: models.Song{
		ID:            id,
		Type:          models.SongTypeTango,
		RecordingYear: &y,
		Orchestra:     &models.Orchestra{ID: orchestraID, Name: "Orquesta"},
	}}
}

func TestSearchFiltersByOrchestraAfterFetch(t *testing.T) {
	store := &stubStore{
		orchestras: map[string]int64{"Carlos Di Sarli": 1},
		tandas: []models.Tanda{
			{ID: 1, Songs: []models.TandaSong{member(10, 1, 1941), member(11, 1, 1942)}},
			{ID: 2, Songs: []models.TandaSong{member(20, 2, 1938)}},
		},
	}

	got, err := New(store).Search(context.Background(), me, catalog.TandaSearch{
		Orchestra:       "Carlos Di Sarli",
		VisibilityFlags: catalog.VisibilityFlags{IncludeMine: true},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 2, got[0].Metadata.SongCount)
	assert.Equal(t, "1941-1942", got[0].Metadata.YearRange)
}

func TestSearchWithoutFlagsIsEmpty(t *testing.T) {
	store := &stubStore{tandas: []models.Tanda{{ID: 1}}}

	got, err := New(store).Search(context.Background(), me, catalog.TandaSearch{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSearchAnonymousIsEmpty(t *testing.T) {
	store := &stubStore{tandas: []models.Tanda{{ID: 1}}}

	got, err := New(store).Search(context.Background(), models.Requester{}, catalog.TandaSearch{
		VisibilityFlags: catalog.VisibilityFlags{IncludePublic: true},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateReturnsMetadata(t *testing.T) {
	got, err := New(&stubStore{}).Create(context.Background(), me, models.TandaInput{Title: "Di Sarli 40s"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.OwnerID)
	assert.Equal(t, catalog.NoYearRange, got.Metadata.YearRange)
}

func TestCreatePropagatesStoreError(t *testing.T) {
	boom := errors.New("song missing")
	_, err := New(&stubStore{createErr: boom}).Create(context.Background(), me, models.TandaInput{Title: "x"})
	assert.ErrorIs(t, err, boom)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tandabase/internal/store"
	"tandabase/shared/go/models"
)

const (
	demoUsername = "demo"
	demoPassword = "milonguero"
)

func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	user, err := ensureDemoUser(ctx, dataStore)
	if err != nil {
		return err
	}
	songIDs, err := ensureDemoCatalog(ctx, db)
	if err != nil {
		return err
	}
	return ensureDemoTandas(ctx, db, dataStore, user, songIDs)
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store) (models.User, error) {
	user, err := dataStore.CreateUser(ctx, demoUsername, demoPassword)
	if errors.Is(err, store.ErrUserExists) {
		user, err = dataStore.Authenticate(ctx, demoUsername, demoPassword)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("bootstrap demo user: %w", err)
	}
	return user, nil
}

type seedSong struct {
	Title     string
	Type      models.SongType
	Style     models.SongStyle
	Year      int
	Duration  int
	Orchestra string
	Singer    string
}

// ensureDemoCatalog inserts a small Di Sarli / D'Arienzo catalog into an
// empty database and returns the seeded song ids grouped by orchestra.
func ensureDemoCatalog(ctx context.Context, db *sql.DB) (map[string][]int64, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	orchestras := []string{"Carlos Di Sarli", "Juan D'Arienzo"}
	singers := map[string]models.Sex{
		"Roberto Rufino":  models.SexMale,
		"Alberto Podestá": models.SexMale,
		"Héctor Mauré":    models.SexMale,
	}
	songs := []seedSong{
		{Title: "Bahía Blanca", Type: models.SongTypeTango, Style: models.SongStyleMelodic, Year: 1957, Duration: 171, Orchestra: "Carlos Di Sarli"},
		{Title: "Don Juan", Type: models.SongTypeTango, Style: models.SongStyleRhythmic, Year: 1955, Duration: 165, Orchestra: "Carlos Di Sarli"},
		{Title: "Comme il faut", Type: models.SongTypeTango, Style: models.SongStyleMelodic, Year: 1955, Duration: 176, Orchestra: "Carlos Di Sarli"},
		{Title: "Tú, el cielo y tú", Type: models.SongTypeTango, Style: models.SongStyleMelodic, Year: 1942, Duration: 170, Orchestra: "Carlos Di Sarli", Singer: "Roberto Rufino"},
		{Title: "Nada", Type: models.SongTypeTango, Style: models.SongStyleDramatic, Year: 1944, Duration: 178, Orchestra: "Carlos Di Sarli", Singer: "Alberto Podestá"},
		{Title: "La cumparsita", Type: models.SongTypeTango, Style: models.SongStyleRhythmic, Year: 1951, Duration: 180, Orchestra: "Juan D'Arienzo"},
		{Title: "Paciencia", Type: models.SongTypeTango, Style: models.SongStyleRhythmic, Year: 1937, Duration: 168, Orchestra: "Juan D'Arienzo"},
		{Title: "El flete", Type: models.SongTypeTango, Style: models.SongStyleRhythmic, Year: 1936, Duration: 160, Orchestra: "Juan D'Arienzo"},
		{Title: "Humillación", Type: models.SongTypeTango, Style: models.SongStyleDramatic, Year: 1941, Duration: 172, Orchestra: "Juan D'Arienzo", Singer: "Héctor Mauré"},
		{Title: "Milonga vieja milonga", Type: models.SongTypeMilonga, Year: 1937, Duration: 150, Orchestra: "Juan D'Arienzo"},
		{Title: "Corazón de artista", Type: models.SongTypeVals, Year: 1940, Duration: 155, Orchestra: "Juan D'Arienzo"},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	orchestraIDs := make(map[string]int64, len(orchestras))
	for _, name := range orchestras {
		var id int64
		if err := tx.QueryRowContext(ctx, `INSERT INTO orchestras (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert demo orchestra %q: %w", name, err)
		}
		orchestraIDs[name] = id
	}

	singerIDs := make(map[string]int64, len(singers))
	for name, sex := range singers {
		var id int64
		if err := tx.QueryRowContext(ctx, `INSERT INTO singers (name, sex) VALUES ($1, $2) RETURNING id`, name, sex).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert demo singer %q: %w", name, err)
		}
		singerIDs[name] = id
	}

	byOrchestra := make(map[string][]int64)
	for _, song := range songs {
		var style any
		if song.Style != "" {
			style = song.Style
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO songs (title, type, style, recording_year, is_instrumental, duration, orchestra_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, song.Title, song.Type, style, song.Year, song.Singer == "", song.Duration, orchestraIDs[song.Orchestra]).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert demo song %q: %w", song.Title, err)
		}
		if song.Singer != "" {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO song_singers (song_id, singer_id, position) VALUES ($1, $2, 1)
			`, id, singerIDs[song.Singer]); err != nil {
				return nil, fmt.Errorf("link demo singer for %q: %w", song.Title, err)
			}
		}
		if song.Type == models.SongTypeTango {
			byOrchestra[song.Orchestra] = append(byOrchestra[song.Orchestra], id)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed tx: %w", err)
	}
	tx = nil

	log.Info().Int("songs", len(songs)).Msg("seeded demo catalog")
	return byOrchestra, nil
}

// ensureDemoTandas builds one tanda per seeded orchestra and a public
// playlist holding them, through the regular workflows.
func ensureDemoTandas(ctx context.Context, db *sql.DB, dataStore *store.Store, user models.User, songIDs map[string][]int64) error {
	if len(songIDs) == 0 {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tandas WHERE owner_id = $1`, user.ID).Scan(&count); err != nil {
		return fmt.Errorf("count demo tandas: %w", err)
	}
	if count > 0 {
		return nil
	}

	req := models.Requester{UserID: user.ID, Role: user.Role}
	var tandaIDs []int64
	for _, orchestra := range []string{"Carlos Di Sarli", "Juan D'Arienzo"} {
		ids := songIDs[orchestra]
		if len(ids) > 4 {
			ids = ids[:4]
		}
		t, err := dataStore.CreateTanda(ctx, req, models.TandaInput{
			Title:      orchestra + " tangos",
			Visibility: models.VisibilityPrivate,
			SongIDs:    ids,
		})
		if err != nil {
			return fmt.Errorf("create demo tanda: %w", err)
		}
		tandaIDs = append(tandaIDs, t.ID)
	}

	if _, err := dataStore.CreatePlaylist(ctx, req, models.PlaylistInput{
		Title:      "Sunday milonga",
		Visibility: models.VisibilityPublic,
		TandaIDs:   tandaIDs,
	}); err != nil {
		return fmt.Errorf("create demo playlist: %w", err)
	}
	return nil
}

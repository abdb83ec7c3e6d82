package catalog

import (
	"context"

	"tandabase/shared/go/models"
)

type fakeLookup struct {
	orchestras map[string]int64
	titles     map[int64][]string
	singers    map[string][]int64
	liked      map[models.LikeTarget][]int64
	shared     map[models.LikeTarget][]int64
	err        error

	calls []string
}

func (f *fakeLookup) OrchestraIDByName(_ context.Context, name string) (int64, bool, error) {
	f.calls = append(f.calls, "orchestra:"+name)
	if f.err != nil {
		return 0, false, f.err
	}
	id, ok := f.orchestras[name]
	return id, ok, nil
}

func (f *fakeLookup) SongTitlesByOrchestra(_ context.Context, id int64) ([]string, error) {
	f.calls = append(f.calls, "titles")
	return f.titles[id], f.err
}

func (f *fakeLookup) SongIDsBySinger(_ context.Context, name string) ([]int64, error) {
	f.calls = append(f.calls, "singer:"+name)
	return f.singers[name], f.err
}

func (f *fakeLookup) LikedIDs(_ context.Context, _ int64, target models.LikeTarget) ([]int64, error) {
	f.calls = append(f.calls, "liked:"+string(target))
	return f.liked[target], f.err
}

func (f *fakeLookup) SharedIDs(_ context.Context, _ int64, target models.LikeTarget) ([]int64, error) {
	f.calls = append(f.calls, "shared:"+string(target))
	return f.shared[target], f.err
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func song(id int64, title string, typ models.SongType, year int, orchestra string, singers ...string) models.Song {
	s := models.Song{ID: id, Title: title, Type: typ, Singers: []models.Singer{}}
	if year != 0 {
		s.RecordingYear = intPtr(year)
	}
	if orchestra != "" {
		s.Orchestra = &models.Orchestra{ID: int64(len(orchestra)), Name: orchestra}
	}
	for i, name := range singers {
		s.Singers = append(s.Singers, models.Singer{ID: int64(i + 1), Name: name})
	}
	return s
}

func tanda(id int64, songs ...models.Song) models.Tanda {
	t := models.Tanda{ID: id, Title: "tanda", Visibility: models.VisibilityPublic}
	for i, s := range songs {
		t.Songs = append(t.Songs, models.TandaSong{Position: i + 1, IsActive: true, Song: s})
	}
	return t
}

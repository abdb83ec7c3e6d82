package models

import "time"

// Visibility controls who can read a tanda or playlist.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
	VisibilityShared  Visibility = "shared"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityShared:
		return true
	}
	return false
}

// TandaSong is a song placed at a position inside a tanda.
type TandaSong struct {
	Position int  `json:"position" db:"position"`
	IsActive bool `json:"is_active" db:"is_active"`
	Song     Song `json:"song"`
}

// Tanda is an ordered set of songs played together.
type Tanda struct {
	ID         int64       `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	Comments   string      `json:"comments,omitempty" db:"comments"`
	Visibility Visibility  `json:"visibility" db:"visibility"`
	OwnerID    int64       `json:"owner_id" db:"owner_id"`
	Owner      string      `json:"owner" db:"owner"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	Songs      []TandaSong `json:"songs"`
	Liked      bool        `json:"liked,omitempty"`
}

// MemberSongs returns the songs of the tanda in position order.
func (t Tanda) MemberSongs() []Song {
	songs := make([]Song, 0, len(t.Songs))
	for _, ts := range t.Songs {
		songs = append(songs, ts.Song)
	}
	return songs
}

// Duration sums the known durations of the tanda's songs.
func (t Tanda) Duration() int {
	total := 0
	for _, ts := range t.Songs {
		if ts.Song.Duration != nil {
			total += *ts.Song.Duration
		}
	}
	return total
}

// TandaInput carries the writable fields of a tanda.
type TandaInput struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Comments   string     `json:"comments,omitempty" validate:"max=2000"`
	Visibility Visibility `json:"visibility" validate:"omitempty,oneof=private public shared"`
	SongIDs    []int64    `json:"song_ids" validate:"dive,gt=0"`
}

package models

import "time"

// PlaylistTanda is a tanda placed at a position inside a playlist.
type PlaylistTanda struct {
	Position int   `json:"position" db:"position"`
	Tanda    Tanda `json:"tanda"`
}

// Playlist is an ordered set of tandas.
type Playlist struct {
	ID            int64           `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description,omitempty" db:"description"`
	SpotifyLink   string          `json:"spotify_link,omitempty" db:"spotify_link"`
	Visibility    Visibility      `json:"visibility" db:"visibility"`
	OwnerID       int64           `json:"owner_id" db:"owner_id"`
	Owner         string          `json:"owner" db:"owner"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	Tandas        []PlaylistTanda `json:"tandas"`
	TotalDuration int             `json:"total_duration"`
	Liked         bool            `json:"liked,omitempty"`
}

// ComputeTotalDuration sums song durations across every referenced tanda.
func (p *Playlist) ComputeTotalDuration() int {
	total := 0
	for _, pt := range p.Tandas {
		total += pt.Tanda.Duration()
	}
	p.TotalDuration = total
	return total
}

// PlaylistInput carries the writable fields of a playlist.
type PlaylistInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	SpotifyLink string     `json:"spotify_link,omitempty" validate:"omitempty,url"`
	Visibility  Visibility `json:"visibility" validate:"omitempty,oneof=private public shared"`
	TandaIDs    []int64    `json:"tanda_ids" validate:"dive,gt=0"`
}

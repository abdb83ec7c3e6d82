package models

import "time"

// LikeTarget names the kind of entity a like or share row points at.
type LikeTarget string

const (
	TargetSong     LikeTarget = "song"
	TargetTanda    LikeTarget = "tanda"
	TargetPlaylist LikeTarget = "playlist"
)

// Share grants a user read access to a tanda or playlist.
type Share struct {
	Target    LikeTarget `json:"target"`
	EntityID  int64      `json:"entity_id" db:"entity_id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Username  string     `json:"username,omitempty" db:"username"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

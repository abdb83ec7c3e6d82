package models

import "time"

// SuggestionStatus tracks the moderation state of a song suggestion.
type SuggestionStatus string

const (
	SuggestionPending        SuggestionStatus = "pending"
	SuggestionApproved       SuggestionStatus = "approved"
	SuggestionApprovedEdited SuggestionStatus = "approved-edited"
	SuggestionRejected       SuggestionStatus = "rejected"
)

// SongSuggestion is a user-submitted candidate song awaiting review.
type SongSuggestion struct {
	ID             int64            `json:"id" db:"id"`
	Title          string           `json:"title" db:"title"`
	Type           SongType         `json:"type" db:"type"`
	Style          SongStyle        `json:"style,omitempty" db:"style"`
	RecordingYear  *int             `json:"recording_year,omitempty" db:"recording_year"`
	IsInstrumental *bool            `json:"is_instrumental,omitempty" db:"is_instrumental"`
	SpotifyID      string           `json:"spotify_id,omitempty" db:"spotify_id"`
	Duration       *int             `json:"duration,omitempty" db:"duration"`
	OrchestraID    *int64           `json:"orchestra_id,omitempty" db:"orchestra_id"`
	SingerIDs      []int64          `json:"singer_ids"`
	Status         SuggestionStatus `json:"status" db:"status"`
	SubmittedBy    int64            `json:"submitted_by" db:"submitted_by"`
	SongID         *int64           `json:"song_id,omitempty" db:"song_id"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// SongInput converts the suggestion into the fields of a new song.
func (s SongSuggestion) SongInput() SongInput {
	return SongInput{
		Title:          s.Title,
		Type:           s.Type,
		Style:          s.Style,
		RecordingYear:  s.RecordingYear,
		IsInstrumental: s.IsInstrumental,
		SpotifyID:      s.SpotifyID,
		Duration:       s.Duration,
		OrchestraID:    s.OrchestraID,
		SingerIDs:      s.SingerIDs,
	}
}

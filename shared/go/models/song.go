package models

// SongType is the rhythm family of a recording.
type SongType string

const (
	SongTypeTango   SongType = "tango"
	SongTypeMilonga SongType = "milonga"
	SongTypeVals    SongType = "vals"
)

// Valid reports whether t is one of the known song types.
func (t SongType) Valid() bool {
	switch t {
	case SongTypeTango, SongTypeMilonga, SongTypeVals:
		return true
	}
	return false
}

// SongStyle only carries meaning for tangos.
type SongStyle string

const (
	SongStyleRhythmic SongStyle = "rhythmic"
	SongStyleMelodic  SongStyle = "melodic"
	SongStyleDramatic SongStyle = "dramatic"
)

// Valid reports whether s is one of the known styles.
func (s SongStyle) Valid() bool {
	switch s {
	case SongStyleRhythmic, SongStyleMelodic, SongStyleDramatic:
		return true
	}
	return false
}

// Sex of a singer.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Orchestra is the recording orchestra of a song.
type Orchestra struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsModern bool   `json:"is_modern" db:"is_modern"`
}

// Singer is a vocalist credited on a recording.
type Singer struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Sex  Sex    `json:"sex" db:"sex"`
}

// Song is a single recording in the catalog.
type Song struct {
	ID             int64      `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Type           SongType   `json:"type" db:"type"`
	Style          SongStyle  `json:"style,omitempty" db:"style"`
	RecordingYear  *int       `json:"recording_year,omitempty" db:"recording_year"`
	IsInstrumental *bool      `json:"is_instrumental,omitempty" db:"is_instrumental"`
	SpotifyID      string     `json:"spotify_id,omitempty" db:"spotify_id"`
	Duration       *int       `json:"duration,omitempty" db:"duration"`
	Orchestra      *Orchestra `json:"orchestra,omitempty"`
	Singers        []Singer   `json:"singers"`
	Liked          bool       `json:"liked,omitempty"`
}

// Year returns the recording year or 0 when unknown.
func (s Song) Year() int {
	if s.RecordingYear == nil {
		return 0
	}
	return *s.RecordingYear
}

// Instrumental reports whether the song is flagged instrumental.
func (s Song) Instrumental() bool {
	return s.IsInstrumental != nil && *s.IsInstrumental
}

// OrchestraName returns the orchestra name or an empty string.
func (s Song) OrchestraName() string {
	if s.Orchestra == nil {
		return ""
	}
	return s.Orchestra.Name
}

// FirstSingerName returns the name of the first credited singer, if any.
func (s Song) FirstSingerName() string {
	if len(s.Singers) == 0 {
		return ""
	}
	return s.Singers[0].Name
}

// SongInput carries the writable fields of a song.
type SongInput struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Type           SongType  `json:"type" validate:"required,oneof=tango milonga vals"`
	Style          SongStyle `json:"style,omitempty" validate:"omitempty,oneof=rhythmic melodic dramatic"`
	RecordingYear  *int      `json:"recording_year,omitempty" validate:"omitempty,min=1880,max=2100"`
	IsInstrumental *bool     `json:"is_instrumental,omitempty"`
	SpotifyID      string    `json:"spotify_id,omitempty" validate:"omitempty,max=64"`
	Duration       *int      `json:"duration,omitempty" validate:"omitempty,min=0"`
	OrchestraID    *int64    `json:"orchestra_id,omitempty"`
	SingerIDs      []int64   `json:"singer_ids,omitempty"`
}

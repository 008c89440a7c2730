package models

import "time"

type AnnouncementType string

const (
	AnnouncementGeneral   AnnouncementType = "announcement"
	AnnouncementMatchInfo AnnouncementType = "match_info"
	AnnouncementImage     AnnouncementType = "image"
	AnnouncementJersey    AnnouncementType = "jersey"
)

func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementGeneral, AnnouncementMatchInfo, AnnouncementImage, AnnouncementJersey:
		return true
	}
	return false
}

type Announcement struct {
	ID           string           `json:"id" db:"id"`
	TournamentID string           `json:"tournament_id" db:"tournament_id"`
	AuthorID     string           `json:"author_id" db:"author_id"`
	Title        string           `json:"title" db:"title"`
	Content      string           `json:"content" db:"content"`
	Type         AnnouncementType `json:"type" db:"type"`
	ImageURL     *string          `json:"image_url,omitempty" db:"image_url"`
	IsPinned     bool             `json:"is_pinned" db:"is_pinned"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`

	Author *User `json:"author,omitempty" db:"-"`
}

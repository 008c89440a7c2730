package models

import "time"

// Tournament представляет турнир.
type Tournament struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Code        string     `json:"code" db:"code"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatorID   string     `json:"creator_id" db:"creator_id"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	MaxPlayers  *int       `json:"max_players,omitempty" db:"max_players"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	LogoKey     *string    `json:"-" db:"logo_key"`
	LogoURL     *string    `json:"logo_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Admins        []TournamentAdmin  `json:"admins,omitempty" db:"-"`
	Players       []TournamentPlayer `json:"players,omitempty" db:"-"`
	Teams         []Team             `json:"teams,omitempty" db:"-"`
	Announcements []Announcement     `json:"announcements,omitempty" db:"-"`
	Categories    []PlayerCategory   `json:"categories,omitempty" db:"-"`
}

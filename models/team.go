package models

import "time"

type Team struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Color        *string   `json:"color,omitempty" db:"color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Members []TeamMember `json:"members" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamMember struct {
	ID         string    `json:"id" db:"id"`
	TeamID     string    `json:"team_id" db:"team_id"`
	PlayerID   string    `json:"player_id" db:"player_id"`
	Role       *string   `json:"role,omitempty" db:"role"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`

	Player *TournamentPlayer `json:"player,omitempty" db:"-"`
}

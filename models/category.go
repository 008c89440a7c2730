package models

import "time"

// PlayerCategory - категория игроков с правилом минимума на команду.
type PlayerCategory struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	MinPerTeam   int       `json:"min_per_team" db:"min_per_team"`
	MaxPerTeam   *int      `json:"max_per_team,omitempty" db:"max_per_team"`
	Color        *string   `json:"color,omitempty" db:"color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

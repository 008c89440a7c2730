package models

import "time"

type AdminRole string

const (
	AdminRoleCreator AdminRole = "creator"
	AdminRoleAdmin   AdminRole = "admin"
)

type TournamentAdmin struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Role         AdminRole `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}

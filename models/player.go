package models

import "time"

// TournamentPlayer - запись в ростере турнира. UserID пуст для гостевых игроков,
// добавленных администратором вручную.
type TournamentPlayer struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	UserID       *string   `json:"user_id,omitempty" db:"user_id"`
	Name         *string   `json:"name,omitempty" db:"name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Category     *string   `json:"category" db:"category"`
	JoinedAt     time.Time `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}

func (p TournamentPlayer) DisplayName() string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return "Player " + p.ID
}

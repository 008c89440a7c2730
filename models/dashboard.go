package models

// DashboardStats - сводка для главной страницы пользователя.
type DashboardStats struct {
	CreatedTournaments int `json:"created_tournaments"`
	JoinedTournaments  int `json:"joined_tournaments"`
	ActiveTournaments  int `json:"active_tournaments"`
	TeamsPlayedOn      int `json:"teams_played_on"`
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/playday/tournament-organizer/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamMemberConflict    = errors.New("player is already a member of this team")
	ErrTeamMemberInvalid     = errors.New("invalid player reference for team member")
	ErrTeamTournamentInvalid = errors.New("invalid tournament reference for team")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
	AddMembers(ctx context.Context, exec SQLExecutor, teamID string, playerIDs []string) ([]models.TeamMember, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) (int64, error)
	DeleteMembershipsByPlayer(ctx context.Context, exec SQLExecutor, playerID string) error
	Delete(ctx context.Context, id string) error
	UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, team.TournamentID, team.Name, team.Color).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT id, tournament_id, name, color, logo_key, created_at, updated_at FROM teams WHERE id = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.Color, &t.LogoKey, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}

	members, err := r.listMembers(ctx, `m.team_id = $1`, id)
	if err != nil {
		return nil, err
	}
	t.Members = members[t.ID]
	if t.Members == nil {
		t.Members = make([]models.TeamMember, 0)
	}
	return t, nil
}

// ListByTournament возвращает команды в порядке создания вместе с составами.
func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, color, logo_key, created_at, updated_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY created_at ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Color, &t.LogoKey, &t.CreatedAt, &t.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	members, err := r.listMembers(ctx, `t.tournament_id = $1`, tournamentID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Members = members[teams[i].ID]
		if teams[i].Members == nil {
			teams[i].Members = make([]models.TeamMember, 0)
		}
	}
	return teams, nil
}

// listMembers группирует участников по team_id. where подставляется как есть, только константы.
func (r *postgresTeamRepository) listMembers(ctx context.Context, where string, arg interface{}) (map[string][]models.TeamMember, error) {
	query := `
		SELECT m.id, m.team_id, m.player_id, m.role, m.assigned_at,
		       ` + playerColumns + `, ` + userColumns + `
		FROM team_members m
		JOIN teams t ON t.id = m.team_id
		JOIN tournament_players p ON p.id = m.player_id
		LEFT JOIN users u ON u.id = p.user_id
		WHERE ` + where + `
		ORDER BY m.assigned_at ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.TeamMember)
	for rows.Next() {
		var m models.TeamMember
		var p models.TournamentPlayer
		var u joinedUser
		dest := []interface{}{
			&m.ID, &m.TeamID, &m.PlayerID, &m.Role, &m.AssignedAt,
			&p.ID, &p.TournamentID, &p.UserID, &p.Name, &p.Phone, &p.Category, &p.JoinedAt,
		}
		if scanErr := rows.Scan(append(dest, u.dest()...)...); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", scanErr)
		}
		p.User = u.user()
		m.Player = &p
		out[m.TeamID] = append(out[m.TeamID], m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return out, nil
}

// AddMembers вставляет всех игроков одним запросом.
func (r *postgresTeamRepository) AddMembers(ctx context.Context, exec SQLExecutor, teamID string, playerIDs []string) ([]models.TeamMember, error) {
	members := make([]models.TeamMember, 0, len(playerIDs))
	if len(playerIDs) == 0 {
		return members, nil
	}

	query := `
		INSERT INTO team_members (team_id, player_id)
		SELECT $1, unnest($2::uuid[])
		RETURNING id, team_id, player_id, role, assigned_at`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, teamID, pq.Array(playerIDs))
	if err != nil {
		return nil, r.handleTeamError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TeamMember
		if scanErr := rows.Scan(&m.ID, &m.TeamID, &m.PlayerID, &m.Role, &m.AssignedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan inserted team member: %w", scanErr)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, r.handleTeamError(err)
	}
	return members, nil
}

// DeleteByTournament removes every team of the tournament; memberships go with them via ON DELETE CASCADE.
func (r *postgresTeamRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete teams for tournament %s: %w", tournamentID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresTeamRepository) DeleteMembershipsByPlayer(ctx context.Context, exec SQLExecutor, playerID string) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM team_members WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete memberships of player %s: %w", playerID, err)
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1, updated_at = NOW() WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "team_members_team_id_player_id_key" {
				return ErrTeamMemberConflict
			}
		case pqForeignKeyViolation:
			switch pqErr.Constraint {
			case "team_members_player_id_fkey":
				return ErrTeamMemberInvalid
			case "teams_tournament_id_fkey":
				return ErrTeamTournamentInvalid
			}
		}
	}
	return err
}

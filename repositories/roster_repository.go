package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
)

var (
	ErrPlayerNotFound          = errors.New("player not found in tournament")
	ErrPlayerAlreadyJoined     = errors.New("user already joined this tournament")
	ErrPlayerTournamentInvalid = errors.New("invalid tournament reference for player")
	ErrPlayerUserInvalid       = errors.New("invalid user reference for player")
)

// PlayerRepository хранит ростер турнира. ListByTournament служит источником игроков
// для распределения по командам.
type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.TournamentPlayer) error
	GetByID(ctx context.Context, id string) (*models.TournamentPlayer, error)
	GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentPlayer, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentPlayer, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	UpdateCategory(ctx context.Context, id string, category *string) (*models.TournamentPlayer, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `p.id, p.tournament_id, p.user_id, p.name, p.phone, p.category, p.joined_at`

func scanPlayer(row rowScanner, p *models.TournamentPlayer) error {
	var u joinedUser
	dest := append([]interface{}{
		&p.ID, &p.TournamentID, &p.UserID, &p.Name, &p.Phone, &p.Category, &p.JoinedAt,
	}, u.dest()...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	p.User = u.user()
	return nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.TournamentPlayer) error {
	query := `
		INSERT INTO tournament_players (tournament_id, user_id, name, phone, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, joined_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.TournamentID, p.UserID, p.Name, p.Phone, p.Category,
	).Scan(&p.ID, &p.JoinedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.TournamentPlayer, error) {
	query := `
		SELECT ` + playerColumns + `, ` + userColumns + `
		FROM tournament_players p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`

	p := &models.TournamentPlayer{}
	if err := scanPlayer(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentPlayer, error) {
	query := `
		SELECT ` + playerColumns + `, ` + userColumns + `
		FROM tournament_players p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.tournament_id = $1 AND p.user_id = $2`

	p := &models.TournamentPlayer{}
	if err := scanPlayer(r.db.QueryRowContext(ctx, query, tournamentID, userID), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player for user %s in tournament %s: %w", userID, tournamentID, err)
	}
	return p, nil
}

// ListByTournament returns the roster in join order, guests included.
func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentPlayer, error) {
	query := `
		SELECT ` + playerColumns + `, ` + userColumns + `
		FROM tournament_players p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.tournament_id = $1
		ORDER BY p.joined_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]models.TournamentPlayer, 0)
	for rows.Next() {
		var p models.TournamentPlayer
		if scanErr := scanPlayer(rows, &p); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_players WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players for tournament %s: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) UpdateCategory(ctx context.Context, id string, category *string) (*models.TournamentPlayer, error) {
	query := `UPDATE tournament_players SET category = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, category, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update player category: %w", err)
	}
	if err := checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM tournament_players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "tournament_players_tournament_id_user_id_key" {
				return ErrPlayerAlreadyJoined
			}
		case pqForeignKeyViolation:
			switch pqErr.Constraint {
			case "tournament_players_tournament_id_fkey":
				return ErrPlayerTournamentInvalid
			case "tournament_players_user_id_fkey":
				return ErrPlayerUserInvalid
			}
		}
	}
	return err
}

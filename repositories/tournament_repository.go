package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentCodeConflict = errors.New("tournament code already taken")
	ErrTournamentInvalidOwner = errors.New("invalid creator reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	GetByCode(ctx context.Context, code string) (*models.Tournament, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Tournament, error)
	ListJoined(ctx context.Context, userID string) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateLogoKey(ctx context.Context, tournamentID string, logoKey *string) error
	GetUserStats(ctx context.Context, userID string) (*models.DashboardStats, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, code, description, creator_id, start_date, end_date,
	max_players, is_active, created_at, updated_at, logo_key`

func scanTournament(row rowScanner, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Code, &t.Description, &t.CreatorID, &t.StartDate, &t.EndDate,
		&t.MaxPlayers, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &t.LogoKey,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, code, description, creator_id, start_date, end_date, max_players, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.Code, t.Description, t.CreatorID, t.StartDate, t.EndDate, t.MaxPlayers, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	if err := scanTournament(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

// GetByCode ищет турнир по коду приглашения. Код сравнивается без учёта регистра.
func (r *postgresTournamentRepository) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE code = UPPER($1)`

	t := &models.Tournament{}
	if err := scanTournament(r.db.QueryRowContext(ctx, query, code), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by code: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByCreator(ctx context.Context, userID string) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE creator_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListJoined returns active tournaments the user plays in but did not create.
func (r *postgresTournamentRepository) ListJoined(ctx context.Context, userID string) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE is_active = TRUE
		  AND creator_id <> $1
		  AND id IN (SELECT tournament_id FROM tournament_players WHERE user_id = $1)
		ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresTournamentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			start_date = $3,
			end_date = $4,
			max_players = $5,
			is_active = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.MaxPlayers, t.IsActive, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, tournamentID string, logoKey *string) error {
	query := `UPDATE tournaments SET logo_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) GetUserStats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM tournaments WHERE creator_id = $1),
			(SELECT COUNT(*) FROM tournaments t
				WHERE t.creator_id <> $1
				  AND EXISTS (SELECT 1 FROM tournament_players p WHERE p.tournament_id = t.id AND p.user_id = $1)),
			(SELECT COUNT(*) FROM tournaments t
				WHERE t.is_active = TRUE
				  AND EXISTS (SELECT 1 FROM tournament_players p WHERE p.tournament_id = t.id AND p.user_id = $1)),
			(SELECT COUNT(*) FROM team_members m
				JOIN tournament_players p ON p.id = m.player_id
				WHERE p.user_id = $1)`

	stats := &models.DashboardStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.CreatedTournaments,
		&stats.JoinedTournaments,
		&stats.ActiveTournaments,
		&stats.TeamsPlayedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats for user %s: %w", userID, err)
	}
	return stats, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "tournaments_code_key" {
				return ErrTournamentCodeConflict
			}
		case pqForeignKeyViolation:
			if pqErr.Constraint == "tournaments_creator_id_fkey" {
				return ErrTournamentInvalidOwner
			}
		}
	}
	return err
}

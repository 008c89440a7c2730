package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
)

var (
	ErrAdminNotFound      = errors.New("tournament admin not found")
	ErrAdminAlreadyExists = errors.New("user is already an admin of this tournament")
)

type AdminRepository interface {
	Create(ctx context.Context, exec SQLExecutor, admin *models.TournamentAdmin) error
	GetByID(ctx context.Context, id string) (*models.TournamentAdmin, error)
	GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentAdmin, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentAdmin, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, exec SQLExecutor, tournamentID, userID string) error
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const adminColumns = `a.id, a.tournament_id, a.user_id, a.role, a.created_at`

func scanAdmin(row rowScanner, a *models.TournamentAdmin) error {
	var u joinedUser
	dest := append([]interface{}{&a.ID, &a.TournamentID, &a.UserID, &a.Role, &a.CreatedAt}, u.dest()...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.User = u.user()
	return nil
}

func (r *postgresAdminRepository) Create(ctx context.Context, exec SQLExecutor, a *models.TournamentAdmin) error {
	query := `
		INSERT INTO tournament_admins (tournament_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, a.TournamentID, a.UserID, a.Role).Scan(&a.ID, &a.CreatedAt)
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
		return ErrAdminAlreadyExists
	}
	return fmt.Errorf("failed to create tournament admin: %w", err)
}

func (r *postgresAdminRepository) GetByID(ctx context.Context, id string) (*models.TournamentAdmin, error) {
	query := `
		SELECT ` + adminColumns + `, ` + userColumns + `
		FROM tournament_admins a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1`

	a := &models.TournamentAdmin{}
	if err := scanAdmin(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin %s: %w", id, err)
	}
	return a, nil
}

func (r *postgresAdminRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentAdmin, error) {
	query := `
		SELECT ` + adminColumns + `, ` + userColumns + `
		FROM tournament_admins a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.tournament_id = $1 AND a.user_id = $2`

	a := &models.TournamentAdmin{}
	if err := scanAdmin(r.db.QueryRowContext(ctx, query, tournamentID, userID), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to check admin role: %w", err)
	}
	return a, nil
}

func (r *postgresAdminRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentAdmin, error) {
	query := `
		SELECT ` + adminColumns + `, ` + userColumns + `
		FROM tournament_admins a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.tournament_id = $1
		ORDER BY a.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	admins := make([]models.TournamentAdmin, 0)
	for rows.Next() {
		var a models.TournamentAdmin
		if scanErr := scanAdmin(rows, &a); scanErr != nil {
			return nil, fmt.Errorf("failed to scan admin row: %w", scanErr)
		}
		admins = append(admins, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin rows: %w", err)
	}
	return admins, nil
}

func (r *postgresAdminRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournament_admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}

// DeleteByUser снимает права администратора, если они были. Отсутствие записи не ошибка.
func (r *postgresAdminRepository) DeleteByUser(ctx context.Context, exec SQLExecutor, tournamentID, userID string) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM tournament_admins WHERE tournament_id = $1 AND user_id = $2`, tournamentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete admin role for user %s: %w", userID, err)
	}
	return nil
}

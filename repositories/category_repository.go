package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
)

var (
	ErrCategoryNotFound      = errors.New("player category not found")
	ErrCategoryNameConflict  = errors.New("category with this name already exists in tournament")
	ErrCategoryInvalidBounds = errors.New("category per-team bounds violate constraints")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.PlayerCategory) error
	GetByID(ctx context.Context, id string) (*models.PlayerCategory, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.PlayerCategory, error)
	Delete(ctx context.Context, id string) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

const categoryColumns = `id, tournament_id, name, description, min_per_team, max_per_team, color, created_at`

func scanCategory(row rowScanner, c *models.PlayerCategory) error {
	return row.Scan(&c.ID, &c.TournamentID, &c.Name, &c.Description, &c.MinPerTeam, &c.MaxPerTeam, &c.Color, &c.CreatedAt)
}

func (r *postgresCategoryRepository) Create(ctx context.Context, c *models.PlayerCategory) error {
	query := `
		INSERT INTO player_categories (tournament_id, name, description, min_per_team, max_per_team, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.TournamentID, c.Name, c.Description, c.MinPerTeam, c.MaxPerTeam, c.Color,
	).Scan(&c.ID, &c.CreatedAt)
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrCategoryNameConflict
		case pqForeignKeyViolation:
			return ErrTournamentNotFound
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrCategoryInvalidBounds, pqErr.Constraint)
		}
	}
	return fmt.Errorf("failed to create category: %w", err)
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id string) (*models.PlayerCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM player_categories WHERE id = $1`

	c := &models.PlayerCategory{}
	if err := scanCategory(r.db.QueryRowContext(ctx, query, id), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.PlayerCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM player_categories WHERE tournament_id = $1 ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	categories := make([]models.PlayerCategory, 0)
	for rows.Next() {
		var c models.PlayerCategory
		if scanErr := scanCategory(rows, &c); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", scanErr)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM player_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

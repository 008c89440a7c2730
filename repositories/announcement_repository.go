package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

const announcementColumns = `a.id, a.tournament_id, a.author_id, a.title, a.content, a.type, a.image_url, a.is_pinned, a.created_at, a.updated_at`

func scanAnnouncement(row rowScanner, a *models.Announcement) error {
	var u joinedUser
	dest := append([]interface{}{
		&a.ID, &a.TournamentID, &a.AuthorID, &a.Title, &a.Content, &a.Type, &a.ImageURL, &a.IsPinned, &a.CreatedAt, &a.UpdatedAt,
	}, u.dest()...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.Author = u.user()
	return nil
}

func (r *postgresAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (tournament_id, author_id, title, content, type, image_url, is_pinned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		a.TournamentID, a.AuthorID, a.Title, a.Content, a.Type, a.ImageURL, a.IsPinned,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("failed to create announcement: %w", err)
}

func (r *postgresAnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `, ` + userColumns + `
		FROM announcements a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`

	a := &models.Announcement{}
	if err := scanAnnouncement(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to get announcement %s: %w", id, err)
	}
	return a, nil
}

// ListByTournament: закреплённые сверху, затем новые раньше старых.
func (r *postgresAnnouncementRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `, ` + userColumns + `
		FROM announcements a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.tournament_id = $1
		ORDER BY a.is_pinned DESC, a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	announcements := make([]models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		if scanErr := scanAnnouncement(rows, &a); scanErr != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", scanErr)
		}
		announcements = append(announcements, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}
	return announcements, nil
}

func (r *postgresAnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	query := `
		UPDATE announcements SET
			title = $1,
			content = $2,
			type = $3,
			image_url = $4,
			is_pinned = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, a.Title, a.Content, a.Type, a.ImageURL, a.IsPinned, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to update announcement %s: %w", a.ID, err)
	}
	return nil
}

func (r *postgresAnnouncementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}

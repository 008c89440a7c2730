package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type AnnouncementService interface {
	List(ctx context.Context, tournamentID, actorID string) ([]models.Announcement, error)
	Create(ctx context.Context, tournamentID, actorID string, input CreateAnnouncementInput) (*models.Announcement, error)
	Update(ctx context.Context, tournamentID, announcementID, actorID string, input UpdateAnnouncementInput) (*models.Announcement, error)
	Delete(ctx context.Context, tournamentID, announcementID, actorID string) error
}

type CreateAnnouncementInput struct {
	Title    string
	Content  string
	Type     models.AnnouncementType
	ImageURL *string
	IsPinned bool
}

type UpdateAnnouncementInput struct {
	Title    *string
	Content  *string
	Type     *models.AnnouncementType
	ImageURL *string
	IsPinned *bool
}

type announcementService struct {
	guard            accessGuard
	announcementRepo repositories.AnnouncementRepository
}

func NewAnnouncementService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	announcementRepo repositories.AnnouncementRepository,
) AnnouncementService {
	return &announcementService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		announcementRepo: announcementRepo,
	}
}

func (s *announcementService) List(ctx context.Context, tournamentID, actorID string) ([]models.Announcement, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	announcements, err := s.announcementRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

func (s *announcementService) Create(ctx context.Context, tournamentID, actorID string, input CreateAnnouncementInput) (*models.Announcement, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrAnnouncementContentRequired
	}
	annType := input.Type
	if annType == "" {
		annType = models.AnnouncementGeneral
	}
	if !annType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAnnouncementType, annType)
	}

	a := &models.Announcement{
		TournamentID: tournamentID,
		AuthorID:     actorID,
		Title:        title,
		Content:      content,
		Type:         annType,
		ImageURL:     normalizeOptional(input.ImageURL),
		IsPinned:     input.IsPinned,
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return a, nil
}

func (s *announcementService) Update(ctx context.Context, tournamentID, announcementID, actorID string, input UpdateAnnouncementInput) (*models.Announcement, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	a, err := s.announcementInTournament(ctx, tournamentID, announcementID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrAnnouncementContentRequired
		}
		a.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, ErrAnnouncementContentRequired
		}
		a.Content = content
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAnnouncementType, *input.Type)
		}
		a.Type = *input.Type
	}
	if input.ImageURL != nil {
		a.ImageURL = normalizeOptional(input.ImageURL)
	}
	if input.IsPinned != nil {
		a.IsPinned = *input.IsPinned
	}

	if err := s.announcementRepo.Update(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrAnnouncementNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, tournamentID, announcementID, actorID string) error {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return err
	}
	if _, err := s.announcementInTournament(ctx, tournamentID, announcementID); err != nil {
		return err
	}
	if err := s.announcementRepo.Delete(ctx, announcementID); err != nil {
		if errors.Is(err, repositories.ErrAnnouncementNotFound) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}

func (s *announcementService) announcementInTournament(ctx context.Context, tournamentID, announcementID string) (*models.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnnouncementNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to get announcement %s: %w", announcementID, err)
	}
	if a.TournamentID != tournamentID {
		return nil, ErrAnnouncementNotFound
	}
	return a, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type AdminService interface {
	List(ctx context.Context, tournamentID, actorID string) ([]models.TournamentAdmin, error)
	Add(ctx context.Context, tournamentID, actorID, userID string) (*models.TournamentAdmin, error)
	Remove(ctx context.Context, tournamentID, adminID, actorID string) error
}

type adminService struct {
	guard    accessGuard
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAdminService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *adminService) List(ctx context.Context, tournamentID, actorID string) ([]models.TournamentAdmin, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	admins, err := s.guard.adminRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// Add выдаёт права администратора игроку турнира. Назначать может любой администратор.
func (s *adminService) Add(ctx context.Context, tournamentID, actorID, userID string) (*models.TournamentAdmin, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}

	if _, err := s.guard.playerRepo.GetByTournamentAndUser(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrUserNotPlayer
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	admin := &models.TournamentAdmin{TournamentID: tournamentID, UserID: userID, Role: models.AdminRoleAdmin}
	if err := s.guard.adminRepo.Create(ctx, nil, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminAlreadyExists) {
			return nil, ErrAdminAlreadyExists
		}
		return nil, fmt.Errorf("failed to add admin: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Admin added but user details unavailable", slog.String("user_id", userID), slog.Any("error", err))
	} else {
		admin.User = user
	}

	s.logger.InfoContext(ctx, "Tournament admin added",
		slog.String("tournament_id", tournamentID), slog.String("user_id", userID), slog.String("actor_id", actorID))
	return admin, nil
}

// Remove снимает администратора. Доступно только создателю; самого создателя снять нельзя.
func (s *adminService) Remove(ctx context.Context, tournamentID, adminID, actorID string) error {
	if err := s.guard.requireCreator(ctx, tournamentID, actorID); err != nil {
		return err
	}

	admin, err := s.guard.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to get admin %s: %w", adminID, err)
	}
	if admin.TournamentID != tournamentID {
		return ErrAdminNotFound
	}
	if admin.Role == models.AdminRoleCreator {
		return ErrCannotRemoveCreator
	}

	if err := s.guard.adminRepo.Delete(ctx, adminID); err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to remove admin %s: %w", adminID, err)
	}
	return nil
}

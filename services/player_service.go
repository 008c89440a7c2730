package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type PlayerService interface {
	List(ctx context.Context, tournamentID, actorID string) ([]models.TournamentPlayer, error)
	UpdateCategory(ctx context.Context, tournamentID, playerID, actorID string, category *string) (*models.TournamentPlayer, error)
	Remove(ctx context.Context, tournamentID, playerID, actorID string) error
	AddGuest(ctx context.Context, tournamentID, actorID string, input AddGuestInput) (*models.TournamentPlayer, error)
}

type AddGuestInput struct {
	Name     string
	Phone    *string
	Category *string
}

type playerService struct {
	guard    accessGuard
	teamRepo repositories.TeamRepository
	txRunner repositories.TxRunner
	logger   *slog.Logger
}

func NewPlayerService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	txRunner repositories.TxRunner,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		teamRepo: teamRepo,
		txRunner: txRunner,
		logger:   logger,
	}
}

func (s *playerService) List(ctx context.Context, tournamentID, actorID string) ([]models.TournamentPlayer, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	players, err := s.guard.playerRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// UpdateCategory меняет категорию игрока. Пустая строка или nil снимает категорию.
func (s *playerService) UpdateCategory(ctx context.Context, tournamentID, playerID, actorID string, category *string) (*models.TournamentPlayer, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.guard.playerInTournament(ctx, tournamentID, playerID); err != nil {
		return nil, err
	}

	updated, err := s.guard.playerRepo.UpdateCategory(ctx, playerID, normalizeOptional(category))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update category of player %s: %w", playerID, err)
	}
	return updated, nil
}

// Remove убирает игрока из турнира вместе с членством в командах и правами администратора.
func (s *playerService) Remove(ctx context.Context, tournamentID, playerID, actorID string) error {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return err
	}
	player, err := s.guard.playerInTournament(ctx, tournamentID, playerID)
	if err != nil {
		return err
	}

	if player.UserID != nil {
		admin, err := s.guard.adminRepo.GetByTournamentAndUser(ctx, tournamentID, *player.UserID)
		if err != nil && !errors.Is(err, repositories.ErrAdminNotFound) {
			return fmt.Errorf("failed to check creator role: %w", err)
		}
		if admin != nil && admin.Role == models.AdminRoleCreator {
			return ErrCannotRemoveCreator
		}
	}

	err = s.txRunner.WithTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.DeleteMembershipsByPlayer(ctx, exec, playerID); err != nil {
			return err
		}
		if player.UserID != nil {
			if err := s.guard.adminRepo.DeleteByUser(ctx, exec, tournamentID, *player.UserID); err != nil {
				return err
			}
		}
		return s.guard.playerRepo.Delete(ctx, exec, playerID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to remove player %s: %w", playerID, err)
	}

	s.logger.InfoContext(ctx, "Player removed from tournament",
		slog.String("tournament_id", tournamentID), slog.String("player_id", playerID), slog.String("actor_id", actorID))
	return nil
}

// AddGuest добавляет игрока без учётной записи.
func (s *playerService) AddGuest(ctx context.Context, tournamentID, actorID string, input AddGuestInput) (*models.TournamentPlayer, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGuestNameRequired
	}

	t, err := s.guard.tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.MaxPlayers != nil {
		count, err := s.guard.playerRepo.CountByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		if count >= *t.MaxPlayers {
			return nil, ErrTournamentFull
		}
	}

	player := &models.TournamentPlayer{
		TournamentID: tournamentID,
		Name:         &name,
		Phone:        normalizeOptional(input.Phone),
		Category:     normalizeOptional(input.Category),
	}
	if err := s.guard.playerRepo.Create(ctx, nil, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to add guest player: %w", err)
	}
	return player, nil
}

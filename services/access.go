package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

// accessGuard собирает проверки прав, общие для всех сервисов турнира.
type accessGuard struct {
	tournamentRepo repositories.TournamentRepository
	adminRepo      repositories.AdminRepository
	playerRepo     repositories.PlayerRepository
}

func (g accessGuard) tournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	t, err := g.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", tournamentID, err)
	}
	return t, nil
}

// requireAdmin returns the caller's admin record, or ErrForbiddenOperation.
func (g accessGuard) requireAdmin(ctx context.Context, tournamentID, userID string) (*models.TournamentAdmin, error) {
	if _, err := g.tournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	admin, err := g.adminRepo.GetByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to check admin role: %w", err)
	}
	return admin, nil
}

func (g accessGuard) requireCreator(ctx context.Context, tournamentID, userID string) error {
	admin, err := g.requireAdmin(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, ErrForbiddenOperation) {
			return ErrCreatorOnly
		}
		return err
	}
	if admin.Role != models.AdminRoleCreator {
		return ErrCreatorOnly
	}
	return nil
}

// requireMember пропускает только игроков турнира.
func (g accessGuard) requireMember(ctx context.Context, tournamentID, userID string) (*models.Tournament, error) {
	t, err := g.tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if _, err := g.playerRepo.GetByTournamentAndUser(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotTournamentMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return t, nil
}

// playerInTournament загружает игрока и проверяет, что он из этого турнира.
func (g accessGuard) playerInTournament(ctx context.Context, tournamentID, playerID string) (*models.TournamentPlayer, error) {
	p, err := g.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	if p.TournamentID != tournamentID {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

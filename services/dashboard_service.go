package services

import (
	"context"
	"fmt"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context, userID string) (models.DashboardStats, error)
}

type dashboardService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewDashboardService(tournamentRepo repositories.TournamentRepository) DashboardService {
	return &dashboardService{tournamentRepo: tournamentRepo}
}

func (s *dashboardService) GetStats(ctx context.Context, userID string) (models.DashboardStats, error) {
	stats, err := s.tournamentRepo.GetUserStats(ctx, userID)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return *stats, nil
}

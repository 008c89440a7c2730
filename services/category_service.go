package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playday/tournament-organizer/distributor"
	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type CategoryService interface {
	List(ctx context.Context, tournamentID, actorID string) ([]models.PlayerCategory, error)
	Create(ctx context.Context, tournamentID, actorID string, input CreateCategoryInput) (*models.PlayerCategory, error)
	Delete(ctx context.Context, tournamentID, categoryID, actorID string) error
	// Rules превращает сохранённые категории в правила распределения.
	Rules(ctx context.Context, tournamentID, actorID string) (distributor.CategoryRules, error)
}

type CreateCategoryInput struct {
	Name        string
	Description *string
	MinPerTeam  int
	MaxPerTeam  *int
	Color       *string
}

type categoryService struct {
	guard        accessGuard
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	categoryRepo repositories.CategoryRepository,
) CategoryService {
	return &categoryService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) List(ctx context.Context, tournamentID, actorID string) ([]models.PlayerCategory, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, tournamentID, actorID string, input CreateCategoryInput) (*models.PlayerCategory, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if input.MinPerTeam < 0 {
		return nil, ErrInvalidCategoryRule
	}
	if input.MaxPerTeam != nil && *input.MaxPerTeam < input.MinPerTeam {
		return nil, ErrCategoryInvalidBounds
	}

	c := &models.PlayerCategory{
		TournamentID: tournamentID,
		Name:         name,
		Description:  normalizeOptional(input.Description),
		MinPerTeam:   input.MinPerTeam,
		MaxPerTeam:   input.MaxPerTeam,
		Color:        normalizeOptional(input.Color),
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryNameConflict):
			return nil, ErrCategoryNameConflict
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrCategoryInvalidBounds):
			return nil, ErrCategoryInvalidBounds
		default:
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, tournamentID, categoryID, actorID string) error {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return err
	}
	c, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}
	if c.TournamentID != tournamentID {
		return ErrCategoryNotFound
	}
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return nil
}

func (s *categoryService) Rules(ctx context.Context, tournamentID, actorID string) (distributor.CategoryRules, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories for tournament %s: %w", tournamentID, err)
	}
	return rulesFromCategories(categories), nil
}

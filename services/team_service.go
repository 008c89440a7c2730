package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/playday/tournament-organizer/distributor"
	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
	"github.com/playday/tournament-organizer/storage"
	"github.com/playday/tournament-organizer/utils"
)

// TeamDistributor делит ростер на команды. Реализуется *distributor.Distributor.
type TeamDistributor interface {
	Distribute(players []distributor.Player, numberOfTeams int, mode distributor.Mode, rules distributor.CategoryRules) ([]distributor.Team, error)
}

type TeamService interface {
	GenerateTeams(ctx context.Context, tournamentID, actorID string, input GenerateTeamsInput) (*GenerateTeamsResult, error)
	CreateTeam(ctx context.Context, tournamentID, actorID string, input CreateTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID, actorID string) ([]models.Team, error)
	DeleteTeam(ctx context.Context, tournamentID, teamID, actorID string) error
	UploadTeamLogo(ctx context.Context, tournamentID, teamID, actorID, contentType string, file io.Reader) (*models.Team, error)
}

type GenerateTeamsInput struct {
	NumberOfTeams int
	TeamNames     []string
	// UseCategories включает режим с минимумами по категориям.
	UseCategories bool
	// CategoryRules overrides the tournament's stored category minimums when non-nil.
	CategoryRules distributor.CategoryRules
	// StrictCategories rejects the request instead of under-filling teams.
	StrictCategories bool
}

type GenerateTeamsResult struct {
	Mode       distributor.Mode        `json:"mode"`
	Teams      []models.Team           `json:"teams"`
	Shortfalls []distributor.Shortfall `json:"shortfalls,omitempty"`
}

type CreateTeamInput struct {
	Name      string
	Color     *string
	PlayerIDs []string
}

type teamService struct {
	guard        accessGuard
	teamRepo     repositories.TeamRepository
	categoryRepo repositories.CategoryRepository
	txRunner     repositories.TxRunner
	distributor  TeamDistributor
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewTeamService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	categoryRepo repositories.CategoryRepository,
	txRunner repositories.TxRunner,
	teamDistributor TeamDistributor,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		teamRepo:     teamRepo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		distributor:  teamDistributor,
		uploader:     uploader,
		logger:       logger,
	}
}

// GenerateTeams заменяет все команды турнира новым случайным разбиением ростера.
func (s *teamService) GenerateTeams(ctx context.Context, tournamentID, actorID string, input GenerateTeamsInput) (*GenerateTeamsResult, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	if input.NumberOfTeams < 2 {
		return nil, ErrInvalidTeamCount
	}

	roster, err := s.guard.playerRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for tournament %s: %w", tournamentID, err)
	}
	if len(roster) < input.NumberOfTeams {
		return nil, fmt.Errorf("%w: %d players for %d teams", ErrNotEnoughPlayers, len(roster), input.NumberOfTeams)
	}

	mode := distributor.ModeUniform
	var rules distributor.CategoryRules
	if input.UseCategories {
		mode = distributor.ModeCategorized
		rules = input.CategoryRules
		if rules == nil {
			categories, err := s.categoryRepo.ListByTournament(ctx, tournamentID)
			if err != nil {
				return nil, fmt.Errorf("failed to load categories for tournament %s: %w", tournamentID, err)
			}
			rules = rulesFromCategories(categories)
		}
	}

	players := make([]distributor.Player, len(roster))
	byID := make(map[string]*models.TournamentPlayer, len(roster))
	for i := range roster {
		players[i] = distributor.Player{ID: roster[i].ID, Category: roster[i].Category}
		byID[roster[i].ID] = &roster[i]
	}

	var shortfalls []distributor.Shortfall
	if mode == distributor.ModeCategorized {
		if err := rules.Validate(); err != nil {
			return nil, mapDistributorError(err)
		}
		shortfalls = distributor.Shortfalls(players, input.NumberOfTeams, rules)
		if len(shortfalls) > 0 && input.StrictCategories {
			return nil, fmt.Errorf("%w: %s", ErrCategoryShortfall, describeShortfalls(shortfalls))
		}
	}

	groups, err := s.distributor.Distribute(players, input.NumberOfTeams, mode, rules)
	if err != nil {
		return nil, mapDistributorError(err)
	}

	teams := make([]models.Team, 0, len(groups))
	var replaced int64
	err = s.txRunner.WithTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		replaced, txErr = s.teamRepo.DeleteByTournament(ctx, exec, tournamentID)
		if txErr != nil {
			return txErr
		}

		for _, group := range groups {
			color := utils.TeamColor(group.Index)
			team := models.Team{
				TournamentID: tournamentID,
				Name:         generatedTeamName(input.TeamNames, group.Index),
				Color:        &color,
			}
			if txErr = s.teamRepo.Create(ctx, exec, &team); txErr != nil {
				return fmt.Errorf("failed to create team %q: %w", team.Name, txErr)
			}

			members, addErr := s.teamRepo.AddMembers(ctx, exec, team.ID, group.PlayerIDs())
			if addErr != nil {
				return fmt.Errorf("failed to add members to team %q: %w", team.Name, addErr)
			}
			for i := range members {
				members[i].Player = byID[members[i].PlayerID]
			}
			team.Members = members
			teams = append(teams, team)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated teams for tournament %s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "Teams generated",
		slog.String("tournament_id", tournamentID),
		slog.String("actor_id", actorID),
		slog.String("mode", string(mode)),
		slog.Int("teams", len(teams)),
		slog.Int("players", len(roster)),
		slog.Int64("replaced_teams", replaced),
	)
	if len(shortfalls) > 0 {
		s.logger.WarnContext(ctx, "Category minimums could not be met for every team",
			slog.String("tournament_id", tournamentID),
			slog.String("shortfalls", describeShortfalls(shortfalls)),
		)
	}

	return &GenerateTeamsResult{Mode: mode, Teams: teams, Shortfalls: shortfalls}, nil
}

func (s *teamService) CreateTeam(ctx context.Context, tournamentID, actorID string, input CreateTeamInput) (*models.Team, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	playerIDs := make([]string, 0, len(input.PlayerIDs))
	seen := make(map[string]struct{}, len(input.PlayerIDs))
	for _, playerID := range input.PlayerIDs {
		if _, dup := seen[playerID]; dup {
			continue
		}
		seen[playerID] = struct{}{}
		playerIDs = append(playerIDs, playerID)
		if _, err := s.guard.playerInTournament(ctx, tournamentID, playerID); err != nil {
			if errors.Is(err, ErrPlayerNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrPlayerNotInTournament, playerID)
			}
			return nil, err
		}
	}

	color := normalizeOptional(input.Color)
	if color == nil {
		c := utils.TeamColor(0)
		color = &c
	}
	team := &models.Team{TournamentID: tournamentID, Name: name, Color: color}

	err := s.txRunner.WithTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		_, err := s.teamRepo.AddMembers(ctx, exec, team.ID, playerIDs)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberInvalid) {
			return nil, ErrPlayerNotInTournament
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	created, err := s.teamRepo.GetByID(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created team %s: %w", team.ID, err)
	}
	populateTeamLogoURLFunc(created, s.uploader)
	return created, nil
}

func (s *teamService) ListTeams(ctx context.Context, tournamentID, actorID string) ([]models.Team, error) {
	if _, err := s.guard.requireMember(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	populateTeamListLogoURLsFunc(teams, s.uploader)
	return teams, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, tournamentID, teamID, actorID string) error {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return err
	}
	team, err := s.teamInTournament(ctx, tournamentID, teamID)
	if err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}

	if team.LogoKey != nil && s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to delete logo of removed team",
				slog.String("team_id", teamID), slog.String("key", *team.LogoKey), slog.Any("error", delErr))
		}
	}
	return nil
}

func (s *teamService) UploadTeamLogo(ctx context.Context, tournamentID, teamID, actorID, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	team, err := s.teamInTournament(ctx, tournamentID, teamID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := logoObjectKey("teams", team.ID, ext, time.Now())

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to clean up uploaded logo after DB error",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save team logo key: %w", err)
	}

	if team.LogoKey != nil && *team.LogoKey != key {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous team logo",
				slog.String("team_id", team.ID), slog.String("key", *team.LogoKey), slog.Any("error", delErr))
		}
	}

	team.LogoKey = &key
	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) teamInTournament(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// generatedTeamName берёт имя из запроса или "Team N" (нумерация с 1).
func generatedTeamName(names []string, index int) string {
	if index < len(names) {
		if name := strings.TrimSpace(names[index]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Team %d", index+1)
}

func rulesFromCategories(categories []models.PlayerCategory) distributor.CategoryRules {
	rules := make(distributor.CategoryRules, len(categories))
	for _, c := range categories {
		rules[c.Name] = distributor.CategoryRule{Min: c.MinPerTeam}
	}
	return rules
}

func describeShortfalls(shortfalls []distributor.Shortfall) string {
	parts := make([]string, len(shortfalls))
	for i, sf := range shortfalls {
		parts[i] = fmt.Sprintf("%s needs %d, has %d", sf.Category, sf.Required, sf.Available)
	}
	return strings.Join(parts, "; ")
}

func mapDistributorError(err error) error {
	switch {
	case errors.Is(err, distributor.ErrInvalidTeamCount):
		return fmt.Errorf("%w: %w", ErrInvalidTeamCount, err)
	case errors.Is(err, distributor.ErrInsufficientPlayers):
		return fmt.Errorf("%w: %w", ErrNotEnoughPlayers, err)
	case errors.Is(err, distributor.ErrInvalidCategoryRule):
		return fmt.Errorf("%w: %w", ErrInvalidCategoryRule, err)
	default:
		return fmt.Errorf("failed to distribute players: %w", err)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
	"github.com/playday/tournament-organizer/storage"
	"github.com/playday/tournament-organizer/utils"
	"golang.org/x/sync/errgroup"
)

const maxCodeAttempts = 5 // Попытки сгенерировать уникальный код турнира

type TournamentService interface {
	Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error)
	Join(ctx context.Context, userID, code string) (*models.Tournament, error)
	GetDetails(ctx context.Context, tournamentID, userID string) (*TournamentDetails, error)
	ListForUser(ctx context.Context, userID string) (*UserTournaments, error)
	Update(ctx context.Context, tournamentID, actorID string, input UpdateTournamentInput) (*models.Tournament, error)
	UploadLogo(ctx context.Context, tournamentID, actorID, contentType string, file io.Reader) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	MaxPlayers  *int
}

// UpdateTournamentInput: nil-поля не меняются.
type UpdateTournamentInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	MaxPlayers  *int
	IsActive    *bool
}

type TournamentDetails struct {
	Tournament    *models.Tournament `json:"tournament"`
	IsAdmin       bool               `json:"is_admin"`
	CurrentUserID string             `json:"current_user_id"`
}

type UserTournaments struct {
	Created []models.Tournament `json:"created"`
	Joined  []models.Tournament `json:"joined"`
}

type tournamentService struct {
	guard            accessGuard
	teamRepo         repositories.TeamRepository
	announcementRepo repositories.AnnouncementRepository
	categoryRepo     repositories.CategoryRepository
	txRunner         repositories.TxRunner
	uploader         storage.FileUploader
	logger           *slog.Logger
	generateCode     func() (string, error)
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	adminRepo repositories.AdminRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	announcementRepo repositories.AnnouncementRepository,
	categoryRepo repositories.CategoryRepository,
	txRunner repositories.TxRunner,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		guard: accessGuard{
			tournamentRepo: tournamentRepo,
			adminRepo:      adminRepo,
			playerRepo:     playerRepo,
		},
		teamRepo:         teamRepo,
		announcementRepo: announcementRepo,
		categoryRepo:     categoryRepo,
		txRunner:         txRunner,
		uploader:         uploader,
		logger:           logger,
		generateCode:     utils.GenerateTournamentCode,
	}
}

// Create создаёт турнир; создатель сразу становится администратором (creator) и игроком.
func (s *tournamentService) Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if err := validateTournamentDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.MaxPlayers != nil && *input.MaxPlayers <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, err
		}

		t := &models.Tournament{
			Name:        name,
			Code:        code,
			Description: normalizeOptional(input.Description),
			CreatorID:   creatorID,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			MaxPlayers:  input.MaxPlayers,
			IsActive:    true,
		}

		err = s.txRunner.WithTx(ctx, func(exec repositories.SQLExecutor) error {
			if err := s.guard.tournamentRepo.Create(ctx, exec, t); err != nil {
				return err
			}
			admin := &models.TournamentAdmin{TournamentID: t.ID, UserID: creatorID, Role: models.AdminRoleCreator}
			if err := s.guard.adminRepo.Create(ctx, exec, admin); err != nil {
				return fmt.Errorf("failed to add creator as admin: %w", err)
			}
			player := &models.TournamentPlayer{TournamentID: t.ID, UserID: &creatorID}
			if err := s.guard.playerRepo.Create(ctx, exec, player); err != nil {
				return fmt.Errorf("failed to add creator as player: %w", err)
			}
			return nil
		})
		if err == nil {
			s.logger.InfoContext(ctx, "Tournament created",
				slog.String("tournament_id", t.ID), slog.String("creator_id", creatorID), slog.String("code", code))
			return t, nil
		}
		if errors.Is(err, repositories.ErrTournamentCodeConflict) {
			s.logger.WarnContext(ctx, "Tournament code collision, retrying", slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, repositories.ErrTournamentInvalidOwner) || errors.Is(err, repositories.ErrPlayerUserInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil, ErrTournamentCodeConflict
}

func (s *tournamentService) Join(ctx context.Context, userID, code string) (*models.Tournament, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrTournamentCodeRequired
	}

	t, err := s.guard.tournamentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament by code: %w", err)
	}
	if !t.IsActive {
		return nil, ErrTournamentInactive
	}

	if _, err := s.guard.playerRepo.GetByTournamentAndUser(ctx, t.ID, userID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}

	if t.MaxPlayers != nil {
		count, err := s.guard.playerRepo.CountByTournament(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if count >= *t.MaxPlayers {
			return nil, ErrTournamentFull
		}
	}

	player := &models.TournamentPlayer{TournamentID: t.ID, UserID: &userID}
	if err := s.guard.playerRepo.Create(ctx, nil, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerAlreadyJoined):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repositories.ErrPlayerUserInvalid):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to join tournament: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "User joined tournament", slog.String("tournament_id", t.ID), slog.String("user_id", userID))
	populateTournamentLogoURLFunc(t, s.uploader)
	return t, nil
}

// GetDetails загружает турнир со всеми связанными сущностями параллельно.
func (s *tournamentService) GetDetails(ctx context.Context, tournamentID, userID string) (*TournamentDetails, error) {
	t, err := s.guard.requireMember(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		admins, err := s.guard.adminRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load admins: %w", err)
		}
		t.Admins = admins
		return nil
	})
	g.Go(func() error {
		players, err := s.guard.playerRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		t.Players = players
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		populateTeamListLogoURLsFunc(teams, s.uploader)
		t.Teams = teams
		return nil
	})
	g.Go(func() error {
		announcements, err := s.announcementRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load announcements: %w", err)
		}
		t.Announcements = announcements
		return nil
	})
	g.Go(func() error {
		categories, err := s.categoryRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		t.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %s details: %w", tournamentID, err)
	}

	populateTournamentLogoURLFunc(t, s.uploader)

	isAdmin := false
	for _, a := range t.Admins {
		if a.UserID == userID {
			isAdmin = true
			break
		}
	}

	return &TournamentDetails{Tournament: t, IsAdmin: isAdmin, CurrentUserID: userID}, nil
}

func (s *tournamentService) ListForUser(ctx context.Context, userID string) (*UserTournaments, error) {
	var created, joined []models.Tournament

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		created, err = s.guard.tournamentRepo.ListByCreator(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		joined, err = s.guard.tournamentRepo.ListJoined(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list tournaments for user %s: %w", userID, err)
	}

	for i := range created {
		populateTournamentLogoURLFunc(&created[i], s.uploader)
	}
	for i := range joined {
		populateTournamentLogoURLFunc(&joined[i], s.uploader)
	}
	return &UserTournaments{Created: created, Joined: joined}, nil
}

func (s *tournamentService) Update(ctx context.Context, tournamentID, actorID string, input UpdateTournamentInput) (*models.Tournament, error) {
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	t, err := s.guard.tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTournamentNameRequired
		}
		t.Name = name
	}
	if input.Description != nil {
		t.Description = normalizeOptional(input.Description)
	}
	if input.StartDate != nil {
		t.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = input.EndDate
	}
	if input.MaxPlayers != nil {
		if *input.MaxPlayers <= 0 {
			return nil, ErrTournamentInvalidCapacity
		}
		t.MaxPlayers = input.MaxPlayers
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	if err := validateTournamentDates(t.StartDate, t.EndDate); err != nil {
		return nil, err
	}

	if err := s.guard.tournamentRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %s: %w", tournamentID, err)
	}
	populateTournamentLogoURLFunc(t, s.uploader)
	return t, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, tournamentID, actorID, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if _, err := s.guard.requireAdmin(ctx, tournamentID, actorID); err != nil {
		return nil, err
	}
	t, err := s.guard.tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := logoObjectKey("tournaments", t.ID, ext, time.Now())

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}
	if err := s.guard.tournamentRepo.UpdateLogoKey(ctx, t.ID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to clean up uploaded logo after DB error",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save tournament logo key: %w", err)
	}

	if t.LogoKey != nil && *t.LogoKey != key {
		if delErr := s.uploader.Delete(ctx, *t.LogoKey); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous tournament logo",
				slog.String("tournament_id", t.ID), slog.String("key", *t.LogoKey), slog.Any("error", delErr))
		}
	}

	t.LogoKey = &key
	populateTournamentLogoURLFunc(t, s.uploader)
	return t, nil
}

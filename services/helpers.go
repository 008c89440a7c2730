package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/storage"
)

// --- Общие хелперы ---

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeOptional обрезает пробелы и превращает пустую строку в nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateTournamentDates(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return fmt.Errorf("%w: start date (%s), end date (%s)", ErrTournamentInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// --- Хелперы для заполнения URL логотипов ---

func populateTournamentLogoURLFunc(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament != nil && tournament.LogoKey != nil && *tournament.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*tournament.LogoKey)
		if url != "" {
			tournament.LogoURL = &url
		}
	}
}

func populateTeamLogoURLFunc(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateTeamListLogoURLsFunc(teams []models.Team, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for i := range teams {
		populateTeamLogoURLFunc(&teams[i], uploader)
	}
}

// GetExtensionFromContentType возвращает расширение файла для image/* типов.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFileType, contentType)
	}
}

func logoObjectKey(prefix, id, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%s/logo_%d%s", prefix, id, now.Unix(), ext)
}

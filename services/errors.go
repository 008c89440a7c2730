package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed            = errors.New("validation failed")
	ErrTournamentNameRequired      = errors.New("tournament name is required")
	ErrTournamentCodeRequired      = errors.New("tournament code is required")
	ErrTournamentInvalidDateRange  = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCapacity   = errors.New("tournament max players must be positive")
	ErrTournamentInactive          = errors.New("this tournament is no longer active")
	ErrTournamentFull              = errors.New("tournament is full")
	ErrInvalidTeamCount            = errors.New("at least 2 teams required")
	ErrNotEnoughPlayers            = errors.New("not enough players for the requested number of teams")
	ErrInvalidCategoryRule         = errors.New("category minimum must not be negative")
	ErrCategoryShortfall           = errors.New("not enough categorized players to satisfy every team minimum")
	ErrTeamNameRequired            = errors.New("team name is required")
	ErrPlayerNotInTournament       = errors.New("player does not belong to this tournament")
	ErrUserNotPlayer               = errors.New("user is not a player in this tournament")
	ErrCannotRemoveCreator         = errors.New("cannot remove tournament creator")
	ErrGuestNameRequired           = errors.New("guest player name is required")
	ErrAnnouncementContentRequired = errors.New("title and content are required")
	ErrInvalidAnnouncementType     = errors.New("invalid announcement type")
	ErrCategoryNameRequired        = errors.New("category name is required")
	ErrCategoryInvalidBounds       = errors.New("category max per team must not be below min per team")
	ErrUnsupportedFileType         = errors.New("unsupported file type")
	ErrUploadsDisabled             = errors.New("file uploads are not configured")

	// Ошибки конфликтов
	ErrAlreadyJoined          = errors.New("you have already joined this tournament")
	ErrAdminAlreadyExists     = errors.New("user is already an admin")
	ErrCategoryNameConflict   = errors.New("category with this name already exists")
	ErrTournamentCodeConflict = errors.New("could not generate a unique tournament code")

	// Ошибки аутентификации и авторизации
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")
	ErrNotTournamentMember = errors.New("you don't have access to this tournament")
	ErrCreatorOnly         = errors.New("only the tournament creator can perform this action")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrCategoryNotFound     = errors.New("category not found")
)

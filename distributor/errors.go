package distributor

import "errors"

// Ошибки предусловий. Возвращаются до любого перемешивания, частичного результата нет.
var (
	ErrInvalidTeamCount    = errors.New("number of teams must be at least 2")
	ErrInsufficientPlayers = errors.New("not enough players for the requested number of teams")
	ErrInvalidCategoryRule = errors.New("category minimum must not be negative")
	ErrInvalidMode         = errors.New("unknown distribution mode")
)

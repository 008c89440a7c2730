package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	TournamentCodeLength   = 8
	tournamentCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// teamColors - палитра для сгенерированных команд, повторяется по кругу.
var teamColors = []string{
	"#ef4444", // red
	"#3b82f6", // blue
	"#22c55e", // green
	"#eab308", // yellow
	"#a855f7", // purple
	"#f97316", // orange
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#84cc16", // lime
	"#6366f1", // indigo
}

// TeamColors возвращает копию палитры.
func TeamColors() []string {
	out := make([]string, len(teamColors))
	copy(out, teamColors)
	return out
}

// TeamColor returns the palette color for the i-th team, cycling past the end.
func TeamColor(i int) string {
	if i < 0 {
		i = -i
	}
	return teamColors[i%len(teamColors)]
}

// GenerateTournamentCode returns an upper-case join code built from crypto/rand.
func GenerateTournamentCode() (string, error) {
	max := big.NewInt(int64(len(tournamentCodeAlphabet)))
	code := make([]byte, TournamentCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate tournament code: %w", err)
		}
		code[i] = tournamentCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

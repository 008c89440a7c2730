// Package distributor splits a tournament roster into a fixed number of
// balanced teams, either uniformly at random or honouring per-category
// minimums (for example "every team needs at least 2 bowlers").
//
// All functions are pure: they never mutate their inputs and keep no state
// between calls apart from the injected Source.
package distributor

import (
	"fmt"
	"maps"
	"slices"
)

// Mode выбирает алгоритм распределения.
type Mode string

const (
	ModeUniform     Mode = "uniform"
	ModeCategorized Mode = "categorized"
)

// Player is a roster entry. A nil or empty Category means uncategorized.
type Player struct {
	ID       string  `json:"id"`
	Category *string `json:"category"`
}

func (p Player) category() (string, bool) {
	if p.Category == nil || *p.Category == "" {
		return "", false
	}
	return *p.Category, true
}

// CategoryRule задаёт минимальное число игроков категории в каждой команде.
type CategoryRule struct {
	Min int `json:"min"`
}

// CategoryRules maps a category label to its rule. Categories without a rule,
// or with Min == 0, are unconstrained.
type CategoryRules map[string]CategoryRule

// Validate rejects negative minimums.
func (r CategoryRules) Validate() error {
	for _, label := range r.labels() {
		if r[label].Min < 0 {
			return fmt.Errorf("%w: category %q has min %d", ErrInvalidCategoryRule, label, r[label].Min)
		}
	}
	return nil
}

// labels returns rule labels in a stable order so that a seeded Source
// always produces the same partition.
func (r CategoryRules) labels() []string {
	return slices.Sorted(maps.Keys(r))
}

// Team is one bucket of the partition. Index is in [0, numberOfTeams).
type Team struct {
	Index   int      `json:"teamIndex"`
	Players []Player `json:"players"`
}

func (t Team) PlayerIDs() []string {
	ids := make([]string, len(t.Players))
	for i, p := range t.Players {
		ids[i] = p.ID
	}
	return ids
}

func (t Team) Size() int {
	return len(t.Players)
}

// CountCategory returns how many of the team's players carry label.
func (t Team) CountCategory(label string) int {
	n := 0
	for _, p := range t.Players {
		if c, ok := p.category(); ok && c == label {
			n++
		}
	}
	return n
}

type Distributor struct {
	src Source
}

type Option func(*Distributor)

// WithSource injects the randomness source, e.g. NewSource(42) in tests.
func WithSource(src Source) Option {
	return func(d *Distributor) {
		if src != nil {
			d.src = src
		}
	}
}

func New(opts ...Option) *Distributor {
	d := &Distributor{src: DefaultSource()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Distribute dispatches on mode. rules are ignored in ModeUniform.
func (d *Distributor) Distribute(players []Player, numberOfTeams int, mode Mode, rules CategoryRules) ([]Team, error) {
	switch mode {
	case ModeUniform:
		return d.Uniform(players, numberOfTeams)
	case ModeCategorized:
		return d.ByCategory(players, numberOfTeams, rules)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// Uniform shuffles the roster and deals it round-robin, so team sizes never
// differ by more than one.
func (d *Distributor) Uniform(players []Player, numberOfTeams int) ([]Team, error) {
	if err := checkPreconditions(len(players), numberOfTeams); err != nil {
		return nil, err
	}

	teams := newTeams(numberOfTeams, (len(players)+numberOfTeams-1)/numberOfTeams)
	for i, p := range shuffle(d.src, players) {
		t := i % numberOfTeams
		teams[t].Players = append(teams[t].Players, p)
	}
	return teams, nil
}

// ByCategory first gives every team up to Min players of each ruled category,
// walking teams in index order, then places all remaining players one by one
// on the currently smallest team (lowest index wins ties).
//
// When a category has fewer than Min*numberOfTeams players the later teams
// simply receive fewer; see Shortfalls.
func (d *Distributor) ByCategory(players []Player, numberOfTeams int, rules CategoryRules) ([]Team, error) {
	if err := checkPreconditions(len(players), numberOfTeams); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	teams := newTeams(numberOfTeams, (len(players)+numberOfTeams-1)/numberOfTeams)

	pools := make(map[string][]Player)
	var rest []Player
	for _, p := range players {
		label, ok := p.category()
		if !ok {
			rest = append(rest, p)
			continue
		}
		pools[label] = append(pools[label], p)
	}

	for _, label := range rules.labels() {
		k := rules[label].Min
		pool, ok := pools[label]
		if k == 0 || !ok {
			continue
		}
		pool = shuffle(d.src, pool)
		for t := 0; t < numberOfTeams && len(pool) > 0; t++ {
			take := min(k, len(pool))
			teams[t].Players = append(teams[t].Players, pool[:take]...)
			pool = pool[take:]
		}
		pools[label] = pool
	}

	for _, label := range slices.Sorted(maps.Keys(pools)) {
		rest = append(rest, pools[label]...)
	}
	for _, p := range shuffle(d.src, rest) {
		t := smallestTeam(teams)
		teams[t].Players = append(teams[t].Players, p)
	}
	return teams, nil
}

// Shortfall describes a ruled category that cannot fill every team.
type Shortfall struct {
	Category  string `json:"category"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// Shortfalls reports every ruled category whose supply is below
// Min*numberOfTeams. Callers that need strict guarantees reject the request
// when the result is non-empty.
func Shortfalls(players []Player, numberOfTeams int, rules CategoryRules) []Shortfall {
	counts := make(map[string]int)
	for _, p := range players {
		if label, ok := p.category(); ok {
			counts[label]++
		}
	}

	var out []Shortfall
	for _, label := range rules.labels() {
		required := rules[label].Min * numberOfTeams
		if required > 0 && counts[label] < required {
			out = append(out, Shortfall{Category: label, Required: required, Available: counts[label]})
		}
	}
	return out
}

var std = New()

// Uniform distributes with the default source.
func Uniform(players []Player, numberOfTeams int) ([]Team, error) {
	return std.Uniform(players, numberOfTeams)
}

// ByCategory distributes with the default source.
func ByCategory(players []Player, numberOfTeams int, rules CategoryRules) ([]Team, error) {
	return std.ByCategory(players, numberOfTeams, rules)
}

// Distribute distributes with the default source.
func Distribute(players []Player, numberOfTeams int, mode Mode, rules CategoryRules) ([]Team, error) {
	return std.Distribute(players, numberOfTeams, mode, rules)
}

func checkPreconditions(playerCount, numberOfTeams int) error {
	if numberOfTeams < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidTeamCount, numberOfTeams)
	}
	if playerCount < numberOfTeams {
		return fmt.Errorf("%w: %d players for %d teams", ErrInsufficientPlayers, playerCount, numberOfTeams)
	}
	return nil
}

func newTeams(n, capacity int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{Index: i, Players: make([]Player, 0, capacity)}
	}
	return teams
}

func smallestTeam(teams []Team) int {
	idx := 0
	for i := 1; i < len(teams); i++ {
		if len(teams[i].Players) < len(teams[idx].Players) {
			idx = i
		}
	}
	return idx
}

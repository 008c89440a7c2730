package distributor

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness used for shuffling. It is not security sensitive.
type Source interface {
	// IntN returns a uniform value in [0, n). n is always > 0.
	IntN(n int) int
}

// runtimeSource defers to the runtime-seeded top level math/rand/v2 functions,
// which are safe for concurrent use.
type runtimeSource struct{}

func (runtimeSource) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultSource returns an unseeded source. Two runs over the same roster
// will almost always produce different teams.
func DefaultSource() Source {
	return runtimeSource{}
}

type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a reproducible source for the given seed. The returned
// value can be shared between goroutines.
func NewSource(seed int64) Source {
	s := uint64(seed)
	return &seededSource{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// shuffle returns a Fisher–Yates shuffled copy of players. The input is left untouched.
func shuffle(src Source, players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

package markov

import (
	"fmt"
	"math/rand"
)

// A Source supplies the uniform draws that drive alternative selection.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform draw in [0,n).
	Intn(n int) int
}

// NewSource returns a Source seeded with seed. Two walks over the same
// chain and model with equally seeded sources select the same
// alternatives.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Draws returns a Source that replays the given draws in order, typically
// the recorded Draws of a Trace. Requesting more draws than were provided
// panics: the replayed walk diverged from the recorded one.
func Draws(draws ...int) Source {
	return &fixedSource{draws: draws}
}

type fixedSource struct {
	draws []int
	pos   int
}

func (s *fixedSource) Intn(n int) int {
	if s.pos >= len(s.draws) {
		panic(fmt.Sprintf("markov: replay exhausted after %v draws", len(s.draws)))
	}
	d := s.draws[s.pos]
	s.pos++
	return d
}

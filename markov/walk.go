package markov

import (
	"errors"
	"fmt"
)

var (
	// NoAlternativeError is returned by a walk that reaches a state where
	// no alternative covers the draw, which only happens on chains that do
	// not pass Validate.
	NoAlternativeError = errors.New("markov: no alternative selected")

	// CapExceededError is returned by a capped walk that would generate
	// more commands than its cap allows.
	CapExceededError = errors.New("markov: walk exceeded the command cap")
)

// A Step is one transition taken by a walk.
type Step[S comparable, C any] struct {
	From    S
	Label   string
	Command C
	To      S
}

// A Trace is the full record of one walk: every step taken, every draw
// made, and the state the walk stopped in. The final draw is the one that
// selected the terminal alternative. Replaying the recorded draws with
// Draws reproduces the walk exactly.
//
// Stopped reports whether the walk ended by selecting a Stop alternative.
// It is false for traces cut short by a generator error.
type Trace[S comparable, C any] struct {
	Steps   []Step[S, C]
	Draws   []int
	Final   S
	Stopped bool
}

// Commands returns the generated commands in walk order.
func (t Trace[S, C]) Commands() []C {
	cmds := make([]C, len(t.Steps))
	for i, step := range t.Steps {
		cmds[i] = step.Command
	}
	return cmds
}

// Walk generates a command sequence from the chain, starting in state
// initial with the given model and drawing from src.
//
// Each step draws a uniform integer in [0,100) and selects the first
// alternative whose cumulative weight exceeds the draw. A terminal
// alternative ends the walk; otherwise the selected generator produces
// the next command and the walk moves on. Walk enforces no step bound:
// termination is guaranteed only for chains that pass Validate, and
// walking an unvalidated chain may never return.
func Walk[S comparable, M, C any](chain Chain[S, M, C], initial S, model M, src Source) ([]C, error) {
	t, err := WalkTrace(chain, initial, model, src)
	if err != nil {
		return nil, err
	}
	return t.Commands(), nil
}

// WalkTrace is Walk keeping the full trace of the walk. On a generator
// error the trace of the completed steps is returned along with the
// error.
func WalkTrace[S comparable, M, C any](chain Chain[S, M, C], initial S, model M, src Source) (Trace[S, C], error) {
	return walk(chain, initial, model, src, 0)
}

// WalkTraceN is WalkTrace with a cap on the number of generated commands.
// A walk that selects a non-terminal alternative while already holding max
// commands ends with CapExceededError and the partial trace. A max of zero
// or less means no cap.
func WalkTraceN[S comparable, M, C any](chain Chain[S, M, C], initial S, model M, src Source, max int) (Trace[S, C], error) {
	return walk(chain, initial, model, src, max)
}

func walk[S comparable, M, C any](chain Chain[S, M, C], initial S, model M, src Source, max int) (Trace[S, C], error) {
	var t Trace[S, C]
	state := initial
	for {
		draw := src.Intn(100)
		t.Draws = append(t.Draws, draw)

		alt, ok := pick(chain(state), draw)
		if !ok {
			t.Final = state
			return t, fmt.Errorf("%w: state %v, draw %v", NoAlternativeError, state, draw)
		}
		if alt.terminal {
			t.Final = state
			t.Stopped = true
			return t, nil
		}
		if max > 0 && len(t.Steps) >= max {
			t.Final = state
			return t, fmt.Errorf("%w: %v commands and not stopped in state %v", CapExceededError, max, state)
		}

		cmd, next, err := alt.Gen(model)
		if err != nil {
			t.Final = state
			return t, fmt.Errorf("markov: generate %q in state %v: %w", alt.Label, state, err)
		}
		t.Steps = append(t.Steps, Step[S, C]{From: state, Label: alt.Label, Command: cmd, To: alt.Next})
		model = next
		state = alt.Next
	}
}

// Selects the first alternative whose cumulative weight exceeds the draw.
func pick[S comparable, M, C any](alts []Alternative[S, M, C], draw int) (Alternative[S, M, C], bool) {
	cum := 0
	for _, alt := range alts {
		cum += alt.Weight
		if cum > draw {
			return alt, true
		}
	}
	var zero Alternative[S, M, C]
	return zero, false
}

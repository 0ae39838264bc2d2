// Package markov generates weighted random command sequences from a
// Markov chain description of a system under test.
//
// A Chain maps each abstract state to an ordered list of weighted
// alternatives: stop the walk, or generate a command and continue to a
// successor state. Weights are percentages and must sum to exactly 100
// in every state. Validate checks a chain for well-formed weights and
// guaranteed termination before it is walked; Walk itself never
// re-checks.
package markov

// A Generator produces a concrete command from the current model and
// returns the model advanced past the generated command.
type Generator[M, C any] func(M) (C, M, error)

// A Chain maps an abstract state to the ordered weighted alternatives
// available in that state. The chain must be a pure function: Validate
// and Walk call it repeatedly and rely on getting the same alternatives
// every time. The reachable state space must be finite for Validate to
// terminate.
type Chain[S comparable, M, C any] func(S) []Alternative[S, M, C]

// An Alternative is one weighted edge out of a state, built with Stop or
// Continue.
type Alternative[S comparable, M, C any] struct {
	// Weight is a percentage in [0,100]. A zero-weight alternative is
	// never selected but still counts as an edge for reachability.
	Weight int
	// Label names the transition in traces and coverage reports.
	Label string
	// Gen produces the command when the alternative is selected. Nil on
	// terminal alternatives.
	Gen Generator[M, C]
	// Next is the successor state. Ignored on terminal alternatives.
	Next S

	terminal bool
}

// Stop is a terminal alternative: when selected, the walk ends.
func Stop[S comparable, M, C any](weight int) Alternative[S, M, C] {
	return Alternative[S, M, C]{Weight: weight, terminal: true}
}

// Continue is an alternative that generates a command with gen and moves
// the walk to next.
func Continue[S comparable, M, C any](weight int, label string, gen Generator[M, C], next S) Alternative[S, M, C] {
	return Alternative[S, M, C]{Weight: weight, Label: label, Gen: gen, Next: next}
}

// Terminal reports whether the alternative stops the walk.
func (a Alternative[S, M, C]) Terminal() bool {
	return a.terminal
}

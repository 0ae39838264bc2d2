package markov

import "fmt"

// A Violation is a structural defect found in a chain by Validate. The
// variants are NegativeWeight, WeightSumMismatch and Deadlock. All
// satisfy error.
type Violation interface {
	error

	violation()
}

// NegativeWeight reports an alternative with a weight below zero.
type NegativeWeight[S comparable] struct {
	State  S
	Label  string
	Weight int
}

// WeightSumMismatch reports a state whose weights do not sum to exactly
// 100, in either direction.
type WeightSumMismatch[S comparable] struct {
	State S
	Sum   int
}

// Deadlock reports a reachable state that cannot reach a positively
// weighted Stop through positively weighted edges. A walk entering such a
// state can never terminate.
type Deadlock[S comparable] struct {
	State S
}

func (v NegativeWeight[S]) Error() string {
	return fmt.Sprintf("markov: state %v: alternative %q has negative weight %v", v.State, v.Label, v.Weight)
}

func (v WeightSumMismatch[S]) Error() string {
	return fmt.Sprintf("markov: state %v: weights sum to %v, not 100", v.State, v.Sum)
}

func (v Deadlock[S]) Error() string {
	return fmt.Sprintf("markov: state %v cannot reach a stop", v.State)
}

func (NegativeWeight[S]) violation()    {}
func (WeightSumMismatch[S]) violation() {}
func (Deadlock[S]) violation()         {}

// Validate statically checks a chain without invoking any generator.
//
// The checked set is every state reachable from initial by following
// every non-terminal edge, zero-weight edges included. Two independent
// checks run over that set:
//
//   - stochastic well-formedness: every weight is non-negative, and the
//     weights of each state sum to exactly 100;
//   - liveness: every state can reach a positively weighted Stop by
//     following only positively weighted edges, so a walk terminates
//     with probability one.
//
// A state with no alternatives defines no distribution, so it is skipped
// by the well-formedness check; it still fails liveness.
//
// All violations are collected and returned together, well-formedness
// first, each group in breadth-first encounter order. A nil result means
// the chain is safe to Walk.
func Validate[S comparable, M, C any](chain Chain[S, M, C], initial S) []Violation {
	states, alts := reachable(chain, initial)

	var violations []Violation
	for _, s := range states {
		edges := alts[s]
		if len(edges) == 0 {
			continue
		}
		sum := 0
		for _, alt := range edges {
			if alt.Weight < 0 {
				violations = append(violations, NegativeWeight[S]{State: s, Label: alt.Label, Weight: alt.Weight})
			}
			sum += alt.Weight
		}
		if sum != 100 {
			violations = append(violations, WeightSumMismatch[S]{State: s, Sum: sum})
		}
	}

	live := liveStates(states, alts)
	for _, s := range states {
		if !live[s] {
			violations = append(violations, Deadlock[S]{State: s})
		}
	}
	return violations
}

// Collects the states reachable from initial in breadth-first order,
// along with each state's alternatives.
func reachable[S comparable, M, C any](chain Chain[S, M, C], initial S) ([]S, map[S][]Alternative[S, M, C]) {
	states := []S{initial}
	alts := map[S][]Alternative[S, M, C]{initial: chain(initial)}
	for i := 0; i < len(states); i++ {
		for _, alt := range alts[states[i]] {
			if alt.terminal {
				continue
			}
			if _, seen := alts[alt.Next]; seen {
				continue
			}
			states = append(states, alt.Next)
			alts[alt.Next] = chain(alt.Next)
		}
	}
	return states, alts
}

// Marks the states from which a positively weighted Stop is reachable
// through positively weighted edges, by fixpoint iteration.
func liveStates[S comparable, M, C any](states []S, alts map[S][]Alternative[S, M, C]) map[S]bool {
	live := make(map[S]bool, len(states))
	for changed := true; changed; {
		changed = false
		for _, s := range states {
			if live[s] {
				continue
			}
			for _, alt := range alts[s] {
				if alt.Weight <= 0 {
					continue
				}
				if alt.terminal || live[alt.Next] {
					live[s] = true
					changed = true
					break
				}
			}
		}
	}
	return live
}

// Package statem executes command sequences against a model and a real
// implementation in lockstep and reports the first divergence as a
// structured counterexample.
//
// The user describes the system under test as a Machine: an initial
// model, a transition function advancing the model past each command,
// pre- and postconditions written in the logic package, and a Semantics
// function running commands against the real system. Execute walks a
// command sequence through the machine and produces a Report.
package statem

import (
	"context"

	"gombt/logic"
)

// A Machine specifies a system under test.
//
// M is the model type, C the command type and R the response type of the
// real system. Init, Transition, Postcondition and Semantics are
// required, the rest are optional.
type Machine[M, C, R any] struct {
	// Init returns the model of the freshly started system.
	Init func() M

	// Transition advances the model past a command and the response the
	// real system gave for it.
	Transition func(M, C, R) M

	// Precondition states when a command makes sense in the current
	// model state. A command whose precondition fails is skipped, not
	// executed. Nil accepts every command.
	Precondition func(M, C) logic.Logic

	// Postcondition relates the response of the real system to the
	// model state before the command.
	Postcondition func(M, C, R) logic.Logic

	// Invariant must hold in every model state reached by a transition.
	// Nil checks nothing.
	Invariant func(M) logic.Logic

	// Semantics runs a command against the real system.
	Semantics func(context.Context, C) (R, error)

	// Cleanup tears the real system down after a run. Nil does nothing.
	Cleanup func()
}

package statem

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/go-cmp/cmp"

	"gombt/logic"
)

// Execute runs the command sequence through the machine.
//
// Each step checks the precondition against the model, runs the command
// against the real system, advances the model and checks the
// postcondition and the invariant. A step whose precondition fails is
// recorded as skipped and the run continues. A failing postcondition or
// invariant, a Semantics error or a recovered panic ends the run; the
// remaining commands are not executed. Cleanup, when set, runs exactly
// once before Execute returns.
func Execute[M, C, R any](ctx context.Context, machine Machine[M, C, R], cmds []C) *Report[M, C, R] {
	report := &Report[M, C, R]{}
	if err := machine.Validate(); err != nil {
		report.Err = err
		return report
	}
	if machine.Cleanup != nil {
		defer machine.Cleanup()
	}

	model := machine.Init()
	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			report.Err = err
			break
		}

		if machine.Precondition != nil {
			if v := logic.Evaluate(machine.Precondition(model, cmd)); !v.OK {
				report.Steps = append(report.Steps, StepRecord[M, C, R]{
					Index:          i,
					Command:        cmd,
					Skipped:        true,
					Counterexample: v.Counterexample,
				})
				continue
			}
		}

		resp, err := runCommand(ctx, machine, cmd)
		if err != nil {
			report.Steps = append(report.Steps, StepRecord[M, C, R]{Index: i, Command: cmd, Err: err})
			report.Failure = &report.Steps[len(report.Steps)-1]
			report.Err = fmt.Errorf("statem: step %v: %w", i, err)
			break
		}

		next := machine.Transition(model, cmd, resp)

		if v := logic.Evaluate(machine.Postcondition(model, cmd, resp)); !v.OK {
			report.Steps = append(report.Steps, StepRecord[M, C, R]{
				Index:          i,
				Command:        cmd,
				Response:       resp,
				Counterexample: v.Counterexample,
			})
			report.Failure = &report.Steps[len(report.Steps)-1]
			report.Counterexample = v.Counterexample
			report.Delta = diff(model, next)
			break
		}

		if machine.Invariant != nil {
			if v := logic.Evaluate(logic.Annotate{Label: "invariant", F: machine.Invariant(next)}); !v.OK {
				report.Steps = append(report.Steps, StepRecord[M, C, R]{
					Index:          i,
					Command:        cmd,
					Response:       resp,
					Counterexample: v.Counterexample,
				})
				report.Failure = &report.Steps[len(report.Steps)-1]
				report.Counterexample = v.Counterexample
				report.Delta = diff(model, next)
				break
			}
		}

		report.Steps = append(report.Steps, StepRecord[M, C, R]{Index: i, Command: cmd, Response: resp})
		model = next
	}

	report.Final = model
	return report
}

// Validate checks that the machine defines the parts needed to execute
// commands. Init, Transition, Postcondition and Semantics are required,
// the remaining fields are optional.
func (m Machine[M, C, R]) Validate() error {
	switch {
	case m.Init == nil:
		return errors.New("statem: machine is missing Init")
	case m.Transition == nil:
		return errors.New("statem: machine is missing Transition")
	case m.Postcondition == nil:
		return errors.New("statem: machine is missing Postcondition")
	case m.Semantics == nil:
		return errors.New("statem: machine is missing Semantics")
	}
	return nil
}

// Runs one command against the real system. Panics raised by the
// implementation are caught and reported as errors of the run, not of
// the harness.
func runCommand[M, C, R any](ctx context.Context, machine Machine[M, C, R], cmd C) (resp R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command panicked: %v\nStack Trace:\n%s", p, debug.Stack())
		}
	}()
	return machine.Semantics(ctx, cmd)
}

// Renders the model change of a step. cmp.Diff panics on unexported
// fields, in which case both models are rendered whole.
func diff(before, after any) (d string) {
	defer func() {
		if recover() != nil {
			d = fmt.Sprintf("%+v -> %+v", before, after)
		}
	}()
	return cmp.Diff(before, after)
}

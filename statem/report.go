package statem

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"golang.org/x/exp/slices"

	"gombt/logic"
)

// A StepRecord is the outcome of one command of a run.
type StepRecord[M, C, R any] struct {
	Index    int
	Command  C
	Response R

	// Skipped marks a command whose precondition failed. The
	// counterexample explains why.
	Skipped bool

	// Err is the Semantics error or recovered panic, if any.
	Err error

	// Counterexample of the failed precondition, postcondition or
	// invariant. Nil on a passed step.
	Counterexample logic.Counterexample
}

func (r StepRecord[M, C, R]) String() string {
	switch {
	case r.Skipped:
		return fmt.Sprintf("{%v: %v skipped: %v}", r.Index, r.Command, r.Counterexample)
	case r.Err != nil:
		return fmt.Sprintf("{%v: %v error: %v}", r.Index, r.Command, r.Err)
	case r.Counterexample != nil:
		return fmt.Sprintf("{%v: %v -> %v broken: %v}", r.Index, r.Command, r.Response, r.Counterexample)
	default:
		return fmt.Sprintf("{%v: %v -> %v}", r.Index, r.Command, r.Response)
	}
}

// A Report is the outcome of executing one command sequence.
type Report[M, C, R any] struct {
	// Steps holds a record per touched command, in execution order.
	// Commands after a failed step are absent.
	Steps []StepRecord[M, C, R]

	// Failure points at the failing record, nil if the run passed.
	Failure *StepRecord[M, C, R]

	// Counterexample of the failed postcondition or invariant.
	Counterexample logic.Counterexample

	// Delta renders the model change of the failing step.
	Delta string

	// Err is set when the run ended on a Semantics error, a recovered
	// panic, a cancelled context or an incomplete machine.
	Err error

	// Final is the model after the last passed step.
	Final M
}

// OK reports whether the run passed.
func (r *Report[M, C, R]) OK() bool {
	return r.Err == nil && r.Counterexample == nil
}

// Response returns the result of the run and a description.
//
// The description of a failed run holds the failing step, its
// counterexample, the executed step sequence and the model delta.
func (r *Report[M, C, R]) Response() (bool, string) {
	if r.OK() {
		return true, fmt.Sprintf("All %v commands passed", len(r.Steps))
	}

	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	for _, rec := range r.Steps {
		fmt.Fprintf(wrt, "-> %v \n", rec)
	}
	wrt.Flush()

	var out string
	switch {
	case r.Failure != nil && r.Counterexample != nil:
		out = fmt.Sprintf("Command sequence broken at step %v. Counterexample: %v. Sequence: \n", r.Failure.Index, r.Counterexample)
	case r.Err != nil:
		out = fmt.Sprintf("Command sequence aborted: %v. Sequence: \n", r.Err)
	}
	out += buffer.String()
	if r.Delta != "" {
		out += fmt.Sprintf("Model delta (-before +after):\n%v", r.Delta)
	}
	return false, out
}

// Export returns a copy of the step records for inspection or replay.
func (r *Report[M, C, R]) Export() []StepRecord[M, C, R] {
	return slices.Clone(r.Steps)
}

package gombt

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"gombt/markov"
	"gombt/statem"
	"gombt/trace"
)

// The error returned when the chain of a test does not pass validation.
type InvalidChainError struct {
	Violations []markov.Violation
}

func (e InvalidChainError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("gombt: invalid chain: %v", strings.Join(msgs, "; "))
}

// A Run is the outcome of one independent walk and execution.
type Run[S comparable, M, C, R any] struct {
	// Position of the run in the test
	N int

	// Id of the run
	Id uuid.UUID

	// Seed the walk of the run drew from. Zero when the test was
	// configured with a fixed source.
	Seed int64

	Trace  markov.Trace[S, C]
	Report *statem.Report[M, C, R]
}

// The result of running a test.
type Result[S comparable, M, C, R any] struct {
	// The completed runs in run order. Runs cut short by the failure of
	// another run are not included.
	Runs []Run[S, M, C, R]

	// The first failing run. Nil if every run passed.
	Failed *Run[S, M, C, R]

	// Set when the test could not run: an incomplete machine, an invalid
	// chain, a walk failure or a cancelled context.
	Err error

	collector *trace.Collector[S, C]
}

func newResult[S comparable, M, C, R any]() *Result[S, M, C, R] {
	return &Result[S, M, C, R]{
		collector: trace.NewCollector[S, C](),
	}
}

// OK reports whether the test ran and every run passed.
func (r *Result[S, M, C, R]) OK() bool {
	return r.Err == nil && r.Failed == nil
}

// Usage returns how often each transition was taken across all runs, most
// taken first.
func (r *Result[S, M, C, R]) Usage() []trace.Usage {
	return r.collector.Usage()
}

// Finals returns how many walks ended in each chain state.
func (r *Result[S, M, C, R]) Finals() map[S]int {
	return r.collector.Finals()
}

// ObservedPercent returns how the walks distributed over the alternatives
// of the state, scaled to percent, for comparison against the declared
// weights of the chain.
func (r *Result[S, M, C, R]) ObservedPercent(state S) map[string]float64 {
	return r.collector.ObservedPercent(state)
}

// ExportTrace writes the tree of the walked label sequences followed by
// the transition usage table to the writer.
func (r *Result[S, M, C, R]) ExportTrace(w io.Writer) {
	r.collector.Export(w)
	fmt.Fprintln(w)
	r.collector.WriteUsage(w)
}

// Response returns whether the test passed and a printable summary.
//
// For a failing test the summary names the failing run, how to replay its
// walk, and the step by step report of the run.
func (r *Result[S, M, C, R]) Response() (bool, string) {
	if r.Err != nil {
		return false, fmt.Sprintf("Test did not run: %v", r.Err)
	}
	if r.Failed == nil {
		return true, fmt.Sprintf("All %v runs passed. %v commands executed.", len(r.Runs), r.collector.Commands())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run %v (seed %v) failed. Replay the walk with Draws%v.\n", r.Failed.N, r.Failed.Seed, r.Failed.Trace.Draws)
	_, detail := r.Failed.Report.Response()
	b.WriteString(detail)
	return false, b.String()
}

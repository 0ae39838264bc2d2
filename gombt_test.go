package gombt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"gombt/logic"
	"gombt/markov"
	"gombt/statem"
)

// A stack under test. The broken flags plant bugs for the engine to find.
type stackSUT struct {
	vals       []int
	brokenPush bool
	brokenPop  bool
}

func (s *stackSUT) Push(v int) int {
	s.vals = append(s.vals, v)
	if s.brokenPush {
		return len(s.vals) + 1
	}
	return len(s.vals)
}

func (s *stackSUT) Pop() int {
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	if s.brokenPop {
		return v + 1
	}
	return v
}

func (s *stackSUT) reset() {
	s.vals = nil
}

type stackCmd struct {
	Op  string
	Val int
}

func (c stackCmd) String() string {
	if c.Op == "push" {
		return fmt.Sprintf("push %v", c.Val)
	}
	return c.Op
}

// The model is the expected stack content. Init also resets the system
// under test, which makes sequential runs independent.
func stackMachine(sut *stackSUT) statem.Machine[[]int, stackCmd, int] {
	return statem.Machine[[]int, stackCmd, int]{
		Init: func() []int {
			sut.reset()
			return nil
		},
		Transition: func(m []int, c stackCmd, _ int) []int {
			switch c.Op {
			case "push":
				return append(slices.Clone(m), c.Val)
			case "pop":
				return m[:len(m)-1]
			}
			return m
		},
		Precondition: func(m []int, c stackCmd) logic.Logic {
			if c.Op == "pop" {
				return logic.GreaterThan(len(m), 0)
			}
			return logic.Top{}
		},
		Postcondition: func(m []int, c stackCmd, resp int) logic.Logic {
			switch c.Op {
			case "push":
				return logic.Equals(resp, len(m)+1)
			case "pop":
				return logic.Equals(resp, m[len(m)-1])
			}
			return logic.Top{}
		},
		Semantics: func(_ context.Context, c stackCmd) (int, error) {
			if c.Op == "push" {
				return sut.Push(c.Val), nil
			}
			return sut.Pop(), nil
		},
	}
}

// Pushes 60, pops 30, stops 10. Pops generated on an empty model are
// skipped at execution by the precondition.
func stackChain() markov.Chain[string, []int, stackCmd] {
	type alt = markov.Alternative[string, []int, stackCmd]
	pushGen := func(m []int) (stackCmd, []int, error) {
		v := len(m) + 1
		return stackCmd{Op: "push", Val: v}, append(slices.Clone(m), v), nil
	}
	popGen := func(m []int) (stackCmd, []int, error) {
		if len(m) == 0 {
			return stackCmd{Op: "pop"}, m, nil
		}
		return stackCmd{Op: "pop"}, m[:len(m)-1], nil
	}
	return func(s string) []alt {
		return []alt{
			markov.Continue(60, "push", pushGen, "building"),
			markov.Continue(30, "pop", popGen, "building"),
			markov.Stop[string, []int, stackCmd](10),
		}
	}
}

func TestRunAllPass(t *testing.T) {
	sut := &stackSUT{}
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(25),
		NumConcurrent(1),
		Seed(7),
	)

	res := test.Run(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	require.Len(t, res.Runs, 25)
	assert.Nil(t, res.Failed)

	total := 0
	for _, count := range res.Finals() {
		total += count
	}
	assert.Equal(t, 25, total)

	ids := map[uuid.UUID]bool{}
	for _, run := range res.Runs {
		ids[run.Id] = true
	}
	assert.Len(t, ids, 25)

	ok, msg := res.Response()
	assert.True(t, ok)
	assert.Contains(t, msg, "All 25 runs passed.")
}

func TestRunDetectsBug(t *testing.T) {
	sut := &stackSUT{brokenPop: true}
	// push, push, pop, stop
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(1),
		WithSource(markov.Draws(0, 0, 65, 95)),
	)

	res := test.Run(context.Background())
	require.NoError(t, res.Err)
	assert.False(t, res.OK())
	require.NotNil(t, res.Failed)
	assert.Equal(t, 0, res.Failed.N)
	require.NotNil(t, res.Failed.Report.Counterexample)
	assert.Equal(t, "3 != 2", res.Failed.Report.Counterexample.String())
	require.NotNil(t, res.Failed.Report.Failure)
	assert.Equal(t, 2, res.Failed.Report.Failure.Index)

	ok, msg := res.Response()
	assert.False(t, ok)
	assert.Contains(t, msg, "Run 0 (seed 0) failed.")
	assert.Contains(t, msg, "Replay the walk with Draws[0 0 65 95].")
	assert.Contains(t, msg, "3 != 2")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	sut := &stackSUT{brokenPush: true}
	// Two scripted runs of push, stop. Both would fail; only the first
	// one runs.
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(2),
		WithSource(markov.Draws(0, 95, 0, 95)),
	)

	res := test.Run(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, res.Runs, 1)
	require.NotNil(t, res.Failed)
	assert.Equal(t, 0, res.Failed.N)
}

func TestRunKeepGoing(t *testing.T) {
	sut := &stackSUT{brokenPush: true}
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(2),
		WithSource(markov.Draws(0, 95, 0, 95)),
		KeepGoing(),
	)

	res := test.Run(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, res.Runs, 2)
	require.NotNil(t, res.Failed)
	assert.Equal(t, 0, res.Failed.N)
	for _, run := range res.Runs {
		assert.NotNil(t, run.Report.Counterexample)
	}
}

func TestRunInvalidChain(t *testing.T) {
	lopsided := func(s string) []markov.Alternative[string, []int, stackCmd] {
		return []markov.Alternative[string, []int, stackCmd]{
			markov.Stop[string, []int, stackCmd](90),
		}
	}
	test := Prepare(stackMachine(&stackSUT{}), WithChain(lopsided, "building"))

	res := test.Run(context.Background())
	require.Error(t, res.Err)
	var invalid InvalidChainError
	require.ErrorAs(t, res.Err, &invalid)
	assert.Len(t, invalid.Violations, 1)
	assert.Empty(t, res.Runs)

	ok, msg := res.Response()
	assert.False(t, ok)
	assert.Contains(t, msg, "Test did not run:")
	assert.Contains(t, msg, "weights sum to 90")
}

func TestRunIncompleteMachine(t *testing.T) {
	test := Prepare(statem.Machine[[]int, stackCmd, int]{}, WithChain(stackChain(), "building"))
	res := test.Run(context.Background())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "missing Init")
}

func TestRunWalkFailure(t *testing.T) {
	chain := func(s string) []markov.Alternative[string, []int, stackCmd] {
		failing := func(m []int) (stackCmd, []int, error) {
			return stackCmd{}, m, errors.New("out of values")
		}
		return []markov.Alternative[string, []int, stackCmd]{
			markov.Continue(90, "boom", failing, "building"),
			markov.Stop[string, []int, stackCmd](10),
		}
	}
	test := Prepare(stackMachine(&stackSUT{}), WithChain(chain, "building"),
		Runs(1),
		WithSource(markov.Draws(0)),
	)

	res := test.Run(context.Background())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "out of values")
	assert.False(t, res.OK())
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	test := Prepare(stackMachine(&stackSUT{}), WithChain(stackChain(), "building"), Runs(5))
	res := test.Run(ctx)
	require.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, res.OK())
}

func TestRunExportTrace(t *testing.T) {
	var buf bytes.Buffer
	sut := &stackSUT{}
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(5),
		NumConcurrent(1),
		Seed(11),
		ExportTrace(&buf),
	)

	res := test.Run(context.Background())
	require.True(t, res.OK())
	assert.Contains(t, buf.String(), `"start"`)
	assert.Contains(t, buf.String(), "TRANSITION")
}

func TestRunObservedPercent(t *testing.T) {
	sut := &stackSUT{}
	// push, pop, stop: one selection of each alternative
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(1),
		WithSource(markov.Draws(0, 65, 95)),
	)

	res := test.Run(context.Background())
	require.True(t, res.OK())

	percent := res.ObservedPercent("building")
	require.Len(t, percent, 3)
	assert.InDelta(t, 33.3, percent["push"], 0.1)
	assert.InDelta(t, 33.3, percent["pop"], 0.1)
	assert.InDelta(t, 33.3, percent["stop"], 0.1)
}

func TestRunConcurrent(t *testing.T) {
	// A stateless system under test, safe for concurrent runs
	double := statem.Machine[int, int, int]{
		Init:       func() int { return 0 },
		Transition: func(m, c, _ int) int { return m + 1 },
		Postcondition: func(_, c, resp int) logic.Logic {
			return logic.Equals(resp, 2*c)
		},
		Semantics: func(_ context.Context, c int) (int, error) {
			return 2 * c, nil
		},
	}
	chain := func(s string) []markov.Alternative[string, int, int] {
		gen := func(m int) (int, int, error) { return m, m + 1, nil }
		return []markov.Alternative[string, int, int]{
			markov.Continue(80, "dbl", gen, "s"),
			markov.Stop[string, int, int](20),
		}
	}

	test := Prepare(double, WithChain(chain, "s"),
		Runs(40),
		NumConcurrent(4),
		Seed(3),
	)
	res := test.Run(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Len(t, res.Runs, 40)
}

func BenchmarkRun(b *testing.B) {
	sut := &stackSUT{}
	test := Prepare(stackMachine(sut), WithChain(stackChain(), "building"),
		Runs(10),
		NumConcurrent(1),
		Seed(3),
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		test.Run(context.Background())
	}
}

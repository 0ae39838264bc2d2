// Package gombt drives model based tests: it walks a markov chain to
// generate command sequences, executes them against the system under
// test through a state machine model, and aggregates the outcomes.
package gombt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"gombt/config"
	"gombt/markov"
	"gombt/statem"
)

// Group-internal signal that a run failed and the remaining runs should
// be cut short. Never escapes Run.
var errRunFailed = errors.New("gombt: a run failed")

// Prepare a test with initial configuration.
//
// The machine describes the system under test, the chain generates the
// command sequences. See the TestOptions for a full overview of possible
// options. Default values will be used if no value is provided.
func Prepare[S comparable, M, C, R any](machine statem.Machine[M, C, R], chainOpt ChainOption[S, M, C], opts ...TestOption) Test[S, M, C, R] {
	var (
		// Seed of the walk sources. Run number n draws from seed + n.
		seed int64 = 1

		// Number of independent runs executed
		runs = 100

		// Number of runs executed at the same time
		numConcurrent = runtime.GOMAXPROCS(0) // Will not change GOMAXPROCS but only return the current value

		// Longest command sequence a single walk may generate
		maxCommands = 10000

		// Execute all runs even after a failure
		keepGoing = false

		src markov.Source

		log *zap.Logger

		export []io.Writer
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.SeedOption:
			seed = t.Seed
		case config.SourceOption:
			src = t.Src
		case config.RunsOption:
			runs = t.Runs
		case config.NumConcurrentOption:
			numConcurrent = t.N
		case config.MaxCommandsOption:
			maxCommands = t.Max
		case config.LoggerOption:
			log = t.Log
		case config.ExportOption:
			export = append(export, t.W)
		case config.KeepGoingOption:
			keepGoing = true
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if numConcurrent < 1 {
		numConcurrent = 1
	}
	// Walks drawing from a shared source can not run concurrently
	if src != nil {
		numConcurrent = 1
	}

	return Test[S, M, C, R]{
		machine: machine,
		chain:   chainOpt.chain,
		initial: chainOpt.initial,

		seed:          seed,
		src:           src,
		runs:          runs,
		numConcurrent: numConcurrent,
		maxCommands:   maxCommands,
		keepGoing:     keepGoing,
		log:           log,
		export:        export,
	}
}

// Stores a prepared test.
//
// A test is started by calling the Run method. The same test can be run
// multiple times; runs of an identically configured test are identical.
type Test[S comparable, M, C, R any] struct {
	machine statem.Machine[M, C, R]
	chain   markov.Chain[S, M, C]
	initial S

	seed          int64
	src           markov.Source
	runs          int
	numConcurrent int
	maxCommands   int
	keepGoing     bool
	log           *zap.Logger
	export        []io.Writer
}

// Run the test.
//
// The chain is validated once up front; a malformed chain fails the test
// without executing any run. The runs are then executed independently,
// numConcurrent at a time. Each run seeds its own source, walks the chain
// for a command sequence and executes it against the system under test.
// The first failing run ends the test unless KeepGoing was configured.
//
// The returned Result is never nil.
func (t Test[S, M, C, R]) Run(ctx context.Context) *Result[S, M, C, R] {
	res := newResult[S, M, C, R]()

	if err := t.machine.Validate(); err != nil {
		res.Err = err
		return res
	}
	if violations := markov.Validate(t.chain, t.initial); len(violations) > 0 {
		res.Err = InvalidChainError{Violations: violations}
		t.log.Error("invalid chain", zap.Int("violations", len(violations)))
		return res
	}

	t.log.Info("starting test",
		zap.Int("runs", t.runs),
		zap.Int("concurrent", t.numConcurrent),
		zap.Int64("seed", t.seed),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.numConcurrent)
	for n := 0; n < t.runs; n++ {
		n := n
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			run, err := t.run(gctx, n)
			if err != nil {
				return err
			}
			if errors.Is(run.Report.Err, context.Canceled) {
				// Cut short by the failure of another run, not a result
				return nil
			}

			mu.Lock()
			res.Runs = append(res.Runs, run)
			mu.Unlock()
			res.collector.AddWalk(run.Trace)

			if !run.Report.OK() && !t.keepGoing {
				return errRunFailed
			}
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, errRunFailed) {
		err = nil
	}
	if err == nil {
		err = ctx.Err()
	}
	res.Err = err

	slices.SortFunc(res.Runs, func(a, b Run[S, M, C, R]) bool {
		return a.N < b.N
	})
	for i := range res.Runs {
		if !res.Runs[i].Report.OK() {
			res.Failed = &res.Runs[i]
			break
		}
	}

	for _, w := range t.export {
		res.ExportTrace(w)
	}

	t.log.Info("test finished",
		zap.Int("runs", len(res.Runs)),
		zap.Bool("ok", res.OK()),
	)
	return res
}

// Executes a single run: walk the chain for a command sequence, then run
// the sequence against the system under test.
func (t Test[S, M, C, R]) run(ctx context.Context, n int) (Run[S, M, C, R], error) {
	var (
		src  = t.src
		seed int64
	)
	if src == nil {
		seed = t.seed + int64(n)
		src = markov.NewSource(seed)
	}

	walk, err := markov.WalkTraceN(t.chain, t.initial, t.machine.Init(), src, t.maxCommands)
	if err != nil {
		return Run[S, M, C, R]{}, fmt.Errorf("gombt: run %v: %w", n, err)
	}

	id := uuid.New()
	t.log.Debug("executing run",
		zap.String("run", id.String()),
		zap.Int("n", n),
		zap.Int64("seed", seed),
		zap.Int("commands", len(walk.Steps)),
	)

	report := statem.Execute(ctx, t.machine, walk.Commands())
	if !report.OK() && !errors.Is(report.Err, context.Canceled) {
		t.log.Warn("run failed",
			zap.String("run", id.String()),
			zap.Int("n", n),
			zap.Int64("seed", seed),
		)
	}

	return Run[S, M, C, R]{N: n, Id: id, Seed: seed, Trace: walk, Report: report}, nil
}

// A option used to configure the test
type TestOption interface {
	// noop method
	TestOpt()
}

// Configures the chain that generates the command sequences.
//
// The chain maps each of its states to the weighted alternatives
// available in that state.
type ChainOption[S comparable, M, C any] struct {
	chain   markov.Chain[S, M, C]
	initial S
}

// Walk the provided chain, starting in the initial state, to generate the
// command sequence of each run.
func WithChain[S comparable, M, C any](chain markov.Chain[S, M, C], initial S) ChainOption[S, M, C] {
	return ChainOption[S, M, C]{chain: chain, initial: initial}
}

// Configure the seed of the walk sources.
//
// Run number n draws from a source seeded with seed + n, so a test is
// reproduced by its seed alone.
//
// Default value is 1.
func Seed(seed int64) TestOption {
	return config.SeedOption{Seed: seed}
}

// Draw all walks from the provided source instead of seeding one per run.
//
// Used together with markov.Draws to replay a recorded walk. Runs are
// executed one at a time when a source is provided.
func WithSource(src markov.Source) TestOption {
	return config.SourceOption{Src: src}
}

// Configure the number of independent runs executed.
//
// Default value is 100.
func Runs(runs int) TestOption {
	return config.RunsOption{Runs: runs}
}

// Configure the number of runs that will be executed concurrently.
//
// Default value is GOMAXPROCS.
func NumConcurrent(n int) TestOption {
	return config.NumConcurrentOption{N: n}
}

// Configure the longest command sequence a single walk may generate.
//
// A walk that would exceed the cap fails the test with
// markov.CapExceededError.
//
// Default value is 10000.
func MaxCommands(max int) TestOption {
	return config.MaxCommandsOption{Max: max}
}

// Configure the logger used by the test.
//
// Default value is a no-op logger.
func WithLogger(log *zap.Logger) TestOption {
	return config.LoggerOption{Log: log}
}

// Add a writer that the collected trace will be exported to.
//
// Can be called multiple times.
//
// Default value is no writers.
func ExportTrace(w io.Writer) TestOption {
	return config.ExportOption{W: w}
}

// Execute all runs even after a failure and report every failing run.
//
// Default is to stop at the first failing run.
func KeepGoing() TestOption {
	return config.KeepGoingOption{}
}

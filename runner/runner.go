// Package runner executes a prepared command sequence against a live
// system under test, one command at a time.
//
// Where statem.Execute runs a sequence to completion in one call, the
// Runner is driven interactively: commands can be stepped through one by
// one, played to completion, paused and resumed. Everything that happens
// during the run is reported as Records to subscribers.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gombt/statem"
)

var (
	// Returned when a command is given to a runner whose run has completed or diverged
	RunEndedError = errors.New("runner: The run has ended")
	// Returned when a command is given to a paused runner
	PausedError = errors.New("runner: The runner is paused")
	// Returned when a command is given to a runner that is playing
	PlayingError = errors.New("runner: The runner is playing")
	// Returned when a command is given to a stopped runner
	StoppedError = errors.New("runner: The runner has been stopped")
)

// The Runner runs a command sequence against the system under test in real
// time and records the execution.
//
// Commands are executed sequentially on a single goroutine. Each executed
// command produces a CommandRecord, a ResponseRecord and a StateRecord. If
// the system diverges from the model a DivergenceRecord is produced and the
// run ends.
type Runner[M, C, R any] struct {
	sync.Mutex

	machine statem.Machine[M, C, R]
	cmds    []C

	id  uuid.UUID
	log *zap.Logger

	cmd  chan command
	resp chan error

	// closed when the run completes, diverges or is stopped
	done chan struct{}

	subMu       sync.Mutex
	subscribers []chan Record
	closed      bool

	recordBuffer int
	stopped      bool

	// state below is owned by the runner goroutine
	model   M
	index   int
	failed  bool
	playing bool
	paused  bool
	report  *statem.Report[M, C, R]
}

// Create a new Runner that will run cmds against the system described by machine.
//
// recordBuffer specifies the size of the buffers for the record channels.
// log may be nil, in which case nothing is logged.
func New[M, C, R any](machine statem.Machine[M, C, R], cmds []C, recordBuffer int, log *zap.Logger) *Runner[M, C, R] {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Runner[M, C, R]{
		machine: machine,
		cmds:    cmds,

		id:  id,
		log: log.With(zap.String("run", id.String())),

		cmd:  make(chan command),
		resp: make(chan error),
		done: make(chan struct{}),

		subscribers: make([]chan Record, 0),

		recordBuffer: recordBuffer,

		report: &statem.Report[M, C, R]{},
	}
}

// The id of the run.
func (r *Runner[M, C, R]) Id() uuid.UUID {
	return r.id
}

// Start the Runner.
//
// The Runner must be started before commands can be given to it.
// The provided context is passed to the Semantics of the machine and
// cancelling it ends the run.
func (r *Runner[M, C, R]) Start(ctx context.Context) error {
	if err := r.machine.Validate(); err != nil {
		return err
	}

	r.model = r.machine.Init()
	r.report.Final = r.model

	r.log.Info("starting run", zap.Int("commands", len(r.cmds)))

	// An empty sequence is complete before the first command.
	if r.ended() {
		r.finish()
	}

	go func() {
		for {
			if r.playing && !r.paused && !r.ended() {
				select {
				case cmd := <-r.cmd:
					if r.handle(ctx, cmd) {
						return
					}
				default:
					r.step(ctx)
					if r.ended() {
						r.playing = false
						r.finish()
					}
				}
				continue
			}

			cmd := <-r.cmd
			if r.handle(ctx, cmd) {
				return
			}
		}
	}()
	return nil
}

// Subscribe to the records reported by the run.
//
// Each subscriber receives a copy of every record, in the order in which the
// records were produced. The channel is closed when the runner is stopped.
// Subscribers must consume their channel to not block the run.
func (r *Runner[M, C, R]) SubscribeRecords() <-chan Record {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	ch := make(chan Record, r.recordBuffer)
	if r.closed {
		close(ch)
		return ch
	}
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Done returns a channel that is closed when the run has completed, diverged
// or been stopped.
func (r *Runner[M, C, R]) Done() <-chan struct{} {
	return r.done
}

// Report returns the report of the run so far.
//
// Must only be called after Done has closed or between commands.
func (r *Runner[M, C, R]) Report() *statem.Report[M, C, R] {
	return r.report
}

// Execute the next command of the sequence.
//
// Must be called after the runner has been started.
func (r *Runner[M, C, R]) Step() error {
	return r.send(stepCmd{})
}

// Run the remaining commands of the sequence.
//
// Play returns immediately. The run proceeds in the background until it
// completes, diverges or is paused. Use Done to wait for completion.
func (r *Runner[M, C, R]) Play() error {
	return r.send(playCmd{})
}

// Pause the execution of commands.
//
// A playing runner finishes the command it is executing and then waits.
func (r *Runner[M, C, R]) Pause() error {
	return r.send(pauseCmd{})
}

// Resume the execution of commands after a pause.
func (r *Runner[M, C, R]) Resume() error {
	return r.send(resumeCmd{})
}

// Stop the run.
//
// The Cleanup of the machine is called and all record channels are closed.
// The runner can not be used after it has been stopped.
func (r *Runner[M, C, R]) Stop() error {
	return r.send(stopCmd{})
}

func (r *Runner[M, C, R]) send(cmd command) error {
	r.Lock()
	defer r.Unlock()

	if r.stopped {
		return StoppedError
	}
	r.cmd <- cmd
	err := <-r.resp
	if _, ok := cmd.(stopCmd); ok {
		r.stopped = true
	}
	return err
}

// Handles a single control command. Returns true when the runner goroutine
// should exit.
func (r *Runner[M, C, R]) handle(ctx context.Context, cmd command) bool {
	var err error
	stop := false
	switch cmd.(type) {
	case stepCmd:
		switch {
		case r.playing:
			err = PlayingError
		case r.paused:
			err = PausedError
		case r.ended():
			err = RunEndedError
		default:
			r.step(ctx)
			if r.ended() {
				r.finish()
			}
		}
	case playCmd:
		switch {
		case r.paused:
			err = PausedError
		case r.ended():
			err = RunEndedError
		default:
			r.playing = true
		}
	case pauseCmd:
		r.paused = true
		r.log.Info("run paused", zap.Int("step", r.index))
	case resumeCmd:
		r.paused = false
		r.log.Info("run resumed", zap.Int("step", r.index))
	case stopCmd:
		r.shutdown()
		stop = true
	}
	r.resp <- err
	return stop
}

// Executes the next command of the sequence against the system under test
// and publishes records of the outcome.
//
// Each step is run through statem.Execute as a single command sequence
// starting from the current model, so the step gets the same precondition,
// postcondition, invariant and panic handling as a batch run.
func (r *Runner[M, C, R]) step(ctx context.Context) {
	i := r.index
	cmd := r.cmds[i]

	r.publish(CommandRecord[C]{run: r.id, Index: i, Command: cmd})
	r.log.Debug("issuing command", zap.Int("step", i), zap.Any("command", cmd))

	machine := r.machine
	machine.Init = func() M { return r.model }
	machine.Cleanup = nil

	mini := statem.Execute(ctx, machine, []C{cmd})
	r.index++

	if len(mini.Steps) == 1 {
		step := mini.Steps[0]
		step.Index = i
		r.report.Steps = append(r.report.Steps, step)
	}

	switch {
	case mini.Err != nil:
		cause := mini.Err
		if u := errors.Unwrap(cause); u != nil {
			cause = u
		}
		r.report.Err = fmt.Errorf("runner: step %v: %w", i, cause)
		if len(r.report.Steps) > 0 && mini.Failure != nil {
			r.report.Failure = &r.report.Steps[len(r.report.Steps)-1]
		}
		r.failed = true
		r.publish(DivergenceRecord{run: r.id, Index: i, Reason: cause.Error()})
		r.log.Error("command failed", zap.Int("step", i), zap.Error(cause))
	case mini.Counterexample != nil:
		if len(r.report.Steps) > 0 {
			r.report.Failure = &r.report.Steps[len(r.report.Steps)-1]
		}
		r.report.Counterexample = mini.Counterexample
		r.report.Delta = mini.Delta
		r.failed = true
		r.publish(DivergenceRecord{
			run:    r.id,
			Index:  i,
			Reason: mini.Counterexample.String(),
			Delta:  mini.Delta,
		})
		r.log.Warn("divergence",
			zap.Int("step", i),
			zap.String("counterexample", mini.Counterexample.String()),
		)
	case len(mini.Steps) == 1 && mini.Steps[0].Skipped:
		r.log.Debug("command skipped", zap.Int("step", i))
	default:
		r.model = mini.Final
		r.report.Final = r.model
		r.publish(ResponseRecord[R]{run: r.id, Index: i, Response: mini.Steps[0].Response})
		r.publish(StateRecord[M]{run: r.id, Index: i, State: r.model})
	}
}

func (r *Runner[M, C, R]) ended() bool {
	return r.failed || r.index >= len(r.cmds)
}

// Marks the run as done. Safe to call more than once.
func (r *Runner[M, C, R]) finish() {
	select {
	case <-r.done:
	default:
		close(r.done)
		r.log.Info("run ended",
			zap.Int("steps", r.index),
			zap.Bool("diverged", r.failed),
		)
	}
}

// Stops the run, calls the Cleanup of the machine and closes all record
// channels.
func (r *Runner[M, C, R]) shutdown() {
	if r.machine.Cleanup != nil {
		r.machine.Cleanup()
	}

	r.subMu.Lock()
	r.closed = true
	for _, ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
	r.subMu.Unlock()

	r.finish()
}

func (r *Runner[M, C, R]) publish(rec Record) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if r.closed {
		return
	}
	for _, ch := range r.subscribers {
		ch <- rec
	}
}

package config

import (
	"io"

	"go.uber.org/zap"

	"gombt/markov"
)

// Configures the seed of the walk sources.

// Run number n draws from a source seeded with Seed + n.
// Default value is 1.
type SeedOption struct {
	Seed int64
}

func (so SeedOption) TestOpt() {}

// Configures a fixed source that all walks draw from.

// Used to replay recorded walks. Runs are executed one at a time when a
// source is provided.
// Default is a fresh seeded source per run.
type SourceOption struct {
	Src markov.Source
}

func (so SourceOption) TestOpt() {}

// Configures the number of independent runs executed.

// Default value is 100.
type RunsOption struct {
	Runs int
}

func (ro RunsOption) TestOpt() {}

// Configures how many runs are executed at the same time.

// Default value is GOMAXPROCS.
type NumConcurrentOption struct {
	N int
}

func (nco NumConcurrentOption) TestOpt() {}

// Configures the longest command sequence a single walk may generate.

// Default value is 10000.
type MaxCommandsOption struct {
	Max int
}

func (mco MaxCommandsOption) TestOpt() {}

// Configures the logger used by the test.

// Default value is a no-op logger.
type LoggerOption struct {
	Log *zap.Logger
}

func (lo LoggerOption) TestOpt() {}

// Configures io.Writers that the collected trace will be exported to.

// Can be applied multiple times to add multiple io.Writers.
// Default value is no writers.
type ExportOption struct {
	W io.Writer
}

func (eo ExportOption) TestOpt() {}

// Configures the test to execute all runs even after a failure.

// Default is to stop at the first failing run.
type KeepGoingOption struct{}

func (kgo KeepGoingOption) TestOpt() {}

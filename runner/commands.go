package runner

// Control commands handled by the runner goroutine.
type command interface{}

type stepCmd struct{}

type playCmd struct{}

type pauseCmd struct{}

type resumeCmd struct{}

type stopCmd struct{}

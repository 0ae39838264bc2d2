package runner

import (
	"fmt"

	"github.com/google/uuid"
)

// A Record is a report of something that happened while running a command
// sequence against the system under test.
//
// Records are sent on the channels returned by Runner.SubscribeRecords.
type Record interface {
	// The id of the run that produced the record
	Run() uuid.UUID

	fmt.Stringer
}

// A Record reporting that a command was issued to the system under test.
type CommandRecord[C any] struct {
	run uuid.UUID

	// The position of the command in the sequence
	Index int

	Command C
}

func (cr CommandRecord[C]) Run() uuid.UUID {
	return cr.run
}

func (cr CommandRecord[C]) String() string {
	return fmt.Sprintf("[Command %v - %v]", cr.Index, cr.Command)
}

// A Record reporting the response the system under test gave to a command.
type ResponseRecord[R any] struct {
	run uuid.UUID

	Index int

	Response R
}

func (rr ResponseRecord[R]) Run() uuid.UUID {
	return rr.run
}

func (rr ResponseRecord[R]) String() string {
	return fmt.Sprintf("[Response %v - %+v]", rr.Index, rr.Response)
}

// A Record containing the state of the model after a command was applied.
type StateRecord[M any] struct {
	run uuid.UUID

	Index int

	State M
}

func (sr StateRecord[M]) Run() uuid.UUID {
	return sr.run
}

func (sr StateRecord[M]) String() string {
	return fmt.Sprintf("[State %v - %+v]", sr.Index, sr.State)
}

// A Record reporting that the system under test diverged from the model.
//
// Reason is the counterexample or error that broke the run.
// Delta describes how the model changed in the step that broke the run.
// No further commands are executed after a DivergenceRecord has been sent.
type DivergenceRecord struct {
	run uuid.UUID

	Index int

	Reason string
	Delta  string
}

func (dr DivergenceRecord) Run() uuid.UUID {
	return dr.run
}

func (dr DivergenceRecord) String() string {
	return fmt.Sprintf("[Divergence %v - %v]", dr.Index, dr.Reason)
}

// A Record mirroring a unary gRPC call made to a remote system under test.
//
// Request and Reply contain the payloads of the call rendered with protojson
// where possible.
type RPCRecord struct {
	run uuid.UUID

	Method  string
	Request string
	Reply   string
	Err     error
}

func (rr RPCRecord) Run() uuid.UUID {
	return rr.run
}

func (rr RPCRecord) String() string {
	if rr.Err != nil {
		return fmt.Sprintf("[RPC %v - error: %v]", rr.Method, rr.Err)
	}
	return fmt.Sprintf("[RPC %v - %v -> %v]", rr.Method, rr.Request, rr.Reply)
}

package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Create a UnaryClientInterceptor that mirrors unary gRPC calls into the
// record stream of the runner.
//
// When the system under test is a remote service, install the interceptor on
// the grpc.ClientConn used by the Semantics of the machine. Every unary call
// made through the connection then produces an RPCRecord alongside the
// command records of the run.
//
// The interceptor does not change the behaviour of the calls.
func (r *Runner[M, C, R]) UnaryRecordInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		err := invoker(ctx, method, req, reply, cc, opts...)

		rec := RPCRecord{
			run:     r.id,
			Method:  method,
			Request: formatPayload(req),
			Err:     err,
		}
		if err == nil {
			rec.Reply = formatPayload(reply)
		}
		r.publish(rec)

		if err != nil {
			r.log.Warn("unary call failed", zap.String("method", method), zap.Error(err))
		} else {
			r.log.Debug("unary call", zap.String("method", method))
		}
		return err
	}
}

// Renders a gRPC payload for a record. Protobuf messages are rendered with
// protojson, everything else with the fmt package.
func formatPayload(payload any) string {
	if m, ok := payload.(proto.Message); ok {
		return protojson.Format(m)
	}
	return fmt.Sprintf("%+v", payload)
}

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// callerSlot lets RequireAuth report the caller to an enclosing LoggingInterceptor.
type callerSlot struct {
	userID string
}

const callerSlotKey contextKey = "caller_slot"

// noteCaller records userID in the slot installed by LoggingInterceptor, if any.
func noteCaller(ctx context.Context, userID string) {
	if slot, ok := ctx.Value(callerSlotKey).(*callerSlot); ok {
		slot.userID = userID
	}
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, peer, duration and result code. Caller mistakes
// log at WARN; server-side failures log at ERROR.
// Install it outside RequireAuth so that rejected sessions are logged too.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			slot := &callerSlot{userID: GetUserID(ctx)}
			ctx = context.WithValue(ctx, callerSlotKey, slot)

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", slot.userID, // empty on public procedures
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				slog.InfoContext(ctx, "RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				slog.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
				return resp, err
			}

			attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
			if clientFault(connectErr.Code()) {
				slog.WarnContext(ctx, "RPC rejected", attrs...)
			} else {
				slog.ErrorContext(ctx, "RPC error", attrs...)
			}
			return resp, err
		}
	}
}

func clientFault(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodePermissionDenied, connect.CodeUnauthenticated, connect.CodeCanceled,
		connect.CodeDeadlineExceeded:
		return true
	}
	return false
}

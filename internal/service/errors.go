package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/middleware"
	"github.com/payledger/backend/internal/sharing"
)

var errNoIdentity = errors.New("no authenticated user")

// toConnectError maps ledger and sharing errors onto Connect codes.
// Token failures always surface as the same "access denied" error.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, sharing.ErrInvalidToken):
		return connect.NewError(connect.CodePermissionDenied, sharing.ErrInvalidToken)
	case errors.Is(err, ledger.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ledger.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// callerID returns the authenticated user id placed in ctx by RequireAuth.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		slog.Error("Authenticated procedure called without identity")
		return "", connect.NewError(connect.CodeUnauthenticated, errNoIdentity)
	}
	return userID, nil
}

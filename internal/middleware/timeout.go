package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
)

// TimeoutInterceptor bounds every RPC by d. A shorter deadline set by the
// client is kept.
func TimeoutInterceptor(d time.Duration) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}

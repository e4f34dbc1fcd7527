// Package requestid carries the per-request id through the context.
package requestid

import "context"

type ctxKey struct{}

// InjectRequestID returns a context carrying the request id.
func InjectRequestID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ExtractRequestID returns the request id, or 0 outside the request
// path.
func ExtractRequestID(ctx context.Context) uint64 {
	id, _ := ctx.Value(ctxKey{}).(uint64)
	return id
}

package client

import "context"

type operationKey struct{}

// WithOperation names the API operation performed with ctx. The name is
// used as a low-cardinality metrics label instead of the request path,
// which embeds customer ids.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey{}, name)
}

// OperationFrom returns the operation name stored in ctx, or "unknown".
func OperationFrom(ctx context.Context) string {
	if name, ok := ctx.Value(operationKey{}).(string); ok && name != "" {
		return name
	}
	return "unknown"
}

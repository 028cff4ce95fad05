package enumerator

import (
	"context"

	"github.com/Sternrassler/partner-center-client/pkg/resource"
)

// Fetcher retrieves one page of a collection. Implementations perform the
// HTTP call and decoding; the enumerator only relies on them returning the
// page at q.Offset or an error. Errors are passed through unchanged.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, q Query) (*resource.Collection[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, q Query) (*resource.Collection[T], error)

// FetchPage calls f(ctx, q).
func (f FetcherFunc[T]) FetchPage(ctx context.Context, q Query) (*resource.Collection[T], error) {
	return f(ctx, q)
}

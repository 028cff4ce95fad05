package partnercenter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
)

// DefaultPageSize is used by All when no page size is given.
const DefaultPageSize = 100

// pagedCollection implements the operations shared by offset-paged
// collections.
type pagedCollection[T any] struct {
	partner    *Partner
	path       string
	objectType string
	operation  string
	extra      url.Values
	check      func() error
}

// Query returns the collection query for the page at offset.
func (c *pagedCollection[T]) Query(offset, size int) enumerator.Query {
	return enumerator.Query{
		Path:     c.path,
		Offset:   offset,
		PageSize: size,
		Extra:    c.extra,
	}
}

// Get returns the page of up to size items starting at offset.
func (c *pagedCollection[T]) Get(ctx context.Context, offset, size int) (*resource.Collection[T], error) {
	return c.GetAsync(ctx, offset, size).Await(ctx)
}

// GetAsync starts fetching the page of up to size items starting at offset.
func (c *pagedCollection[T]) GetAsync(ctx context.Context, offset, size int) *async.Future[*resource.Collection[T]] {
	q := c.Query(offset, size)
	return start(ctx, func(ctx context.Context) (*resource.Collection[T], error) {
		return c.FetchPage(ctx, q)
	})
}

// FetchPage fetches the page described by q. It makes the collection an
// enumerator.Fetcher.
func (c *pagedCollection[T]) FetchPage(ctx context.Context, q enumerator.Query) (*resource.Collection[T], error) {
	if c.check != nil {
		if err := c.check(); err != nil {
			return nil, err
		}
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	return getJSON[resource.Collection[T]](ctx, c.partner.transport, c.operation, q.Path, values)
}

// Enumerators returns the factory for enumerators over pages that were
// requested with the given offset and size. The strategy comes from
// enumerator.DefaultRegistry.
func (c *pagedCollection[T]) Enumerators(offset, size int) (enumerator.Factory[T], error) {
	if c.check != nil {
		if err := c.check(); err != nil {
			return nil, err
		}
	}
	strategy := enumerator.DefaultRegistry.StrategyFor(c.objectType)
	return enumerator.NewFactory[T](strategy, c, c.Query(offset, size))
}

// All fetches every item of the collection, size items per request.
func (c *pagedCollection[T]) All(ctx context.Context, size int) ([]T, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	first, err := c.Get(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	factory, err := c.Enumerators(0, size)
	if err != nil {
		return nil, err
	}
	e, err := factory.Create(first)
	if err != nil {
		return nil, err
	}
	return enumerator.Collect(ctx, e)
}

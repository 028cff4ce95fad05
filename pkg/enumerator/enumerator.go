// Package enumerator walks multi-page Partner Center collections.
//
// An enumerator is created from a page the caller already fetched and
// exposes has-more / current-page / advance semantics over the rest of the
// collection. Pages are requested through an injected Fetcher, so the
// package knows nothing about HTTP, authentication or JSON.
//
//	page, err := offers.Get(ctx, 0, 100)
//	if err != nil {
//		return err
//	}
//	factory, err := offers.Enumerators(0, 100)
//	if err != nil {
//		return err
//	}
//	e, err := factory.Create(page)
//	if err != nil {
//		return err
//	}
//	for {
//		process(e.Current().Items)
//		if !e.HasValue() {
//			break
//		}
//		if err := e.Next(ctx); err != nil {
//			return err
//		}
//	}
package enumerator

import (
	"context"
	"fmt"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/logging"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
	"github.com/rs/zerolog"
)

// Enumerator is a cursor over the pages of a remote collection.
//
// An Enumerator is not safe for concurrent use: Next and NextAsync must not
// overlap on the same instance. Separate instances share no state.
type Enumerator[T any] interface {
	// HasValue reports whether another page can be fetched with Next.
	HasValue() bool

	// Current returns the most recently fetched page.
	Current() *resource.Collection[T]

	// Next fetches the following page and makes it Current.
	Next(ctx context.Context) error

	// NextAsync starts fetching the following page.
	NextAsync(ctx context.Context) *async.Future[*resource.Collection[T]]
}

// IndexEnumerator pages through a collection with offset + size requests.
//
// The cursor is the offset of the current page plus the number of items it
// actually holds. HasValue is true while that cursor is below the TotalCount
// reported by the latest page. A fetched page with no items ends the
// enumeration even if TotalCount claims more, so an inconsistent server
// cannot cause an endless loop.
type IndexEnumerator[T any] struct {
	fetcher  Fetcher[T]
	query    Query
	strategy Strategy
	offset   int
	current  *resource.Collection[T]
	stopped  bool
	logger   zerolog.Logger
}

var _ Enumerator[struct{}] = (*IndexEnumerator[struct{}])(nil)

func newIndexEnumerator[T any](fetcher Fetcher[T], query Query, initial *resource.Collection[T]) *IndexEnumerator[T] {
	e := &IndexEnumerator[T]{
		fetcher:  fetcher,
		query:    query,
		strategy: StrategyIndex,
		offset:   query.Offset,
		current:  initial,
		logger:   logging.NewLogger("enumerator").With().Str("path", query.Path).Logger(),
	}
	if initial.IsEmpty() {
		e.stopped = true
	}

	e.logger.Debug().
		Int("offset", e.offset).
		Int("items", initial.Count()).
		Int("total_count", initial.TotalCount).
		Bool("has_value", e.HasValue()).
		Msg("Enumerator created")

	return e
}

// HasValue reports whether the collection has items past the current page.
// Once it returns false it never returns true again.
func (e *IndexEnumerator[T]) HasValue() bool {
	if e.stopped {
		return false
	}
	return e.cursor() < e.current.TotalCount
}

// Current returns the last fetched page. The page is never modified by
// later calls to Next.
func (e *IndexEnumerator[T]) Current() *resource.Collection[T] {
	return e.current
}

// Offset returns the offset the current page was fetched at.
func (e *IndexEnumerator[T]) Offset() int {
	return e.offset
}

// PageSize returns the page size requested on every fetch.
func (e *IndexEnumerator[T]) PageSize() int {
	return e.query.PageSize
}

func (e *IndexEnumerator[T]) cursor() int {
	return e.offset + e.current.Count()
}

// Next fetches the page following Current. It returns ErrExhausted without
// issuing a request when HasValue is false. On a fetch error the enumerator
// is left unchanged, so Next can be retried.
//
// Next waits for the fetch to finish even if ctx is cancelled first; the
// fetch observes ctx itself and the cursor is never moved after Next has
// returned.
func (e *IndexEnumerator[T]) Next(ctx context.Context) error {
	_, err := e.NextAsync(ctx).Wait()
	return err
}

// NextAsync starts fetching the page following Current. The enumerator
// must not be used again until the returned future completes.
func (e *IndexEnumerator[T]) NextAsync(ctx context.Context) *async.Future[*resource.Collection[T]] {
	if !e.HasValue() {
		return async.Resolved[*resource.Collection[T]](nil, ErrExhausted)
	}

	q := e.query.At(e.cursor())
	return async.Run(ctx, func(ctx context.Context) (*resource.Collection[T], error) {
		return e.advance(ctx, q)
	})
}

func (e *IndexEnumerator[T]) advance(ctx context.Context, q Query) (*resource.Collection[T], error) {
	page, err := e.fetcher.FetchPage(ctx, q)
	if err != nil {
		fetchErrorsTotal.WithLabelValues(string(e.strategy)).Inc()
		e.logger.Warn().
			Err(err).
			Int("offset", q.Offset).
			Int("page_size", q.PageSize).
			Msg("Page fetch failed")
		return nil, fmt.Errorf("fetch page at offset %d: %w", q.Offset, err)
	}
	if page == nil {
		page = &resource.Collection[T]{}
	}

	pagesFetchedTotal.WithLabelValues(string(e.strategy)).Inc()

	e.current = page
	e.offset = q.Offset

	if page.IsEmpty() {
		e.stopped = true
		emptyPageStopsTotal.WithLabelValues(string(e.strategy)).Inc()
		e.logger.Warn().
			Int("offset", q.Offset).
			Int("total_count", page.TotalCount).
			Msg("Empty page before reported total - stopping enumeration")
		return page, nil
	}

	e.logger.Debug().
		Int("offset", q.Offset).
		Int("items", page.Count()).
		Int("total_count", page.TotalCount).
		Msg("Fetched page")

	return page, nil
}

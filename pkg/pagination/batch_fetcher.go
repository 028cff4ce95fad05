package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
	"github.com/Sternrassler/partner-center-client/pkg/logging"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests.
	// Partner Center throttles per partner tenant, keep this small.
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
}

// DefaultConfig returns safe default configuration for Partner Center
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
	}
}

// BatchFetcher fetches all pages of an offset-paged collection in parallel.
type BatchFetcher[T any] struct {
	fetcher enumerator.Fetcher[T]
	config  Config
	logger  zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher enumerator.Fetcher[T], config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("pagination"),
	}
}

// FetchAll fetches the page at q.Offset and then every following page.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, q enumerator.Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	first, err := bf.fetcher.FetchPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	return bf.FetchRemaining(ctx, q, first)
}

// FetchRemaining fetches the pages following first, which was requested
// with q, and returns the items of all pages in collection order.
//
// Pages are fetched in waves of at most MaxConcurrency requests with a
// stride of q.PageSize, so pages are assumed to be full. The total of the
// most recent page bounds the next wave. Fetching stops after a wave that
// holds an empty or short page; items after an empty page are dropped.
// The first failing page cancels the wave and its error is returned.
func (bf *BatchFetcher[T]) FetchRemaining(ctx context.Context, q enumerator.Query, first *resource.Collection[T]) ([]T, error) {
	if first == nil {
		return nil, enumerator.ErrNilCollection
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := bf.logger.With().Str("path", q.Path).Logger()
	logger.Info().
		Int("total_count", first.TotalCount).
		Int("concurrency", bf.config.MaxConcurrency).
		Msg("Starting parallel page fetch")

	items := append([]T(nil), first.Items...)
	next := q.Offset + first.Count()
	total := first.TotalCount
	done := first.IsEmpty()
	pageCount := 1

	for !done {
		offsets := planOffsets(next, q.PageSize, min(total, next+q.PageSize*bf.config.MaxConcurrency))
		if len(offsets) == 0 {
			break
		}

		pages, err := bf.fetchWave(ctx, q, offsets, logger)
		if err != nil {
			return nil, err
		}

		before := pageCount
		for i, page := range pages {
			pageCount++
			if page.IsEmpty() {
				logger.Warn().
					Int("offset", offsets[i]).
					Int("total_count", total).
					Msg("Empty page before reported end of collection")
				done = true
				break
			}
			if page.Count() < q.PageSize {
				if offsets[i]+page.Count() < page.TotalCount {
					logger.Warn().
						Int("offset", offsets[i]).
						Int("items", page.Count()).
						Int("page_size", q.PageSize).
						Msg("Short page before end of collection")
				}
				done = true
			}
			items = append(items, page.Items...)
			total = page.TotalCount
		}

		// Progress logging every 50 pages
		if pageCount/50 != before/50 {
			logger.Info().
				Int("fetched", pageCount).
				Int("items", len(items)).
				Msg("Fetch progress")
		}

		next = offsets[len(offsets)-1] + q.PageSize
	}

	logger.Info().
		Int("pages", pageCount).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

// fetchWave fetches the pages at offsets concurrently and returns them in
// offset order.
func (bf *BatchFetcher[T]) fetchWave(ctx context.Context, q enumerator.Query, offsets []int, logger zerolog.Logger) ([]*resource.Collection[T], error) {
	pages := make([]*resource.Collection[T], len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)

	for i, offset := range offsets {
		g.Go(func() error {
			pageCtx, cancel := context.WithTimeout(gctx, bf.config.Timeout)
			defer cancel()

			page, err := bf.fetcher.FetchPage(pageCtx, q.At(offset))
			if err != nil {
				logger.Warn().
					Err(err).
					Int("offset", offset).
					Msg("Page fetch failed")
				return fmt.Errorf("fetch page at offset %d: %w", offset, err)
			}
			if page == nil {
				page = resource.NewCollection[T](nil, 0)
			}
			pages[i] = page
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// planOffsets returns the offsets from next up to total in steps of size.
func planOffsets(next, size, total int) []int {
	if size <= 0 {
		return nil
	}
	var offsets []int
	for o := next; o < total; o += size {
		offsets = append(offsets, o)
	}
	return offsets
}

package enumerator

import (
	"fmt"
	"sync"

	"github.com/Sternrassler/partner-center-client/pkg/resource"
)

// Strategy names a pagination scheme.
type Strategy string

const (
	// StrategyIndex pages with offset and size query parameters.
	StrategyIndex Strategy = "index"
)

// Factory creates enumerators for one collection type from an initial page.
type Factory[T any] interface {
	Create(initial *resource.Collection[T]) (Enumerator[T], error)
}

// IndexFactory creates IndexEnumerators bound to a fetcher and the query
// the initial page was requested with.
type IndexFactory[T any] struct {
	fetcher Fetcher[T]
	query   Query
}

// NewIndexFactory returns a factory for offset-paged collections.
func NewIndexFactory[T any](fetcher Fetcher[T], query Query) *IndexFactory[T] {
	return &IndexFactory[T]{
		fetcher: fetcher,
		query:   query,
	}
}

// Create returns an enumerator positioned on initial.
// A nil initial page is a programming error and yields ErrNilCollection.
func (f *IndexFactory[T]) Create(initial *resource.Collection[T]) (Enumerator[T], error) {
	if initial == nil {
		return nil, ErrNilCollection
	}
	if f.fetcher == nil {
		return nil, ErrNilFetcher
	}
	if err := f.query.Validate(); err != nil {
		return nil, err
	}
	return newIndexEnumerator(f.fetcher, f.query, initial), nil
}

// NewFactory returns the factory implementing strategy.
func NewFactory[T any](strategy Strategy, fetcher Fetcher[T], query Query) (Factory[T], error) {
	switch strategy {
	case StrategyIndex:
		return NewIndexFactory(fetcher, query), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Registry maps resource object types to their pagination strategy.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	fallback   Strategy
}

// NewRegistry returns a registry that answers fallback for unknown types.
func NewRegistry(fallback Strategy) *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
		fallback:   fallback,
	}
}

// Register binds objectType to strategy.
func (r *Registry) Register(objectType string, strategy Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[objectType] = strategy
}

// StrategyFor returns the strategy registered for objectType.
func (r *Registry) StrategyFor(objectType string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.strategies[objectType]; ok {
		return s
	}
	return r.fallback
}

// DefaultRegistry holds the bindings used by the partnercenter operations.
var DefaultRegistry = NewRegistry(StrategyIndex)

package enumerator

import (
	"context"
	"iter"
)

// Items yields every item of the current page and of all following pages.
// The sequence advances e, so it can be ranged over once. A fetch error is
// yielded with the zero item and ends the sequence.
func Items[T any](ctx context.Context, e Enumerator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			for _, item := range e.Current().Items {
				if !yield(item, nil) {
					return
				}
			}
			if !e.HasValue() {
				return
			}
			if err := e.Next(ctx); err != nil {
				var zero T
				yield(zero, err)
				return
			}
		}
	}
}

// Collect drains e and returns all items in order.
func Collect[T any](ctx context.Context, e Enumerator[T]) ([]T, error) {
	var items []T
	for item, err := range Items(ctx, e) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

package enumerator

import "errors"

var (
	// ErrNilCollection is returned when an enumerator is created without
	// an initial page.
	ErrNilCollection = errors.New("initial collection is required")

	// ErrNilFetcher is returned when a factory has no page fetcher.
	ErrNilFetcher = errors.New("page fetcher is required")

	// ErrExhausted is returned by Next once the enumeration has ended.
	// No fetch is issued in that case.
	ErrExhausted = errors.New("enumerator exhausted")

	// ErrInvalidQuery wraps query validation failures.
	ErrInvalidQuery = errors.New("invalid collection query")

	// ErrUnknownStrategy is returned for a strategy without an implementation.
	ErrUnknownStrategy = errors.New("unknown enumeration strategy")
)

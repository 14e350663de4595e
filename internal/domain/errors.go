package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when the user submits a blank query
	ErrEmptyQuery = errors.New("enter a query")

	// ErrProductNotFound is returned when the provider has no product for a barcode
	ErrProductNotFound = errors.New("product not found")

	// ErrCacheMiss is returned when a barcode is not in the lookup cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrProviderFailure is matched by every LookupError and SearchError
	ErrProviderFailure = errors.New("food database request failed")

	// ErrSuperseded is delivered to a session task replaced by a newer search
	ErrSuperseded = errors.New("search superseded by a newer query")
)

// LookupError wraps a network or decoding failure of a barcode lookup.
type LookupError struct {
	Barcode string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup of %s failed: %v", e.Barcode, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrProviderFailure }

// SearchError wraps a network or decoding failure of a name search.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

func (e *SearchError) Is(target error) bool { return target == ErrProviderFailure }

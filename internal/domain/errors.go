package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned before any store or network access when a
// request's start date is after its end date.
var ErrInvalidRange = errors.New("start date must be on or before end date")

// SymbolNotFoundError means no resolution tier could map the symbol to
// an upstream id. It carries the original input for diagnostics.
type SymbolNotFoundError struct {
	Symbol string
}

func (e SymbolNotFoundError) Error() string {
	return fmt.Sprintf("unknown or ambiguous symbol: %s", e.Symbol)
}

// UpstreamError means the upstream provider was unreachable or returned
// an unrecoverable status after all retry attempts were exhausted.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

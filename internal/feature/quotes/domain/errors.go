// Package domain defines domain-level errors for the quotes feature.
package domain

import "errors"

// Domain errors for quote lookups.
// Adapters wrap these with the upstream detail; upper layers match them with errors.Is.
var (
	// ErrEmptySymbol indicates that the requested symbol was blank after trimming.
	ErrEmptySymbol = errors.New("symbol is required")

	// ErrInvalidSymbol indicates that the quote source rejected the symbol or parameters.
	// The wrapped message is the source's own "Error Message" text.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrRateLimited indicates that the quote source returned a throttling notice.
	ErrRateLimited = errors.New("rate limited by quote source")

	// ErrNoData indicates that the response parsed but held no recognizable time series.
	ErrNoData = errors.New("no time series data")
)

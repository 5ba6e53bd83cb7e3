package types

import "errors"

var (
	// A feed could not be reached, answered with a non-2xx status or returned malformed JSON.
	ErrFetchFailure = errors.New("fetch failure")

	// An expected field is absent from every record, or a timestamp can't be parsed.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// Too few points to compute what was asked for.
	ErrInsufficientData = errors.New("insufficient data")
)

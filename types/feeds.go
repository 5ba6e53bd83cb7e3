package types

import (
	"context"
	"time"
)

// RawRecord is a single record as decoded from a feed's JSON "records" array.
type RawRecord = map[string]any

type PriceRecordProvider interface {
	// GetDayAheadPrices returns day-ahead price records from the given local
	// wall-clock time and onwards, sorted ascending by local time.
	GetDayAheadPrices(ctx context.Context, from time.Time) ([]RawRecord, error)
}

type GenerationRecordProvider interface {
	// GetPowerSystemRightNow returns the most recent generation mix records, newest first.
	GetPowerSystemRightNow(ctx context.Context) ([]RawRecord, error)
}

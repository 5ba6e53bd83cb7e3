package energidataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/types"
)

const (
	DayAheadPricesDataset = "DayAheadPrices"
	FieldTimeDK           = "TimeDK"
	FieldDayAheadPriceDKK = "DayAheadPriceDKK"
)

// GetDayAheadPrices returns the price area's day-ahead prices from the local
// wall-clock time from and as far ahead as they are published.
func (e EnergiDataService) GetDayAheadPrices(ctx context.Context, from time.Time) ([]types.RawRecord, error) {
	filter, err := json.Marshal(map[string][]string{"PriceArea": {e.priceArea}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode price area filter: %w", err)
	}

	query := url.Values{}
	query.Set("offset", "0")
	query.Set("start", hours.QueryString(from))
	query.Set("filter", string(filter))
	query.Set("sort", FieldTimeDK+" ASC")

	records, err := e.getRecords(ctx, DayAheadPricesDataset, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day-ahead prices for %s: %w", e.priceArea, err)
	}
	return records, nil
}

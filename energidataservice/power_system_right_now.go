package energidataservice

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/icodeforyou/spotboard-go/types"
)

const (
	PowerSystemRightNowDataset = "PowerSystemRightNow"
	FieldMinutes1UTC           = "Minutes1UTC"
	FieldProductionGe100MW     = "ProductionGe100MW"
	FieldProductionLt100MW     = "ProductionLt100MW"
	FieldSolarPower            = "SolarPower"
	FieldOffshoreWindPower     = "OffshoreWindPower"
	FieldOnshoreWindPower      = "OnshoreWindPower"
)

// GetPowerSystemRightNow returns the latest minute records of the national
// production mix, newest first.
func (e EnergiDataService) GetPowerSystemRightNow(ctx context.Context) ([]types.RawRecord, error) {
	query := url.Values{}
	query.Set("offset", "0")
	query.Set("sort", FieldMinutes1UTC+" DESC")
	query.Set("timezone", "utc")
	if e.generationLimit > 0 {
		query.Set("limit", strconv.Itoa(e.generationLimit))
	}

	records, err := e.getRecords(ctx, PowerSystemRightNowDataset, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch power system right now: %w", err)
	}
	return records, nil
}

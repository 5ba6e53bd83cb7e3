package spotprice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotboard-go/convert"
	"github.com/icodeforyou/spotboard-go/energidataservice"
	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/timeseries"
	"github.com/icodeforyou/spotboard-go/types"
	"github.com/icodeforyou/spotboard-go/types/maybe"
)

// The offsets below belong together: fetching from 30 hours back, index 25 of
// the hourly series is 5 hours before now, so a 27 hour slice from there shows
// the recent past plus what is published ahead, with now at index 5.
const (
	LookbackHours = 30
	RollingWindow = 24
	DisplayOffset = 25
	DisplayLength = 27
	// Hours too close to now to act on. The cheapest hour is never one of them.
	HoursPrior = 5
	// Display index of the current hour. Fixed by the offsets, not derived from the clock.
	NowIndex = HoursPrior

	Markup      = 1.25
	UnitDivisor = 1000.0

	// Fewer hours than this and the display slice can't hold now and an hour after it.
	minHours = DisplayOffset + HoursPrior + 1
)

type Hour struct {
	Time  time.Time
	Label string
	Price float64
}

type Result struct {
	Times           []time.Time
	Labels          []string
	Prices          []maybe.Maybe[float64] // DKK/kWh
	RollingAverages []maybe.Maybe[float64] // DKK/kWh, trailing 24 hours
	NowIndex        int
	NowPrice        maybe.Maybe[float64]
	Cheapest        Hour
}

type Pipeline struct {
	logger   *slog.Logger
	provider types.PriceRecordProvider
}

func New(logger *slog.Logger, provider types.PriceRecordProvider) *Pipeline {
	return &Pipeline{logger: logger, provider: provider}
}

// Run fetches the prices around now, a naive local wall-clock time, and derives
// what the dashboard shows.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Result, error) {
	from := now.Add(-LookbackHours * time.Hour)
	records, err := p.provider.GetDayAheadPrices(ctx, from)
	if err != nil {
		return Result{}, err
	}

	series, err := timeseries.Normalize(records, timeseries.Options{
		TimeField:   energidataservice.FieldTimeDK,
		ValueFields: []string{energidataservice.FieldDayAheadPriceDKK},
		Cadence:     time.Hour,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to normalize day-ahead prices: %w", err)
	}

	p.logger.Debug("day-ahead prices normalized",
		slog.String("from", hours.QueryString(from)),
		slog.Int("records", len(records)),
		slog.Int("hours", series.Len()))

	res, err := Compute(series, energidataservice.FieldDayAheadPriceDKK)
	if err != nil {
		return Result{}, err
	}

	p.logger.Debug("spot prices computed",
		slog.Int("displayHours", len(res.Prices)),
		slog.String("cheapest", res.Cheapest.Label),
		slog.Float64("cheapestPrice", res.Cheapest.Price))

	return res, nil
}

// ConsumerPrice converts a wholesale price per MWh into the consumer price per kWh.
func ConsumerPrice(wholesale float64) float64 {
	return convert.TwoDecimals(Markup * wholesale / UnitDivisor)
}

// Compute derives consumer prices, rolling averages, the display slice and the
// cheapest hour from an hourly series of wholesale prices in field.
func Compute(series timeseries.Series, field string) (Result, error) {
	if series.Cadence != time.Hour {
		return Result{}, fmt.Errorf("expected an hourly series, got cadence %s", series.Cadence)
	}
	if series.Len() < minHours {
		return Result{}, fmt.Errorf("%w: got %d hours of prices, need at least %d",
			types.ErrInsufficientData, series.Len(), minHours)
	}

	consumer := series.Map(field, ConsumerPrice)
	prices := consumer.Column(field)
	if prices == nil {
		return Result{}, fmt.Errorf("%w: series has no field %q", types.ErrSchemaMismatch, field)
	}
	rolling := timeseries.RollingMean(prices, RollingWindow)
	for i, r := range rolling {
		rolling[i] = maybe.Map(r, convert.TwoDecimals)
	}

	end := min(DisplayOffset+DisplayLength, len(prices))
	times := consumer.Times()[DisplayOffset:end]
	res := Result{
		Times:           times,
		Labels:          make([]string, len(times)),
		Prices:          prices[DisplayOffset:end],
		RollingAverages: rolling[DisplayOffset:end],
		NowIndex:        NowIndex,
	}
	for i, t := range times {
		res.Labels[i] = hours.Label(t)
	}
	res.NowPrice = res.Prices[NowIndex]

	idx, ok := Cheapest(res.Prices, HoursPrior)
	if !ok {
		return Result{}, fmt.Errorf("%w: no prices from %s and onwards",
			types.ErrInsufficientData, res.Labels[HoursPrior])
	}
	res.Cheapest = Hour{
		Time:  res.Times[idx],
		Label: res.Labels[idx],
		Price: res.Prices[idx].Value(),
	}

	return res, nil
}

// Cheapest returns the index of the lowest price after skipping the first skip
// entries. Ties go to the earliest hour, hours without a price are ignored.
func Cheapest(prices []maybe.Maybe[float64], skip int) (int, bool) {
	best := -1
	for i := max(skip, 0); i < len(prices); i++ {
		if !prices[i].IsValid() {
			continue
		}
		if best < 0 || prices[i].Value() < prices[best].Value() {
			best = i
		}
	}
	return best, best >= 0
}

package genmix

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotboard-go/convert"
	"github.com/icodeforyou/spotboard-go/energidataservice"
	"github.com/icodeforyou/spotboard-go/timeseries"
	"github.com/icodeforyou/spotboard-go/types"
	"github.com/icodeforyou/spotboard-go/types/maybe"
)

type Component struct {
	Field string
	Label string
	Green bool
}

// Components in presentation order.
var Components = []Component{
	{Field: energidataservice.FieldProductionGe100MW, Label: "Large units"},
	{Field: energidataservice.FieldProductionLt100MW, Label: "Small units"},
	{Field: energidataservice.FieldSolarPower, Label: "Solar", Green: true},
	{Field: energidataservice.FieldOffshoreWindPower, Label: "Offshore wind", Green: true},
	{Field: energidataservice.FieldOnshoreWindPower, Label: "Onshore wind", Green: true},
}

// Snapshot is the production mix of a single minute, in MW.
type Snapshot struct {
	Time   time.Time
	Values []maybe.Maybe[float64] // same order as Components
}

// GreenShare is the fraction of production from solar and wind. There is no
// value when nothing is produced at all.
func (s Snapshot) GreenShare() maybe.Maybe[float64] {
	green, total := 0.0, 0.0
	for i, c := range Components {
		v := s.Values[i].ValueOrDefault(0)
		total += v
		if c.Green {
			green += v
		}
	}
	share, ok := convert.Ratio(green, total)
	if !ok {
		return maybe.None[float64]()
	}
	return maybe.Some(share)
}

type Result struct {
	Snapshot   Snapshot
	Labels     []string
	GreenShare maybe.Maybe[float64]
}

type Pipeline struct {
	logger   *slog.Logger
	provider types.GenerationRecordProvider
}

func New(logger *slog.Logger, provider types.GenerationRecordProvider) *Pipeline {
	return &Pipeline{logger: logger, provider: provider}
}

func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	records, err := p.provider.GetPowerSystemRightNow(ctx)
	if err != nil {
		return Result{}, err
	}

	snapshot, err := Latest(records)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Snapshot:   snapshot,
		Labels:     Labels(),
		GreenShare: snapshot.GreenShare(),
	}

	p.logger.Debug("generation mix computed",
		slog.Int("records", len(records)),
		slog.Time("minute", snapshot.Time),
		slog.String("greenShare", res.GreenShare.Sprintf("%.4f")))

	return res, nil
}

// Latest normalizes generation records and returns the most recent minute.
func Latest(records []types.RawRecord) (Snapshot, error) {
	fields := make([]string, len(Components))
	for i, c := range Components {
		fields[i] = c.Field
	}

	series, err := timeseries.Normalize(records, timeseries.Options{
		TimeField:   energidataservice.FieldMinutes1UTC,
		ValueFields: fields,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to normalize generation mix: %w", err)
	}

	latest, ok := series.Latest()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: no generation mix records", types.ErrInsufficientData)
	}

	return Snapshot{Time: latest.Time, Values: latest.Values}, nil
}

func Labels() []string {
	labels := make([]string, len(Components))
	for i, c := range Components {
		labels[i] = c.Label
	}
	return labels
}

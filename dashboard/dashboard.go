package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotboard-go/genmix"
	"github.com/icodeforyou/spotboard-go/spotprice"
	"github.com/icodeforyou/spotboard-go/types/maybe"
	"golang.org/x/sync/errgroup"
)

type PricePipeline interface {
	Run(ctx context.Context, now time.Time) (spotprice.Result, error)
}

type GenerationPipeline interface {
	Run(ctx context.Context) (genmix.Result, error)
}

// Board is everything the dashboard page shows.
type Board struct {
	Now              time.Time
	PriceLabels      []string
	Prices           []maybe.Maybe[float64]
	RollingAverages  []maybe.Maybe[float64]
	NowIndex         int
	NowPrice         maybe.Maybe[float64]
	CheapestLabel    string
	CheapestPrice    float64
	GenerationTime   time.Time
	GenerationLabels []string
	GenerationValues []maybe.Maybe[float64]
	GreenShare       maybe.Maybe[float64]
}

func (b Board) SpotTitle() string {
	return fmt.Sprintf("Spotpris %s er %s DKK", b.Now.Format("02. Jan 2006 kl. 15:04"), b.NowPrice.Sprintf("%.2f"))
}

func (b Board) CheapestTitle() string {
	return fmt.Sprintf("Laveste pris er %s til %.2f DKK", b.CheapestLabel, b.CheapestPrice)
}

func (b Board) GreenTitle() string {
	return GreenTitle(b.GreenShare)
}

func GreenTitle(share maybe.Maybe[float64]) string {
	if !share.IsValid() {
		return "No generation data"
	}
	return fmt.Sprintf("%.2f%% Green energy", share.Value()*100)
}

type Assembler struct {
	logger     *slog.Logger
	prices     PricePipeline
	generation GenerationPipeline
	concurrent bool
}

func New(logger *slog.Logger, prices PricePipeline, generation GenerationPipeline, concurrent bool) *Assembler {
	return &Assembler{
		logger:     logger,
		prices:     prices,
		generation: generation,
		concurrent: concurrent,
	}
}

// Generation runs only the generation mix pipeline.
func (a *Assembler) Generation(ctx context.Context) (genmix.Result, error) {
	mix, err := a.generation.Run(ctx)
	if err != nil {
		return genmix.Result{}, fmt.Errorf("generation mix: %w", err)
	}
	return mix, nil
}

// Assemble runs both pipelines for now, a naive local wall-clock time. Any
// pipeline failure fails the whole board.
func (a *Assembler) Assemble(ctx context.Context, now time.Time) (Board, error) {
	var spot spotprice.Result
	var mix genmix.Result

	runPrices := func(ctx context.Context) error {
		var err error
		if spot, err = a.prices.Run(ctx, now); err != nil {
			return fmt.Errorf("spot prices: %w", err)
		}
		return nil
	}
	runGeneration := func(ctx context.Context) error {
		var err error
		mix, err = a.Generation(ctx)
		return err
	}

	start := time.Now()
	if a.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return runPrices(gctx) })
		g.Go(func() error { return runGeneration(gctx) })
		if err := g.Wait(); err != nil {
			return Board{}, err
		}
	} else {
		if err := runPrices(ctx); err != nil {
			return Board{}, err
		}
		if err := runGeneration(ctx); err != nil {
			return Board{}, err
		}
	}

	a.logger.Debug("dashboard assembled",
		slog.Time("now", now),
		slog.Bool("concurrent", a.concurrent),
		slog.Duration("elapsed", time.Since(start)))

	return Board{
		Now:              now,
		PriceLabels:      spot.Labels,
		Prices:           spot.Prices,
		RollingAverages:  spot.RollingAverages,
		NowIndex:         spot.NowIndex,
		NowPrice:         spot.NowPrice,
		CheapestLabel:    spot.Cheapest.Label,
		CheapestPrice:    spot.Cheapest.Price,
		GenerationTime:   mix.Snapshot.Time,
		GenerationLabels: mix.Labels,
		GenerationValues: mix.Snapshot.Values,
		GreenShare:       mix.GreenShare,
	}, nil
}

package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/icodeforyou/spotboard-go/genmix"
	"github.com/icodeforyou/spotboard-go/spotprice"
	"github.com/icodeforyou/spotboard-go/types"
	"github.com/icodeforyou/spotboard-go/types/maybe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 3, 13, 20, 0, 0, time.UTC)

type fakePrices struct {
	res   spotprice.Result
	err   error
	calls atomic.Int32
	now   time.Time
}

func (f *fakePrices) Run(_ context.Context, now time.Time) (spotprice.Result, error) {
	f.calls.Add(1)
	f.now = now
	return f.res, f.err
}

type fakeGeneration struct {
	res   genmix.Result
	err   error
	calls atomic.Int32
}

func (f *fakeGeneration) Run(context.Context) (genmix.Result, error) {
	f.calls.Add(1)
	return f.res, f.err
}

func spotResult() spotprice.Result {
	return spotprice.Result{
		Labels:          []string{"Mon 08:00", "Mon 09:00"},
		Prices:          []maybe.Maybe[float64]{maybe.Some(1.5), maybe.Some(1.2)},
		RollingAverages: []maybe.Maybe[float64]{maybe.None[float64](), maybe.Some(1.35)},
		NowIndex:        spotprice.NowIndex,
		NowPrice:        maybe.Some(1.5),
		Cheapest:        spotprice.Hour{Label: "Mon 09:00", Price: 1.2},
	}
}

func mixResult() genmix.Result {
	return genmix.Result{
		Snapshot: genmix.Snapshot{
			Time:   time.Date(2025, time.March, 3, 12, 19, 0, 0, time.UTC),
			Values: []maybe.Maybe[float64]{maybe.Some(100.0), maybe.Some(20.0), maybe.Some(10.0), maybe.Some(15.0), maybe.Some(5.0)},
		},
		Labels:     genmix.Labels(),
		GreenShare: maybe.Some(0.2),
	}
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAssemble(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			prices := &fakePrices{res: spotResult()}
			generation := &fakeGeneration{res: mixResult()}

			board, err := New(logger(), prices, generation, concurrent).Assemble(context.Background(), now)
			require.NoError(t, err)

			assert.Equal(t, now, prices.now)
			assert.Equal(t, []string{"Mon 08:00", "Mon 09:00"}, board.PriceLabels)
			assert.Equal(t, spotprice.NowIndex, board.NowIndex)
			assert.Equal(t, "Mon 09:00", board.CheapestLabel)
			assert.Equal(t, 1.2, board.CheapestPrice)
			assert.Equal(t, genmix.Labels(), board.GenerationLabels)
			assert.Len(t, board.GenerationValues, 5)
			assert.Equal(t, 0.2, board.GreenShare.Value())

			assert.Equal(t, "Spotpris 03. Mar 2025 kl. 13:20 er 1.50 DKK", board.SpotTitle())
			assert.Equal(t, "Laveste pris er Mon 09:00 til 1.20 DKK", board.CheapestTitle())
			assert.Equal(t, "20.00% Green energy", board.GreenTitle())
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	priceFailure := fmt.Errorf("%w: unexpected status code: 500", types.ErrFetchFailure)
	tooFew := fmt.Errorf("%w: got 0 hours", types.ErrInsufficientData)

	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("prices fail, concurrent=%v", concurrent), func(t *testing.T) {
			_, err := New(logger(), &fakePrices{err: priceFailure}, &fakeGeneration{res: mixResult()}, concurrent).
				Assemble(context.Background(), now)
			require.ErrorIs(t, err, types.ErrFetchFailure)
			assert.Contains(t, err.Error(), "spot prices")
		})

		t.Run(fmt.Sprintf("generation fails, concurrent=%v", concurrent), func(t *testing.T) {
			_, err := New(logger(), &fakePrices{res: spotResult()}, &fakeGeneration{err: tooFew}, concurrent).
				Assemble(context.Background(), now)
			require.ErrorIs(t, err, types.ErrInsufficientData)
			assert.Contains(t, err.Error(), "generation mix")
		})
	}
}

func TestAssembleSequentialStopsAtFirstFailure(t *testing.T) {
	generation := &fakeGeneration{res: mixResult()}
	_, err := New(logger(), &fakePrices{err: types.ErrFetchFailure}, generation, false).
		Assemble(context.Background(), now)
	require.Error(t, err)
	assert.Equal(t, int32(0), generation.calls.Load())
}

func TestTitlesWithoutValues(t *testing.T) {
	b := Board{Now: now, NowPrice: maybe.None[float64](), GreenShare: maybe.None[float64]()}
	assert.Equal(t, "Spotpris 03. Mar 2025 kl. 13:20 er - DKK", b.SpotTitle())
	assert.Equal(t, "No generation data", b.GreenTitle())
}

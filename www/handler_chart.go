package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/genmix"
	"github.com/icodeforyou/spotboard-go/slice"
	"github.com/icodeforyou/spotboard-go/www/chartjs"
)

type chartResponse struct {
	NowIndex int             `json:"nowIndex"`
	Charts   []chartjs.Chart `json:"charts"`
}

func NewChartHandler(logger *slog.Logger, assembler BoardAssembler, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := assembler.Assemble(r.Context(), nowFn())
		if err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(newChartResponse(board)); err != nil {
			logger.Error("encoding chart response", slog.Any("error", err))
		}
	}
}

// newChartResponse builds the charts from the same board the page renders.
func newChartResponse(board dashboard.Board) chartResponse {
	return chartResponse{
		NowIndex: board.NowIndex,
		Charts:   []chartjs.Chart{priceChart(board), generationChart(board)},
	}
}

func priceChart(board dashboard.Board) chartjs.Chart {
	chart := chartjs.NewChart("line", board.SpotTitle(), board.PriceLabels)
	chart.AddDataset("Spot price", chartjs.Values(board.Prices, 2), chartjs.ColorYellow)
	chart.AddDataset("24h average", chartjs.Values(board.RollingAverages, 2), chartjs.ColorRed)
	chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle("DKK/kWh")
	return chart
}

func generationChart(board dashboard.Board) chartjs.Chart {
	chart := chartjs.NewChart("bar", board.GreenTitle(), board.GenerationLabels)
	colors := slice.Map(genmix.Components, func(c genmix.Component) string {
		if c.Green {
			return chartjs.ColorGreen
		}
		return chartjs.ColorGrey
	})
	chart.AddBarDataset("Production", chartjs.Values(board.GenerationValues, 0), colors)
	chart.Options.Plugins.Legend.Display = false
	chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle("MW")
	return chart
}

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/hours"
)

type BoardAssembler interface {
	Assemble(ctx context.Context, now time.Time) (dashboard.Board, error)
}

// NewDashboardProbeTask assembles the dashboard in the background and logs
// the headline figures, so a broken feed shows up in the log before anyone
// opens the page.
func NewDashboardProbeTask(logger *slog.Logger, assembler BoardAssembler, timeout time.Duration) func() {
	return func() {
		logger.Debug("running dashboard probe...")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		board, err := assembler.Assemble(ctx, hours.NowNaive())
		if err != nil {
			logger.Error("dashboard probe error", slog.Any("error", err))
			return
		}

		logger.Info("dashboard probe done",
			slog.String("spot", board.SpotTitle()),
			slog.String("cheapest", board.CheapestTitle()),
			slog.String("green", board.GreenTitle()))
	}
}

package www

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/genmix"
)

type BoardAssembler interface {
	Assemble(ctx context.Context, now time.Time) (dashboard.Board, error)
	Generation(ctx context.Context) (genmix.Result, error)
}

type dashboardPage struct {
	Page   pageInfo
	Board  dashboard.Board
	Charts chartResponse
}

func NewDashboardHandler(logger *slog.Logger, assembler BoardAssembler, tm *TemplateManager, info pageInfo, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := assembler.Assemble(r.Context(), nowFn())
		if err != nil {
			logger.Error("handling dashboard request", slog.Any("error", err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tm.ExecuteToWriter("dashboard.html", dashboardPage{
			Page:   info,
			Board:  board,
			Charts: newChartResponse(board),
		}, w); err != nil {
			logger.Error("rendering dashboard", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func NewMeterHandler(logger *slog.Logger, tm *TemplateManager, info pageInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tm.ExecuteToWriter("meter.html", info, w); err != nil {
			logger.Error("handling meter request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

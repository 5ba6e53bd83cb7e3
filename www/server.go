package www

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/google/uuid"
	"github.com/icodeforyou/spotboard-go/config"
	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/types"
)

//go:embed static
var embeddedStaticDir embed.FS

type Server struct {
	logger  *slog.Logger
	config  config.AppConfigApi
	handler http.Handler
}

type pageInfo struct {
	Version      string
	LiveInterval time.Duration
}

func NewServer(assembler BoardAssembler, cnfg *config.AppConfig, version string) (*Server, error) {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, cnfg.Api.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization error: %w", err)
	}

	static, err := staticFilesHandler(cnfg.Api.WwwDir)
	if err != nil {
		return nil, err
	}

	info := pageInfo{Version: version, LiveInterval: cnfg.Dashboard.LiveInterval}
	mux := http.NewServeMux()

	mux.Handle("/static/", gziphandler.GzipHandler(http.StripPrefix("/static/", static)))

	mux.Handle("GET /{$}", gziphandler.GzipHandler(logReqMW(logger, NewDashboardHandler(
		logger.With(slog.String("handler", "dashboard")),
		assembler,
		tm,
		info,
		hours.NowNaive))))

	mux.Handle("GET /chart", gziphandler.GzipHandler(logReqMW(logger, NewChartHandler(
		logger.With(slog.String("handler", "chart")),
		assembler,
		hours.NowNaive))))

	mux.Handle("GET /chrx", gziphandler.GzipHandler(logReqMW(logger, NewMeterHandler(
		logger.With(slog.String("handler", "meter")),
		tm,
		info))))

	// not gzipped, the connection is hijacked
	mux.Handle("GET /ws", logReqMW(logger, NewLiveHandler(
		logger.With(slog.String("handler", "live")),
		assembler,
		tm,
		cnfg.Dashboard.LiveInterval)))

	return &Server{
		logger:  logger,
		config:  cnfg.Api,
		handler: mux,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", slog.String("address", s.config.Address), slog.Int("port", s.config.Port))
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.Any("error", err))
		}

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
		}
	}
}

func logReqMW(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
		logger.Debug("http request",
			slog.String("requestId", requestID),
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remoteAddr", r.RemoteAddr),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// statusFor maps a pipeline failure to the status code of the response.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInsufficientData):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrFetchFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func staticFilesHandler(extDir *string) (http.Handler, error) {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir)), nil
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded static files: %w", err)
	}
	return http.FileServer(http.FS(fsys)), nil
}

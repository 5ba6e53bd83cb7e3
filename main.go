package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icodeforyou/spotboard-go/config"
	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/energidataservice"
	"github.com/icodeforyou/spotboard-go/genmix"
	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/logging"
	"github.com/icodeforyou/spotboard-go/spotprice"
	"github.com/icodeforyou/spotboard-go/task"
	"github.com/icodeforyou/spotboard-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := cnfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	if err := hours.SetLocalTimezone(cnfg.Dashboard.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set local timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	logger := slog.New(consoleHandler)
	logger.Debug("spotboard is starting...", slog.String("version", Version))

	if cnfg.Logging.File != nil && *cnfg.Logging.File != "" {
		fileHandler, file, err := logging.NewFileHandler(*cnfg.Logging.File, cnfg.Logging.GetFileLevel())
		if err != nil {
			panic(fmt.Sprintf("failed to open log file: %v", err))
		}
		defer file.Close()
		logger = slog.New(logging.NewMultiHandler(consoleHandler, fileHandler))
	}
	slog.SetDefault(logger)

	eds := energidataservice.New(
		cnfg.EnergiDataService.BaseURL,
		cnfg.EnergiDataService.PriceArea,
		cnfg.EnergiDataService.GenerationLimit,
		cnfg.EnergiDataService.Timeout)

	assembler := dashboard.New(
		logger.With("module", "dashboard"),
		spotprice.New(logger.With("module", "spotprice"), eds),
		genmix.New(logger.With("module", "genmix"), eds),
		cnfg.Dashboard.ConcurrentFetch)

	tasks := task.NewTasks(assembler, cnfg)
	if err := tasks.Run(); err != nil {
		panic(fmt.Sprintf("failed to start tasks: %v", err))
	}
	defer tasks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server, err := www.NewServer(assembler, cnfg, Version)
	if err != nil {
		panic(fmt.Sprintf("failed to create server: %v", err))
	}
	server.Run(ctx)
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}

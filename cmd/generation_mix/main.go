package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/icodeforyou/spotboard-go/config"
	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/energidataservice"
	"github.com/icodeforyou/spotboard-go/genmix"
	"github.com/lmittmann/tint"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	w := os.Stdout
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}))
	slog.SetDefault(logger)

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	eds := energidataservice.New(
		cnfg.EnergiDataService.BaseURL,
		cnfg.EnergiDataService.PriceArea,
		cnfg.EnergiDataService.GenerationLimit,
		cnfg.EnergiDataService.Timeout)

	res, err := genmix.New(logger, eds).Run(context.Background())
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(w, "minute: %s\n", res.Snapshot.Time.Format(time.RFC3339))
	for i, label := range res.Labels {
		fmt.Fprintf(w, "%-14s %8s MW\n", label, res.Snapshot.Values[i].Sprintf("%.1f"))
	}
	fmt.Fprintln(w, dashboard.GreenTitle(res.GreenShare))
}

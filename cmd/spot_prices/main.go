package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/icodeforyou/spotboard-go/config"
	"github.com/icodeforyou/spotboard-go/energidataservice"
	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/spotprice"
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
	if err := hours.SetLocalTimezone(cnfg.Dashboard.GetTimezone()); err != nil {
		panic(err)
	}

	eds := energidataservice.New(
		cnfg.EnergiDataService.BaseURL,
		cnfg.EnergiDataService.PriceArea,
		cnfg.EnergiDataService.GenerationLimit,
		cnfg.EnergiDataService.Timeout)

	res, err := spotprice.New(logger, eds).Run(context.Background(), hours.NowNaive())
	if err != nil {
		panic(err)
	}

	for i, label := range res.Labels {
		marker := " "
		if i == res.NowIndex {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %s  %6s  %6s\n", marker, label,
			res.Prices[i].Sprintf("%.2f"),
			res.RollingAverages[i].Sprintf("%.2f"))
	}
	fmt.Fprintf(w, "cheapest: %s %.2f DKK\n", res.Cheapest.Label, res.Cheapest.Price)
}

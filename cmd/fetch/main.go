package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"marketdesk/internal/config"
	"marketdesk/internal/finance"
	"marketdesk/internal/httpx"
	"marketdesk/internal/logging"
	"marketdesk/internal/provider/fxrates"
	"marketdesk/internal/provider/yahoo"
)

// One-shot lookup tool: exercises the same wiring as the server for a
// single price, chart, news or conversion call and prints the JSON.
func main() {
	var mode string
	var symbol string
	var period1, period2 string
	var value float64
	var base, target string
	var timeout int
	var configPath string

	flag.StringVar(&mode, "mode", "price", "one of: price, chart, news, convert")
	flag.StringVar(&symbol, "symbol", getenv("SYMBOL", "AAPL"), "instrument symbol")
	flag.StringVar(&period1, "period1", "", "chart start date (DD/MM/YYYY)")
	flag.StringVar(&period2, "period2", "", "chart end date (DD/MM/YYYY)")
	flag.Float64Var(&value, "value", 1, "value to convert")
	flag.StringVar(&base, "base", "USD", "base currency")
	flag.StringVar(&target, "target", "KZT", "target currency")
	flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithHTTPClient(httpClient),
	)
	ratesOpts := []fxrates.ClientOption{fxrates.WithHTTPClient(httpClient)}
	if cfg.Rates.BaseURL != "" {
		ratesOpts = append(ratesOpts, fxrates.WithBaseURL(cfg.Rates.BaseURL))
	}
	ratesClient := fxrates.NewClient(cfg.Rates.APIKey, ratesOpts...)

	svc := finance.New(yahooClient, ratesClient, finance.Config{
		NewsCount:      cfg.Yahoo.NewsCount,
		MaxConcurrency: cfg.Batch.MaxConcurrency,
	}, logging.New(slog.LevelDebug, os.Stderr))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()

	var out any
	switch mode {
	case "price":
		out, err = svc.CurrentPrice(ctx, symbol)
	case "chart":
		out, err = svc.StockData(ctx, symbol, period1, period2)
	case "news":
		out, err = svc.News(ctx, symbol)
	case "convert":
		var converted float64
		converted, err = svc.Convert(ctx, value, base, target)
		out = map[string]any{"value": value, "base": base, "target": target, "convertedValue": converted}
	default:
		log.Fatalf("unknown mode %q", mode)
	}
	if err != nil {
		log.Fatalf("%s %s: %v", mode, symbol, err)
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x != 0 {
			return x
		}
	}
	return def
}

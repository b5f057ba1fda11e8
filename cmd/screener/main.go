package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ExpoScreener/internal/cache"
	"ExpoScreener/internal/collector"
	"ExpoScreener/internal/config"
	"ExpoScreener/internal/directory"
	"ExpoScreener/internal/model"
	"ExpoScreener/internal/scheduler"
	"ExpoScreener/internal/screener"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ExpoScreener starting...")

	count := flag.Int("count", 0, "target number of usable symbols (overrides config)")
	fromCache := flag.Bool("from-cache", false, "read the previously cached batch instead of scanning")
	schedule := flag.Bool("schedule", false, "run scans on the configured cron schedule until interrupted")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file, relying on environment")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache store
	store, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] init cache: %v", err)
	}
	defer store.Close()

	if *fromCache {
		batch, err := store.Load()
		if err != nil {
			log.Fatalf("[FATAL] load cached batch: %v", err)
		}
		printSummary(batch, cfg.Screener.ChartsDir)
		return
	}

	// Init market data provider
	var provider collector.Provider
	switch cfg.MarketData.Source {
	case "alpaca":
		provider = collector.NewAlpacaProvider(cfg.MarketData.AlpacaKey, cfg.MarketData.AlpacaSecret)
	default:
		provider = collector.NewYahooProvider(cfg.Proxy)
	}
	log.Printf("[INFO] market data source: %s", provider.Name())

	delay := time.Duration(cfg.Screener.RequestDelaySec * float64(time.Second))
	client := collector.NewClient(provider, delay)

	dir := directory.NewFinnhubDirectory(cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey,
		cfg.Finnhub.Exchange, cfg.Finnhub.SecurityTypes, cfg.Proxy)

	scr := screener.New(dir, client, store, cfg.Screener.LookbackYears, cfg.Screener.R2Threshold)

	target := cfg.Screener.TargetCount
	if *count > 0 {
		target = *count
	}

	if *schedule {
		sched := scheduler.NewScheduler(scr, target)
		if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
			log.Fatalf("[FATAL] register cron task: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, scanning now")
			go sched.RunNow()
		}

		log.Println("[INFO] ExpoScreener is running. Press Ctrl+C to stop.")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		return
	}

	batch, err := scr.Run(target)
	if err != nil {
		log.Fatalf("[FATAL] scan: %v", err)
	}
	printSummary(batch, cfg.Screener.ChartsDir)
}

// printSummary writes one line per record; this is the hand-off point
// for the report renderer, which consumes the cached batch and the
// chart path convention.
func printSummary(batch model.Batch, chartsDir string) {
	for _, rec := range batch {
		if rec.Trend.IsExponential {
			fmt.Printf("* %-8s r2=%.3f cagr=%+.2f%%  %s  (%s)\n",
				rec.Info.Ticker, rec.Trend.R2, rec.Trend.CAGR*100,
				rec.Info.Name, model.ChartPath(chartsDir, rec.Info.Ticker))
			continue
		}
		fmt.Printf("  %-8s r2=%.3f cagr=%+.2f%%  %s\n",
			rec.Info.Ticker, rec.Trend.R2, rec.Trend.CAGR*100, rec.Info.Name)
	}
	log.Printf("[INFO] %d symbols in batch", len(batch))
}

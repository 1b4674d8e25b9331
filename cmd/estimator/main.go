package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"MarketSizer/internal/config"
	"MarketSizer/internal/notifier"
	"MarketSizer/internal/recorder"
	"MarketSizer/internal/scheduler"
	"MarketSizer/internal/weighting"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketSizer starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
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

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var sender notifier.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	weights := weighting.Model{ZeroShareIsOverride: cfg.Weighting.ZeroShareIsOverride}
	sched := scheduler.NewScheduler(ctx, cfg.Scenario.Path, cfg.Export.CSVPath, weights, rec, sender)

	// One-shot mode
	if cfg.Schedule.BatchCron == "" {
		cancel()
		os.Exit(runOnce(sched, rec))
	}
	defer closeRecorder(rec)

	if err := sched.Register(cfg.Schedule.BatchCron); err != nil {
		closeRecorder(rec)
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch now")
		go func() {
			if _, err := sched.RunBatch(); err != nil {
				log.Printf("[ERROR] batch run: %v", err)
			}
		}()
	}

	log.Println("[INFO] MarketSizer is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] MarketSizer stopped")
}

// runOnce runs a single batch, closes rec and returns the exit code.
func runOnce(sched *scheduler.Scheduler, rec recorder.Recorder) int {
	defer closeRecorder(rec)
	res, err := sched.RunBatch()
	if err != nil {
		log.Printf("[ERROR] batch run: %v", err)
		return 1
	}
	log.Printf("[INFO] run %s done: %d estimated, %d failed", res.RunID, res.Report.Succeeded, res.Report.Failed)
	return 0
}

func closeRecorder(rec recorder.Recorder) {
	if err := rec.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}

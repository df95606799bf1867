package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MetalWatch/internal/collector"
	"MetalWatch/internal/config"
	"MetalWatch/internal/httpclient"
	"MetalWatch/internal/model"
	"MetalWatch/internal/notifier"
	"MetalWatch/internal/recorder"
	"MetalWatch/internal/server"
	"MetalWatch/internal/watcher"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("MetalWatch starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Shared outbound HTTP client (rate-limited for free-tier providers).
	client := httpclient.New(httpclient.Options{Timeout: 30 * time.Second, RequestsPerSec: 3})

	// Init price fetcher. Missing keys are a normal condition: the collector
	// falls back to deterministic mock data.
	var live collector.Fetcher
	if cfg.DataSource.MetalPriceAPIKey != "" {
		live = collector.NewMetalPriceFetcher(cfg.DataSource.MetalPriceAPIKey, client)
		log.Info().Str("source", live.Name()).Msg("live price source configured")
	} else {
		log.Warn().Msg("METALPRICEAPI_KEY not set, using mock price data")
	}

	var finder collector.SourceFinder
	if cfg.DataSource.ExaAPIKey != "" {
		finder = collector.NewExaFinder(cfg.DataSource.ExaAPIKey, client)
	} else {
		log.Warn().Msg("EXA_API_KEY not set, using mock price sources")
	}

	var insighter collector.Insighter
	if cfg.DataSource.CerebrasAPIKey != "" {
		insighter = collector.NewCerebrasInsighter(cfg.DataSource.CerebrasAPIKey, client)
	} else {
		log.Warn().Msg("CEREBRAS_API_KEY not set, using mock market insights")
	}

	rates := collector.NewRateFetcher(cfg.DataSource.ExchangeRateAPIKey, client)
	col := collector.New(live, finder, insighter, rates)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init email notifier
	mailer := notifier.NewEmailNotifier(cfg.SMTP.Server, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init watcher
	metals := make([]model.Metal, 0, len(cfg.Watch.Metals))
	for _, m := range cfg.Watch.Metals {
		metal, _ := model.ParseMetal(m)
		metals = append(metals, metal)
	}
	period, _ := model.ParsePeriod(cfg.Watch.Period)
	currency, _ := model.ParseCurrency(cfg.Watch.Currency)

	w := watcher.New(ctx, col, mailer, rec, watcher.Options{
		Metals:    metals,
		Period:    period,
		Currency:  currency,
		AlertCfg:  cfg.AlertConfig(),
		Recipient: cfg.Alert.Recipient,
	})
	if err := w.Register(cfg.Watch.Cron); err != nil {
		log.Fatal().Err(err).Msg("register watch task")
	}
	w.Start()
	defer w.Stop()

	// Optional: run a check immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing watch check now")
		go w.RunNow()
	}

	// Init API server
	keyStatus := map[string]bool{
		"metalpriceapi": cfg.DataSource.MetalPriceAPIKey != "",
		"exa":           cfg.DataSource.ExaAPIKey != "",
		"exchangerate":  cfg.DataSource.ExchangeRateAPIKey != "",
		"cerebras":      cfg.DataSource.CerebrasAPIKey != "",
		"smtp":          cfg.SMTP.Email != "",
	}
	handler := server.NewHandler(col, rec, cfg.AlertConfig(), keyStatus)
	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.NewRouter(handler),
	}
	go func() {
		log.Info().Str("addr", cfg.Server.ListenAddr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server")
		}
	}()

	log.Info().Msg("MetalWatch is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown")
	}
	cancel()
	log.Info().Msg("MetalWatch stopped")
}

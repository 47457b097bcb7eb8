package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/config"
	"ping-monitor/internal/database"
	"ping-monitor/internal/metrics"
	"ping-monitor/internal/monitor"
	"ping-monitor/internal/ping"
	"ping-monitor/internal/report"
	"ping-monitor/internal/web"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	// Parse configuration
	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.SetupLogging(cfg); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// One-shot report mode
	if cfg.ReportDir != "" {
		dir, err := report.NewGenerator(db).GenerateReport(cfg.ReportDir, cfg.ReportHours)
		if err != nil {
			log.Fatalf("Failed to generate report: %v", err)
		}
		log.Infof("Report written to %s", dir)
		return
	}

	// Initialize components
	registry := prometheus.NewRegistry()
	pinger := ping.New()
	mon := monitor.New(cfg, db, pinger, metrics.NewWithRegistry(registry))
	webServer := web.New(db, mon, cfg.Port, staticFiles,
		web.WithGatherer(registry),
		web.WithStatsCacheTTL(cfg.StatsCacheTTL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mon.Start(ctx); err != nil {
		log.Fatalf("Failed to start monitor: %v", err)
	}

	go func() {
		if err := webServer.Start(); err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}
	}()

	log.Infof("Web interface available at http://localhost:%d", cfg.Port)

	<-ctx.Done()
	log.Info("Shutting down...")
	if err := webServer.Stop(); err != nil {
		log.Warnf("Web server shutdown: %v", err)
	}
	mon.Stop()
	mon.Wait()

	for _, summary := range mon.Summaries() {
		if text, ok := mon.Summary(summary.Host); ok {
			log.WithField("host", summary.Host).Info("Final summary\n" + text)
		}
	}
}

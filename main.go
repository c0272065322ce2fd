package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/config"
	"github.com/mauv0809/worldcup-sim/internal/database"
	server "github.com/mauv0809/worldcup-sim/internal/http"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/notifier"
	"github.com/mauv0809/worldcup-sim/internal/notifier/slack"
	"github.com/mauv0809/worldcup-sim/internal/processor"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	runStore := runs.New(db)
	counters := metrics.New(db)
	metricsSvc := metrics.NewService(prometheus.DefaultRegisterer)
	metricsHandler := metrics.NewMetricsHandler(prometheus.DefaultGatherer)

	// Interfaces stay nil when a backend is not configured.
	var notif notifier.Notifier
	var procNotif processor.Notifier
	if cfg.Slack.Enabled() {
		n := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc, counters)
		notif, procNotif = n, n
	} else {
		log.Warn("Slack is not configured, forecasts will not be posted")
	}

	var ps pubsub.PubSubClient
	if cfg.ProjectID != "" {
		ps, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer ps.Close()
	} else {
		log.Warn("GCP_PROJECT is not set, runs will not be published")
	}

	proc := processor.New(runStore, counters, procNotif, metricsSvc, ps)
	s := server.NewServer(runStore, counters, metricsSvc, metricsHandler, cfg, notif, proc, ps)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// The worker periodically mirrors the snapshot into the configured backends:
// transactions go to BigQuery for SQL analysis and to Notion for browsing.
// It is deliberately stateless; every cycle reloads the blob and re-exports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sevencollector/fintracker/internal/analytics"
	"github.com/sevencollector/fintracker/internal/config"
	"github.com/sevencollector/fintracker/internal/logger"
	"github.com/sevencollector/fintracker/internal/notionsync"
	"github.com/sevencollector/fintracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.ForComponent(logger.New(cfg.LogLevel), "export-worker")

	interval := flag.Duration("interval", time.Hour, "time between export cycles")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	if cfg.BQProject == "" && cfg.NotionToken == "" {
		log.Fatal().Msg("Nothing to export: set BQ_PROJECT and/or NOTION_TOKEN")
	}

	var snapStore store.SnapshotStore
	if cfg.GCSBucket != "" {
		snapStore = store.NewGCSStore(cfg.GCSBucket, cfg.SnapshotObject)
	} else {
		snapStore = store.NewFileStore(cfg.DataFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if *once {
		runCycle(ctx, cfg, snapStore, log)
		return
	}

	log.Info().Dur("interval", *interval).Msg("Starting export worker")

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runCycle(ctx, cfg, snapStore, log)
	for {
		select {
		case <-ticker.C:
			runCycle(ctx, cfg, snapStore, log)
		case <-quit:
			log.Info().Msg("Export worker stopped")
			return
		}
	}
}

func runCycle(ctx context.Context, cfg *config.Config, snapStore store.SnapshotStore, log zerolog.Logger) {
	cycleCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	snap, err := snapStore.Load(cycleCtx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load snapshot, skipping cycle")
		return
	}

	if cfg.BQProject != "" {
		exporter := analytics.NewExporter(cfg.BQProject, cfg.BQDataset)
		if err := exporter.ExportSnapshot(cycleCtx, snap); err != nil {
			log.Error().Err(err).Msg("BigQuery export failed")
		} else {
			log.Info().Int("transactions", len(snap.Transactions)).Msg("BigQuery export done")
		}
	}

	if cfg.NotionToken != "" && cfg.NotionDatabaseID != "" {
		client := notionsync.NewClient(cfg.NotionToken)
		if err := notionsync.SyncSnapshot(cycleCtx, client, cfg.NotionDatabaseID, snap, false); err != nil {
			log.Error().Err(err).Msg("Notion sync failed")
		} else {
			log.Info().Msg("Notion sync done")
		}
	}
}

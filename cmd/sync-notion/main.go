package main

import (
	"context"
	"flag"
	"fmt"
	"time"

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
	log := logger.New(cfg.LogLevel)

	notionToken := flag.String("notion-token", cfg.NotionToken, "Notion API token (or set NOTION_TOKEN)")
	notionDBID := flag.String("notion-db-id", cfg.NotionDatabaseID, "Notion database ID (or set NOTION_DATABASE_ID)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without touching Notion")
	flag.Parse()

	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var snapStore store.SnapshotStore
	if cfg.GCSBucket != "" {
		snapStore = store.NewGCSStore(cfg.GCSBucket, cfg.SnapshotObject)
	} else {
		snapStore = store.NewFileStore(cfg.DataFile)
	}

	snap, err := snapStore.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	client := notionsync.NewClient(*notionToken)

	if err := notionsync.SyncSnapshot(ctx, client, *notionDBID, snap, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println("Sync completed successfully.")
}

package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/sevencollector/fintracker/internal/ledger"
	"github.com/sevencollector/fintracker/internal/logger"
)

// SyncSnapshot mirrors the snapshot's transactions into the Notion database.
// Existing pages are matched by their Transaction ID property: matched pages
// are updated, unmatched transactions get new pages, and pages whose id no
// longer exists in the snapshot are archived. Individual page failures are
// logged and skipped so one bad row doesn't abort the sync.
func SyncSnapshot(ctx context.Context, svc NotionService, databaseID string, snap *ledger.Snapshot, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Int("transaction_count", len(snap.Transactions)).
		Bool("dry_run", dryRun).
		Msg("starting notion sync")

	pages, err := queryAllPages(ctx, svc, databaseID)
	if err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}

	pageByTxID := make(map[string]string, len(pages))
	for _, page := range pages {
		if txID := extractTransactionID(page); txID != "" {
			pageByTxID[txID] = string(page.ID)
		}
	}

	valid := make(map[string]bool, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		valid[tx.ID] = true
	}

	var created, updated, archived int

	for _, page := range pages {
		txID := extractTransactionID(page)
		if txID != "" && valid[txID] {
			continue
		}
		if dryRun {
			archived++
			continue
		}
		if err := svc.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().Err(err).Str("page_id", string(page.ID)).Msg("failed to archive stale page")
			continue
		}
		archived++
	}

	for _, tx := range snap.Transactions {
		props := transactionProperties(tx)

		if pageID, ok := pageByTxID[tx.ID]; ok {
			if dryRun {
				updated++
				continue
			}
			if _, err := svc.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("failed to update page")
				continue
			}
			updated++
			continue
		}

		if dryRun {
			created++
			continue
		}
		if _, err := svc.CreatePage(ctx, databaseID, props); err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("failed to create page")
			continue
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("archived", archived).
		Msg("notion sync completed")

	return nil
}

// queryAllPages pages through the database, 100 results at a time.
func queryAllPages(ctx context.Context, svc NotionService, databaseID string) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := svc.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("query pages: %w", err)
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return all, nil
}

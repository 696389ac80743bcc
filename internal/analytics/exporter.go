// Package analytics exports the ledger's transactions to BigQuery so spend
// can be sliced with SQL instead of reloading the whole snapshot blob.
package analytics

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/sevencollector/fintracker/internal/ledger"
)

const transactionsTable = "transactions"

// Exporter writes snapshot transactions into <project>.<dataset>.transactions.
type Exporter struct {
	project string
	dataset string
}

func NewExporter(project, dataset string) *Exporter {
	return &Exporter{project: project, dataset: dataset}
}

// ExportSnapshot inserts every transaction of the snapshot. Rows carry the
// export timestamp, so re-exports are distinguishable in the table.
func (e *Exporter) ExportSnapshot(ctx context.Context, snap *ledger.Snapshot) error {
	client, err := bigquery.NewClient(ctx, e.project)
	if err != nil {
		return fmt.Errorf("ExportSnapshot: bigquery client: %w", err)
	}
	defer client.Close()

	return e.ExportSnapshotWithClient(ctx, client, snap)
}

// ExportSnapshotWithClient inserts the snapshot's transactions using the
// provided BigQuery client.
func (e *Exporter) ExportSnapshotWithClient(ctx context.Context, client *bigquery.Client, snap *ledger.Snapshot) error {
	if snap == nil || len(snap.Transactions) == 0 {
		return nil
	}

	exportedAt := time.Now().UTC()
	rows := make([]*TransactionRow, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		rows = append(rows, rowFromTransaction(tx, exportedAt))
	}

	table := client.DatasetInProject(e.project, e.dataset).Table(transactionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("ExportSnapshot: inserting rows: %w", err)
	}
	return nil
}

// CategoryTotals aggregates exported spend per category over a date range.
func (e *Exporter) CategoryTotals(ctx context.Context, startDate, endDate time.Time) ([]*CategoryTotal, error) {
	client, err := bigquery.NewClient(ctx, e.project)
	if err != nil {
		return nil, fmt.Errorf("CategoryTotals: bigquery client: %w", err)
	}
	defer client.Close()

	return e.CategoryTotalsWithClient(ctx, client, startDate, endDate)
}

// CategoryTotalsWithClient runs the aggregation using the provided client.
func (e *Exporter) CategoryTotalsWithClient(ctx context.Context, client *bigquery.Client, startDate, endDate time.Time) ([]*CategoryTotal, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			category,
			SUM(amount) AS total,
			COUNT(*) AS tx_count
		FROM %s.%s
		WHERE transaction_date >= @start_date
		  AND transaction_date <= @end_date
		GROUP BY category
		ORDER BY total DESC
	`, e.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: startDate.Format("2006-01-02")},
		{Name: "end_date", Value: endDate.Format("2006-01-02")},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("CategoryTotals: query read: %w", err)
	}

	var totals []*CategoryTotal
	for {
		var row CategoryTotal
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CategoryTotals: iter next: %w", err)
		}
		totals = append(totals, &row)
	}
	return totals, nil
}

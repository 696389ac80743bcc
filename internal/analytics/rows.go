package analytics

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// TransactionRow is the BigQuery shape of a ledger transaction. Amounts go
// out as NUMERIC so downstream SQL doesn't inherit float drift.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Name     string `bigquery:"name"`     // REQUIRED
	Category string `bigquery:"category"` // REQUIRED

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	CategoryLimit bigquery.NullFloat64 `bigquery:"category_limit"` // NULLABLE
	CategoryUsed  bigquery.NullFloat64 `bigquery:"category_used"`  // NULLABLE

	ExportedTS time.Time `bigquery:"exported_ts"` // REQUIRED
}

// CategoryTotal is one row of the spend-per-category aggregation.
type CategoryTotal struct {
	Category string   `bigquery:"category"`
	Total    *big.Rat `bigquery:"total"`
	Count    int64    `bigquery:"tx_count"`
}

// rowFromTransaction flattens a transaction and the limit state of its
// category at export time.
func rowFromTransaction(tx ledger.Transaction, exportedAt time.Time) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   tx.ID,
		Name:            tx.Name,
		Category:        tx.Category.Name,
		Amount:          new(big.Rat).SetFloat64(tx.Amount),
		TransactionDate: civil.DateOf(time.Unix(tx.Time, 0).UTC()),
		ExportedTS:      exportedAt,
	}
	if tx.Category.Limit != 0 || tx.Category.Used != 0 {
		row.CategoryLimit = bigquery.NullFloat64{Float64: tx.Category.Limit, Valid: true}
		row.CategoryUsed = bigquery.NullFloat64{Float64: tx.Category.Used, Valid: true}
	}
	if row.Amount == nil {
		row.Amount = new(big.Rat)
	}
	return row
}

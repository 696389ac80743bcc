package advisor

import (
	"context"
	"encoding/json"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// Fallback strings returned when the model misbehaves. Kept stable because
// callers display them verbatim.
const (
	fallbackNoResponse = "Error: No response from the model."
	fallbackBadJSON    = "Error processing the response."
	fallbackNoInsight  = "No insight generated."
	fallbackNoComment  = "No comment."
)

// insightPayload is the structured financial summary sent to the model. The
// snapshot's own JSON tags already match the contract; the payload just drops
// the user's name.
type insightPayload struct {
	Balance       float64              `json:"balance"`
	Income        float64              `json:"income"`
	Expense       float64              `json:"expense"`
	Savings       float64              `json:"savings"`
	TaxRate       float64              `json:"taxRate"`
	TaxableAmount float64              `json:"taxableAmount"`
	TaxCollected  float64              `json:"taxCollected"`
	Categories    []ledger.Category    `json:"categories"`
	Transactions  []ledger.Transaction `json:"transactions"`
	Goals         []ledger.Goal        `json:"goals"`
}

func buildInsightPayload(snap *ledger.Snapshot) string {
	p := insightPayload{
		Balance:       snap.Balance,
		Income:        snap.Income,
		Expense:       snap.Expense,
		Savings:       snap.Savings,
		TaxRate:       snap.TaxRate,
		TaxableAmount: snap.TaxableAmount,
		TaxCollected:  snap.TaxCollected,
		Categories:    snap.Categories,
		Transactions:  snap.Transactions,
		Goals:         snap.Goals,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GenerateInsight sends the snapshot summary and decodes the {"message": ...}
// response. Every failure path maps to a fixed string.
func (c *Client) GenerateInsight(ctx context.Context, snap *ledger.Snapshot) string {
	raw := c.send(ctx, insightSystemPrompt, buildInsightPayload(snap))
	if raw == "" {
		return fallbackNoResponse
	}
	return decodeMessage(raw, fallbackNoInsight)
}

// Chat continues the conversation started by GenerateInsight.
func (c *Client) Chat(ctx context.Context, message string) string {
	raw := c.send(ctx, insightSystemPrompt, message)
	if raw == "" {
		return fallbackNoResponse
	}
	return decodeMessage(raw, fallbackNoComment)
}

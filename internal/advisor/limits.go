package advisor

import (
	"context"
	"encoding/json"

	"github.com/sevencollector/fintracker/internal/ledger"
)

type limitPayload struct {
	Categories    []ledger.Category `json:"categories"`
	MonthlyIncome float64           `json:"monthly_income"`
	MonthlySaving float64           `json:"monthly_saving"`
	TaxRate       float64           `json:"tax_rate"`
	Age           int               `json:"age"`
	Gender        string            `json:"gender"`
}

// GenerateLimits asks the model for per-category limits. Any failure —
// transport, empty response, malformed JSON — yields an empty slice, which
// callers must treat as "no suggestion" rather than an error.
func (c *Client) GenerateLimits(ctx context.Context, categories []ledger.Category, profile Profile) []ledger.Category {
	payload, err := json.Marshal(limitPayload{
		Categories:    categories,
		MonthlyIncome: profile.MonthlyIncome,
		MonthlySaving: profile.MonthlySaving,
		TaxRate:       profile.TaxRate,
		Age:           profile.Age,
		Gender:        profile.Gender,
	})
	if err != nil {
		return nil
	}

	raw := c.oneShot(ctx, limitSystemPrompt, string(payload))
	if raw == "" {
		return nil
	}
	return decodeCategories(raw)
}

package advisor

import (
	"encoding/json"
	"strings"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// cleanModelJSON strips Markdown fences and surrounding junk the model
// sometimes emits despite being told not to, keeping only the outermost JSON
// object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// If there is still text around the object, keep only from the first
	// '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// decodeMessage extracts the "message" field of a model response. Malformed
// JSON maps to a fixed error string; a well-formed response with no message
// maps to the caller's fallback.
func decodeMessage(raw, fallback string) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &resp); err != nil {
		return fallbackBadJSON
	}
	if resp.Message == "" {
		return fallback
	}
	return resp.Message
}

// decodeCategories extracts the "categories" list of a limit-suggestion
// response. Anything malformed yields nil.
func decodeCategories(raw string) []ledger.Category {
	var resp struct {
		Categories []ledger.Category `json:"categories"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &resp); err != nil {
		return nil
	}
	return resp.Categories
}

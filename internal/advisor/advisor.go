// Package advisor talks to a Gemini model for spending insights, follow-up
// chat and category limit suggestions. Responses are constrained to fixed
// JSON shapes; anything malformed degrades to a fallback string or an empty
// list. No method ever returns an error to the caller.
package advisor

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Profile carries the user details the limit suggestion is tailored to.
type Profile struct {
	Age           int
	Gender        string
	MonthlyIncome float64
	MonthlySaving float64
	TaxRate       float64
}

// Service is the boundary contract for the remote model. It exists so
// handlers and the onboarding flow can be tested with a stub.
type Service interface {
	// GenerateInsight summarizes the snapshot's financial health. The
	// returned text is always usable; failures yield a fixed error string.
	GenerateInsight(ctx context.Context, snap *ledger.Snapshot) string

	// Chat continues the insight conversation with a free-form message.
	Chat(ctx context.Context, message string) string

	// GenerateLimits suggests per-category limits. An empty slice means
	// "no suggestion", never an error.
	GenerateLimits(ctx context.Context, categories []ledger.Category, profile Profile) []ledger.Category
}

// Client implements Service against the Gemini API. The insight methods share
// one conversation: history accumulates across GenerateInsight and Chat calls
// so follow-up questions can reference the earlier summary.
type Client struct {
	genai *genai.Client
	model string

	// mu serializes the shared conversation: history is a read-modify-write
	// on every send, and handlers call the advisor concurrently.
	mu      sync.Mutex
	history []*genai.Content
}

// NewClient creates a Gemini-backed advisor. The API key is taken from the
// environment by the SDK (GEMINI_API_KEY / GOOGLE_API_KEY).
func NewClient(ctx context.Context, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}
	return &Client{genai: cli, model: model}, nil
}

// generationConfig is shared by every advisor call: high temperature for
// varied phrasing, strict JSON output.
func generationConfig(systemPrompt string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](1.15),
		TopK:              genai.Ptr[float32](64),
		TopP:              genai.Ptr[float32](0.95),
		MaxOutputTokens:   8192,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
}

// send appends the message to the shared conversation and returns the model's
// raw text, or "" on any failure.
func (c *Client) send(ctx context.Context, systemPrompt, message string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, c.history, generationConfig(systemPrompt))
	if err != nil {
		return ""
	}

	text := resp.Text()
	if text != "" {
		c.history = append(c.history, &genai.Content{
			Role:  genai.RoleModel,
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return text
}

// oneShot sends a single message outside the shared conversation.
func (c *Client) oneShot(ctx context.Context, systemPrompt, message string) string {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: message}}},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, generationConfig(systemPrompt))
	if err != nil {
		return ""
	}
	return resp.Text()
}

var _ Service = (*Client)(nil)

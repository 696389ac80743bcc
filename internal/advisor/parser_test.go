package advisor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sevencollector/fintracker/internal/ledger"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"message": "ok"}`,
			want: `{"message": "ok"}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"message\": \"ok\"}\n```",
			want: `{"message": "ok"}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"message\": \"ok\"}\n```",
			want: `{"message": "ok"}`,
		},
		{
			name: "surrounding prose",
			raw:  "Here you go:\n{\"message\": \"ok\"}\nHope that helps!",
			want: `{"message": "ok"}`,
		},
		{
			name: "whitespace",
			raw:  "  \n {\"message\": \"ok\"} \n ",
			want: `{"message": "ok"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"valid", `{"message": "You are doing fine."}`, "You are doing fine."},
		{"fenced", "```json\n{\"message\": \"Still fine.\"}\n```", "Still fine."},
		{"missing field", `{"note": "hm"}`, fallbackNoInsight},
		{"empty message", `{"message": ""}`, fallbackNoInsight},
		{"malformed", `{"message": `, fallbackBadJSON},
		{"not json at all", "sorry, I can't", fallbackBadJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeMessage(tt.raw, fallbackNoInsight); got != tt.want {
				t.Errorf("decodeMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCategories(t *testing.T) {
	raw := `{"categories": [
		{"name": "Food", "limit": 300, "used": 120},
		{"name": "Rent", "limit": 1200, "used": 1200}
	]}`

	want := []ledger.Category{
		{Name: "Food", Limit: 300, Used: 120},
		{Name: "Rent", Limit: 1200, Used: 1200},
	}
	if got := decodeCategories(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("decodeCategories() = %+v, want %+v", got, want)
	}
}

func TestDecodeCategories_MalformedYieldsNil(t *testing.T) {
	for _, raw := range []string{"", "nope", `{"categories": "x"}`, `[1,2,3]`} {
		if got := decodeCategories(raw); got != nil {
			t.Errorf("decodeCategories(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestBuildInsightPayload(t *testing.T) {
	snap := &ledger.Snapshot{
		Name:    "Asha",
		Balance: 900,
		Income:  1000,
		Expense: 100,
		Categories: []ledger.Category{
			{Name: "Food", Limit: 200, Used: 100},
		},
	}

	payload := buildInsightPayload(snap)

	// The user's name stays out of the payload.
	if want := `"balance":900`; !strings.Contains(payload, want) {
		t.Errorf("payload missing %s: %s", want, payload)
	}
	if strings.Contains(payload, "Asha") {
		t.Errorf("payload leaks the user name: %s", payload)
	}
}

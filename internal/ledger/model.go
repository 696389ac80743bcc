// Package ledger holds the single aggregate financial state document for a
// user and the rules for folding transactions into it. The snapshot is the
// unit of persistence: it is created once when onboarding completes and is
// loaded, mutated and saved as a whole from then on. It is not safe for
// concurrent writers; callers must serialize mutations.
package ledger

import "encoding/json"

// Reserved category tags. These are category-like labels that are not backed
// by a Category entity in the snapshot.
const (
	TagIncome  = "Income"
	TagSavings = "Savings"
	TagTaxes   = "Taxes"

	// TagUnknown is the sentinel used when a reference cannot be resolved.
	TagUnknown = "Unknown"
)

// Category is a spending bucket. Limit is advisory, set during onboarding and
// never enforced as a hard cap. Used accumulates expense transactions tagged
// to this category.
type Category struct {
	Name  string  `json:"name"`
	Limit float64 `json:"limit"`
	Used  float64 `json:"used"`
}

// Goal is a savings target. Collected accumulates transactions tagged to this
// goal and may exceed Total.
type Goal struct {
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	Collected float64 `json:"collected"`
}

// Transaction is a single ledger entry. The embedded Category carries the
// resolved reference (Category.Name) along with the limit/used values the
// referenced bucket had at creation time; for reserved tags and unresolved
// references those values are zero. Transactions are immutable once created
// except via full replacement by id.
type Transaction struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
	Time     int64    `json:"time"`
}

// Snapshot is the aggregate financial state. Balance is derived: it is
// recomputed as Income - Expense after every mutation, never written
// independently.
type Snapshot struct {
	Name          string        `json:"name"`
	Balance       float64       `json:"balance"`
	Income        float64       `json:"income"`
	Expense       float64       `json:"expense"`
	Savings       float64       `json:"savings"`
	Categories    []Category    `json:"categories"`
	Transactions  []Transaction `json:"transactions"`
	Goals         []Goal        `json:"goals"`
	TaxRate       float64       `json:"taxRate"`
	TaxableAmount float64       `json:"taxableAmount"`
	TaxCollected  float64       `json:"taxCollected"`
}

// Encode serializes the snapshot to its persisted JSON form.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Decode deserializes a snapshot from its persisted JSON form.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CategoryNames returns the names of the snapshot's categories in order.
func (s *Snapshot) CategoryNames() []string {
	names := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		names[i] = c.Name
	}
	return names
}

// GoalNames returns the names of the snapshot's goals in order.
func (s *Snapshot) GoalNames() []string {
	names := make([]string, len(s.Goals))
	for i, g := range s.Goals {
		names[i] = g.Name
	}
	return names
}

// category returns a pointer to the category with the given name, or nil.
// Names are case-sensitive.
func (s *Snapshot) category(name string) *Category {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

// goal returns a pointer to the goal with the given name, or nil.
func (s *Snapshot) goal(name string) *Goal {
	for i := range s.Goals {
		if s.Goals[i].Name == name {
			return &s.Goals[i]
		}
	}
	return nil
}

// transaction returns a pointer to the transaction with the given id, or nil.
func (s *Snapshot) transaction(id string) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

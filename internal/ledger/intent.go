package ledger

import (
	"math"
	"strconv"
	"strings"
)

// RefKind classifies what a transaction's category reference points at.
// Resolution happens once, when the intent is built, so the engine never
// re-interprets raw strings and the Unknown fallback is an explicit variant.
type RefKind int

const (
	RefIncome RefKind = iota
	RefSavings
	RefTaxes
	RefGoal
	RefCategory
	RefUnknown
)

func (k RefKind) String() string {
	switch k {
	case RefIncome:
		return "income"
	case RefSavings:
		return "savings"
	case RefTaxes:
		return "taxes"
	case RefGoal:
		return "goal"
	case RefCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Ref is a resolved category reference: a kind plus the name it resolved to.
// For reserved kinds the name is the reserved tag itself; for RefUnknown it is
// TagUnknown.
type Ref struct {
	Kind RefKind
	Name string
}

// TransactionType is the user-facing type selected on the transaction form.
type TransactionType string

const (
	TypeExpense TransactionType = "Expense"
	TypeIncome  TransactionType = "Income"
	TypeSavings TransactionType = "Savings"
	TypeTaxes   TransactionType = "Taxes"
	TypeGoal    TransactionType = "Goal"
)

// Intent is the resolved description of a transaction submission. Amount has
// already been coerced to a non-negative number and the reference has been
// resolved against the snapshot, so applying an intent can never fail.
type Intent struct {
	Ref       Ref
	Name      string
	Amount    float64
	Time      int64 // unix seconds
	EditingID string
}

// Resolve maps a transaction type and the form's category/goal selection onto
// a Ref. Unresolvable selections degrade to RefUnknown, never an error.
func (s *Snapshot) Resolve(t TransactionType, categoryName, goalName string) Ref {
	switch t {
	case TypeIncome:
		return Ref{Kind: RefIncome, Name: TagIncome}
	case TypeSavings:
		return Ref{Kind: RefSavings, Name: TagSavings}
	case TypeTaxes:
		return Ref{Kind: RefTaxes, Name: TagTaxes}
	case TypeGoal:
		if g := s.goal(goalName); g != nil {
			return Ref{Kind: RefGoal, Name: g.Name}
		}
		return Ref{Kind: RefUnknown, Name: TagUnknown}
	default:
		if c := s.category(categoryName); c != nil {
			return Ref{Kind: RefCategory, Name: c.Name}
		}
		return Ref{Kind: RefUnknown, Name: TagUnknown}
	}
}

// ResolveName classifies a stored categoryRef name. Reserved tags win over
// snapshot entities of the same name.
func (s *Snapshot) ResolveName(name string) Ref {
	switch name {
	case TagIncome:
		return Ref{Kind: RefIncome, Name: TagIncome}
	case TagSavings:
		return Ref{Kind: RefSavings, Name: TagSavings}
	case TagTaxes:
		return Ref{Kind: RefTaxes, Name: TagTaxes}
	}
	if g := s.goal(name); g != nil {
		return Ref{Kind: RefGoal, Name: g.Name}
	}
	if c := s.category(name); c != nil {
		return Ref{Kind: RefCategory, Name: c.Name}
	}
	return Ref{Kind: RefUnknown, Name: TagUnknown}
}

// categoryFor builds the Category value embedded in a transaction for the
// given resolved reference. Goal references carry the goal's target/collected
// figures in the limit/used slots, reserved tags and Unknown carry zeros.
func (s *Snapshot) categoryFor(ref Ref) Category {
	switch ref.Kind {
	case RefGoal:
		if g := s.goal(ref.Name); g != nil {
			return Category{Name: g.Name, Limit: g.Total, Used: g.Collected}
		}
	case RefCategory:
		if c := s.category(ref.Name); c != nil {
			return *c
		}
	}
	return Category{Name: ref.Name}
}

// ParseAmount coerces raw numeric text to a non-negative amount. Unparsable
// input, NaN, infinities and negative values all coerce to 0; the ledger
// never rejects a write over a bad amount. Callers that want to surface a
// validation error should check the text before building the intent.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

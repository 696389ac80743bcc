package ledger

import (
	"strconv"
	"time"
)

// FormState holds the in-progress transaction form. Updates are plain value
// transitions with no side effects; the state only touches the snapshot when
// an Intent is built from it.
type FormState struct {
	Type        TransactionType
	Amount      string
	Description string
	Category    string
	Goal        string
	DateMillis  int64
	Editing     bool
	EditingID   string
}

// NewFormState returns an empty form dated now.
func NewFormState() FormState {
	return FormState{DateMillis: time.Now().UnixMilli()}
}

// BeginEdit initializes the form from an existing transaction, mapping its
// stored categoryRef back onto a transaction type: reserved tags map to their
// own type, a goal name maps to TypeGoal, anything else is treated as an
// expense (with the category selection cleared when the name matches no
// known category).
func (f *FormState) BeginEdit(tx Transaction, s *Snapshot) {
	f.Editing = true
	f.EditingID = tx.ID
	f.Amount = strconv.FormatFloat(tx.Amount, 'f', -1, 64)
	f.Description = tx.Name
	f.DateMillis = tx.Time * 1000
	f.Category = ""
	f.Goal = ""

	switch ref := s.ResolveName(tx.Category.Name); ref.Kind {
	case RefIncome:
		f.Type = TypeIncome
	case RefSavings:
		f.Type = TypeSavings
	case RefTaxes:
		f.Type = TypeTaxes
	case RefGoal:
		f.Type = TypeGoal
		f.Goal = ref.Name
	case RefCategory:
		f.Type = TypeExpense
		f.Category = ref.Name
	default:
		f.Type = TypeExpense
	}
}

// Reset clears the form back to its initial state, dated now.
func (f *FormState) Reset() {
	*f = NewFormState()
}

// Intent resolves the form against the snapshot into a transaction intent.
// The amount text is coerced here; unparsable input becomes a zero-amount
// intent rather than an error.
func (f FormState) Intent(s *Snapshot) Intent {
	in := Intent{
		Ref:    s.Resolve(f.Type, f.Category, f.Goal),
		Name:   f.Description,
		Amount: ParseAmount(f.Amount),
		Time:   f.DateMillis / 1000,
	}
	if f.Editing {
		in.EditingID = f.EditingID
	}
	return in
}

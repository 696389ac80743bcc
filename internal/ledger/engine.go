package ledger

import "github.com/google/uuid"

// Engine folds transaction intents into a snapshot. Apply mutates the given
// snapshot in place and always succeeds: unresolved references were already
// degraded to RefUnknown at intent construction and bad amounts were coerced
// to zero. Persistence is the caller's concern; the mutation itself is
// synchronous and side-effect free beyond the snapshot.
type Engine struct {
	// FullRevert reverts the exact prior effect of an edited transaction
	// regardless of its reference kind before reapplying. When false the
	// engine keeps the legacy behavior: edits of reserved-tag and goal
	// transactions leave the old effect in place, double counting it.
	FullRevert bool
}

// Apply folds an intent into the snapshot and returns the resulting
// transaction. For edits (intent.EditingID set) the stored transaction with
// that id is replaced in place; when no stored transaction matches, the list
// is left unchanged but the intent's effect is still applied.
func (e *Engine) Apply(s *Snapshot, in Intent) Transaction {
	id := in.EditingID
	editing := id != ""
	if !editing {
		id = uuid.NewString()
	}

	tx := Transaction{
		ID:       id,
		Name:     in.Name,
		Category: s.categoryFor(in.Ref),
		Amount:   in.Amount,
		Time:     in.Time,
	}

	var prev *Transaction
	if editing {
		if cur := s.transaction(id); cur != nil {
			old := *cur
			prev = &old
			*cur = tx
		}
	} else {
		s.Transactions = append(s.Transactions, tx)
	}

	if prev != nil {
		e.revert(s, *prev)
	}

	switch in.Ref.Kind {
	case RefIncome:
		s.Income += in.Amount
	case RefSavings:
		s.Savings += in.Amount
		s.Expense += in.Amount
	case RefTaxes:
		s.TaxCollected += in.Amount
		s.Expense += in.Amount
	default:
		// Ordinary expense, goal contribution or Unknown. Unknown still
		// counts toward expense but lands in no Used bucket, and a goal
		// name matches no category so the lookup is a no-op.
		s.Expense += in.Amount
		if c := s.category(in.Ref.Name); c != nil {
			c.Used += in.Amount
		}
	}

	// Goal attribution is orthogonal to the switch above.
	if g := s.goal(tx.Category.Name); g != nil {
		g.Collected += in.Amount
	}

	s.Balance = s.Income - s.Expense
	return tx
}

// revert undoes the effect prev had on the snapshot's totals. In legacy mode
// only ordinary-category and Unknown transactions are reverted; edits of
// reserved-tag and goal transactions keep their old contribution on the
// books. FullRevert undoes the exact prior effect for every kind.
func (e *Engine) revert(s *Snapshot, prev Transaction) {
	ref := s.ResolveName(prev.Category.Name)

	if !e.FullRevert {
		if ref.Kind == RefCategory || ref.Kind == RefUnknown {
			s.Expense -= prev.Amount
			if c := s.category(prev.Category.Name); c != nil {
				c.Used -= prev.Amount
			}
		}
		return
	}

	switch ref.Kind {
	case RefIncome:
		s.Income -= prev.Amount
	case RefSavings:
		s.Savings -= prev.Amount
		s.Expense -= prev.Amount
	case RefTaxes:
		s.TaxCollected -= prev.Amount
		s.Expense -= prev.Amount
	default:
		s.Expense -= prev.Amount
		if c := s.category(prev.Category.Name); c != nil {
			c.Used -= prev.Amount
		}
	}

	if g := s.goal(prev.Category.Name); g != nil {
		g.Collected -= prev.Amount
	}
}

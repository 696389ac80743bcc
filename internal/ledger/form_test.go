package ledger

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"100", 100},
		{"42.5", 42.5},
		{" 7.25 ", 7.25},
		{"", 0},
		{"abc", 0},
		{"12,5", 0},
		{"-5", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseAmount(tt.raw); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormState_Intent(t *testing.T) {
	s := testSnapshot()
	f := FormState{
		Type:        TypeExpense,
		Amount:      "12.50",
		Description: "coffee",
		Category:    "Food",
		DateMillis:  1692480123000,
	}

	in := f.Intent(s)

	if in.Ref.Kind != RefCategory || in.Ref.Name != "Food" {
		t.Errorf("ref = %+v, want category Food", in.Ref)
	}
	if in.Amount != 12.5 {
		t.Errorf("amount = %v, want 12.5", in.Amount)
	}
	if in.Time != 1692480123 {
		t.Errorf("time = %v, want seconds", in.Time)
	}
	if in.EditingID != "" {
		t.Errorf("editing id set on a non-edit form")
	}
}

func TestFormState_IntentEditing(t *testing.T) {
	s := testSnapshot()
	f := FormState{Type: TypeIncome, Amount: "5", Editing: true, EditingID: "tx-1"}

	if in := f.Intent(s); in.EditingID != "tx-1" {
		t.Errorf("editing id = %q, want tx-1", in.EditingID)
	}
}

func TestFormState_BeginEdit(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name         string
		tx           Transaction
		wantType     TransactionType
		wantCategory string
		wantGoal     string
	}{
		{
			name:         "expense category",
			tx:           Transaction{ID: "a", Name: "lunch", Category: Category{Name: "Food"}, Amount: 9.5, Time: 100},
			wantType:     TypeExpense,
			wantCategory: "Food",
		},
		{
			name:     "goal",
			tx:       Transaction{ID: "b", Category: Category{Name: "Vacation"}, Amount: 20, Time: 100},
			wantType: TypeGoal,
			wantGoal: "Vacation",
		},
		{
			name:     "reserved income",
			tx:       Transaction{ID: "c", Category: Category{Name: TagIncome}, Amount: 30, Time: 100},
			wantType: TypeIncome,
		},
		{
			name:     "reserved savings",
			tx:       Transaction{ID: "d", Category: Category{Name: TagSavings}, Amount: 30, Time: 100},
			wantType: TypeSavings,
		},
		{
			name:     "reserved taxes",
			tx:       Transaction{ID: "e", Category: Category{Name: TagTaxes}, Amount: 30, Time: 100},
			wantType: TypeTaxes,
		},
		{
			name:     "unresolved falls back to expense",
			tx:       Transaction{ID: "f", Category: Category{Name: "Gone"}, Amount: 30, Time: 100},
			wantType: TypeExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FormState
			f.BeginEdit(tt.tx, s)

			if !f.Editing || f.EditingID != tt.tx.ID {
				t.Errorf("editing flag/id = %v/%q, want true/%q", f.Editing, f.EditingID, tt.tx.ID)
			}
			if f.Type != tt.wantType {
				t.Errorf("type = %q, want %q", f.Type, tt.wantType)
			}
			if f.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", f.Category, tt.wantCategory)
			}
			if f.Goal != tt.wantGoal {
				t.Errorf("goal = %q, want %q", f.Goal, tt.wantGoal)
			}
			if f.Description != tt.tx.Name {
				t.Errorf("description = %q, want %q", f.Description, tt.tx.Name)
			}
			if f.DateMillis != tt.tx.Time*1000 {
				t.Errorf("date = %d, want %d", f.DateMillis, tt.tx.Time*1000)
			}
		})
	}
}

func TestFormState_Reset(t *testing.T) {
	f := FormState{Type: TypeGoal, Amount: "3", Editing: true, EditingID: "x"}
	f.Reset()

	if f.Editing || f.EditingID != "" || f.Amount != "" || f.Type != "" {
		t.Errorf("form not cleared: %+v", f)
	}
	if f.DateMillis == 0 {
		t.Errorf("reset form should be dated now")
	}
}

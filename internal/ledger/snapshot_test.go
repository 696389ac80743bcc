package ledger

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name     string
		typ      TransactionType
		category string
		goal     string
		want     Ref
	}{
		{"income", TypeIncome, "", "", Ref{RefIncome, TagIncome}},
		{"savings", TypeSavings, "", "", Ref{RefSavings, TagSavings}},
		{"taxes", TypeTaxes, "", "", Ref{RefTaxes, TagTaxes}},
		{"known goal", TypeGoal, "", "Vacation", Ref{RefGoal, "Vacation"}},
		{"missing goal", TypeGoal, "", "Yacht", Ref{RefUnknown, TagUnknown}},
		{"known category", TypeExpense, "Food", "", Ref{RefCategory, "Food"}},
		{"missing category", TypeExpense, "Pets", "", Ref{RefUnknown, TagUnknown}},
		{"case sensitive", TypeExpense, "food", "", Ref{RefUnknown, TagUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Resolve(tt.typ, tt.category, tt.goal); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveName_ReservedTagsWinOverEntities(t *testing.T) {
	s := testSnapshot()
	s.Categories = append(s.Categories, Category{Name: TagSavings, Limit: 10})

	if got := s.ResolveName(TagSavings); got.Kind != RefSavings {
		t.Errorf("ResolveName(Savings).Kind = %v, want reserved savings", got.Kind)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testSnapshot()
	e := &Engine{}
	e.Apply(s, Intent{Ref: s.Resolve(TypeExpense, "Food", ""), Name: "lunch", Amount: 25, Time: 1692480123})
	e.Apply(s, Intent{Ref: s.Resolve(TypeGoal, "", "Vacation"), Name: "trip fund", Amount: 60, Time: 1692480999})

	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}

	// Applying zero intents keeps the re-encoded form identical.
	data2, err := got.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if string(data) != string(data2) {
		t.Errorf("serialized forms differ:\n%s\n%s", data, data2)
	}
}

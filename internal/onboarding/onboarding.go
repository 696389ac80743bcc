// Package onboarding turns the profile gathered during first-run setup into
// the initial financial snapshot. The wizard UI itself lives elsewhere; this
// is only the data side.
package onboarding

import (
	"context"

	"github.com/sevencollector/fintracker/internal/advisor"
	"github.com/sevencollector/fintracker/internal/ledger"
)

// PredefinedCategories are the spending buckets offered during setup. Users
// can add their own on top.
var PredefinedCategories = []string{
	"Food", "Transport", "Entertainment", "Health", "Utilities",
	"Rent/Mortgage", "Education", "Groceries", "Clothing", "Personal Care",
	"Dining Out", "Travel", "Gifts", "Subscriptions", "Other",
}

// Builder accumulates onboarding answers and produces the first snapshot.
type Builder struct {
	Name    string
	Age     int
	Gender  string
	Income  float64 // monthly
	Savings float64 // monthly
	TaxRate float64

	Categories []ledger.Category
	Goals      []ledger.Goal
}

// AddCategory registers a spending bucket with no limit set yet.
func (b *Builder) AddCategory(name string) {
	b.Categories = append(b.Categories, ledger.Category{Name: name})
}

// AddGoal registers a savings goal.
func (b *Builder) AddGoal(name string, total float64) {
	b.Goals = append(b.Goals, ledger.Goal{Name: name, Total: total})
}

// SuggestLimits asks the advisor for per-category limits and adopts them when
// a suggestion comes back. An empty suggestion leaves the categories as they
// are; there is no error path.
func (b *Builder) SuggestLimits(ctx context.Context, svc advisor.Service) {
	suggested := svc.GenerateLimits(ctx, b.Categories, advisor.Profile{
		Age:           b.Age,
		Gender:        b.Gender,
		MonthlyIncome: b.Income,
		MonthlySaving: b.Savings,
		TaxRate:       b.TaxRate,
	})
	if len(suggested) > 0 {
		b.Categories = suggested
	}
}

// Build creates the initial snapshot. The planned monthly saving is booked
// upfront as both savings and expense, so the starting balance is income
// minus savings; the taxable amount is the projected yearly income.
func (b *Builder) Build() *ledger.Snapshot {
	return &ledger.Snapshot{
		Name:          b.Name,
		Balance:       b.Income - b.Savings,
		Income:        b.Income,
		Expense:       b.Savings,
		Savings:       b.Savings,
		Categories:    b.Categories,
		Transactions:  []ledger.Transaction{},
		Goals:         b.Goals,
		TaxRate:       b.TaxRate,
		TaxableAmount: b.Income * 12,
		TaxCollected:  0,
	}
}

package notionsync

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/sevencollector/fintracker/internal/ledger"
)

type fakeNotion struct {
	pages    []notionapi.Page
	created  []notionapi.Properties
	updated  map[string]notionapi.Properties
	archived []string
}

func newFakeNotion(pages ...notionapi.Page) *fakeNotion {
	return &fakeNotion{
		pages:   pages,
		updated: make(map[string]notionapi.Properties),
	}
}

func (f *fakeNotion) CreatePage(ctx context.Context, databaseID string, props notionapi.Properties) (*notionapi.Page, error) {
	f.created = append(f.created, props)
	return &notionapi.Page{ID: notionapi.ObjectID("new-page")}, nil
}

func (f *fakeNotion) UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) (*notionapi.Page, error) {
	f.updated[pageID] = props
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func (f *fakeNotion) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{
		Results: f.pages,
		HasMore: false,
	}, nil
}

func (f *fakeNotion) DeletePage(ctx context.Context, pageID string) error {
	f.archived = append(f.archived, pageID)
	return nil
}

func pageForTransaction(pageID, txID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			"Transaction ID": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{
					{PlainText: txID},
				},
			},
		},
	}
}

func TestSyncSnapshot_Upsert(t *testing.T) {
	snap := &ledger.Snapshot{
		Transactions: []ledger.Transaction{
			{ID: "tx-1", Name: "Lunch", Amount: 20, Category: ledger.Category{Name: "Food"}},
			{ID: "tx-2", Name: "Fuel", Amount: 45, Category: ledger.Category{Name: "Transport"}},
		},
	}

	// tx-1 already exists, tx-gone is stale.
	fake := newFakeNotion(
		pageForTransaction("page-1", "tx-1"),
		pageForTransaction("page-gone", "tx-gone"),
	)

	if err := SyncSnapshot(context.Background(), fake, "db", snap, false); err != nil {
		t.Fatalf("SyncSnapshot: %v", err)
	}

	if len(fake.created) != 1 {
		t.Errorf("created = %d, want 1", len(fake.created))
	}
	if _, ok := fake.updated["page-1"]; !ok {
		t.Errorf("expected page-1 to be updated, got %v", fake.updated)
	}
	if len(fake.archived) != 1 || fake.archived[0] != "page-gone" {
		t.Errorf("archived = %v, want [page-gone]", fake.archived)
	}
}

func TestSyncSnapshot_DryRun(t *testing.T) {
	snap := &ledger.Snapshot{
		Transactions: []ledger.Transaction{
			{ID: "tx-1", Name: "Lunch", Amount: 20},
		},
	}
	fake := newFakeNotion(pageForTransaction("page-gone", "tx-gone"))

	if err := SyncSnapshot(context.Background(), fake, "db", snap, true); err != nil {
		t.Fatalf("SyncSnapshot: %v", err)
	}

	if len(fake.created) != 0 || len(fake.updated) != 0 || len(fake.archived) != 0 {
		t.Errorf("dry run must not touch Notion: created=%d updated=%d archived=%d",
			len(fake.created), len(fake.updated), len(fake.archived))
	}
}

func TestTransactionProperties(t *testing.T) {
	tx := ledger.Transaction{
		ID:       "tx-9",
		Name:     "Movie night",
		Amount:   12.5,
		Category: ledger.Category{Name: "Entertainment"},
		Time:     1700000000,
	}

	props := transactionProperties(tx)

	title, ok := props["Name"].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 || title.Title[0].Text.Content != "Movie night" {
		t.Errorf("unexpected Name property: %+v", props["Name"])
	}
	amount, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != 12.5 {
		t.Errorf("unexpected Amount property: %+v", props["Amount"])
	}
	sel, ok := props["Category"].(notionapi.SelectProperty)
	if !ok || sel.Select.Name != "Entertainment" {
		t.Errorf("unexpected Category property: %+v", props["Category"])
	}
}

func TestTransactionProperties_NoCategory(t *testing.T) {
	props := transactionProperties(ledger.Transaction{ID: "tx-1", Name: "Paycheck", Amount: 1000})
	if _, ok := props["Category"]; ok {
		t.Error("bucketless transaction should not carry a Category select")
	}
}

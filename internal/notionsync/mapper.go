package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// transactionProperties maps a ledger transaction onto the Notion database
// schema: Name (title), Transaction ID, Category (select), Amount, Date.
func transactionProperties(tx ledger.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Name,
					},
				},
			},
		},
		"Transaction ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Amount,
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Unix(tx.Time, 0).UTC())
					return &d
				}(),
			},
		},
	}

	if tx.Category.Name != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Category.Name,
			},
		}
	}

	return props
}

// extractTransactionID reads the Transaction ID rich-text property off an
// existing page. Empty means the page wasn't created by this sync.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}
	richText, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(richText.RichText) == 0 {
		return ""
	}
	return richText.RichText[0].PlainText
}

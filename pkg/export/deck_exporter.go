package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// DeckExporter renders a bundle into landscape presentation pages: a title
// slide, a metrics slide and a capped control table. Decks are summaries,
// not data dumps, so the table is cut at RowLimit with an overflow note.
type DeckExporter struct {
	// RowLimit caps the control rows included in the deck.
	RowLimit int
}

// NewDeckExporter builds a deck exporter with the given row cap.
func NewDeckExporter(rowLimit int) *DeckExporter {
	if rowLimit <= 0 {
		rowLimit = 50
	}
	return &DeckExporter{RowLimit: rowLimit}
}

// Render creates the deck for the bundle.
func (e *DeckExporter) Render(b Bundle) ([]byte, error) {
	if len(b.Controls.Headers) == 0 {
		return nil, fmt.Errorf("deck requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)

	// title slide
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 24)
	pdf.Ln(50)
	pdf.CellFormat(0, 14, strings.ToUpper(b.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s by %s",
		b.GeneratedAt.Format("2006-01-02 15:04 MST"), b.GeneratedBy), "", 1, "C", false, 0, "")
	if len(b.Filters) > 0 {
		pdf.Ln(6)
		for _, kv := range b.Filters {
			pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", kv.Key, kv.Value), "", 1, "C", false, 0, "")
		}
	}

	// metrics slide
	if len(b.Summary) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(0, 12, "Dashboard Metrics", "", 1, "", false, 0, "")
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 12)
		for _, kv := range b.Summary {
			pdf.CellFormat(0, 8, fmt.Sprintf("%s: %s", kv.Key, kv.Value), "", 1, "", false, 0, "")
		}
	}

	// control table slide, capped
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Controls", "", 1, "", false, 0, "")

	rows := b.Controls.Rows
	overflow := 0
	if len(rows) > e.RowLimit {
		overflow = len(rows) - e.RowLimit
		rows = rows[:e.RowLimit]
	}
	renderPDFTable(pdf, "", Dataset{Headers: b.Controls.Headers, Rows: rows}, 270.0)
	if overflow > 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, fmt.Sprintf("... and %d more controls not shown", overflow), "", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a bundle into a portrait report: title block, applied
// filters, metric summary, the control table and optionally the audit trail.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF report for the bundle.
func (e *PDFExporter) Render(b Bundle) ([]byte, error) {
	if len(b.Controls.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(b.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s by %s",
		b.GeneratedAt.Format("2006-01-02 15:04 MST"), b.GeneratedBy), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(b.Filters) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Applied Filters", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, kv := range b.Filters {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", kv.Key, kv.Value), "", 1, "", false, 0, "")
		}
		pdf.Ln(3)
	}

	if len(b.Summary) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Summary", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, kv := range b.Summary {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", kv.Key, kv.Value), "", 1, "", false, 0, "")
		}
		pdf.Ln(3)
	}

	renderPDFTable(pdf, "Controls", b.Controls, 190.0)
	if b.Audit != nil {
		pdf.AddPage()
		renderPDFTable(pdf, "Audit Trail", *b.Audit, 190.0)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDFTable(pdf *gofpdf.Fpdf, caption string, data Dataset, width float64) {
	if caption != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, caption, "", 1, "", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 8)
	colWidth := width / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 6, truncate(row[header], 28), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

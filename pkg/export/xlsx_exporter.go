package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders a bundle into a multi-sheet workbook: the control
// table, the metric summary, the applied filters and (optionally) the audit
// trail each get a sheet.
type XLSXExporter struct{}

// NewXLSXExporter builds a workbook exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces an XLSX workbook for the bundle.
func (e *XLSXExporter) Render(b Bundle) ([]byte, error) {
	if len(b.Controls.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close()

	const controlsSheet = "Controls"
	f.SetSheetName("Sheet1", controlsSheet)
	if err := writeSheet(f, controlsSheet, b.Controls); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, "Dashboard Metrics", b); err != nil {
		return nil, err
	}
	if err := writeFiltersSheet(f, "Applied Filters", b.Filters); err != nil {
		return nil, err
	}
	if b.Audit != nil {
		if _, err := f.NewSheet("Audit Trail"); err != nil {
			return nil, fmt.Errorf("add audit sheet: %w", err)
		}
		if err := writeSheet(f, "Audit Trail", *b.Audit); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, data Dataset) error {
	for i, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range data.Rows {
		for i, header := range data.Headers {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, row[header]); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, b Bundle) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	f.SetCellValue(sheet, "A1", b.Title)
	f.SetCellValue(sheet, "A2", "Generated")
	f.SetCellValue(sheet, "B2", b.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	f.SetCellValue(sheet, "A3", "Generated By")
	f.SetCellValue(sheet, "B3", b.GeneratedBy)

	row := 5
	for _, kv := range b.Summary {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv.Value)
		row++
	}
	return nil
}

func writeFiltersSheet(f *excelize.File, sheet string, filters []KV) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add filters sheet: %w", err)
	}
	f.SetCellValue(sheet, "A1", "Filter")
	f.SetCellValue(sheet, "B1", "Values")
	if len(filters) == 0 {
		f.SetCellValue(sheet, "A2", "none")
		return nil
	}
	for i, kv := range filters {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), kv.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), kv.Value)
	}
	return nil
}

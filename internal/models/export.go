package models

import "time"

// ExportFormat selects the output encoding of a dashboard export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "CSV"
	ExportFormatXLSX ExportFormat = "XLSX"
	ExportFormatPDF  ExportFormat = "PDF"
	ExportFormatDeck ExportFormat = "PPT"
)

// ExportRequest describes a requested export of the current dashboard state.
type ExportRequest struct {
	Format            ExportFormat `json:"format" validate:"required,oneof=CSV XLSX PDF PPT"`
	Filters           FilterConfig `json:"filters"`
	IncludeAuditTrail bool         `json:"includeAuditTrail"`
}

// ExportResult describes a generated export artifact and how to fetch it.
type ExportResult struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Format      ExportFormat `json:"format"`
	SizeBytes   int          `json:"sizeBytes"`
	RowCount    int          `json:"rowCount"`
	Token       string       `json:"token"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

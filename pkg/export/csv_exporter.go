package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a bundle's control table into CSV bytes. When the
// bundle carries an audit dataset it is appended after a blank record.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the bundle.
func (e *CSVExporter) Render(b Bundle) ([]byte, error) {
	if len(b.Controls.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writeTable(writer, b.Controls); err != nil {
		return nil, err
	}
	if b.Audit != nil {
		if err := writer.Write([]string{}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
		if err := writeTable(writer, *b.Audit); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(writer *csv.Writer, data Dataset) error {
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

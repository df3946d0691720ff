// Package export renders dashboard snapshots into downloadable documents.
// Exporters are pure: bytes in, bytes out, no storage or transport concerns.
package export

import "time"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// KV is an ordered label/value pair used for filter and metric summaries.
type KV struct {
	Key   string
	Value string
}

// Bundle is the full snapshot handed to an exporter: the control table plus
// the context a reader needs to interpret it.
type Bundle struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Filters     []KV
	Summary     []KV
	Controls    Dataset
	// Audit is nil unless the requester asked for the audit trail.
	Audit *Dataset
}

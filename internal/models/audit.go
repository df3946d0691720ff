package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionControlUpdate = "CONTROL_UPDATED"
	AuditActionExport        = "EXPORT_GENERATED"
	AuditActionFilterApplied = "FILTER_APPLIED"
	AuditActionViewSaved     = "VIEW_SAVED"
	AuditActionRecAccepted   = "RECOMMENDATION_ACCEPTED"
	AuditActionRecRejected   = "RECOMMENDATION_REJECTED"
	AuditActionRecDeferred   = "RECOMMENDATION_DEFERRED"
)

// EntityType scopes an audit entry to the kind of record it concerns.
type EntityType string

const (
	EntityControl EntityType = "control"
	EntityUser    EntityType = "user"
	EntitySystem  EntityType = "system"
)

// AuditEntry is an append-only record of who changed what, when and why.
type AuditEntry struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	UserID     string          `json:"userId"`
	Action     string          `json:"action"`
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	OldValue   json.RawMessage `json:"oldValue,omitempty"`
	NewValue   json.RawMessage `json:"newValue,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	IPAddress  string          `json:"ipAddress,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
}

// RequestMeta carries client metadata attached to audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

package models

import "time"

// UserRole represents the lines-of-defense roles recognised by the RBAC system.
type UserRole string

const (
	RoleFirstLine  UserRole = "1LOD"
	RoleDataOwner  UserRole = "1LOD_Data_Owner"
	RoleSecondLine UserRole = "2LOD"
	RoleAgent      UserRole = "CORA_Agent"
	RoleManager    UserRole = "Manager"
)

// Permission constants referenced by route guards.
const (
	PermViewDashboard     = "view_dashboard"
	PermFilterControls    = "filter_controls"
	PermExportData        = "export_data"
	PermAssignControls    = "assign_controls"
	PermAuditTrail        = "audit_trail"
	PermExportAudit       = "export_audit"
	PermManageMappings    = "manage_mappings"
	PermUploadData        = "upload_data"
	PermAnalyzeControls   = "analyze_controls"
	PermGenerateRecs      = "generate_recommendations"
	PermChallengeOutcomes = "challenge_outcomes"
)

// User is an application user held in the in-memory store.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Permissions  []string   `json:"permissions"`
	BusinessLine string     `json:"businessLine,omitempty"`
	Function     string     `json:"function,omitempty"`
	Region       string     `json:"region,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// HasPermission reports whether the user carries the named permission.
func (u User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

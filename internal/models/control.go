package models

import "time"

// HierarchyLevel marks a control as a hierarchy root or a member.
type HierarchyLevel string

const (
	HierarchyParent HierarchyLevel = "Parent"
	HierarchyChild  HierarchyLevel = "Child"
)

// ControlType classifies the mitigation mechanism of a control.
type ControlType string

const (
	ControlTypePreventive ControlType = "Preventive"
	ControlTypeDetective  ControlType = "Detective"
	ControlTypeCorrective ControlType = "Corrective"
)

// AutomationType captures how much of a control's execution is automated.
type AutomationType string

const (
	AutomationManual        AutomationType = "Manual"
	AutomationSemiAutomated AutomationType = "Semi-Automated"
	AutomationITDependent   AutomationType = "IT Dependent"
	AutomationAutomated     AutomationType = "Automated"
)

// Effectiveness rates whether a control achieves its risk-mitigation purpose.
type Effectiveness string

const (
	EffectivenessEffective        Effectiveness = "Effective"
	EffectivenessIneffective      Effectiveness = "Ineffective"
	EffectivenessNeedsImprovement Effectiveness = "Needs Improvement"
	EffectivenessNotRated         Effectiveness = "Not Rated"
)

// MatchStatus is the reconciliation state against the reference framework.
type MatchStatus string

const (
	MatchGap       MatchStatus = "Gap"
	MatchUnmatched MatchStatus = "Unmatched"
	MatchMatched   MatchStatus = "Matched"
	MatchResolved  MatchStatus = "Resolved"
)

// ControlStatus is the lifecycle status of a control record.
type ControlStatus string

const (
	StatusLive        ControlStatus = "Live"
	StatusRetired     ControlStatus = "Retired"
	StatusDraft       ControlStatus = "Draft"
	StatusUnderReview ControlStatus = "Under Review"
	StatusInReview    ControlStatus = "In review"
	StatusOutstanding ControlStatus = "Outstanding"
	StatusCompleted   ControlStatus = "Completed"
	StatusOnHold      ControlStatus = "On Hold"
	StatusBlocked     ControlStatus = "Blocked"
	StatusOpen        ControlStatus = "Open"
)

// EnhancementStatus tracks the remediation workflow applied to deficient controls.
type EnhancementStatus string

const (
	EnhancementNotReviewed EnhancementStatus = "Not Reviewed"
	EnhancementInReview    EnhancementStatus = "In Review"
	EnhancementInRedesign  EnhancementStatus = "In Re-design"
	EnhancementInApproval  EnhancementStatus = "In Approval"
	EnhancementComplete    EnhancementStatus = "Complete"
)

// LinkedRisk references a risk mitigated by a control.
type LinkedRisk struct {
	RiskID       string `json:"riskId"`
	RiskName     string `json:"riskName"`
	RiskCategory string `json:"riskCategory"`
}

// Control is the central governance record being tracked.
type Control struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`

	HierarchyLevel  HierarchyLevel `json:"hierarchyLevel"`
	ParentControlID string         `json:"parentControlId,omitempty"`
	ChildControlIDs []string       `json:"childControlIds,omitempty"`

	BusinessLine string `json:"businessLine"`
	Function     string `json:"function"`
	Location     string `json:"location"`
	Region       string `json:"region"`

	ControlType    ControlType    `json:"controlType"`
	ControlMethod  string         `json:"controlMethod"`
	Frequency      string         `json:"frequency"`
	AutomationType AutomationType `json:"automationType"`

	Effectiveness Effectiveness `json:"effectiveness"`
	MatchStatus   MatchStatus   `json:"coraMatch"`
	FinalScore    int           `json:"finalScore"`
	IndexScore    float64       `json:"indexScore"`

	Owner             string            `json:"owner"`
	AssignedTo        string            `json:"assignedTo,omitempty"`
	Status            ControlStatus     `json:"status"`
	EnhancementStatus EnhancementStatus `json:"enhancementStatus,omitempty"`
	TargetDate        *time.Time        `json:"targetDate,omitempty"`
	RootCause         string            `json:"rootCause,omitempty"`
	Comments          string            `json:"comments,omitempty"`

	KeyIndicators   []string         `json:"keyControlIndicators,omitempty"`
	LinkedRisks     []LinkedRisk     `json:"linkedRisks,omitempty"`
	Recommendations []Recommendation `json:"aiRecommendations,omitempty"`

	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"lastUpdated"`
	Version   string    `json:"version"`
}

// Clone returns a deep copy of the control.
func (c Control) Clone() Control {
	out := c
	out.ChildControlIDs = append([]string(nil), c.ChildControlIDs...)
	out.KeyIndicators = append([]string(nil), c.KeyIndicators...)
	out.LinkedRisks = append([]LinkedRisk(nil), c.LinkedRisks...)
	out.Recommendations = append([]Recommendation(nil), c.Recommendations...)
	if c.TargetDate != nil {
		td := *c.TargetDate
		out.TargetDate = &td
	}
	return out
}

// FilterConfig is a structured set of optional inclusion filters. A record
// passes when every populated field contains its value; empty fields impose
// no constraint.
type FilterConfig struct {
	Locations       []string   `json:"location,omitempty"`
	BusinessLines   []string   `json:"businessLine,omitempty"`
	Functions       []string   `json:"function,omitempty"`
	ControlTypes    []string   `json:"controlType,omitempty"`
	Frequencies     []string   `json:"controlFrequency,omitempty"`
	AutomationTypes []string   `json:"automationType,omitempty"`
	Effectiveness   []string   `json:"effectiveness,omitempty"`
	MatchStatuses   []string   `json:"coraMatch,omitempty"`
	Owners          []string   `json:"owner,omitempty"`
	Regions         []string   `json:"region,omitempty"`
	CreatedFrom     *time.Time `json:"createdFrom,omitempty"`
	CreatedTo       *time.Time `json:"createdTo,omitempty"`
}

// IsZero reports whether no filter field is populated.
func (f FilterConfig) IsZero() bool {
	return len(f.Locations) == 0 && len(f.BusinessLines) == 0 && len(f.Functions) == 0 &&
		len(f.ControlTypes) == 0 && len(f.Frequencies) == 0 && len(f.AutomationTypes) == 0 &&
		len(f.Effectiveness) == 0 && len(f.MatchStatuses) == 0 && len(f.Owners) == 0 &&
		len(f.Regions) == 0 && f.CreatedFrom == nil && f.CreatedTo == nil
}

// Matches reports whether a control satisfies every populated filter field.
func (f FilterConfig) Matches(c Control) bool {
	if !contains(f.Locations, c.Location) {
		return false
	}
	if !contains(f.BusinessLines, c.BusinessLine) {
		return false
	}
	if !contains(f.Functions, c.Function) {
		return false
	}
	if !contains(f.ControlTypes, string(c.ControlType)) {
		return false
	}
	if !contains(f.Frequencies, c.Frequency) {
		return false
	}
	if !contains(f.AutomationTypes, string(c.AutomationType)) {
		return false
	}
	if !contains(f.Effectiveness, string(c.Effectiveness)) {
		return false
	}
	if !contains(f.MatchStatuses, string(c.MatchStatus)) {
		return false
	}
	if !contains(f.Owners, c.Owner) {
		return false
	}
	if !contains(f.Regions, c.Region) {
		return false
	}
	if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && c.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// contains treats an empty set as "no constraint".
func contains(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

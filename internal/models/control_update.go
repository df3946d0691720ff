package models

import "time"

// UpdateControlRequest is the PATCH payload for a control. Nil fields are
// untouched; populated fields are validated and applied atomically.
type UpdateControlRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`

	Effectiveness *Effectiveness `json:"effectiveness,omitempty" validate:"omitempty,oneof=Effective Ineffective 'Needs Improvement' 'Not Rated'"`
	MatchStatus   *MatchStatus   `json:"coraMatch,omitempty" validate:"omitempty,oneof=Gap Unmatched Matched Resolved"`
	Status        *ControlStatus `json:"status,omitempty"`

	Owner      *string `json:"owner,omitempty" validate:"omitempty,min=1"`
	AssignedTo *string `json:"assignedTo,omitempty"`

	BusinessLine *string `json:"businessLine,omitempty"`
	Function     *string `json:"function,omitempty"`
	Location     *string `json:"location,omitempty"`
	Region       *string `json:"region,omitempty"`

	Frequency      *string         `json:"frequency,omitempty"`
	AutomationType *AutomationType `json:"automationType,omitempty"`
	ControlType    *ControlType    `json:"controlType,omitempty"`

	FinalScore *int     `json:"finalScore,omitempty" validate:"omitempty,min=0,max=100"`
	IndexScore *float64 `json:"indexScore,omitempty"`

	EnhancementStatus *EnhancementStatus `json:"enhancementStatus,omitempty"`
	TargetDate        *time.Time         `json:"targetDate,omitempty"`
	RootCause         *string            `json:"rootCause,omitempty"`
	Comments          *string            `json:"comments,omitempty"`

	// ParentControlID re-parents the control; an explicit empty string
	// promotes it to a hierarchy root.
	ParentControlID *string `json:"parentControlId,omitempty"`
}

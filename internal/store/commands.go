package store

import (
	"fmt"
	"time"

	appErrors "github.com/cortexgov/cortex-api/pkg/errors"

	"github.com/cortexgov/cortex-api/internal/models"
)

// ControlIndex exposes the referential lookups commands need to validate
// hierarchy edits.
type ControlIndex interface {
	Exists(id string) bool
	IsParent(id string) bool
}

// UpdateCommand is one member of the closed set of edits a control accepts.
// Commands replace the free-form partial merge of earlier revisions: an edit
// that is not expressible as a command cannot reach the store.
type UpdateCommand interface {
	// Field names the edited field group, for diagnostics.
	Field() string
	// Apply mutates the control copy, validating values first.
	Apply(c *models.Control, idx ControlIndex) error
}

// SetEffectiveness updates the effectiveness rating.
type SetEffectiveness struct {
	Value models.Effectiveness
}

func (SetEffectiveness) Field() string { return "effectiveness" }

func (cmd SetEffectiveness) Apply(c *models.Control, _ ControlIndex) error {
	switch cmd.Value {
	case models.EffectivenessEffective, models.EffectivenessIneffective,
		models.EffectivenessNeedsImprovement, models.EffectivenessNotRated:
		c.Effectiveness = cmd.Value
		return nil
	}
	return fmt.Errorf("invalid effectiveness %q", cmd.Value)
}

// SetMatchStatus updates the reconciliation state.
type SetMatchStatus struct {
	Value models.MatchStatus
}

func (SetMatchStatus) Field() string { return "coraMatch" }

func (cmd SetMatchStatus) Apply(c *models.Control, _ ControlIndex) error {
	switch cmd.Value {
	case models.MatchGap, models.MatchUnmatched, models.MatchMatched, models.MatchResolved:
		c.MatchStatus = cmd.Value
		return nil
	}
	return fmt.Errorf("invalid match status %q", cmd.Value)
}

// SetStatus updates the lifecycle status.
type SetStatus struct {
	Value models.ControlStatus
}

func (SetStatus) Field() string { return "status" }

func (cmd SetStatus) Apply(c *models.Control, _ ControlIndex) error {
	switch cmd.Value {
	case models.StatusLive, models.StatusRetired, models.StatusDraft,
		models.StatusUnderReview, models.StatusInReview, models.StatusOutstanding,
		models.StatusCompleted, models.StatusOnHold, models.StatusBlocked, models.StatusOpen:
		c.Status = cmd.Value
		return nil
	}
	return fmt.Errorf("invalid status %q", cmd.Value)
}

// Assign changes the assignee.
type Assign struct {
	AssignedTo string
}

func (Assign) Field() string { return "assignedTo" }

func (cmd Assign) Apply(c *models.Control, _ ControlIndex) error {
	c.AssignedTo = cmd.AssignedTo
	return nil
}

// SetOwner changes the owner.
type SetOwner struct {
	Owner string
}

func (SetOwner) Field() string { return "owner" }

func (cmd SetOwner) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.Owner == "" {
		return fmt.Errorf("owner must not be empty")
	}
	c.Owner = cmd.Owner
	return nil
}

// SetNarrative edits the name/description text pair. Nil means unchanged.
type SetNarrative struct {
	Name        *string
	Description *string
}

func (SetNarrative) Field() string { return "narrative" }

func (cmd SetNarrative) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.Name != nil {
		if *cmd.Name == "" {
			return fmt.Errorf("name must not be empty")
		}
		c.Name = *cmd.Name
	}
	if cmd.Description != nil {
		c.Description = *cmd.Description
	}
	return nil
}

// SetClassification edits the business-context field group.
type SetClassification struct {
	BusinessLine *string
	Function     *string
	Location     *string
	Region       *string
}

func (SetClassification) Field() string { return "classification" }

func (cmd SetClassification) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.BusinessLine != nil {
		c.BusinessLine = *cmd.BusinessLine
	}
	if cmd.Function != nil {
		c.Function = *cmd.Function
	}
	if cmd.Location != nil {
		c.Location = *cmd.Location
	}
	if cmd.Region != nil {
		c.Region = *cmd.Region
	}
	return nil
}

// SetExecution edits how and how often the control runs.
type SetExecution struct {
	Frequency      *string
	AutomationType *models.AutomationType
	ControlType    *models.ControlType
}

func (SetExecution) Field() string { return "execution" }

func (cmd SetExecution) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.Frequency != nil {
		c.Frequency = *cmd.Frequency
	}
	if cmd.AutomationType != nil {
		switch *cmd.AutomationType {
		case models.AutomationManual, models.AutomationSemiAutomated,
			models.AutomationITDependent, models.AutomationAutomated:
			c.AutomationType = *cmd.AutomationType
		default:
			return fmt.Errorf("invalid automation type %q", *cmd.AutomationType)
		}
	}
	if cmd.ControlType != nil {
		switch *cmd.ControlType {
		case models.ControlTypePreventive, models.ControlTypeDetective, models.ControlTypeCorrective:
			c.ControlType = *cmd.ControlType
		default:
			return fmt.Errorf("invalid control type %q", *cmd.ControlType)
		}
	}
	return nil
}

// SetScores edits the numeric quality signals.
type SetScores struct {
	FinalScore *int
	IndexScore *float64
}

func (SetScores) Field() string { return "scores" }

func (cmd SetScores) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.FinalScore != nil {
		if *cmd.FinalScore < 0 || *cmd.FinalScore > 100 {
			return fmt.Errorf("final score %d out of range", *cmd.FinalScore)
		}
		c.FinalScore = *cmd.FinalScore
	}
	if cmd.IndexScore != nil {
		c.IndexScore = *cmd.IndexScore
	}
	return nil
}

// SetEnhancement edits the remediation workflow field group.
type SetEnhancement struct {
	Status     *models.EnhancementStatus
	TargetDate *time.Time
	RootCause  *string
	Comments   *string
}

func (SetEnhancement) Field() string { return "enhancement" }

func (cmd SetEnhancement) Apply(c *models.Control, _ ControlIndex) error {
	if cmd.Status != nil {
		switch *cmd.Status {
		case models.EnhancementNotReviewed, models.EnhancementInReview,
			models.EnhancementInRedesign, models.EnhancementInApproval, models.EnhancementComplete:
			c.EnhancementStatus = *cmd.Status
		default:
			return fmt.Errorf("invalid enhancement status %q", *cmd.Status)
		}
	}
	if cmd.TargetDate != nil {
		td := *cmd.TargetDate
		c.TargetDate = &td
	}
	if cmd.RootCause != nil {
		c.RootCause = *cmd.RootCause
	}
	if cmd.Comments != nil {
		c.Comments = *cmd.Comments
	}
	return nil
}

// SetHierarchy re-parents a control. An empty parent id promotes the control
// to a hierarchy root. The target parent must exist and itself be a root, and
// a root that still has children cannot be demoted.
type SetHierarchy struct {
	ParentControlID string
}

func (SetHierarchy) Field() string { return "hierarchy" }

func (cmd SetHierarchy) Apply(c *models.Control, idx ControlIndex) error {
	if cmd.ParentControlID == "" {
		c.ParentControlID = ""
		c.HierarchyLevel = models.HierarchyParent
		return nil
	}
	if cmd.ParentControlID == c.ID {
		return fmt.Errorf("control cannot be its own parent")
	}
	if len(c.ChildControlIDs) > 0 {
		return fmt.Errorf("control %s still parents %d children", c.ID, len(c.ChildControlIDs))
	}
	if !idx.Exists(cmd.ParentControlID) {
		return appErrors.Clone(appErrors.ErrDanglingReference,
			fmt.Sprintf("parent control %q does not exist", cmd.ParentControlID))
	}
	if !idx.IsParent(cmd.ParentControlID) {
		return appErrors.Clone(appErrors.ErrDanglingReference,
			fmt.Sprintf("control %q is not a hierarchy root", cmd.ParentControlID))
	}
	c.ParentControlID = cmd.ParentControlID
	c.HierarchyLevel = models.HierarchyChild
	return nil
}

package models

// MatchStatusTally counts controls per reconciliation state.
type MatchStatusTally struct {
	Gap       int `json:"gap"`
	Unmatched int `json:"unmatched"`
	Matched   int `json:"matched"`
	Resolved  int `json:"resolved"`
}

// EffectivenessTally counts controls per effectiveness rating.
type EffectivenessTally struct {
	Effective        int `json:"effective"`
	Ineffective      int `json:"ineffective"`
	NeedsImprovement int `json:"needsImprovement"`
	NotRated         int `json:"notRated"`
}

// AutomationTally counts controls per automation type.
type AutomationTally struct {
	Manual        int `json:"manual"`
	SemiAutomated int `json:"semiAutomated"`
	ITDependent   int `json:"itDependent"`
	Automated     int `json:"automated"`
}

// DashboardMetrics are the three categorical tallies over a (possibly
// filtered) control set. Every control contributes to exactly one bucket per
// category; percentages are a presentation concern and are not stored.
type DashboardMetrics struct {
	TotalControls int                `json:"totalControls"`
	MatchStatus   MatchStatusTally   `json:"coraMatch"`
	Effectiveness EffectivenessTally `json:"effectiveness"`
	Automation    AutomationTally    `json:"automation"`
}

// Aggregate derives the dashboard tallies for a control set.
func Aggregate(controls []Control) DashboardMetrics {
	m := DashboardMetrics{TotalControls: len(controls)}
	for _, c := range controls {
		switch c.MatchStatus {
		case MatchGap:
			m.MatchStatus.Gap++
		case MatchUnmatched:
			m.MatchStatus.Unmatched++
		case MatchMatched:
			m.MatchStatus.Matched++
		case MatchResolved:
			m.MatchStatus.Resolved++
		}
		switch c.Effectiveness {
		case EffectivenessEffective:
			m.Effectiveness.Effective++
		case EffectivenessIneffective:
			m.Effectiveness.Ineffective++
		case EffectivenessNeedsImprovement:
			m.Effectiveness.NeedsImprovement++
		case EffectivenessNotRated:
			m.Effectiveness.NotRated++
		}
		switch c.AutomationType {
		case AutomationManual:
			m.Automation.Manual++
		case AutomationSemiAutomated:
			m.Automation.SemiAutomated++
		case AutomationITDependent:
			m.Automation.ITDependent++
		case AutomationAutomated:
			m.Automation.Automated++
		}
	}
	return m
}

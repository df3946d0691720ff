package store

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cortexgov/cortex-api/internal/models"
)

// SeedOptions tunes fixture generation.
type SeedOptions struct {
	// ControlCount is the total number of controls to seed, curated
	// fixtures included. Values below the curated set are raised to it.
	ControlCount int
	// RandSeed makes generated fixtures reproducible across restarts.
	RandSeed int64
	// DemoPassword is the shared password of the demo accounts.
	DemoPassword string
}

// Seed loads the curated demo fixtures plus deterministically generated
// filler controls. It must run once, before the store serves requests.
func (s *Store) Seed(opts SeedOptions) error {
	if opts.ControlCount < len(curatedControls()) {
		opts.ControlCount = len(curatedControls())
	}
	if opts.DemoPassword == "" {
		opts.DemoPassword = "password123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range demoUsers(string(hash)) {
		if err := s.insertUserLocked(u); err != nil {
			return err
		}
	}

	curated := curatedControls()
	for _, c := range curated {
		if err := s.insertControlLocked(c); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(opts.RandSeed))
	for i := len(curated); i < opts.ControlCount; i++ {
		if err := s.insertControlLocked(generatedControl(rng, i+1)); err != nil {
			return err
		}
	}

	for _, v := range seedViews() {
		s.insertViewLocked(v)
	}
	for _, e := range seedAudit() {
		s.appendAuditLocked(e)
	}

	s.logger.Info("store seeded",
		zap.Int("controls", len(s.controls)),
		zap.Int("users", len(s.users)),
		zap.Int("views", len(s.views)),
		zap.Int("audit_entries", len(s.audit)))
	return nil
}

func seedTime(day int, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func demoUsers(passwordHash string) []models.User {
	return []models.User{
		{
			ID: "user-1", Username: "john.smith", Email: "john.smith@corp.example",
			PasswordHash: passwordHash, Role: models.RoleFirstLine,
			Permissions:  []string{models.PermViewDashboard, models.PermFilterControls, models.PermExportData},
			BusinessLine: "Retail Banking", Function: "Payments", Region: "EMEA",
		},
		{
			ID: "user-2", Username: "jane.doe", Email: "jane.doe@corp.example",
			PasswordHash: passwordHash, Role: models.RoleDataOwner,
			Permissions: []string{models.PermViewDashboard, models.PermFilterControls, models.PermExportData,
				models.PermAssignControls, models.PermManageMappings, models.PermUploadData},
			BusinessLine: "Retail Banking", Function: "Operations", Region: "EMEA",
		},
		{
			ID: "user-3", Username: "sarah.connor", Email: "sarah.connor@corp.example",
			PasswordHash: passwordHash, Role: models.RoleSecondLine,
			Permissions: []string{models.PermViewDashboard, models.PermFilterControls, models.PermAuditTrail,
				models.PermExportAudit, models.PermChallengeOutcomes},
			BusinessLine: "Group Risk", Function: "Operational Risk", Region: "Global",
		},
		{
			ID: "user-4", Username: "cora.agent", Email: "cora.agent@corp.example",
			PasswordHash: passwordHash, Role: models.RoleAgent,
			Permissions: []string{models.PermViewDashboard, models.PermAnalyzeControls, models.PermGenerateRecs},
			Region:      "Global",
		},
		{
			ID: "user-5", Username: "mike.manager", Email: "mike.manager@corp.example",
			PasswordHash: passwordHash, Role: models.RoleManager,
			Permissions: []string{models.PermViewDashboard, models.PermFilterControls, models.PermExportData,
				models.PermAssignControls, models.PermAuditTrail},
			BusinessLine: "Retail Banking", Function: "Payments", Region: "EMEA",
		},
	}
}

// curatedControls are the hand-written records exercised by the demo
// walkthrough. Generated filler never reuses their ids.
func curatedControls() []models.Control {
	return []models.Control{
		{
			ID: "ctrl-001", Code: "PAY-001",
			Name:        "Payment Authorization Limits",
			Description: "All payments above USD 10,000 require dual authorization by two independent approvers before release.",
			HierarchyLevel: models.HierarchyParent,
			BusinessLine:   "Retail Banking", Function: "Payments", Location: "London", Region: "EMEA",
			ControlType: models.ControlTypePreventive, ControlMethod: "Four-eyes check",
			Frequency: "Per transaction", AutomationType: models.AutomationAutomated,
			Effectiveness: models.EffectivenessEffective, MatchStatus: models.MatchMatched,
			FinalScore: 92, IndexScore: 4.6,
			Owner: "jane.doe", AssignedTo: "john.smith", Status: models.StatusLive,
			EnhancementStatus: models.EnhancementNotReviewed,
			KeyIndicators:     []string{"Dual-auth breach count", "Average approval latency"},
			LinkedRisks: []models.LinkedRisk{
				{RiskID: "risk-101", RiskName: "Unauthorized payment release", RiskCategory: "Operational"},
			},
			CreatedAt: seedTime(1, 9), UpdatedAt: seedTime(10, 14), Version: "2.1",
		},
		{
			ID: "ctrl-002", Code: "PAY-002",
			Name:        "Daily Payment Reconciliation",
			Description: "Outgoing payment files are reconciled against the core ledger every business day; breaks above tolerance are escalated within 24 hours.",
			HierarchyLevel:  models.HierarchyChild,
			ParentControlID: "ctrl-001",
			BusinessLine:    "Retail Banking", Function: "Payments", Location: "London", Region: "EMEA",
			ControlType: models.ControlTypeDetective, ControlMethod: "Reconciliation",
			Frequency: "Daily", AutomationType: models.AutomationSemiAutomated,
			Effectiveness: models.EffectivenessNeedsImprovement, MatchStatus: models.MatchGap,
			FinalScore: 58, IndexScore: 2.9,
			Owner: "jane.doe", AssignedTo: "john.smith", Status: models.StatusUnderReview,
			EnhancementStatus: models.EnhancementInReview,
			RootCause:         "Manual break investigation exceeds the escalation window on peak days.",
			KeyIndicators:     []string{"Unreconciled item count", "Break ageing"},
			LinkedRisks: []models.LinkedRisk{
				{RiskID: "risk-102", RiskName: "Undetected settlement mismatch", RiskCategory: "Financial"},
			},
			Recommendations: []models.Recommendation{
				{
					ID: "rec-001", Type: models.RecommendationRewrite,
					Title:          "Clarify escalation trigger",
					Description:    "The control narrative does not state who owns escalation when a break ages past 24 hours.",
					CurrentValue:   "Outgoing payment files are reconciled against the core ledger every business day; breaks above tolerance are escalated within 24 hours.",
					SuggestedValue: "Outgoing payment files are reconciled against the core ledger every business day. Breaks above tolerance are escalated to the Payments duty manager within 24 hours of detection.",
					Rationale:      "Named escalation ownership is required for a control rated Needs Improvement on timeliness.",
					Confidence:     0.87, Status: models.RecommendationPending,
					CreatedAt: seedTime(12, 8),
				},
				{
					ID: "rec-002", Type: models.RecommendationFrequencyAdjust,
					Title:          "Intraday reconciliation for high-value rails",
					Description:    "High-value rails settle intraday; a daily cycle leaves a same-day exposure window.",
					CurrentValue:   "Daily",
					SuggestedValue: "Twice daily",
					Rationale:      "Break ageing KPI shows most misses originate in the afternoon settlement window.",
					Confidence:     0.74, Status: models.RecommendationPending,
					CreatedAt: seedTime(12, 8),
				},
			},
			CreatedAt: seedTime(2, 10), UpdatedAt: seedTime(12, 8), Version: "1.4",
		},
		{
			ID: "ctrl-003", Code: "ACC-014",
			Name:        "Privileged Access Review",
			Description: "Privileged accounts on payment platforms are recertified quarterly by the application owner.",
			HierarchyLevel: models.HierarchyParent,
			BusinessLine:   "Retail Banking", Function: "Technology", Location: "Warsaw", Region: "EMEA",
			ControlType: models.ControlTypePreventive, ControlMethod: "Recertification",
			Frequency: "Quarterly", AutomationType: models.AutomationITDependent,
			Effectiveness: models.EffectivenessIneffective, MatchStatus: models.MatchUnmatched,
			FinalScore: 41, IndexScore: 2.0,
			Owner: "mike.manager", Status: models.StatusOutstanding,
			EnhancementStatus: models.EnhancementInRedesign,
			RootCause:         "Recertification campaigns rely on stale HR feeds.",
			Comments:          "Redesign blocked on identity platform migration.",
			KeyIndicators:     []string{"Overdue recertifications"},
			LinkedRisks: []models.LinkedRisk{
				{RiskID: "risk-230", RiskName: "Privileged access misuse", RiskCategory: "Technology"},
			},
			Recommendations: []models.Recommendation{
				{
					ID: "rec-003", Type: models.RecommendationReassign,
					Title:          "Assign to platform owner",
					Description:    "The control has no assignee while in redesign.",
					CurrentValue:   "",
					SuggestedValue: "jane.doe",
					Rationale:      "Data owners drive the identity migration and can unblock the redesign.",
					Confidence:     0.69, Status: models.RecommendationPending,
					CreatedAt: seedTime(14, 16),
				},
			},
			CreatedAt: seedTime(3, 11), UpdatedAt: seedTime(14, 16), Version: "3.0",
		},
		{
			ID: "ctrl-004", Code: "TRD-007",
			Name:        "Trade Surveillance Alert Triage",
			Description: "Surveillance alerts are triaged within one business day and dispositioned with a documented rationale.",
			HierarchyLevel: models.HierarchyParent,
			BusinessLine:   "Markets", Function: "Compliance", Location: "New York", Region: "AMER",
			ControlType: models.ControlTypeDetective, ControlMethod: "Alert review",
			Frequency: "Daily", AutomationType: models.AutomationManual,
			Effectiveness: models.EffectivenessNotRated, MatchStatus: models.MatchResolved,
			FinalScore: 75, IndexScore: 3.8,
			Owner: "sarah.connor", Status: models.StatusLive,
			EnhancementStatus: models.EnhancementComplete,
			KeyIndicators:     []string{"Alert backlog", "Disposition quality sample score"},
			LinkedRisks: []models.LinkedRisk{
				{RiskID: "risk-310", RiskName: "Market abuse goes undetected", RiskCategory: "Conduct"},
			},
			CreatedAt: seedTime(4, 13), UpdatedAt: seedTime(9, 10), Version: "1.1",
		},
	}
}

var (
	seedBusinessLines = []string{"Retail Banking", "Markets", "Wealth", "Corporate Banking"}
	seedFunctions     = []string{"Payments", "Operations", "Technology", "Compliance", "Finance"}
	seedLocations     = []string{"London", "Warsaw", "New York", "Singapore", "Frankfurt"}
	seedRegions       = []string{"EMEA", "AMER", "APAC"}
	seedFrequencies   = []string{"Per transaction", "Daily", "Weekly", "Monthly", "Quarterly", "Annually"}
	seedOwners        = []string{"jane.doe", "mike.manager", "sarah.connor"}

	seedControlTypes = []models.ControlType{
		models.ControlTypePreventive, models.ControlTypeDetective, models.ControlTypeCorrective,
	}
	seedAutomation = []models.AutomationType{
		models.AutomationManual, models.AutomationSemiAutomated,
		models.AutomationITDependent, models.AutomationAutomated,
	}
	seedEffectiveness = []models.Effectiveness{
		models.EffectivenessEffective, models.EffectivenessIneffective,
		models.EffectivenessNeedsImprovement, models.EffectivenessNotRated,
	}
	seedMatches = []models.MatchStatus{
		models.MatchGap, models.MatchUnmatched, models.MatchMatched, models.MatchResolved,
	}
	seedStatuses = []models.ControlStatus{
		models.StatusLive, models.StatusDraft, models.StatusUnderReview,
		models.StatusOutstanding, models.StatusCompleted, models.StatusOpen,
	}
)

// generatedControl produces a filler root control. n is 1-based over the
// whole collection so generated codes never collide with curated ones.
func generatedControl(rng *rand.Rand, n int) models.Control {
	created := seedTime(1, 9).Add(time.Duration(rng.Intn(40*24)) * time.Hour)
	score := 30 + rng.Intn(70)
	return models.Control{
		ID:   fmt.Sprintf("ctrl-%03d", n),
		Code: fmt.Sprintf("GEN-%03d", n),
		Name: fmt.Sprintf("Generated Control %03d", n),
		Description: fmt.Sprintf("Synthetic control record %03d used to exercise filtering and aggregation at scale.", n),
		HierarchyLevel: models.HierarchyParent,
		BusinessLine:   seedBusinessLines[rng.Intn(len(seedBusinessLines))],
		Function:       seedFunctions[rng.Intn(len(seedFunctions))],
		Location:       seedLocations[rng.Intn(len(seedLocations))],
		Region:         seedRegions[rng.Intn(len(seedRegions))],
		ControlType:    seedControlTypes[rng.Intn(len(seedControlTypes))],
		ControlMethod:  "Review",
		Frequency:      seedFrequencies[rng.Intn(len(seedFrequencies))],
		AutomationType: seedAutomation[rng.Intn(len(seedAutomation))],
		Effectiveness:  seedEffectiveness[rng.Intn(len(seedEffectiveness))],
		MatchStatus:    seedMatches[rng.Intn(len(seedMatches))],
		FinalScore:     score,
		IndexScore:     float64(score) / 20,
		Owner:          seedOwners[rng.Intn(len(seedOwners))],
		Status:         seedStatuses[rng.Intn(len(seedStatuses))],
		EnhancementStatus: models.EnhancementNotReviewed,
		CreatedAt:         created,
		UpdatedAt:         created,
		Version:           "1.0",
	}
}

func seedViews() []models.SavedView {
	return []models.SavedView{
		{
			ID: "view-001", Name: "My EMEA Payment Gaps", UserID: "user-1",
			Filters: models.FilterConfig{
				Regions:       []string{"EMEA"},
				Functions:     []string{"Payments"},
				MatchStatuses: []string{string(models.MatchGap)},
			},
			IsDefault: true,
			CreatedAt: seedTime(8, 9),
		},
		{
			ID: "view-002", Name: "Ineffective Controls Review", UserID: "user-3",
			Filters: models.FilterConfig{
				Effectiveness: []string{string(models.EffectivenessIneffective), string(models.EffectivenessNeedsImprovement)},
			},
			CreatedAt: seedTime(9, 15),
		},
	}
}

func seedAudit() []models.AuditEntry {
	return []models.AuditEntry{
		{
			ID: "audit-001", Timestamp: seedTime(10, 14), UserID: "user-2",
			Action: models.AuditActionControlUpdate, EntityType: models.EntityControl, EntityID: "ctrl-001",
			Reason: "Raised dual-authorization threshold review cadence.",
		},
		{
			ID: "audit-002", Timestamp: seedTime(12, 8), UserID: "user-4",
			Action: models.AuditActionFilterApplied, EntityType: models.EntitySystem, EntityID: "dashboard",
		},
	}
}

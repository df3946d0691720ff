package models

import "time"

// RecommendationType tags the kind of edit the analysis agent suggests.
type RecommendationType string

const (
	RecommendationRewrite         RecommendationType = "rewrite"
	RecommendationMerge           RecommendationType = "merge"
	RecommendationImprove         RecommendationType = "improve"
	RecommendationReassign        RecommendationType = "reassign"
	RecommendationFrequencyAdjust RecommendationType = "frequency_adjust"
)

// RecommendationStatus is the review lifecycle of a recommendation.
type RecommendationStatus string

const (
	RecommendationPending  RecommendationStatus = "pending"
	RecommendationAccepted RecommendationStatus = "accepted"
	RecommendationRejected RecommendationStatus = "rejected"
	RecommendationDeferred RecommendationStatus = "deferred"
)

// Recommendation is a suggested edit to a control produced by the analysis
// agent. Confidence is in [0,1]. Recommendations are never deleted; reviewers
// move them through the accept/reject/defer lifecycle.
type Recommendation struct {
	ID             string               `json:"id"`
	Type           RecommendationType   `json:"type"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	CurrentValue   string               `json:"currentValue"`
	SuggestedValue string               `json:"suggestedValue"`
	Rationale      string               `json:"rationale"`
	Confidence     float64              `json:"confidence"`
	Status         RecommendationStatus `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	AcceptedBy     string               `json:"acceptedBy,omitempty"`
	AcceptedAt     *time.Time           `json:"acceptedAt,omitempty"`
}

// RecommendationDecision is a reviewer verdict on a pending recommendation.
type RecommendationDecision string

const (
	DecisionAccept RecommendationDecision = "accept"
	DecisionReject RecommendationDecision = "reject"
	DecisionDefer  RecommendationDecision = "defer"
)

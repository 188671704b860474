package domain

import "time"

// OptimizationPriority orders plan items. Critical outranks high outranks
// medium outranks low.
type OptimizationPriority string

const (
	PriorityCritical OptimizationPriority = "critical"
	PriorityHigh     OptimizationPriority = "high"
	PriorityMedium   OptimizationPriority = "medium"
	PriorityLow      OptimizationPriority = "low"
)

// Rank maps a priority to a sortable weight, higher first.
func (p OptimizationPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// OptimizationType names the kind of suggested change.
type OptimizationType string

const (
	OptTitleThumbnail OptimizationType = "title_thumbnail"
	OptOpeningHook    OptimizationType = "opening_hook"
	OptContentEdit    OptimizationType = "content_edit"
	OptPacing         OptimizationType = "pacing"
)

// Optimization is one concrete, prioritized suggested change. TargetSec is
// nil for globally scoped items (title/thumbnail, opening hook).
type Optimization struct {
	Type       OptimizationType     `json:"type"`
	Priority   OptimizationPriority `json:"priority"`
	TargetSec  *float64             `json:"target_sec,omitempty"`
	Suggestion string               `json:"suggestion"`
	Rationale  string               `json:"rationale"`
	Impact     float64              `json:"impact"` // affected fraction x metric gap
	Categories []string             `json:"categories,omitempty"`
}

// OptimizationPlan is the ranked list of suggestions for one evaluation.
// Items are sorted by priority descending, then impact descending. An empty
// plan is a valid result when every metric meets its target.
type OptimizationPlan struct {
	EvaluationID string         `json:"evaluation_id"`
	Items        []Optimization `json:"items"`
	Confidence   float64        `json:"confidence"`
	CreatedAt    time.Time      `json:"created_at"`
}

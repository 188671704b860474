package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SuccessPattern is one learned content pattern for a creator. SuccessRate is
// maintained with a bounded exponential moving average, never raw accumulation.
type SuccessPattern struct {
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	SuccessRate  float64   `json:"success_rate"` // [0,1]
	Contexts     []string  `json:"contexts,omitempty"`
	Observations int       `json:"observations"`
	LastObserved time.Time `json:"last_observed"`
}

// CTRWeightState is the accumulated linear-model state for the per-creator
// CTR predictor: a regularized design matrix A and response vector B over the
// title/thumbnail feature space, softly decayed on every update.
type CTRWeightState struct {
	A     [][]float64 `json:"A"`
	B     []float64   `json:"b"`
	Count int         `json:"count"`
}

// PersonalBrandProfile is the only mutable state the engine keeps across runs
// for a creator. Created implicitly on first use, updated on feedback,
// never auto-deleted.
type PersonalBrandProfile struct {
	CreatorID string   `json:"creator_id"`
	Niche     []string `json:"niche,omitempty"`
	VoiceTone string   `json:"voice_tone,omitempty"`

	// learned audience-category weights, consumed by the catalog's auto
	// distribution mode
	AudienceWeights map[string]float64 `json:"audience_weights,omitempty"`

	Patterns []SuccessPattern `json:"patterns,omitempty"`

	// TrendScore tracks whether recent runs beat the creator's own baseline.
	TrendScore float64 `json:"trend_score"`

	CTRState *CTRWeightState `json:"ctr_state,omitempty"`

	Runs      int       `json:"runs"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RealWorldMetrics arrives asynchronously from the analytics collaborator
// after publishing. Any field may be absent; negative values mean "not
// reported".
type RealWorldMetrics struct {
	CTR            float64 `json:"ctr" validate:"omitempty,gte=-1,lte=1"`
	WatchTimePct   float64 `json:"watch_time_pct" validate:"omitempty,gte=-1,lte=1"`
	CompletionRate float64 `json:"completion_rate" validate:"omitempty,gte=-1,lte=1"`
	EngagementRate float64 `json:"engagement_rate" validate:"omitempty,gte=-1,lte=1"`
	ShareRate      float64 `json:"share_rate" validate:"omitempty,gte=-1,lte=1"`
}

// FeedbackEvent is the raw post-publish feedback record, logged alongside the
// profile update for offline analysis.
type FeedbackEvent struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatorID    string            `gorm:"column:creator_id;not null;index" json:"creator_id"`
	EvaluationID string            `gorm:"column:evaluation_id;not null" json:"evaluation_id"`
	Simulated    bool              `gorm:"column:simulated;not null" json:"simulated"`
	Context      datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

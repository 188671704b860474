package domain

import "time"

// RetentionPoint is one bucket of the population retention curve.
type RetentionPoint struct {
	TimeSec  float64 `json:"time_sec"`
	Fraction float64 `json:"fraction"`
}

// DropOffSeverity classifies how sharp a retention decline is.
type DropOffSeverity string

const (
	SeverityMinor    DropOffSeverity = "minor"
	SeverityModerate DropOffSeverity = "moderate"
	SeverityMajor    DropOffSeverity = "major"
)

// DropOffPoint is a timestamp range where retention declines faster than the
// configured threshold, annotated with the persona categories that are
// over-represented among the sessions lost there.
type DropOffPoint struct {
	StartSec   float64         `json:"start_sec"`
	EndSec     float64         `json:"end_sec"`
	Drop       float64         `json:"drop"` // retention fraction lost across the range
	Severity   DropOffSeverity `json:"severity"`
	Categories []string        `json:"categories,omitempty"`
}

// HookRetention holds the retention fraction at the end of each named hook
// window. The three windows are evaluated separately downstream.
type HookRetention struct {
	FirstHook    float64 `json:"first_hook"`    // at 3s
	ValueClarity float64 `json:"value_clarity"` // at 10s
	Commitment   float64 `json:"commitment"`    // at 30s
}

// VideoEvaluation is the aggregated, immutable output of one evaluation run.
type VideoEvaluation struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	CreatorID string `json:"creator_id"`

	Sessions int   `json:"sessions"`
	Seed     int64 `json:"seed"`

	Retention []RetentionPoint `json:"retention"`
	// Coverage is the fraction of sessions that actually watched each bucket;
	// unlike Retention it dips where viewers skip over content.
	Coverage []RetentionPoint `json:"coverage"`

	DropOffs []DropOffPoint `json:"drop_offs"`
	Hooks    HookRetention  `json:"hooks"`

	PredictedCTR    float64 `json:"predicted_ctr"`
	WatchTimePct    float64 `json:"watch_time_pct"`
	CompletionRate  float64 `json:"completion_rate"`
	EngagementScore float64 `json:"engagement_score"`
	ViralityScore   float64 `json:"virality_score"`

	// average engagement per persona category, the learning store's input
	// for audience weighting
	CategoryEngagement map[string]float64 `json:"category_engagement,omitempty"`

	// sessions that hit the tick ceiling, kept as a distinct labeled outcome
	PolicyStops int `json:"policy_stops"`

	CreatedAt time.Time `json:"created_at"`
}

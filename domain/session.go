package domain

// SessionOutcome is the single terminal state of a viewing session.
type SessionOutcome string

const (
	OutcomeCompleted       SessionOutcome = "completed"
	OutcomeDroppedOff      SessionOutcome = "dropped_off"
	OutcomeStoppedByPolicy SessionOutcome = "stopped_by_policy"
)

// SessionAction is a discrete viewer action recorded mid-session.
type SessionAction string

const (
	ActionSkip   SessionAction = "skip"
	ActionPause  SessionAction = "pause"
	ActionRewind SessionAction = "rewind"
	ActionStop   SessionAction = "stop"
)

// TracePoint is one tick of the engagement trace. Engagement is in [0,1].
type TracePoint struct {
	TimeSec    float64 `json:"time_sec"`
	Engagement float64 `json:"engagement"`
}

// SessionEvent is a discrete action. Event indexes strictly increase even
// when a rewind moves TimeSec backwards.
type SessionEvent struct {
	Index   int           `json:"index"`
	TimeSec float64       `json:"time_sec"`
	Action  SessionAction `json:"action"`
	ToSec   float64       `json:"to_sec,omitempty"` // playhead after a skip/rewind
}

// ViewingSession is one simulated persona's run against a segmented video.
// It is immutable once the simulator returns it.
type ViewingSession struct {
	PersonaID int    `json:"persona_id"`
	Category  string `json:"category"`

	Trace  []TracePoint   `json:"trace"`
	Events []SessionEvent `json:"events"`

	Outcome SessionOutcome `json:"outcome"`
	ExitSec float64        `json:"exit_sec"` // terminal playhead (content time)

	WatchedSec      float64 `json:"watched_sec"` // distinct content seconds viewed
	AvgEngagement   float64 `json:"avg_engagement"`
	FinalEngagement float64 `json:"final_engagement"`

	// evaluated once at session end, recorded on the terminal event
	Commented bool `json:"commented"`
	Shared    bool `json:"shared"`

	Ticks int `json:"ticks"`
}

// Completed reports whether the session reached the end of the content.
func (s ViewingSession) Completed() bool { return s.Outcome == OutcomeCompleted }

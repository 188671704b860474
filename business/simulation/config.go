package simulation

// Config holds every tunable of the behavior model. The engagement factor
// weights are configuration rather than constants; the defaults below are the
// documented starting point, not a claim of optimality.
type Config struct {
	TickSec     float64 // simulation resolution
	TickCeiling int     // hard tick bound per session

	// engagement target weights, expected to sum to ~1
	WRelevance  float64
	WPacing     float64
	WComplexity float64
	WHistory    float64

	// engagement moves toward its target by at most MaxStep per tick
	MaxStep           float64
	InitialEngagement float64

	// thresholds
	LowEngagement  float64 // below this a tick counts as "low"
	StopEngagement float64 // probabilistic stop zone near zero
	HookNeed       float64 // expected engagement inside hook windows
	MaxLowTicks    int     // hard drop-off ceiling on cumulative low ticks

	// action shaping
	HookSkipGain     float64
	AttentionSkip    float64 // skip pressure once attention span is exhausted
	SkipBaseSec      float64 // base skip distance, grows as engagement falls
	PauseGain        float64
	PauseBoost       float64 // re-focus engagement bump after a pause
	RewindGain       float64
	RewindBackSec    float64
	MaxRewinds       int
	RewindWindow     int // ticks after a pause during which a rewind can fire
	StopGain         float64
	HistoryWindow    int // ticks of recent engagement feeding the history term
	CompletionShare  float64 // share-probability bonus for finishing
}

func DefaultConfig() Config {
	return Config{
		TickSec:     1,
		TickCeiling: 7200,

		WRelevance:  0.35,
		WPacing:     0.20,
		WComplexity: 0.30,
		WHistory:    0.15,

		MaxStep:           0.15,
		InitialEngagement: 0.7,

		LowEngagement:  0.3,
		StopEngagement: 0.12,
		HookNeed:       0.55,
		MaxLowTicks:    60,

		HookSkipGain:    1.2,
		AttentionSkip:   0.15,
		SkipBaseSec:     10,
		PauseGain:       0.8,
		PauseBoost:      0.12,
		RewindGain:      0.7,
		RewindBackSec:   10,
		MaxRewinds:      3,
		RewindWindow:    5,
		StopGain:        0.25,
		HistoryWindow:   5,
		CompletionShare: 0.3,
	}
}

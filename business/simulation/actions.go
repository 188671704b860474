package simulation

import "audienceLab/domain"

// Action probabilities are pure functions of (persona, tick state, config).
// All randomness is drawn from the session's explicit RNG in the tick loop,
// never from global state.

type tickState struct {
	playheadSec     float64
	engagement      float64
	lowTicks        int // cumulative ticks spent below LowEngagement
	ticksSincePause int
	rewinds         int
}

// skipProbability rises when the hook window under-delivers against the
// persona's hook requirement, and again once sustained low engagement has
// outlasted the persona's attention span.
func (cfg Config) skipProbability(p domain.PersonaProfile, seg domain.ContentSegment, st tickState) float64 {
	prob := 0.0

	if seg.Commitment && st.playheadSec > p.HookRequirementSec && st.engagement < cfg.HookNeed {
		prob += p.SkipProneness * (cfg.HookNeed - st.engagement) * cfg.HookSkipGain
	}

	if float64(st.lowTicks)*cfg.TickSec > p.AttentionSpanSec {
		prob += p.SkipProneness * cfg.AttentionSkip
	}

	return clamp01(prob)
}

// skipDistance grows as engagement falls: a bored viewer jumps further.
func (cfg Config) skipDistance(p domain.PersonaProfile, engagement float64) float64 {
	return cfg.SkipBaseSec * (1 + 2*(1-engagement)) * p.PreferredPace
}

// pauseProbability rises with the complexity overshoot beyond tolerance.
func (cfg Config) pauseProbability(p domain.PersonaProfile, seg domain.ContentSegment) float64 {
	if seg.Complexity <= p.ComplexityTolerance {
		return 0
	}
	return clamp01(p.PauseProneness * (seg.Complexity - p.ComplexityTolerance) * cfg.PauseGain)
}

// rewindProbability fires only shortly after a pause while complexity still
// exceeds tolerance: the "missed concept" signal.
func (cfg Config) rewindProbability(p domain.PersonaProfile, seg domain.ContentSegment, st tickState) float64 {
	if st.rewinds >= cfg.MaxRewinds {
		return 0
	}
	if st.ticksSincePause < 0 || st.ticksSincePause > cfg.RewindWindow {
		return 0
	}
	if seg.Complexity <= p.ComplexityTolerance {
		return 0
	}
	return clamp01(p.RewindProneness * (seg.Complexity - p.ComplexityTolerance) * cfg.RewindGain)
}

// stopProbability grows as engagement approaches zero. The deterministic
// low-tick ceiling is enforced separately in the tick loop.
func (cfg Config) stopProbability(st tickState) float64 {
	if st.engagement >= cfg.StopEngagement {
		return 0
	}
	return clamp01((cfg.StopEngagement - st.engagement) / cfg.StopEngagement * cfg.StopGain)
}

// commentProbability and shareProbability are evaluated once, at session end.
func (cfg Config) commentProbability(p domain.PersonaProfile, avg, final float64) float64 {
	return clamp01(p.CommentAffinity * (0.6*avg + 0.4*final))
}

func (cfg Config) shareProbability(p domain.PersonaProfile, avg float64, completed bool) float64 {
	base := 0.7 * avg
	if completed {
		base += cfg.CompletionShare
	}
	return clamp01(p.ShareAffinity * base)
}

package simulation

import (
	"math"
	"math/rand"

	"audienceLab/domain"
)

// SimulatorService runs single viewing sessions. It holds no mutable state;
// everything a session needs travels in its arguments, so sessions are safe
// to run on parallel workers.
type SimulatorService struct {
	cfg Config
}

func NewSimulatorService(cfg Config) *SimulatorService {
	if cfg.TickSec <= 0 {
		cfg.TickSec = 1
	}
	if cfg.TickCeiling <= 0 {
		cfg.TickCeiling = DefaultConfig().TickCeiling
	}
	return &SimulatorService{cfg: cfg}
}

// Simulate walks the segment sequence tick by tick for one persona. The
// returned session always carries exactly one terminal outcome. When the
// tick ceiling is hit, the session is labeled stopped_by_policy and
// returned together with a SimulationTimeoutError so the caller can log it;
// the session itself is still usable for aggregation.
func (s *SimulatorService) Simulate(
	persona domain.PersonaProfile,
	segments []domain.ContentSegment,
	rng *rand.Rand,
) (domain.ViewingSession, error) {
	cfg := s.cfg
	duration := segments[len(segments)-1].EndSec

	session := domain.ViewingSession{
		PersonaID: persona.ID,
		Category:  persona.Category,
	}

	watched := make([]bool, int(math.Ceil(duration)))
	recent := newHistory(cfg.HistoryWindow, cfg.InitialEngagement)

	st := tickState{
		engagement:      cfg.InitialEngagement,
		ticksSincePause: -1,
	}
	segIdx := 0
	eventIdx := 0
	var timeoutErr error

	for ticks := 0; ; ticks++ {
		session.Ticks = ticks

		if st.playheadSec >= duration {
			session.Outcome = domain.OutcomeCompleted
			session.ExitSec = duration
			break
		}
		if ticks >= cfg.TickCeiling {
			session.Outcome = domain.OutcomeStoppedByPolicy
			session.ExitSec = st.playheadSec
			timeoutErr = &domain.SimulationTimeoutError{PersonaID: persona.ID, Ticks: ticks}
			break
		}

		segIdx = advanceSegment(segments, segIdx, st.playheadSec)
		seg := segments[segIdx]

		target := cfg.engagementTarget(persona, seg, recent.mean())
		st.engagement = cfg.step(st.engagement, target)
		recent.push(st.engagement)

		session.Trace = append(session.Trace, domain.TracePoint{
			TimeSec:    st.playheadSec,
			Engagement: st.engagement,
		})
		if idx := int(st.playheadSec); idx >= 0 && idx < len(watched) {
			watched[idx] = true
		}

		if st.engagement < cfg.LowEngagement {
			st.lowTicks++
		}
		if st.ticksSincePause >= 0 {
			st.ticksSincePause++
		}

		// hard ceiling on sustained disengagement
		if st.lowTicks > cfg.MaxLowTicks {
			session.Events = append(session.Events, domain.SessionEvent{
				Index: eventIdx, TimeSec: st.playheadSec, Action: domain.ActionStop,
			})
			session.Outcome = domain.OutcomeDroppedOff
			session.ExitSec = st.playheadSec
			break
		}

		if rng.Float64() < cfg.stopProbability(st) {
			session.Events = append(session.Events, domain.SessionEvent{
				Index: eventIdx, TimeSec: st.playheadSec, Action: domain.ActionStop,
			})
			session.Outcome = domain.OutcomeDroppedOff
			session.ExitSec = st.playheadSec
			break
		}

		if rng.Float64() < cfg.pauseProbability(persona, seg) {
			session.Events = append(session.Events, domain.SessionEvent{
				Index: eventIdx, TimeSec: st.playheadSec, Action: domain.ActionPause,
			})
			eventIdx++
			// pausing re-focuses; the playhead stays put for this tick
			st.engagement = clamp01(st.engagement + cfg.PauseBoost)
			st.ticksSincePause = 0
			continue
		}

		if rng.Float64() < cfg.rewindProbability(persona, seg, st) {
			to := st.playheadSec - cfg.RewindBackSec
			if to < 0 {
				to = 0
			}
			session.Events = append(session.Events, domain.SessionEvent{
				Index: eventIdx, TimeSec: st.playheadSec, Action: domain.ActionRewind, ToSec: to,
			})
			eventIdx++
			st.playheadSec = to
			st.rewinds++
			st.ticksSincePause = -1
			segIdx = 0
			continue
		}

		if rng.Float64() < cfg.skipProbability(persona, seg, st) {
			to := st.playheadSec + cfg.skipDistance(persona, st.engagement)
			session.Events = append(session.Events, domain.SessionEvent{
				Index: eventIdx, TimeSec: st.playheadSec, Action: domain.ActionSkip, ToSec: to,
			})
			eventIdx++
			st.playheadSec = to
			continue
		}

		st.playheadSec += cfg.TickSec
	}

	finishSession(&session, watched, duration)

	// comment/share are end-of-session signals; a policy stop is not a
	// narrative outcome, so neither fires there
	if session.Outcome != domain.OutcomeStoppedByPolicy {
		completed := session.Outcome == domain.OutcomeCompleted
		session.Commented = rng.Float64() < cfg.commentProbability(persona, session.AvgEngagement, session.FinalEngagement)
		session.Shared = rng.Float64() < cfg.shareProbability(persona, session.AvgEngagement, completed)
	}

	return session, timeoutErr
}

func finishSession(session *domain.ViewingSession, watched []bool, duration float64) {
	count := 0
	for _, w := range watched {
		if w {
			count++
		}
	}
	session.WatchedSec = float64(count)
	if session.WatchedSec > duration {
		session.WatchedSec = duration
	}

	if n := len(session.Trace); n > 0 {
		sum := 0.0
		for _, p := range session.Trace {
			sum += p.Engagement
		}
		session.AvgEngagement = sum / float64(n)
		session.FinalEngagement = session.Trace[n-1].Engagement
	}
}

// advanceSegment finds the segment containing t, scanning forward from the
// cursor; a rewind resets the cursor to zero.
func advanceSegment(segments []domain.ContentSegment, from int, t float64) int {
	i := from
	for i+1 < len(segments) && t >= segments[i].EndSec {
		i++
	}
	return i
}

// history is a small ring of recent engagement values.
type history struct {
	buf  []float64
	next int
	full bool
	seed float64
}

func newHistory(window int, seed float64) *history {
	if window <= 0 {
		window = 1
	}
	return &history{buf: make([]float64, window), seed: seed}
}

func (h *history) push(v float64) {
	h.buf[h.next] = v
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
}

func (h *history) mean() float64 {
	n := h.next
	if h.full {
		n = len(h.buf)
	}
	if n == 0 {
		return h.seed
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += h.buf[i]
	}
	return sum / float64(n)
}

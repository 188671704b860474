package simulation

import (
	"math"

	"audienceLab/domain"
)

// relevance scores topical overlap between a persona's affinities and a
// segment. Segments without topic tags score neutral.
func relevance(persona domain.PersonaProfile, seg domain.ContentSegment) float64 {
	if len(seg.Topics) == 0 {
		return 0.5
	}

	matches := 0
	for _, topic := range seg.Topics {
		for _, aff := range persona.TopicAffinities {
			if topic == aff {
				matches++
				break
			}
		}
	}
	frac := float64(matches) / float64(len(seg.Topics))
	return 0.2 + 0.8*frac
}

// paceTarget maps a playback-speed preference (~0.5x..2x) onto the segment
// pacing scale, where 0.5 is neutral.
func paceTarget(preferredPace float64) float64 {
	return clamp01((preferredPace - 0.5) / 1.5)
}

// pacingMatch is 1 when segment pacing sits exactly where the persona wants it.
func pacingMatch(persona domain.PersonaProfile, seg domain.ContentSegment) float64 {
	return 1 - math.Abs(seg.Pacing-paceTarget(persona.PreferredPace))
}

// complexityMatch penalizes over-tolerance complexity super-linearly; content
// far below tolerance is mildly boring, linearly.
func complexityMatch(persona domain.PersonaProfile, seg domain.ContentSegment) float64 {
	tol := persona.ComplexityTolerance
	c := seg.Complexity

	if c <= tol {
		return 1 - 0.4*(tol-c)
	}

	headroom := 1 - tol
	if headroom < 0.05 {
		headroom = 0.05
	}
	excess := (c - tol) / headroom
	return clamp01(1 - excess*excess)
}

// engagementTarget is the weighted combination the current engagement moves
// toward. The history term is the mean of the recent trace window, which is
// what keeps engagement from jumping discontinuously.
func (cfg Config) engagementTarget(persona domain.PersonaProfile, seg domain.ContentSegment, recent float64) float64 {
	t := cfg.WRelevance*relevance(persona, seg) +
		cfg.WPacing*pacingMatch(persona, seg) +
		cfg.WComplexity*complexityMatch(persona, seg) +
		cfg.WHistory*recent

	norm := cfg.WRelevance + cfg.WPacing + cfg.WComplexity + cfg.WHistory
	if norm <= 0 {
		return clamp01(t)
	}
	return clamp01(t / norm)
}

// step moves engagement toward target with a bounded increment.
func (cfg Config) step(engagement, target float64) float64 {
	delta := target - engagement
	if delta > cfg.MaxStep {
		delta = cfg.MaxStep
	} else if delta < -cfg.MaxStep {
		delta = -cfg.MaxStep
	}
	return clamp01(engagement + delta)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

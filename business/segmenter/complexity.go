package segmenter

import "audienceLab/domain"

// complexity combines the available information-density proxies under the
// configured weights. When the descriptor carries no hints at all, the score
// degrades to a neutral 0.5 with the weights renormalized over what exists.
func (s *SegmenterService) complexity(video domain.VideoContent, scene *domain.SceneMarker, start, end float64) float64 {
	sum := 0.0
	weight := 0.0

	if scene != nil {
		if scene.CodeOnScreen {
			sum += s.cfg.WCodeOnScreen
		}
		weight += s.cfg.WCodeOnScreen

		if scene.VisualComplexity > 0 {
			sum += s.cfg.WVisualHint * clamp01(scene.VisualComplexity)
			weight += s.cfg.WVisualHint
		}

		if !scene.TalkingHead {
			sum += s.cfg.WDiagram
		}
		weight += s.cfg.WDiagram
	}

	if rate, ok := wordRate(video.Transcript, start, end); ok {
		sum += s.cfg.WWordRate * clamp01(rate/s.cfg.WordRateCeiling)
		weight += s.cfg.WWordRate
	}

	if weight == 0 {
		// no hints supplied; lower-confidence neutral score
		return 0.5
	}
	return clamp01(sum / weight)
}

// pacing scores how briskly a span moves: scene-change density plus word
// rate, each mapped into [0,1] with 0.5 as the neutral midpoint.
func (s *SegmenterService) pacing(video domain.VideoContent, start, end float64) float64 {
	span := end - start
	if span <= 0 {
		return 0.5
	}

	changes := 0
	for _, m := range video.Scenes {
		if m.TimestampSec > start && m.TimestampSec <= end {
			changes++
		}
	}
	// one change per 10s ~ neutral, one per 3s ~ frantic
	sceneScore := clamp01(float64(changes) / span * 10.0 / 2.0)

	if rate, ok := wordRate(video.Transcript, start, end); ok {
		wordScore := clamp01(rate / s.cfg.WordRateCeiling)
		return clamp01(0.5*sceneScore + 0.5*wordScore)
	}
	if len(video.Scenes) == 0 {
		return 0.5
	}
	return sceneScore
}

// wordRate averages transcript words/sec over the overlap with [start, end).
func wordRate(windows []domain.TranscriptWindow, start, end float64) (float64, bool) {
	words := 0.0
	covered := 0.0
	for _, w := range windows {
		lo := max(w.StartSec, start)
		hi := min(w.EndSec, end)
		if hi <= lo {
			continue
		}
		span := w.EndSec - w.StartSec
		if span <= 0 {
			continue
		}
		frac := (hi - lo) / span
		words += float64(w.WordCount) * frac
		covered += hi - lo
	}
	if covered <= 0 {
		return 0, false
	}
	return words / covered, true
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

package segmenter

import (
	"math"
	"sort"

	"audienceLab/domain"
)

const (
	firstHookWindowSec    = 3.0
	valueClarityWindowSec = 10.0
	commitmentWindowSec   = 30.0
)

// Config drives boundary placement and complexity scoring. The complexity
// weights are deliberately configuration, not constants, so they can be tuned
// per content genre.
type Config struct {
	MinSegmentSec float64
	MaxSegmentSec float64

	// complexity score weights
	WCodeOnScreen float64 // code on screen is information-dense
	WVisualHint   float64 // per-scene visual-complexity hint
	WWordRate     float64 // transcript word rate
	WDiagram      float64 // non-talking-head visuals

	// word rate (words/sec) that maps to full complexity contribution
	WordRateCeiling float64
}

func DefaultConfig() Config {
	return Config{
		MinSegmentSec:   2,
		MaxSegmentSec:   30,
		WCodeOnScreen:   0.30,
		WVisualHint:     0.35,
		WWordRate:       0.20,
		WDiagram:        0.15,
		WordRateCeiling: 3.5,
	}
}

// SegmenterService converts a video descriptor into an ordered list of
// ContentSegments tiling [0, duration).
type SegmenterService struct {
	cfg Config
}

func NewSegmenterService(cfg Config) *SegmenterService {
	if cfg.MinSegmentSec <= 0 {
		cfg.MinSegmentSec = 2
	}
	if cfg.MaxSegmentSec < cfg.MinSegmentSec {
		cfg.MaxSegmentSec = 30
	}
	return &SegmenterService{cfg: cfg}
}

// Segment is deterministic for a given video descriptor. Boundaries snap to
// scene markers when available, otherwise fixed-length windows are used.
func (s *SegmenterService) Segment(video domain.VideoContent) ([]domain.ContentSegment, error) {
	if video.DurationSec <= 0 {
		return nil, &domain.EmptyVideoError{DurationSec: video.DurationSec}
	}

	bounds := s.boundaries(video)

	segments := make([]domain.ContentSegment, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		seg := domain.ContentSegment{
			Index:    i,
			StartSec: start,
			EndSec:   end,

			FirstHook:    start < firstHookWindowSec,
			ValueClarity: start < valueClarityWindowSec,
			Commitment:   start < commitmentWindowSec,
		}

		scene := sceneFor(video.Scenes, start)
		if scene != nil {
			seg.Topics = scene.Topics
		}
		seg.Complexity = s.complexity(video, scene, start, end)
		seg.Pacing = s.pacing(video, start, end)

		segments = append(segments, seg)
	}

	return segments, nil
}

// boundaries returns sorted cut points covering [0, duration], scene-snapped
// where possible and re-split so every span respects min/max length.
func (s *SegmenterService) boundaries(video domain.VideoContent) []float64 {
	cuts := []float64{0}
	for _, m := range video.Scenes {
		t := m.TimestampSec
		if t <= 0 || t >= video.DurationSec {
			continue
		}
		cuts = append(cuts, t)
	}
	cuts = append(cuts, video.DurationSec)
	sort.Float64s(cuts)

	// drop cuts that would create a span shorter than the minimum
	merged := cuts[:1]
	for _, c := range cuts[1:] {
		if c-merged[len(merged)-1] < s.cfg.MinSegmentSec {
			// keep the final boundary no matter what; absorb the short tail
			// into the previous span instead
			if c == video.DurationSec {
				if len(merged) > 1 {
					merged = merged[:len(merged)-1]
				}
				merged = append(merged, c)
			}
			continue
		}
		merged = append(merged, c)
	}

	// split spans longer than the maximum into equal windows
	out := []float64{merged[0]}
	for i := 0; i+1 < len(merged); i++ {
		start, end := merged[i], merged[i+1]
		span := end - start
		if span > s.cfg.MaxSegmentSec {
			n := int(math.Ceil(span / s.cfg.MaxSegmentSec))
			step := span / float64(n)
			for k := 1; k < n; k++ {
				out = append(out, start+step*float64(k))
			}
		}
		out = append(out, end)
	}

	return out
}

// sceneFor finds the most recent scene marker at or before t.
func sceneFor(scenes []domain.SceneMarker, t float64) *domain.SceneMarker {
	var found *domain.SceneMarker
	for i := range scenes {
		if scenes[i].TimestampSec <= t {
			found = &scenes[i]
		} else {
			break
		}
	}
	return found
}

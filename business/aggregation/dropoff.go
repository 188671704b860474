package aggregation

import (
	"sort"

	"audienceLab/domain"
)

// detectDropOffs finds ranges where the retention derivative is steeper than
// the severity threshold, merging ranges separated by short quiet gaps, then
// classifies each range and attributes it to over-represented categories.
func (s *AggregationService) detectDropOffs(curve []domain.RetentionPoint, sessions []domain.ViewingSession) []domain.DropOffPoint {
	type span struct{ start, end int }
	var spans []span

	open := -1
	quiet := 0
	gapBuckets := int(s.cfg.MergeGapSec / s.cfg.BucketSec)

	for b := 0; b+1 < len(curve); b++ {
		loss := curve[b].Fraction - curve[b+1].Fraction
		if loss > s.cfg.SeverityThreshold {
			if open < 0 {
				open = b
			}
			quiet = 0
			continue
		}
		if open >= 0 {
			quiet++
			if quiet > gapBuckets {
				spans = append(spans, span{start: open, end: b - quiet + 1})
				open = -1
				quiet = 0
			}
		}
	}
	if open >= 0 {
		spans = append(spans, span{start: open, end: len(curve) - 1})
	}

	out := make([]domain.DropOffPoint, 0, len(spans))
	for _, sp := range spans {
		startSec := curve[sp.start].TimeSec
		endSec := curve[sp.end].TimeSec
		drop := curve[sp.start].Fraction - curve[sp.end].Fraction

		point := domain.DropOffPoint{
			StartSec: startSec,
			EndSec:   endSec,
			Drop:     drop,
			Severity: s.classify(drop),
		}
		point.Categories = s.attributeCategories(sessions, startSec, endSec)
		out = append(out, point)
	}

	// most severe first, then earliest
	sort.Slice(out, func(i, j int) bool {
		if out[i].Drop != out[j].Drop {
			return out[i].Drop > out[j].Drop
		}
		return out[i].StartSec < out[j].StartSec
	})

	return out
}

func (s *AggregationService) classify(drop float64) domain.DropOffSeverity {
	switch {
	case drop >= s.cfg.MajorDrop:
		return domain.SeverityMajor
	case drop >= s.cfg.ModerateDrop:
		return domain.SeverityModerate
	default:
		return domain.SeverityMinor
	}
}

// attributeCategories tags categories whose drop rate inside the range
// exceeds the population's by the configured ratio.
func (s *AggregationService) attributeCategories(sessions []domain.ViewingSession, startSec, endSec float64) []string {
	catTotal := make(map[string]int)
	catDropped := make(map[string]int)
	totalDropped := 0

	for _, sess := range sessions {
		catTotal[sess.Category]++
		if sess.Outcome == domain.OutcomeCompleted {
			continue
		}
		if sess.ExitSec >= startSec && sess.ExitSec <= endSec {
			catDropped[sess.Category]++
			totalDropped++
		}
	}
	if totalDropped == 0 {
		return nil
	}

	popRate := float64(totalDropped) / float64(len(sessions))

	var tagged []string
	for cat, dropped := range catDropped {
		rate := float64(dropped) / float64(catTotal[cat])
		if rate >= popRate*s.cfg.CategoryRatio {
			tagged = append(tagged, cat)
		}
	}
	sort.Strings(tagged)
	return tagged
}

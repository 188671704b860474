package optimizer

import (
	"fmt"
	"sort"
	"time"

	"audienceLab/domain"
)

// Targets are the metric thresholds a video is optimized toward. Anything at
// or above target produces no plan item.
type Targets struct {
	CTR             float64
	FirstHook       float64 // retention at 3s
	ValueClarity    float64 // retention at 10s
	Commitment      float64 // retention at 30s
	WatchTimePct    float64
	CompletionRate  float64
	EngagementScore float64
}

func DefaultTargets() Targets {
	return Targets{
		CTR:             0.04,
		FirstHook:       0.8,
		ValueClarity:    0.7,
		Commitment:      0.6,
		WatchTimePct:    0.5,
		CompletionRate:  0.4,
		EngagementScore: 0.5,
	}
}

// OptimizerService turns an evaluation plus targets into a ranked plan.
type OptimizerService struct {
	targets Targets
}

func NewOptimizerService(targets Targets) *OptimizerService {
	return &OptimizerService{targets: targets}
}

// BuildPlan emits one item per missed target plus one per significant
// drop-off point, ranked by priority then estimated impact. A video meeting
// every target legitimately yields an empty plan.
func (s *OptimizerService) BuildPlan(eval *domain.VideoEvaluation) *domain.OptimizationPlan {
	plan := &domain.OptimizationPlan{
		EvaluationID: eval.ID,
		CreatedAt:    time.Now().UTC(),
	}

	t := s.targets

	if eval.PredictedCTR < t.CTR {
		plan.Items = append(plan.Items, domain.Optimization{
			Type:       domain.OptTitleThumbnail,
			Priority:   domain.PriorityHigh,
			Suggestion: "rework the title/thumbnail pairing; the pre-click model rates it below target",
			Rationale:  fmt.Sprintf("predicted CTR %.3f vs target %.3f", eval.PredictedCTR, t.CTR),
			Impact:     t.CTR - eval.PredictedCTR, // whole audience affected
		})
	}

	if eval.Hooks.FirstHook < t.FirstHook {
		gap := t.FirstHook - eval.Hooks.FirstHook
		plan.Items = append(plan.Items, domain.Optimization{
			Type:       domain.OptOpeningHook,
			Priority:   domain.PriorityCritical,
			Suggestion: "open with the payoff: the first three seconds are losing viewers",
			Rationale:  fmt.Sprintf("3s retention %.2f vs target %.2f", eval.Hooks.FirstHook, t.FirstHook),
			Impact:     (1 - eval.Hooks.FirstHook) * gap,
		})
	}
	if eval.Hooks.ValueClarity < t.ValueClarity {
		gap := t.ValueClarity - eval.Hooks.ValueClarity
		plan.Items = append(plan.Items, domain.Optimization{
			Type:       domain.OptOpeningHook,
			Priority:   domain.PriorityHigh,
			Suggestion: "state what the viewer gets within the first ten seconds",
			Rationale:  fmt.Sprintf("10s retention %.2f vs target %.2f", eval.Hooks.ValueClarity, t.ValueClarity),
			Impact:     (1 - eval.Hooks.ValueClarity) * gap,
		})
	}
	if eval.Hooks.Commitment < t.Commitment {
		gap := t.Commitment - eval.Hooks.Commitment
		plan.Items = append(plan.Items, domain.Optimization{
			Type:       domain.OptOpeningHook,
			Priority:   domain.PriorityMedium,
			Suggestion: "tighten the first thirty seconds; viewers bail before committing",
			Rationale:  fmt.Sprintf("30s retention %.2f vs target %.2f", eval.Hooks.Commitment, t.Commitment),
			Impact:     (1 - eval.Hooks.Commitment) * gap,
		})
	}

	for _, d := range eval.DropOffs {
		item, ok := dropOffItem(d)
		if ok {
			plan.Items = append(plan.Items, item)
		}
	}

	if eval.WatchTimePct < t.WatchTimePct {
		gap := t.WatchTimePct - eval.WatchTimePct
		plan.Items = append(plan.Items, domain.Optimization{
			Type:       domain.OptPacing,
			Priority:   domain.PriorityMedium,
			Suggestion: "trim slow stretches; overall watch time sits below target",
			Rationale:  fmt.Sprintf("predicted watch time %.0f%% vs target %.0f%%", eval.WatchTimePct*100, t.WatchTimePct*100),
			Impact:     gap,
		})
	}

	sortItems(plan.Items)
	plan.Confidence = confidence(eval, plan.Items)

	return plan
}

// dropOffItem maps a detected drop-off to a content edit at that timestamp.
// Minor declines are reported but never escalated.
func dropOffItem(d domain.DropOffPoint) (domain.Optimization, bool) {
	target := d.StartSec
	item := domain.Optimization{
		Type:       domain.OptContentEdit,
		TargetSec:  &target,
		Categories: d.Categories,
		Impact:     d.Drop * d.Drop, // affected fraction times retention gap
		Suggestion: fmt.Sprintf("re-edit the passage starting at %.0fs; it sheds %.0f%% of the audience", d.StartSec, d.Drop*100),
	}

	switch d.Severity {
	case domain.SeverityMajor:
		item.Priority = domain.PriorityHigh
		item.Rationale = fmt.Sprintf("major drop-off between %.0fs and %.0fs", d.StartSec, d.EndSec)
	case domain.SeverityModerate:
		item.Priority = domain.PriorityMedium
		item.Rationale = fmt.Sprintf("moderate drop-off between %.0fs and %.0fs", d.StartSec, d.EndSec)
	default:
		item.Priority = domain.PriorityLow
		item.Rationale = fmt.Sprintf("minor drop-off between %.0fs and %.0fs", d.StartSec, d.EndSec)
	}

	if len(d.Categories) > 0 {
		item.Rationale += fmt.Sprintf(", concentrated in %v", d.Categories)
	}

	return item, true
}

func sortItems(items []domain.Optimization) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority.Rank() != items[j].Priority.Rank() {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		}
		return items[i].Impact > items[j].Impact
	})
}

// confidence grows with sample size and with how consistently the flagged
// issues appear across persona categories; a problem isolated to a single
// category is weaker evidence than one everybody hits.
func confidence(eval *domain.VideoEvaluation, items []domain.Optimization) float64 {
	n := float64(eval.Sessions)
	sizeFactor := n / (n + 50)

	if len(items) == 0 {
		return sizeFactor
	}

	totalCategories := len(eval.CategoryEngagement)
	if totalCategories == 0 {
		return sizeFactor
	}

	consistency := 0.0
	counted := 0
	for _, item := range items {
		if item.Type != domain.OptContentEdit {
			continue
		}
		counted++
		if len(item.Categories) == 0 {
			// no category stands out: the whole population agrees
			consistency += 1
			continue
		}
		consistency += float64(len(item.Categories)) / float64(totalCategories)
	}
	if counted == 0 {
		return sizeFactor
	}

	return sizeFactor * (0.5 + 0.5*consistency/float64(counted))
}

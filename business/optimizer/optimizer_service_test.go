package optimizer

import (
	"testing"

	"audienceLab/domain"
)

func healthyEvaluation() *domain.VideoEvaluation {
	return &domain.VideoEvaluation{
		ID:           "eval-1",
		Sessions:     100,
		PredictedCTR: 0.06,
		Hooks: domain.HookRetention{
			FirstHook:    0.9,
			ValueClarity: 0.85,
			Commitment:   0.7,
		},
		WatchTimePct:    0.65,
		CompletionRate:  0.55,
		EngagementScore: 0.6,
		CategoryEngagement: map[string]float64{
			"junior": 0.6,
			"senior": 0.6,
		},
	}
}

func TestBuildPlanEmptyWhenTargetsMet(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	plan := svc.BuildPlan(healthyEvaluation())

	if len(plan.Items) != 0 {
		t.Fatalf("healthy video got %d suggestions: %+v", len(plan.Items), plan.Items)
	}
	if plan.Confidence <= 0 || plan.Confidence >= 1 {
		t.Fatalf("confidence %v out of (0,1)", plan.Confidence)
	}
	if plan.EvaluationID != "eval-1" {
		t.Fatalf("plan not linked to its evaluation: %q", plan.EvaluationID)
	}
}

func TestBuildPlanWeakHookIsCritical(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	eval := healthyEvaluation()
	eval.Hooks.FirstHook = 0.5

	plan := svc.BuildPlan(eval)

	if len(plan.Items) == 0 {
		t.Fatal("weak opening hook produced no plan item")
	}
	first := plan.Items[0]
	if first.Type != domain.OptOpeningHook {
		t.Fatalf("top item type %q, want opening hook", first.Type)
	}
	if first.Priority != domain.PriorityCritical {
		t.Fatalf("first-3s hook miss priority %q, want critical", first.Priority)
	}
}

func TestBuildPlanLowCTRTargetsTitleThumbnail(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	eval := healthyEvaluation()
	eval.PredictedCTR = 0.01

	plan := svc.BuildPlan(eval)

	var found *domain.Optimization
	for i := range plan.Items {
		if plan.Items[i].Type == domain.OptTitleThumbnail {
			found = &plan.Items[i]
		}
	}
	if found == nil {
		t.Fatalf("low CTR produced no title/thumbnail item: %+v", plan.Items)
	}
	if found.Priority != domain.PriorityHigh {
		t.Fatalf("title/thumbnail priority %q, want high", found.Priority)
	}
}

func TestBuildPlanDropOffBecomesContentEdit(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	eval := healthyEvaluation()
	eval.DropOffs = []domain.DropOffPoint{
		{
			StartSec:   95,
			EndSec:     102,
			Drop:       0.3,
			Severity:   domain.SeverityMajor,
			Categories: []string{"junior"},
		},
		{
			StartSec: 200,
			EndSec:   203,
			Drop:     0.05,
			Severity: domain.SeverityMinor,
		},
	}

	plan := svc.BuildPlan(eval)

	if len(plan.Items) != 2 {
		t.Fatalf("got %d items for two drop-offs: %+v", len(plan.Items), plan.Items)
	}

	major := plan.Items[0]
	if major.Type != domain.OptContentEdit {
		t.Fatalf("type %q, want content edit", major.Type)
	}
	if major.Priority != domain.PriorityHigh {
		t.Fatalf("major drop-off priority %q, want high", major.Priority)
	}
	if major.TargetSec == nil || *major.TargetSec != 95 {
		t.Fatalf("content edit not anchored at the drop-off start: %+v", major.TargetSec)
	}
	if len(major.Categories) != 1 || major.Categories[0] != "junior" {
		t.Fatalf("category attribution lost: %v", major.Categories)
	}

	minor := plan.Items[1]
	if minor.Priority != domain.PriorityLow {
		t.Fatalf("minor drop-off priority %q, want low", minor.Priority)
	}
}

func TestBuildPlanOrderedByPriorityThenImpact(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	eval := healthyEvaluation()
	eval.PredictedCTR = 0.01     // high priority
	eval.Hooks.FirstHook = 0.4   // critical
	eval.WatchTimePct = 0.2      // medium
	eval.DropOffs = []domain.DropOffPoint{
		{StartSec: 60, EndSec: 64, Drop: 0.1, Severity: domain.SeverityModerate},
	}

	plan := svc.BuildPlan(eval)

	if plan.Items[0].Priority != domain.PriorityCritical {
		t.Fatalf("plan does not lead with the critical item: %+v", plan.Items[0])
	}
	for i := 1; i < len(plan.Items); i++ {
		prev, cur := plan.Items[i-1], plan.Items[i]
		if cur.Priority.Rank() > prev.Priority.Rank() {
			t.Fatalf("priority order violated at %d: %q after %q", i, cur.Priority, prev.Priority)
		}
		if cur.Priority.Rank() == prev.Priority.Rank() && cur.Impact > prev.Impact+1e-9 {
			t.Fatalf("impact order violated within priority at %d", i)
		}
	}
}

func TestConfidenceGrowsWithSampleSize(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	small := healthyEvaluation()
	small.Sessions = 30
	big := healthyEvaluation()
	big.Sessions = 500

	if c1, c2 := svc.BuildPlan(small).Confidence, svc.BuildPlan(big).Confidence; c1 >= c2 {
		t.Fatalf("confidence should grow with sample size: %v vs %v", c1, c2)
	}
}

func TestConfidenceDiscountsSingleCategoryIssues(t *testing.T) {
	svc := NewOptimizerService(DefaultTargets())

	broad := healthyEvaluation()
	broad.DropOffs = []domain.DropOffPoint{
		{StartSec: 40, EndSec: 44, Drop: 0.2, Severity: domain.SeverityMajor},
	}

	narrow := healthyEvaluation()
	narrow.DropOffs = []domain.DropOffPoint{
		{StartSec: 40, EndSec: 44, Drop: 0.2, Severity: domain.SeverityMajor, Categories: []string{"junior"}},
	}

	cb := svc.BuildPlan(broad).Confidence
	cn := svc.BuildPlan(narrow).Confidence
	if cn >= cb {
		t.Fatalf("single-category issue should carry less confidence: narrow=%v broad=%v", cn, cb)
	}
}

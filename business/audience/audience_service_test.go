package audience

import (
	"context"
	"math"
	"testing"

	"audienceLab/business/aggregation"
	"audienceLab/business/catalog"
	"audienceLab/business/learning"
	"audienceLab/business/optimizer"
	"audienceLab/business/segmenter"
	"audienceLab/business/simulation"
	"audienceLab/domain"
)

type memStore struct {
	recs map[string]StoredEvaluation
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]StoredEvaluation)}
}

func (s *memStore) Save(_ context.Context, rec StoredEvaluation) error {
	s.recs[rec.Evaluation.ID] = rec
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*StoredEvaluation, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type memProfiles struct {
	profiles map[string]*domain.PersonalBrandProfile
}

func (r *memProfiles) Get(_ context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	return r.profiles[creatorID], nil
}

func (r *memProfiles) Save(_ context.Context, p *domain.PersonalBrandProfile) error {
	r.profiles[p.CreatorID] = p
	return nil
}

func juniorArchetype() domain.PersonaArchetype {
	return domain.PersonaArchetype{
		Category:            "junior_developer",
		ExperienceLevel:     2,
		TopicAffinities:     []string{"go", "testing"},
		DepthPreference:     domain.DepthModerate,
		AttentionSpanSec:    600,
		ComplexityTolerance: 0.4,
		HookRequirementSec:  5,
		PreferredPace:       1.0,
		SkipProneness:       0.3,
		PauseProneness:      0.05,
		RewindProneness:     0.1,
		CommentAffinity:     0.2,
		ShareAffinity:       0.1,
	}
}

func seniorArchetype() domain.PersonaArchetype {
	return domain.PersonaArchetype{
		Category:            "senior_developer",
		ExperienceLevel:     9,
		TopicAffinities:     []string{"go", "testing", "compiler-internals"},
		DepthPreference:     domain.DepthDeep,
		AttentionSpanSec:    900,
		ComplexityTolerance: 0.9,
		HookRequirementSec:  20,
		PreferredPace:       1.0,
		SkipProneness:       0.1,
		PauseProneness:      0.05,
		RewindProneness:     0.1,
		CommentAffinity:     0.3,
		ShareAffinity:       0.2,
	}
}

// hardMiddleVideo is 600s of approachable content with a dense stretch
// starting at 300s that only experienced viewers can follow.
func hardMiddleVideo() domain.VideoContent {
	return domain.VideoContent{
		ID:          "video-1",
		Title:       "Understanding the Go Compiler",
		DurationSec: 600,
		Scenes: []domain.SceneMarker{
			{TimestampSec: 0, Topics: []string{"go"}, VisualComplexity: 0.2, TalkingHead: true},
			{TimestampSec: 300, Topics: []string{"compiler-internals"}, VisualComplexity: 0.95, CodeOnScreen: true},
			{TimestampSec: 450, Topics: []string{"compiler-internals"}, VisualComplexity: 0.9, CodeOnScreen: true},
		},
	}
}

func newTestService(t *testing.T, store EvaluationStore) (*AudienceService, *learning.LearningService) {
	t.Helper()

	catalogSvc := catalog.NewCatalogService(nil)
	ctx := context.Background()
	if err := catalogSvc.DefinePersona(ctx, juniorArchetype()); err != nil {
		t.Fatalf("DefinePersona(junior): %v", err)
	}
	if err := catalogSvc.DefinePersona(ctx, seniorArchetype()); err != nil {
		t.Fatalf("DefinePersona(senior): %v", err)
	}

	learningSvc := learning.NewLearningService(
		&memProfiles{profiles: make(map[string]*domain.PersonalBrandProfile)},
		nil,
		learning.DefaultConfig(),
	)

	runner := simulation.NewRunner(simulation.NewSimulatorService(simulation.DefaultConfig()), 4)
	aggregator := aggregation.NewAggregationService(aggregation.DefaultConfig(), learningSvc)
	optimizerSvc := optimizer.NewOptimizerService(optimizer.DefaultTargets())

	svc := NewAudienceService(
		catalogSvc,
		segmenter.NewSegmenterService(segmenter.DefaultConfig()),
		runner,
		aggregator,
		optimizerSvc,
		learningSvc,
		store,
		nil,
		Config{AudienceSize: 100, LearningEnabled: false},
	)
	return svc, learningSvc
}

func TestRunEvaluationFindsHardSegmentCliff(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(t, store)

	result, err := svc.RunEvaluation(context.Background(), RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      1234,
		Policy: &domain.DistributionPolicy{
			Mode:    domain.DistributionExplicit,
			Weights: map[string]float64{"junior_developer": 0.5, "senior_developer": 0.5},
		},
	})
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}

	eval := result.Evaluation
	if eval.Sessions != 100 {
		t.Fatalf("simulated %d sessions, want 100", eval.Sessions)
	}

	// nobody should bail before the content turns hostile
	if eval.Hooks.FirstHook < 0.95 {
		t.Fatalf("first-hook retention %v; the opening is easy", eval.Hooks.FirstHook)
	}

	if len(eval.DropOffs) == 0 {
		t.Fatal("the hard stretch produced no detected drop-off")
	}

	top := eval.DropOffs[0]
	if top.Severity != domain.SeverityMajor {
		t.Fatalf("top drop-off severity %q, want major (juniors are half the audience)", top.Severity)
	}
	if top.StartSec < 300 || top.StartSec > 450 {
		t.Fatalf("drop-off at %vs, want shortly after the 300s transition", top.StartSec)
	}

	blamedJunior := false
	for _, cat := range top.Categories {
		if cat == "junior_developer" {
			blamedJunior = true
		}
	}
	if !blamedJunior {
		t.Fatalf("junior developers not attributed to the cliff: %v", top.Categories)
	}

	// the plan must point an edit at the cliff
	var edit *domain.Optimization
	for i := range result.Plan.Items {
		item := &result.Plan.Items[i]
		if item.Type == domain.OptContentEdit && item.TargetSec != nil &&
			*item.TargetSec >= 300 && *item.TargetSec <= 450 {
			edit = item
			break
		}
	}
	if edit == nil {
		t.Fatalf("no content edit aimed at the hard stretch: %+v", result.Plan.Items)
	}
	if edit.Priority != domain.PriorityHigh {
		t.Fatalf("cliff edit priority %q, want high", edit.Priority)
	}

	// seniors finish, juniors don't
	if eval.CompletionRate < 0.2 || eval.CompletionRate > 0.6 {
		t.Fatalf("completion rate %v, want roughly the senior share of the audience", eval.CompletionRate)
	}

	// run persisted
	if _, ok := store.recs[eval.ID]; !ok {
		t.Fatal("evaluation was not persisted")
	}
}

func TestRunEvaluationReproducibleForSeed(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())

	req := RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      777,
	}

	a, err := svc.RunEvaluation(context.Background(), req)
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}
	b, err := svc.RunEvaluation(context.Background(), req)
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}

	if a.Evaluation.ID != b.Evaluation.ID {
		t.Fatalf("same seed, different evaluation ids: %s vs %s", a.Evaluation.ID, b.Evaluation.ID)
	}
	if a.Evaluation.CompletionRate != b.Evaluation.CompletionRate ||
		a.Evaluation.EngagementScore != b.Evaluation.EngagementScore ||
		math.Abs(a.Evaluation.WatchTimePct-b.Evaluation.WatchTimePct) > 1e-12 {
		t.Fatalf("same seed, different predictions: %+v vs %+v", a.Evaluation, b.Evaluation)
	}
	if len(a.Evaluation.Retention) != len(b.Evaluation.Retention) {
		t.Fatal("same seed, different retention curves")
	}
	for i := range a.Evaluation.Retention {
		if a.Evaluation.Retention[i] != b.Evaluation.Retention[i] {
			t.Fatalf("retention differs at bucket %d", i)
		}
	}
}

func TestRunEvaluationUsesConfiguredDefaultPolicy(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())
	svc.cfg.DefaultPolicy = domain.ExplicitDistribution(map[string]float64{"senior_developer": 1})

	// no policy on the request: the configured default decides the audience
	result, err := svc.RunEvaluation(context.Background(), RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      31,
	})
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}

	eval := result.Evaluation
	if _, ok := eval.CategoryEngagement["junior_developer"]; ok {
		t.Fatalf("juniors sampled despite an all-senior default policy: %+v", eval.CategoryEngagement)
	}
	if _, ok := eval.CategoryEngagement["senior_developer"]; !ok {
		t.Fatal("no seniors in an all-senior population")
	}

	// an explicit request policy still wins over the default
	result, err = svc.RunEvaluation(context.Background(), RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      31,
		Policy: &domain.DistributionPolicy{
			Mode:    domain.DistributionExplicit,
			Weights: map[string]float64{"junior_developer": 1},
		},
	})
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}
	if _, ok := result.Evaluation.CategoryEngagement["senior_developer"]; ok {
		t.Fatalf("seniors sampled despite an all-junior request policy: %+v", result.Evaluation.CategoryEngagement)
	}
}

func TestRunEvaluationEmptyVideo(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())

	_, err := svc.RunEvaluation(context.Background(), RunRequest{
		CreatorID: "creator-1",
		Video:     domain.VideoContent{ID: "empty", DurationSec: 0},
	})
	if err == nil {
		t.Fatal("empty video accepted")
	}
}

func TestRunEvaluationCancelledContext(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.RunEvaluation(ctx, RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
	}); err == nil {
		t.Fatal("cancelled context returned a result")
	}
}

func TestSubmitFeedbackUpdatesProfile(t *testing.T) {
	store := newMemStore()
	svc, learningSvc := newTestService(t, store)
	ctx := context.Background()

	result, err := svc.RunEvaluation(ctx, RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      42,
	})
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}

	profile, err := svc.SubmitFeedback(ctx, "creator-1", result.Evaluation.ID, domain.RealWorldMetrics{
		CTR:            0.05,
		WatchTimePct:   0.6,
		CompletionRate: 0.5,
		EngagementRate: 0.55,
		ShareRate:      0.02,
	})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if profile.Runs != 1 {
		t.Fatalf("profile runs %d, want 1", profile.Runs)
	}

	stored, err := learningSvc.GetProfile(ctx, "creator-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stored == nil {
		t.Fatal("feedback did not persist a profile")
	}

	// wrong creator must not be able to feed back on this run
	if _, err := svc.SubmitFeedback(ctx, "impostor", result.Evaluation.ID, domain.RealWorldMetrics{}); err == nil {
		t.Fatal("feedback accepted for a foreign evaluation")
	}
}

func TestGetEvaluationRoundTrip(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	result, err := svc.RunEvaluation(ctx, RunRequest{
		CreatorID: "creator-1",
		Video:     hardMiddleVideo(),
		Seed:      9,
	})
	if err != nil {
		t.Fatalf("RunEvaluation: %v", err)
	}

	got, err := svc.GetEvaluation(ctx, result.Evaluation.ID)
	if err != nil {
		t.Fatalf("GetEvaluation: %v", err)
	}
	if got == nil || got.Evaluation.ID != result.Evaluation.ID {
		t.Fatalf("round trip lost the evaluation: %+v", got)
	}

	missing, err := svc.GetEvaluation(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetEvaluation(missing): %v", err)
	}
	if missing != nil {
		t.Fatal("missing id returned a result")
	}
}

func TestDebugSessionUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())

	_, err := svc.DebugSession(context.Background(), hardMiddleVideo(), "phantom", 1)
	if err == nil {
		t.Fatal("unknown category accepted")
	}
}

func TestDebugSessionTracesOnePersona(t *testing.T) {
	svc, _ := newTestService(t, newMemStore())

	session, err := svc.DebugSession(context.Background(), hardMiddleVideo(), "senior_developer", 5)
	if err != nil {
		t.Fatalf("DebugSession: %v", err)
	}
	if session.Category != "senior_developer" {
		t.Fatalf("session category %q", session.Category)
	}
	if len(session.Trace) == 0 {
		t.Fatal("debug session has no trace")
	}
}

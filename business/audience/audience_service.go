package audience

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"audienceLab/business/aggregation"
	"audienceLab/business/catalog"
	"audienceLab/business/learning"
	"audienceLab/business/optimizer"
	"audienceLab/business/segmenter"
	"audienceLab/business/simulation"
	"audienceLab/domain"
	"audienceLab/pkg/logger"
	"audienceLab/pkg/metrics"
)

// StoredEvaluation is one persisted run: the evaluation, its plan, and the
// title/thumbnail features kept around so late-arriving real-world feedback
// can still train the CTR model.
type StoredEvaluation struct {
	Evaluation *domain.VideoEvaluation  `json:"evaluation"`
	Plan       *domain.OptimizationPlan `json:"plan"`
	TitleThumb domain.TitleThumbnail    `json:"title_thumb"`
	Traits     []string                 `json:"traits,omitempty"`
}

// EvaluationStore persists finished runs for later retrieval and feedback.
type EvaluationStore interface {
	Save(ctx context.Context, rec StoredEvaluation) error
	Get(ctx context.Context, id string) (*StoredEvaluation, error) // nil when absent
}

// EvaluationCache fronts the store for dashboard reads; best effort.
type EvaluationCache interface {
	Put(ctx context.Context, rec StoredEvaluation) error
	Get(ctx context.Context, id string) (*StoredEvaluation, error) // nil on miss
}

type Config struct {
	AudienceSize    int
	LearningEnabled bool
	// DefaultPolicy applies when a request carries no distribution of its
	// own; a zero value means auto.
	DefaultPolicy domain.DistributionPolicy
}

// AudienceService is the engine facade: segment, sample, simulate in
// parallel, aggregate, optimize, learn. One call, one complete result or one
// typed error; no best-effort partials.
type AudienceService struct {
	catalogSvc   *catalog.CatalogService
	segmenterSvc *segmenter.SegmenterService
	runner       *simulation.Runner
	aggregator   *aggregation.AggregationService
	optimizerSvc *optimizer.OptimizerService
	learningSvc  *learning.LearningService

	store EvaluationStore
	cache EvaluationCache

	cfg Config
}

func NewAudienceService(
	catalogSvc *catalog.CatalogService,
	segmenterSvc *segmenter.SegmenterService,
	runner *simulation.Runner,
	aggregator *aggregation.AggregationService,
	optimizerSvc *optimizer.OptimizerService,
	learningSvc *learning.LearningService,
	store EvaluationStore,
	cache EvaluationCache,
	cfg Config,
) *AudienceService {
	if cfg.AudienceSize <= 0 {
		cfg.AudienceSize = 100
	}
	return &AudienceService{
		catalogSvc:   catalogSvc,
		segmenterSvc: segmenterSvc,
		runner:       runner,
		aggregator:   aggregator,
		optimizerSvc: optimizerSvc,
		learningSvc:  learningSvc,
		store:        store,
		cache:        cache,
		cfg:          cfg,
	}
}

// RunRequest describes one evaluation run. Zero Seed means a time-derived
// seed; a fixed seed reproduces the identical evaluation.
type RunRequest struct {
	CreatorID  string
	Video      domain.VideoContent
	TitleThumb domain.TitleThumbnail
	Traits     []string
	Size       int
	Seed       int64
	Policy     *domain.DistributionPolicy
}

type RunResult struct {
	Evaluation *domain.VideoEvaluation
	Plan       *domain.OptimizationPlan
}

// RunEvaluation drives one full audience simulation.
func (s *AudienceService) RunEvaluation(ctx context.Context, req RunRequest) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	metrics.EvaluationRequests.Inc()
	defer func() {
		metrics.EvaluationLatency.Observe(time.Since(start).Seconds())
	}()

	segments, err := s.segmenterSvc.Segment(req.Video)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	size := req.Size
	if size <= 0 {
		size = s.cfg.AudienceSize
	}

	policy, profile, err := s.resolvePolicy(ctx, req)
	if err != nil {
		return nil, err
	}

	population, err := s.catalogSvc.SamplePopulation(size, policy, profile, rng)
	if err != nil {
		return nil, err
	}

	logger.Info("audience run started",
		"creator_id", req.CreatorID,
		"video_id", req.Video.ID,
		"population", len(population),
		"seed", seed,
		"distribution", string(policy.Mode),
	)

	sessions, err := s.runner.RunBatch(ctx, population, segments)
	if err != nil {
		return nil, err
	}

	eval, err := s.aggregator.Aggregate(ctx, req.CreatorID, req.Video, req.TitleThumb, sessions, seed)
	if err != nil {
		return nil, err
	}

	plan := s.optimizerSvc.BuildPlan(eval)

	rec := StoredEvaluation{
		Evaluation: eval,
		Plan:       plan,
		TitleThumb: req.TitleThumb,
		Traits:     req.Traits,
	}
	if s.store != nil {
		if err := s.store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("persist evaluation: %w", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, rec); err != nil {
			logger.Warn("evaluation cache write failed", "evaluation_id", eval.ID, "error", err)
		}
	}

	if s.cfg.LearningEnabled && s.learningSvc != nil {
		// simulated-only signal; real-world feedback arrives later via
		// SubmitFeedback
		if _, err := s.learningSvc.Learn(ctx, learning.LearnRequest{
			CreatorID:  req.CreatorID,
			Video:      req.Video,
			TitleThumb: req.TitleThumb,
			Evaluation: eval,
			Plan:       plan,
			Traits:     req.Traits,
		}); err != nil {
			logger.Error("simulated learning update failed", "creator_id", req.CreatorID, "error", err)
		}
	}

	logger.Info("audience run finished",
		"creator_id", req.CreatorID,
		"evaluation_id", eval.ID,
		"completion_rate", eval.CompletionRate,
		"drop_offs", len(eval.DropOffs),
		"plan_items", len(plan.Items),
		"elapsed", time.Since(start).String(),
	)

	return &RunResult{Evaluation: eval, Plan: plan}, nil
}

// resolvePolicy collapses the request into a concrete policy plus the brand
// profile auto mode resolves against.
func (s *AudienceService) resolvePolicy(ctx context.Context, req RunRequest) (domain.DistributionPolicy, *domain.PersonalBrandProfile, error) {
	var profile *domain.PersonalBrandProfile
	if s.learningSvc != nil {
		p, err := s.learningSvc.GetProfile(ctx, req.CreatorID)
		if err != nil {
			return domain.DistributionPolicy{}, nil, err
		}
		profile = p
	}

	if req.Policy != nil {
		return *req.Policy, profile, nil
	}
	if s.cfg.DefaultPolicy.Mode != "" {
		return s.cfg.DefaultPolicy, profile, nil
	}
	return domain.AutoDistribution(), profile, nil
}

// GetEvaluation fetches a stored run, cache first.
func (s *AudienceService) GetEvaluation(ctx context.Context, id string) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if s.cache != nil {
		if rec, err := s.cache.Get(ctx, id); err == nil && rec != nil {
			return &RunResult{Evaluation: rec.Evaluation, Plan: rec.Plan}, nil
		}
	}

	if s.store == nil {
		return nil, errors.New("no evaluation store configured")
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load evaluation: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &RunResult{Evaluation: rec.Evaluation, Plan: rec.Plan}, nil
}

// SubmitFeedback applies post-publish real-world metrics to the creator's
// brand profile.
func (s *AudienceService) SubmitFeedback(
	ctx context.Context,
	creatorID, evaluationID string,
	real domain.RealWorldMetrics,
) (*domain.PersonalBrandProfile, error) {
	if s.learningSvc == nil || s.store == nil {
		return nil, errors.New("learning is not configured")
	}

	rec, err := s.store.Get(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("load evaluation: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("evaluation %s not found", evaluationID)
	}
	if rec.Evaluation.CreatorID != creatorID {
		return nil, fmt.Errorf("evaluation %s does not belong to creator %s", evaluationID, creatorID)
	}

	return s.learningSvc.Learn(ctx, learning.LearnRequest{
		CreatorID:  creatorID,
		Video:      domain.VideoContent{ID: rec.Evaluation.VideoID},
		TitleThumb: rec.TitleThumb,
		Evaluation: rec.Evaluation,
		Plan:       rec.Plan,
		Traits:     rec.Traits,
		Real:       &real,
	})
}

// DebugSession runs a single persona against the video and returns the raw
// session, the operator's view into why a prediction looks the way it does.
func (s *AudienceService) DebugSession(ctx context.Context, video domain.VideoContent, category string, seed int64) (*domain.ViewingSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	segments, err := s.segmenterSvc.Segment(video)
	if err != nil {
		return nil, err
	}

	var persona *domain.PersonaProfile
	for _, a := range s.catalogSvc.Archetypes() {
		if a.Category == category {
			persona = &domain.PersonaProfile{ID: 0, Seed: seed, PersonaArchetype: a}
			break
		}
	}
	if persona == nil {
		return nil, &domain.InvalidParameterError{Field: "category", Reason: "not registered in the catalog"}
	}

	sessions, err := s.runner.RunBatch(ctx, []domain.PersonaProfile{*persona}, segments)
	if err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

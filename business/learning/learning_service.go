package learning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"audienceLab/domain"
	"audienceLab/pkg/logger"

	"gorm.io/datatypes"
)

// neutralRate is the prior for a freshly observed pattern; the EMA pulls it
// toward the evidence from there, so rates reflect repetition, not one run.
const neutralRate = 0.5

// ProfileRepository persists brand profiles. Get returns (nil, nil) when no
// profile exists; the service treats that as first use, not an error.
type ProfileRepository interface {
	Get(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error)
	Save(ctx context.Context, profile *domain.PersonalBrandProfile) error
}

// FeedbackRepository logs raw feedback events for offline analysis.
type FeedbackRepository interface {
	SaveEvent(ctx context.Context, event domain.FeedbackEvent) error
}

type Config struct {
	Alpha       float64 // EMA rate, (0,1]
	Enabled     bool
	MaxPatterns int // cap on stored patterns per profile
}

func DefaultConfig() Config {
	return Config{Alpha: 0.2, Enabled: true, MaxPatterns: 50}
}

// LearningService maintains the per-creator brand profiles. Updates for the
// same creator are serialized with a per-key mutex; different creators never
// contend.
type LearningService struct {
	profileRepo  ProfileRepository
	feedbackRepo FeedbackRepository
	cfg          Config

	locks sync.Map // creatorID -> *sync.Mutex
}

func NewLearningService(profileRepo ProfileRepository, feedbackRepo FeedbackRepository, cfg Config) *LearningService {
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = DefaultConfig().Alpha
	}
	if cfg.MaxPatterns <= 0 {
		cfg.MaxPatterns = DefaultConfig().MaxPatterns
	}
	return &LearningService{profileRepo: profileRepo, feedbackRepo: feedbackRepo, cfg: cfg}
}

// LearnRequest carries everything one learning update needs. Real is nil when
// only the simulated evaluation is available, which halves the update weight.
type LearnRequest struct {
	CreatorID  string
	Video      domain.VideoContent
	TitleThumb domain.TitleThumbnail
	Evaluation *domain.VideoEvaluation
	Plan       *domain.OptimizationPlan
	// Traits are content descriptors supplied by the metadata collaborator
	// ("casual_tone", "fast_cuts", ...), tracked as candidate patterns.
	Traits []string
	Real   *domain.RealWorldMetrics
}

// Learn folds one run's outcome into the creator's profile. A missing profile
// is created with neutral values; first use is not an error.
func (s *LearningService) Learn(ctx context.Context, req LearnRequest) (*domain.PersonalBrandProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if req.Evaluation == nil {
		return nil, &domain.InvalidParameterError{Field: "evaluation", Reason: "is required"}
	}

	mu := s.lockFor(req.CreatorID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := s.profileRepo.Get(ctx, req.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("load brand profile: %w", err)
	}
	if profile == nil {
		profile = newProfile(req.CreatorID)
	}

	alpha := s.cfg.Alpha
	signal := "real"
	if req.Real == nil {
		// simulated-only evidence is a weaker signal
		alpha /= 2
		signal = "simulated"
	}

	observed := observedSuccess(req.Evaluation, req.Real)
	now := time.Now().UTC()

	for _, candidate := range candidatePatterns(req) {
		upsertPattern(profile, candidate, observed, alpha, now)
	}
	capPatterns(profile, s.cfg.MaxPatterns)

	s.updateAudienceWeights(profile, req.Evaluation, alpha)

	// trend: is the creator beating their own recent baseline
	profile.TrendScore = profile.TrendScore*(1-alpha) + (observed-0.5)*2*alpha

	if req.Real != nil && req.Real.CTR > 0 {
		if profile.CTRState == nil {
			profile.CTRState = newCTRState()
		}
		observeCTR(profile.CTRState, req.TitleThumb, req.Real.CTR)
	}

	profile.Runs++
	profile.UpdatedAt = now

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save brand profile: %w", err)
	}

	if s.feedbackRepo != nil {
		event := domain.FeedbackEvent{
			CreatorID:    req.CreatorID,
			EvaluationID: req.Evaluation.ID,
			Simulated:    req.Real == nil,
			Context: datatypes.JSONMap{
				"observed_success": observed,
				"alpha":            alpha,
				"video_id":         req.Video.ID,
			},
			CreatedAt: now,
		}
		if err := s.feedbackRepo.SaveEvent(ctx, event); err != nil {
			// the profile update already landed; the raw log is best-effort
			logger.Error("failed to log feedback event", "creator_id", req.CreatorID, "error", err)
		}
	}

	LearnUpdatesTotal.WithLabelValues(signal).Inc()

	logger.Debug("brand profile updated",
		"creator_id", req.CreatorID,
		"signal", signal,
		"observed", observed,
		"runs", profile.Runs,
	)

	return profile, nil
}

// GetProfile returns the stored profile, or nil when the creator is new.
func (s *LearningService) GetProfile(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	return s.getProfile(ctx, creatorID)
}

func (s *LearningService) getProfile(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	if s.profileRepo == nil {
		return nil, nil
	}
	return s.profileRepo.Get(ctx, creatorID)
}

// GetDistributionPolicy exposes the learned audience weighting for the
// catalog's auto mode. New creators get plain auto (uniform downstream).
func (s *LearningService) GetDistributionPolicy(ctx context.Context, creatorID string) (domain.DistributionPolicy, error) {
	profile, err := s.getProfile(ctx, creatorID)
	if err != nil {
		return domain.DistributionPolicy{}, fmt.Errorf("load brand profile: %w", err)
	}
	if profile == nil || len(profile.AudienceWeights) == 0 {
		return domain.AutoDistribution(), nil
	}
	return domain.ExplicitDistribution(profile.AudienceWeights), nil
}

func (s *LearningService) lockFor(creatorID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(creatorID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func newProfile(creatorID string) *domain.PersonalBrandProfile {
	return &domain.PersonalBrandProfile{
		CreatorID:       creatorID,
		AudienceWeights: make(map[string]float64),
	}
}

// observedSuccess collapses the run's outcome into one [0,1] figure. Real
// metrics dominate when present; otherwise the simulated evaluation stands in.
func observedSuccess(eval *domain.VideoEvaluation, real *domain.RealWorldMetrics) float64 {
	if real != nil {
		sum, weight := 0.0, 0.0
		add := func(v, w float64) {
			if v >= 0 {
				sum += v * w
				weight += w
			}
		}
		add(real.WatchTimePct, 0.35)
		add(real.CompletionRate, 0.25)
		add(real.EngagementRate, 0.25)
		add(real.ShareRate, 0.15)
		if weight > 0 {
			return clamp01(sum / weight)
		}
	}

	return clamp01(0.4*eval.WatchTimePct + 0.3*eval.EngagementScore + 0.3*eval.CompletionRate)
}

type patternCandidate struct {
	ptype       string
	description string
	contexts    []string
}

// candidatePatterns lists the elements this run predicts to be successful.
// Only elements the evaluation actually rates well become candidates; the
// observed outcome then confirms or erodes them over repeated runs.
func candidatePatterns(req LearnRequest) []patternCandidate {
	var out []patternCandidate

	eval := req.Evaluation
	if eval.Hooks.FirstHook >= 0.8 {
		out = append(out, patternCandidate{
			ptype:       "strong_hook",
			description: "opening hook retains the first-3s window",
			contexts:    []string{"opening"},
		})
	}
	if eval.CompletionRate >= 0.6 {
		out = append(out, patternCandidate{
			ptype:       "high_completion",
			description: "structure carries viewers to the end",
		})
	}
	if eval.ViralityScore >= 0.5 {
		out = append(out, patternCandidate{
			ptype:       "shareable",
			description: "content triggers share behavior",
		})
	}

	for _, trait := range req.Traits {
		out = append(out, patternCandidate{
			ptype:       trait,
			description: "supplied content trait",
			contexts:    []string{"trait"},
		})
	}

	return out
}

// upsertPattern applies the bounded EMA update: new = old*(1-a) + observed*a.
// A fresh pattern starts from the neutral prior, so a single good run cannot
// mint a "proven" pattern.
func upsertPattern(profile *domain.PersonalBrandProfile, c patternCandidate, observed, alpha float64, now time.Time) {
	for i := range profile.Patterns {
		if profile.Patterns[i].Type == c.ptype {
			p := &profile.Patterns[i]
			p.SuccessRate = p.SuccessRate*(1-alpha) + observed*alpha
			p.Observations++
			p.LastObserved = now
			return
		}
	}

	profile.Patterns = append(profile.Patterns, domain.SuccessPattern{
		Type:         c.ptype,
		Description:  c.description,
		Contexts:     c.contexts,
		SuccessRate:  neutralRate*(1-alpha) + observed*alpha,
		Observations: 1,
		LastObserved: now,
	})
}

// capPatterns drops the stalest, least-supported patterns once the profile
// exceeds its cap, so it never grows unbounded.
func capPatterns(profile *domain.PersonalBrandProfile, maxPatterns int) {
	if len(profile.Patterns) <= maxPatterns {
		return
	}
	sort.Slice(profile.Patterns, func(i, j int) bool {
		a, b := profile.Patterns[i], profile.Patterns[j]
		if !a.LastObserved.Equal(b.LastObserved) {
			return a.LastObserved.After(b.LastObserved)
		}
		return a.Observations > b.Observations
	})
	profile.Patterns = profile.Patterns[:maxPatterns]
}

// updateAudienceWeights nudges the category weighting toward the categories
// that engaged in this run.
func (s *LearningService) updateAudienceWeights(profile *domain.PersonalBrandProfile, eval *domain.VideoEvaluation, alpha float64) {
	if len(eval.CategoryEngagement) == 0 {
		return
	}
	if profile.AudienceWeights == nil {
		profile.AudienceWeights = make(map[string]float64)
	}

	total := 0.0
	for _, e := range eval.CategoryEngagement {
		total += e
	}
	if total <= 0 {
		return
	}

	for cat, e := range eval.CategoryEngagement {
		target := e / total
		old, ok := profile.AudienceWeights[cat]
		if !ok {
			old = target
		}
		profile.AudienceWeights[cat] = old*(1-alpha) + target*alpha
	}

	// renormalize so the weights stay a distribution
	sum := 0.0
	for _, w := range profile.AudienceWeights {
		sum += w
	}
	if sum > 0 {
		for cat := range profile.AudienceWeights {
			profile.AudienceWeights[cat] /= sum
		}
	}
}

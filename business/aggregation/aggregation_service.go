package aggregation

import (
	"context"
	"fmt"
	"math"
	"time"

	"audienceLab/domain"

	"github.com/google/uuid"
)

// Config tunes aggregation. Overall-score weights are spelled out here so the
// computation stays reproducible and auditable.
type Config struct {
	MinSessions int     // statistical floor, default 30
	BucketSec   float64 // retention curve resolution

	// drop-off detection
	SeverityThreshold float64 // per-bucket retention loss that opens a range
	MergeGapSec       float64 // quiet gap tolerated inside one range
	ModerateDrop      float64 // total drop >= this => moderate
	MajorDrop         float64 // total drop >= this => major
	CategoryRatio     float64 // category drop rate / population rate => tagged

	// virality score weights
	WViralityShare      float64
	WViralityEngagement float64
	WViralityCompletion float64
}

func DefaultConfig() Config {
	return Config{
		MinSessions:       30,
		BucketSec:         1,
		SeverityThreshold: 0.02,
		MergeGapSec:       3,
		ModerateDrop:      0.08,
		MajorDrop:         0.15,
		CategoryRatio:     1.5,

		WViralityShare:      0.5,
		WViralityEngagement: 0.3,
		WViralityCompletion: 0.2,
	}
}

// CTRModel predicts pre-click performance from title/thumbnail features. It
// is separate from the viewing simulation: nobody has watched anything yet at
// click time.
type CTRModel interface {
	PredictCTR(ctx context.Context, creatorID string, tt domain.TitleThumbnail) float64
}

// AggregationService combines a batch of viewing sessions into one
// VideoEvaluation.
type AggregationService struct {
	cfg Config
	ctr CTRModel
}

func NewAggregationService(cfg Config, ctr CTRModel) *AggregationService {
	if cfg.BucketSec <= 0 {
		cfg.BucketSec = 1
	}
	if cfg.MinSessions <= 0 {
		cfg.MinSessions = DefaultConfig().MinSessions
	}
	return &AggregationService{cfg: cfg, ctr: ctr}
}

// Aggregate builds the population-level evaluation. It fails with
// InsufficientSessionsError below the configured floor; predictions on tiny
// samples are noise and must not be returned silently.
func (s *AggregationService) Aggregate(
	ctx context.Context,
	creatorID string,
	video domain.VideoContent,
	tt domain.TitleThumbnail,
	sessions []domain.ViewingSession,
	seed int64,
) (*domain.VideoEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(sessions) < s.cfg.MinSessions {
		return nil, &domain.InsufficientSessionsError{Got: len(sessions), Min: s.cfg.MinSessions}
	}

	eval := &domain.VideoEvaluation{
		// derived from the run inputs so repeating a (video, seed) pair
		// reproduces the identical record, CreatedAt aside
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s/%s/%d", creatorID, video.ID, seed)).String(),
		VideoID:   video.ID,
		CreatorID: creatorID,
		Sessions:  len(sessions),
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}

	eval.Retention = s.retentionCurve(video.DurationSec, sessions)
	eval.Coverage = s.coverageCurve(video.DurationSec, sessions)
	eval.Hooks = hookRetention(eval.Retention)
	eval.DropOffs = s.detectDropOffs(eval.Retention, sessions)

	s.overallScores(eval, video.DurationSec, sessions)

	if s.ctr != nil {
		eval.PredictedCTR = s.ctr.PredictCTR(ctx, creatorID, tt)
	}

	return eval, nil
}

// retentionCurve reports, per bucket, the fraction of sessions still active:
// sessions whose terminal playhead lies beyond the bucket. Counting exits
// makes the curve monotonically non-increasing regardless of individual
// rewinds or skips.
func (s *AggregationService) retentionCurve(duration float64, sessions []domain.ViewingSession) []domain.RetentionPoint {
	buckets := bucketCount(duration, s.cfg.BucketSec)
	curve := make([]domain.RetentionPoint, buckets)
	n := float64(len(sessions))

	for b := 0; b < buckets; b++ {
		t := float64(b) * s.cfg.BucketSec
		active := 0
		for _, sess := range sessions {
			if sess.ExitSec > t {
				active++
			}
		}
		curve[b] = domain.RetentionPoint{TimeSec: t, Fraction: float64(active) / n}
	}
	return curve
}

// coverageCurve reports how many sessions actually watched each bucket; it
// dips where viewers skipped content even though they stayed active.
func (s *AggregationService) coverageCurve(duration float64, sessions []domain.ViewingSession) []domain.RetentionPoint {
	buckets := bucketCount(duration, s.cfg.BucketSec)
	counts := make([]int, buckets)

	for _, sess := range sessions {
		seen := make(map[int]struct{}, len(sess.Trace))
		for _, p := range sess.Trace {
			b := int(p.TimeSec / s.cfg.BucketSec)
			if b < 0 || b >= buckets {
				continue
			}
			if _, dup := seen[b]; dup {
				continue
			}
			seen[b] = struct{}{}
			counts[b]++
		}
	}

	curve := make([]domain.RetentionPoint, buckets)
	n := float64(len(sessions))
	for b := range counts {
		curve[b] = domain.RetentionPoint{
			TimeSec:  float64(b) * s.cfg.BucketSec,
			Fraction: float64(counts[b]) / n,
		}
	}
	return curve
}

// hookRetention reads the three named hook windows off the retention curve.
func hookRetention(curve []domain.RetentionPoint) domain.HookRetention {
	return domain.HookRetention{
		FirstHook:    retentionAt(curve, 3),
		ValueClarity: retentionAt(curve, 10),
		Commitment:   retentionAt(curve, 30),
	}
}

func retentionAt(curve []domain.RetentionPoint, t float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	for i := len(curve) - 1; i >= 0; i-- {
		if curve[i].TimeSec <= t {
			return curve[i].Fraction
		}
	}
	return curve[0].Fraction
}

// overallScores fills the population-level summary metrics. Weights are laid
// out explicitly rather than folded into magic constants.
func (s *AggregationService) overallScores(eval *domain.VideoEvaluation, duration float64, sessions []domain.ViewingSession) {
	n := float64(len(sessions))
	var watched, completed, engagement, shares float64
	policyStops := 0
	catSum := make(map[string]float64)
	catCount := make(map[string]int)

	for _, sess := range sessions {
		watched += sess.WatchedSec / duration
		if sess.Completed() {
			completed++
		}
		engagement += sess.AvgEngagement
		if sess.Shared {
			shares++
		}
		if sess.Outcome == domain.OutcomeStoppedByPolicy {
			policyStops++
		}
		catSum[sess.Category] += sess.AvgEngagement
		catCount[sess.Category]++
	}

	eval.CategoryEngagement = make(map[string]float64, len(catSum))
	for cat, sum := range catSum {
		eval.CategoryEngagement[cat] = sum / float64(catCount[cat])
	}

	eval.WatchTimePct = watched / n
	eval.CompletionRate = completed / n
	eval.EngagementScore = engagement / n
	eval.PolicyStops = policyStops

	eval.ViralityScore = s.cfg.WViralityShare*(shares/n) +
		s.cfg.WViralityEngagement*eval.EngagementScore +
		s.cfg.WViralityCompletion*eval.CompletionRate
}

func bucketCount(duration, bucketSec float64) int {
	n := int(math.Ceil(duration / bucketSec))
	if n < 1 {
		n = 1
	}
	return n
}

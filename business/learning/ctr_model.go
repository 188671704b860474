package learning

import (
	"context"
	"math"

	"audienceLab/domain"
	"audienceLab/pkg/logger"
)

const (
	ctrFeatureDim   = 9
	ctrRegLambda    = 0.1  // ridge seed on the diagonal of a fresh A
	ctrMax          = 0.25 // upper bound of the predicted click-through range
	ctrBlendHalfway = 10.0 // observations at which learned weights carry half the prediction
)

// ctrFeatures encodes a title/thumbnail descriptor into the model's feature
// space. Index 0 is the bias term.
func ctrFeatures(tt domain.TitleThumbnail) []float64 {
	x := make([]float64, ctrFeatureDim)
	x[0] = 1.0
	x[1] = clamp01(float64(tt.TitleWords) / 12.0)
	if tt.TitleHasNumber {
		x[2] = 1.0
	}
	if tt.TitleHasQuestion {
		x[3] = 1.0
	}
	x[4] = clamp01(tt.TitleCapsRatio)
	x[5] = clamp01(tt.ThumbBrightness)
	if tt.ThumbHasFace {
		x[6] = 1.0
	}
	x[7] = clamp01(tt.ThumbTextDensity)
	x[8] = clamp01(tt.ThumbColorContrast)
	return x
}

// defaultCTRWeights is the cold-start global model, used until a creator has
// accumulated real click data of their own.
func defaultCTRWeights() []float64 {
	return []float64{-2.0, 0.3, 0.45, 0.35, -0.6, 0.4, 0.7, -0.4, 0.5}
}

func newCTRState() *domain.CTRWeightState {
	return &domain.CTRWeightState{
		A: identity(ctrFeatureDim, ctrRegLambda),
		B: make([]float64, ctrFeatureDim),
	}
}

// PredictCTR maps title/thumbnail features through the creator's blended
// weights into a click-through fraction. Satisfies aggregation.CTRModel.
func (s *LearningService) PredictCTR(ctx context.Context, creatorID string, tt domain.TitleThumbnail) float64 {
	x := ctrFeatures(tt)
	theta := defaultCTRWeights()

	if profile, err := s.getProfile(ctx, creatorID); err == nil && profile != nil && profile.CTRState != nil {
		theta = blendedWeights(profile.CTRState, theta)
	}

	return ctrMax * sigmoid(dot(theta, x))
}

// blendedWeights solves theta from the accumulated state and mixes it with
// the global default, weighting the learned side by observation count.
func blendedWeights(state *domain.CTRWeightState, fallback []float64) []float64 {
	if state.Count == 0 || len(state.A) != ctrFeatureDim {
		return fallback
	}

	inv, err := invert(state.A)
	if err != nil {
		logger.Warn("ctr weight state singular, using global weights")
		return fallback
	}
	learned := matVecMul(inv, state.B)

	w := float64(state.Count) / (float64(state.Count) + ctrBlendHalfway)
	out := make([]float64, ctrFeatureDim)
	for i := range out {
		out[i] = w*learned[i] + (1-w)*fallback[i]
	}
	return out
}

// observeCTR folds one real-world click-through observation into the state.
// Training happens in logit space so the linear accumulation matches the
// sigmoid readout.
func observeCTR(state *domain.CTRWeightState, tt domain.TitleThumbnail, realCTR float64) {
	x := ctrFeatures(tt)

	p := realCTR / ctrMax
	if p < 0.01 {
		p = 0.01
	}
	if p > 0.99 {
		p = 0.99
	}
	y := math.Log(p / (1 - p))

	applyDecay(state.A, state.B)
	addOuter(state.A, x)
	addScaled(state.B, x, y)
	state.Count++
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
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

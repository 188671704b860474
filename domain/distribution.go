package domain

// DistributionMode tags how a persona population should be weighted.
type DistributionMode string

const (
	DistributionExplicit DistributionMode = "explicit"
	DistributionAuto     DistributionMode = "auto"
)

// DistributionPolicy is a tagged variant: either an explicit category weight
// map, or auto mode which resolves weights from the creator's learned
// audience profile before sampling begins.
type DistributionPolicy struct {
	Mode    DistributionMode   `json:"mode"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// ExplicitDistribution builds a policy from fixed category weights.
func ExplicitDistribution(weights map[string]float64) DistributionPolicy {
	return DistributionPolicy{Mode: DistributionExplicit, Weights: weights}
}

// AutoDistribution builds a policy that infers weights from the creator's
// brand profile, falling back to uniform when no history exists.
func AutoDistribution() DistributionPolicy {
	return DistributionPolicy{Mode: DistributionAuto}
}

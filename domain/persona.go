package domain

// DepthPreference is how much depth a viewer wants from content.
type DepthPreference string

const (
	DepthSurface  DepthPreference = "surface"
	DepthModerate DepthPreference = "moderate"
	DepthDeep     DepthPreference = "deep"
)

// PersonaArchetype is a catalog-level viewer definition. Probability-valued
// fields must be in [0,1]; AttentionSpanSec must be > 0. Archetypes are
// mutable only through catalog configuration.
type PersonaArchetype struct {
	Category        string          `json:"category" validate:"required"`
	ExperienceLevel int             `json:"experience_level" validate:"gte=0,lte=10"`
	TopicAffinities []string        `json:"topic_affinities"`
	StylePreference string          `json:"style_preference"`
	DepthPreference DepthPreference `json:"depth_preference" validate:"omitempty,oneof=surface moderate deep"`

	// attention parameters
	AttentionSpanSec    float64 `json:"attention_span_sec" validate:"gt=0"`
	ComplexityTolerance float64 `json:"complexity_tolerance" validate:"gte=0,lte=1"`
	HookRequirementSec  float64 `json:"hook_requirement_sec" validate:"gte=0"`

	// preference parameters
	PreferredPace float64 `json:"preferred_pace" validate:"gt=0"` // 1.0 = natural speed

	// base action propensities, scaled by engagement at simulation time
	SkipProneness   float64 `json:"skip_proneness" validate:"gte=0,lte=1"`
	PauseProneness  float64 `json:"pause_proneness" validate:"gte=0,lte=1"`
	RewindProneness float64 `json:"rewind_proneness" validate:"gte=0,lte=1"`
	CommentAffinity float64 `json:"comment_affinity" validate:"gte=0,lte=1"`
	ShareAffinity   float64 `json:"share_affinity" validate:"gte=0,lte=1"`
}

// PersonaProfile is one sampled viewer instance for a single run. It is a
// frozen snapshot of its archetype: experience level and tolerances never
// change after sampling, only the catalog definition does.
type PersonaProfile struct {
	ID   int   `json:"id"`
	Seed int64 `json:"seed"`

	PersonaArchetype
}

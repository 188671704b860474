package catalog

import "audienceLab/domain"

// DefaultArchetypes seeds an empty catalog with a spread of tech-content
// viewer types. Operators are expected to tune these per channel.
func DefaultArchetypes() []domain.PersonaArchetype {
	return []domain.PersonaArchetype{
		{
			Category:            "junior_developer",
			ExperienceLevel:     2,
			TopicAffinities:     []string{"tutorial", "basics", "career", "web"},
			StylePreference:     "hands_on",
			DepthPreference:     domain.DepthModerate,
			AttentionSpanSec:    45,
			ComplexityTolerance: 0.4,
			HookRequirementSec:  5,
			PreferredPace:       0.9,
			SkipProneness:       0.6,
			PauseProneness:      0.5,
			RewindProneness:     0.5,
			CommentAffinity:     0.3,
			ShareAffinity:       0.2,
		},
		{
			Category:            "senior_developer",
			ExperienceLevel:     8,
			TopicAffinities:     []string{"architecture", "performance", "deep_dive", "systems"},
			StylePreference:     "technical",
			DepthPreference:     domain.DepthDeep,
			AttentionSpanSec:    120,
			ComplexityTolerance: 0.9,
			HookRequirementSec:  10,
			PreferredPace:       1.25,
			SkipProneness:       0.5,
			PauseProneness:      0.2,
			RewindProneness:     0.2,
			CommentAffinity:     0.25,
			ShareAffinity:       0.3,
		},
		{
			Category:            "casual_learner",
			ExperienceLevel:     1,
			TopicAffinities:     []string{"overview", "news", "tips"},
			StylePreference:     "entertaining",
			DepthPreference:     domain.DepthSurface,
			AttentionSpanSec:    25,
			ComplexityTolerance: 0.25,
			HookRequirementSec:  3,
			PreferredPace:       1.0,
			SkipProneness:       0.75,
			PauseProneness:      0.3,
			RewindProneness:     0.15,
			CommentAffinity:     0.15,
			ShareAffinity:       0.35,
		},
		{
			Category:            "expert_skimmer",
			ExperienceLevel:     9,
			TopicAffinities:     []string{"reference", "benchmarks", "release_notes"},
			StylePreference:     "dense",
			DepthPreference:     domain.DepthDeep,
			AttentionSpanSec:    60,
			ComplexityTolerance: 0.95,
			HookRequirementSec:  4,
			PreferredPace:       1.75,
			SkipProneness:       0.85,
			PauseProneness:      0.1,
			RewindProneness:     0.1,
			CommentAffinity:     0.1,
			ShareAffinity:       0.25,
		},
		{
			Category:            "career_switcher",
			ExperienceLevel:     3,
			TopicAffinities:     []string{"career", "roadmap", "tutorial", "motivation"},
			StylePreference:     "structured",
			DepthPreference:     domain.DepthModerate,
			AttentionSpanSec:    90,
			ComplexityTolerance: 0.5,
			HookRequirementSec:  8,
			PreferredPace:       1.0,
			SkipProneness:       0.4,
			PauseProneness:      0.6,
			RewindProneness:     0.6,
			CommentAffinity:     0.4,
			ShareAffinity:       0.3,
		},
	}
}

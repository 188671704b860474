package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"audienceLab/domain"
	"audienceLab/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// defaultCategoryWeight is assigned to categories with no historical data
// when resolving an auto policy, before normalization.
const defaultCategoryWeight = 0.1

// ArchetypeRepository persists catalog definitions across restarts.
type ArchetypeRepository interface {
	FindAll(ctx context.Context) ([]domain.PersonaArchetype, error)
	Upsert(ctx context.Context, archetype domain.PersonaArchetype) error
}

// CatalogService holds the registered persona archetypes and samples concrete
// populations for runs. Sampling is a pure function of catalog state, the
// resolved policy and the supplied RNG.
type CatalogService struct {
	mu         sync.RWMutex
	archetypes map[string]domain.PersonaArchetype

	validate *validator.Validate
	repo     ArchetypeRepository
}

func NewCatalogService(repo ArchetypeRepository) *CatalogService {
	return &CatalogService{
		archetypes: make(map[string]domain.PersonaArchetype),
		validate:   validator.New(),
		repo:       repo,
	}
}

// LoadPersisted merges stored archetypes into the in-memory catalog,
// seeding the built-in defaults when the store is empty.
func (s *CatalogService) LoadPersisted(ctx context.Context) error {
	if s.repo == nil {
		s.seedDefaults(ctx)
		return nil
	}

	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load archetypes: %w", err)
	}
	if len(stored) == 0 {
		s.seedDefaults(ctx)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range stored {
		s.archetypes[a.Category] = a
	}
	return nil
}

func (s *CatalogService) seedDefaults(ctx context.Context) {
	for _, a := range DefaultArchetypes() {
		if err := s.DefinePersona(ctx, a); err != nil {
			logger.Error("failed to seed default archetype", "category", a.Category, "error", err)
		}
	}
}

// DefinePersona registers or updates an archetype. Out-of-range values are
// rejected, never clamped.
func (s *CatalogService) DefinePersona(ctx context.Context, archetype domain.PersonaArchetype) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Struct(&archetype); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &domain.InvalidParameterError{
				Field:  verrs[0].Field(),
				Reason: fmt.Sprintf("failed %q constraint", verrs[0].Tag()),
			}
		}
		return &domain.InvalidParameterError{Field: "archetype", Reason: err.Error()}
	}
	if archetype.DepthPreference == "" {
		archetype.DepthPreference = domain.DepthModerate
	}

	s.mu.Lock()
	s.archetypes[archetype.Category] = archetype
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, archetype); err != nil {
			return fmt.Errorf("persist archetype: %w", err)
		}
	}

	return nil
}

// Archetypes returns the registered archetypes sorted by category.
func (s *CatalogService) Archetypes() []domain.PersonaArchetype {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PersonaArchetype, 0, len(s.archetypes))
	for _, a := range s.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// SamplePopulation draws size persona instances according to the policy.
// An auto policy uses the brand profile's learned audience weights when
// available; categories without history get the catalog default weight.
func (s *CatalogService) SamplePopulation(
	size int,
	policy domain.DistributionPolicy,
	brand *domain.PersonalBrandProfile,
	rng *rand.Rand,
) ([]domain.PersonaProfile, error) {
	if size <= 0 {
		return nil, &domain.InvalidParameterError{Field: "size", Reason: "must be > 0"}
	}

	archetypes := s.Archetypes()
	if len(archetypes) == 0 {
		return nil, &domain.EmptyCatalogError{}
	}

	weights, err := resolveWeights(archetypes, policy, brand)
	if err != nil {
		return nil, err
	}

	population := make([]domain.PersonaProfile, 0, size)
	for i := 0; i < size; i++ {
		category := pickCategory(archetypes, weights, rng)
		population = append(population, domain.PersonaProfile{
			ID:               i,
			Seed:             rng.Int63(),
			PersonaArchetype: s.archetype(category),
		})
	}

	return population, nil
}

func (s *CatalogService) archetype(category string) domain.PersonaArchetype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.archetypes[category]
}

// resolveWeights collapses the tagged policy into one concrete, normalized
// weight map before any sampling happens.
func resolveWeights(
	archetypes []domain.PersonaArchetype,
	policy domain.DistributionPolicy,
	brand *domain.PersonalBrandProfile,
) (map[string]float64, error) {
	weights := make(map[string]float64, len(archetypes))

	switch policy.Mode {
	case domain.DistributionExplicit:
		for _, a := range archetypes {
			weights[a.Category] = policy.Weights[a.Category]
		}
	case domain.DistributionAuto:
		var learned map[string]float64
		if brand != nil {
			learned = brand.AudienceWeights
		}
		if len(learned) == 0 {
			// no history at all: uniform
			for _, a := range archetypes {
				weights[a.Category] = 1
			}
			break
		}
		for _, a := range archetypes {
			if w, ok := learned[a.Category]; ok && w > 0 {
				weights[a.Category] = w
			} else {
				weights[a.Category] = defaultCategoryWeight
			}
		}
	default:
		return nil, &domain.InvalidParameterError{Field: "distribution", Reason: fmt.Sprintf("unknown mode %q", policy.Mode)}
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, &domain.InvalidParameterError{Field: "distribution", Reason: "weights must be >= 0"}
		}
		total += w
	}
	if total <= 0 {
		return nil, &domain.InvalidParameterError{Field: "distribution", Reason: "weights sum to zero"}
	}
	for k := range weights {
		weights[k] /= total
	}

	return weights, nil
}

// pickCategory draws one category from the normalized weight map. Iteration
// follows the sorted archetype slice so draws are deterministic per seed.
func pickCategory(archetypes []domain.PersonaArchetype, weights map[string]float64, rng *rand.Rand) string {
	r := rng.Float64()
	acc := 0.0
	for _, a := range archetypes {
		acc += weights[a.Category]
		if r < acc {
			return a.Category
		}
	}
	return archetypes[len(archetypes)-1].Category
}

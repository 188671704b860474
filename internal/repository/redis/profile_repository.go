package redis

import (
	"context"

	"audienceLab/business/learning"
	"audienceLab/domain"
	"audienceLab/pkg/logger"
)

// CachedProfileRepository layers the profile cache over the durable store.
// Cache failures degrade to the store; they never fail the request.
type CachedProfileRepository struct {
	store learning.ProfileRepository
	cache *ProfileCache
}

func NewCachedProfileRepository(store learning.ProfileRepository, cache *ProfileCache) *CachedProfileRepository {
	return &CachedProfileRepository{store: store, cache: cache}
}

func (r *CachedProfileRepository) Get(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	if profile, err := r.cache.Get(ctx, creatorID); err == nil && profile != nil {
		return profile, nil
	} else if err != nil {
		logger.Warn("brand profile cache read failed", "creator_id", creatorID, "error", err)
	}

	profile, err := r.store.Get(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		if err := r.cache.Put(ctx, profile); err != nil {
			logger.Warn("brand profile cache fill failed", "creator_id", creatorID, "error", err)
		}
	}
	return profile, nil
}

func (r *CachedProfileRepository) Save(ctx context.Context, profile *domain.PersonalBrandProfile) error {
	if err := r.store.Save(ctx, profile); err != nil {
		return err
	}
	if err := r.cache.Put(ctx, profile); err != nil {
		logger.Warn("brand profile cache write failed", "creator_id", profile.CreatorID, "error", err)
	}
	return nil
}

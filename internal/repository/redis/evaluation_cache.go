package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"audienceLab/business/audience"
	"audienceLab/domain"

	"github.com/redis/go-redis/v9"
)

// EvaluationCache keeps finished runs warm for dashboard reads. Postgres is
// the source of truth; a miss here is never an error.
type EvaluationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEvaluationCache(client *redis.Client, ttl time.Duration) *EvaluationCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EvaluationCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *EvaluationCache) Put(ctx context.Context, rec audience.StoredEvaluation) error {
	key := fmt.Sprintf("evaluation:%s", rec.Evaluation.ID)

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation record: %w", err)
	}

	err = r.client.Set(ctx, key, jsonData, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store evaluation in Redis: %w", err)
	}

	return nil
}

func (r *EvaluationCache) Get(ctx context.Context, id string) (*audience.StoredEvaluation, error) {
	key := fmt.Sprintf("evaluation:%s", id)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation from Redis: %w", err)
	}

	var rec audience.StoredEvaluation
	err = json.Unmarshal([]byte(val), &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation record: %w", err)
	}

	return &rec, nil
}

// ProfileCache fronts brand profile reads. Writes go through on every learn
// update so the cached copy tracks the serialized postgres row.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *ProfileCache) Put(ctx context.Context, profile *domain.PersonalBrandProfile) error {
	key := fmt.Sprintf("brand:profile:%s", profile.CreatorID)

	jsonData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal brand profile: %w", err)
	}

	err = r.client.Set(ctx, key, jsonData, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store brand profile in Redis: %w", err)
	}

	return nil
}

func (r *ProfileCache) Get(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	key := fmt.Sprintf("brand:profile:%s", creatorID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get brand profile from Redis: %w", err)
	}

	var profile domain.PersonalBrandProfile
	err = json.Unmarshal([]byte(val), &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal brand profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileCache) Invalidate(ctx context.Context, creatorID string) error {
	key := fmt.Sprintf("brand:profile:%s", creatorID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate brand profile cache: %w", err)
	}

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"audienceLab/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandProfileRepository struct {
	DB *gorm.DB
}

func NewBrandProfileRepository(db *gorm.DB) *BrandProfileRepository {
	return &BrandProfileRepository{DB: db}
}

type brandProfileRow struct {
	CreatorID   string `gorm:"column:creator_id;primaryKey"`
	ProfileJSON []byte `gorm:"column:profile_json"`
}

func (brandProfileRow) TableName() string {
	return "brand_profiles"
}

func (r *BrandProfileRepository) Get(ctx context.Context, creatorID string) (*domain.PersonalBrandProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row brandProfileRow
	err := r.DB.WithContext(ctx).First(&row, "creator_id = ?", creatorID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query brand_profiles: %w", err)
	}

	var profile domain.PersonalBrandProfile
	if err := json.Unmarshal(row.ProfileJSON, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile_json: %w", err)
	}

	return &profile, nil
}

func (r *BrandProfileRepository) Save(ctx context.Context, profile *domain.PersonalBrandProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	row := brandProfileRow{
		CreatorID:   profile.CreatorID,
		ProfileJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "creator_id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert brand_profiles: %w", err)
	}

	return nil
}

func (r *BrandProfileRepository) SaveEvent(ctx context.Context, event domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save feedback event: %w", err)
	}

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"audienceLab/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArchetypeRepository struct {
	DB *gorm.DB
}

func NewArchetypeRepository(db *gorm.DB) *ArchetypeRepository {
	return &ArchetypeRepository{DB: db}
}

type archetypeRow struct {
	Category      string `gorm:"column:category;primaryKey"`
	ArchetypeJSON []byte `gorm:"column:archetype_json"`
}

func (archetypeRow) TableName() string {
	return "persona_archetypes"
}

func (r *ArchetypeRepository) FindAll(ctx context.Context) ([]domain.PersonaArchetype, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []archetypeRow
	if err := r.DB.WithContext(ctx).Order("category asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query persona_archetypes: %w", err)
	}

	out := make([]domain.PersonaArchetype, 0, len(rows))
	for _, row := range rows {
		var a domain.PersonaArchetype
		if err := json.Unmarshal(row.ArchetypeJSON, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal archetype_json for %s: %w", row.Category, err)
		}
		out = append(out, a)
	}

	return out, nil
}

func (r *ArchetypeRepository) Upsert(ctx context.Context, archetype domain.PersonaArchetype) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(archetype)
	if err != nil {
		return fmt.Errorf("failed to marshal archetype: %w", err)
	}

	row := archetypeRow{
		Category:      archetype.Category,
		ArchetypeJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert persona_archetypes: %w", err)
	}

	return nil
}

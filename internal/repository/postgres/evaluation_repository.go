package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"audienceLab/business/audience"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

type evaluationRow struct {
	ID         string    `gorm:"column:id;primaryKey"`
	CreatorID  string    `gorm:"column:creator_id;index"`
	VideoID    string    `gorm:"column:video_id;index"`
	RecordJSON []byte    `gorm:"column:record_json"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (evaluationRow) TableName() string {
	return "evaluations"
}

func (r *EvaluationRepository) Save(ctx context.Context, rec audience.StoredEvaluation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation record: %w", err)
	}

	row := evaluationRow{
		ID:         rec.Evaluation.ID,
		CreatorID:  rec.Evaluation.CreatorID,
		VideoID:    rec.Evaluation.VideoID,
		RecordJSON: raw,
		CreatedAt:  rec.Evaluation.CreatedAt,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert evaluations: %w", err)
	}

	return nil
}

func (r *EvaluationRepository) Get(ctx context.Context, id string) (*audience.StoredEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row evaluationRow
	err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}

	var rec audience.StoredEvaluation
	if err := json.Unmarshal(row.RecordJSON, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record_json: %w", err)
	}

	return &rec, nil
}

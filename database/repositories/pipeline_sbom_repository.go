package repositories

import (
	"context"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pipelineSBOMRepository struct {
	db *gorm.DB
}

func NewPipelineSBOMRepository(db *gorm.DB) *pipelineSBOMRepository {
	return &pipelineSBOMRepository{db: db}
}

func (r *pipelineSBOMRepository) Read(ctx context.Context, pipelineID int64) (*models.PipelineSBOM, error) {
	return first[models.PipelineSBOM](r.db.WithContext(ctx).Where("pipeline_id = ?", pipelineID))
}

func (r *pipelineSBOMRepository) Save(ctx context.Context, tx shared.DB, sbom *models.PipelineSBOM) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pipeline_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sbom"}),
	}).Create(sbom).Error
}

package repositories

import (
	"context"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var completedPipelineStatuses = []models.PipelineStatus{
	models.PipelineStatusSuccess,
	models.PipelineStatusFailed,
	models.PipelineStatusCanceled,
	models.PipelineStatusManual,
}

type pipelineRepository struct {
	db *gorm.DB
	*GormRepository[int64, models.Pipeline]
}

func NewPipelineRepository(db *gorm.DB) *pipelineRepository {
	return &pipelineRepository{
		db:             db,
		GormRepository: newGormRepository[int64, models.Pipeline](db),
	}
}

func (r *pipelineRepository) Save(ctx context.Context, tx shared.DB, pipeline *models.Pipeline) error {
	return r.GetDB(ctx, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(pipeline).Error
}

func (r *pipelineRepository) FindRelatedPipelineIDs(ctx context.Context, pipeline models.Pipeline, sources []models.PipelineSource) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Pipeline{}).
		Where("project_id = ? AND ref = ? AND sha = ? AND source IN ?", pipeline.ProjectID, pipeline.Ref, pipeline.SHA, sources).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return utils.SortedUniq(append(ids, pipeline.ID)), nil
}

func (r *pipelineRepository) FindLatestForSHA(ctx context.Context, projectID int64, ref, sha string) (*models.Pipeline, error) {
	return first[models.Pipeline](r.db.WithContext(ctx).
		Where("project_id = ? AND ref = ? AND sha = ? AND status IN ?", projectID, ref, sha, completedPipelineStatuses).
		Order("id DESC"))
}

func (r *pipelineRepository) FindLatestWithSecurityData(ctx context.Context, projectID int64, ref string) (*models.Pipeline, error) {
	return first[models.Pipeline](r.db.WithContext(ctx).
		Where("project_id = ? AND ref = ?", projectID, ref).
		Where("EXISTS (SELECT 1 FROM security_scans WHERE security_scans.pipeline_id = pipelines.id)").
		Order("id DESC"))
}

func (r *pipelineRepository) FindMergeBasePipeline(ctx context.Context, projectID int64, ref, sha string) (*models.Pipeline, error) {
	return first[models.Pipeline](r.db.WithContext(ctx).
		Where("project_id = ? AND ref = ? AND sha = ?", projectID, ref, sha).
		Where("EXISTS (SELECT 1 FROM security_scans WHERE security_scans.pipeline_id = pipelines.id)").
		Order("id DESC"))
}

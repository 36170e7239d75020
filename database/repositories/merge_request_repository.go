package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mergeRequestRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.MergeRequest]
}

func NewMergeRequestRepository(db *gorm.DB) *mergeRequestRepository {
	return &mergeRequestRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.MergeRequest](db),
	}
}

func (r *mergeRequestRepository) FindByIID(ctx context.Context, projectID int64, iid int64) (*models.MergeRequest, error) {
	return first[models.MergeRequest](r.db.WithContext(ctx).Where("project_id = ? AND iid = ?", projectID, iid))
}

func (r *mergeRequestRepository) FindOpenByHeadPipeline(ctx context.Context, pipelineID int64) ([]models.MergeRequest, error) {
	var mrs []models.MergeRequest
	err := r.db.WithContext(ctx).
		Where("head_pipeline_id = ? AND state = ?", pipelineID, models.MergeRequestStateOpened).
		Order("iid ASC").
		Find(&mrs).Error
	return mrs, err
}

func (r *mergeRequestRepository) FindOpenByProject(ctx context.Context, projectID int64) ([]models.MergeRequest, error) {
	var mrs []models.MergeRequest
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND state = ?", projectID, models.MergeRequestStateOpened).
		Order("iid ASC").
		Find(&mrs).Error
	return mrs, err
}

// Save upserts on (project_id, iid) and writes the stored id back into mr.
func (r *mergeRequestRepository) Save(ctx context.Context, tx shared.DB, mr *models.MergeRequest) error {
	return r.GetDB(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "iid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "source_branch", "target_branch", "diff_head_sha", "diff_base_sha",
			"merge_base_sha", "head_pipeline_id", "state", "merge_status", "merge_train", "updated_at",
		}),
	}).Create(mr).Error
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type violationRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Violation]
}

func NewViolationRepository(db *gorm.DB) *violationRepository {
	return &violationRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Violation](db),
	}
}

func (r *violationRepository) FindByMergeRequest(ctx context.Context, mergeRequestID uuid.UUID) ([]models.Violation, error) {
	var violations []models.Violation
	err := r.db.WithContext(ctx).
		Preload("Policy").
		Where("merge_request_id = ?", mergeRequestID).
		Order("created_at ASC, id ASC").
		Find(&violations).Error
	return violations, err
}

func (r *violationRepository) SaveViolations(ctx context.Context, mergeRequestID uuid.UUID, upserts []models.Violation, deletePolicyIDs []uuid.UUID) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if len(deletePolicyIDs) > 0 {
			if err := tx.Where("merge_request_id = ? AND policy_id IN ?", mergeRequestID, deletePolicyIDs).
				Delete(&models.Violation{}).Error; err != nil {
				return err
			}
		}
		if len(upserts) == 0 {
			return nil
		}
		for i := range upserts {
			upserts[i].MergeRequestID = mergeRequestID
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "merge_request_id"}, {Name: "policy_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"report_type", "data", "updated_at"}),
		}).Omit("Policy").Create(&upserts).Error
	})
}

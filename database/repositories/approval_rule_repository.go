package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type approvalRuleRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.ApprovalRule]
}

func NewApprovalRuleRepository(db *gorm.DB) *approvalRuleRepository {
	return &approvalRuleRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.ApprovalRule](db),
	}
}

func (r *approvalRuleRepository) FindByMergeRequest(ctx context.Context, mergeRequestID uuid.UUID) ([]models.ApprovalRule, error) {
	var rules []models.ApprovalRule
	err := r.db.WithContext(ctx).
		Preload("Policy").
		Where("merge_request_id = ?", mergeRequestID).
		Order("name ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

// UpdateApprovalsRequired only ever writes 0 or the configured value. The value is taken from the row itself
// so a concurrent rematerialization with a different configuration cannot be overwritten with a stale number.
func (r *approvalRuleRepository) UpdateApprovalsRequired(ctx context.Context, ruleID uuid.UUID, approvalsRequired int) error {
	value := gorm.Expr("CASE WHEN ? > 0 THEN configured_approvals_required ELSE 0 END", approvalsRequired)
	return r.db.WithContext(ctx).Model(&models.ApprovalRule{}).
		Where("id = ?", ruleID).
		Updates(map[string]any{
			"approvals_required": value,
			"updated_at":         time.Now(),
		}).Error
}

func (r *approvalRuleRepository) ReplaceForMergeRequest(ctx context.Context, tx shared.DB, mergeRequestID uuid.UUID, rules []models.ApprovalRule) error {
	db := r.GetDB(ctx, tx)
	policyIDs := make([]uuid.UUID, 0, len(rules))
	for i := range rules {
		rules[i].MergeRequestID = mergeRequestID
		if rules[i].PolicyID != nil {
			policyIDs = append(policyIDs, *rules[i].PolicyID)
		}
	}

	remove := db.Where("merge_request_id = ?", mergeRequestID)
	if len(policyIDs) > 0 {
		remove = remove.Where("policy_id IS NULL OR policy_id NOT IN ?", policyIDs)
	}
	if err := remove.Delete(&models.ApprovalRule{}).Error; err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	// a violated rule keeps requiring approvals with the new configured value, a satisfied rule stays at 0
	updates := append(clause.AssignmentColumns([]string{
		"name", "report_type", "configured_approvals_required",
		"user_approvers", "group_approvers", "role_approvers", "updated_at",
	}), clause.Assignment{
		Column: clause.Column{Name: "approvals_required"},
		Value:  gorm.Expr("CASE WHEN approval_merge_request_rules.approvals_required > 0 THEN EXCLUDED.configured_approvals_required ELSE 0 END"),
	})
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "merge_request_id"}, {Name: "policy_id"}},
		DoUpdates: updates,
	}).Omit("Policy", "MergeRequest").Create(&rules).Error
}

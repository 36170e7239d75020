package repositories

import (
	"context"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
)

type securityFindingRepository struct {
	db *gorm.DB
	*GormRepository[string, models.SecurityFinding]
}

func NewSecurityFindingRepository(db *gorm.DB) *securityFindingRepository {
	return &securityFindingRepository{
		db:             db,
		GormRepository: newGormRepository[string, models.SecurityFinding](db),
	}
}

func applyFindingFilter(query *gorm.DB, filter dtos.FindingFilter) *gorm.DB {
	if len(filter.ScanTypes) > 0 {
		query = query.Where("scan_type IN ?", filter.ScanTypes)
	}
	if len(filter.Severities) > 0 {
		query = query.Where("severity IN ?", filter.Severities)
	}
	if filter.FixAvailable != nil {
		query = query.Where("fix_available = ?", *filter.FixAvailable)
	}
	if filter.FalsePositive != nil {
		query = query.Where("false_positive = ?", *filter.FalsePositive)
	}
	return query
}

func (r *securityFindingRepository) FindByPipelines(ctx context.Context, pipelineIDs []int64, filter dtos.FindingFilter) ([]models.SecurityFinding, error) {
	if len(pipelineIDs) == 0 {
		return []models.SecurityFinding{}, nil
	}
	var findings []models.SecurityFinding
	query := r.db.WithContext(ctx).Where("pipeline_id IN ?", pipelineIDs)
	err := applyFindingFilter(query, filter).Order("uuid ASC").Find(&findings).Error
	return findings, err
}

func (r *securityFindingRepository) ScanTypes(ctx context.Context, pipelineIDs []int64) ([]dtos.ScanType, error) {
	if len(pipelineIDs) == 0 {
		return []dtos.ScanType{}, nil
	}
	var scanTypes []dtos.ScanType
	err := r.db.WithContext(ctx).Model(&models.SecurityScan{}).
		Where("pipeline_id IN ? AND status = ?", pipelineIDs, "succeeded").
		Distinct("scan_type").
		Order("scan_type ASC").
		Pluck("scan_type", &scanTypes).Error
	return scanTypes, err
}

func (r *securityFindingRepository) ReplaceScan(ctx context.Context, tx shared.DB, scan *models.SecurityScan) error {
	db := r.GetDB(ctx, tx)
	if err := db.Where("pipeline_id = ? AND scan_type = ?", scan.PipelineID, scan.ScanType).Delete(&models.SecurityScan{}).Error; err != nil {
		return err
	}

	findings := scan.Findings
	scan.Findings = nil
	if err := db.Create(scan).Error; err != nil {
		return err
	}
	for i := range findings {
		findings[i].ScanID = scan.ID
		findings[i].PipelineID = scan.PipelineID
	}
	scan.Findings = findings
	// reports with many findings exceed the postgres parameter limit in a single insert
	return r.SaveBatch(ctx, db, findings)
}

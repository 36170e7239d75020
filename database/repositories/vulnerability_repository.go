package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type vulnerabilityRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Vulnerability]
}

func NewVulnerabilityRepository(db *gorm.DB) *vulnerabilityRepository {
	return &vulnerabilityRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Vulnerability](db),
	}
}

func (r *vulnerabilityRepository) FindByFindingUUIDs(ctx context.Context, projectID int64, uuids []string, states []dtos.VulnerabilityState) ([]models.Vulnerability, error) {
	if len(uuids) == 0 {
		return []models.Vulnerability{}, nil
	}
	var vulns []models.Vulnerability
	query := r.db.WithContext(ctx).Where("project_id = ? AND finding_uuid IN ?", projectID, uuids)
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}
	err := query.Order("finding_uuid ASC").Find(&vulns).Error
	return vulns, err
}

func (r *vulnerabilityRepository) FindByProject(ctx context.Context, projectID int64, states []dtos.VulnerabilityState, filter dtos.FindingFilter, limit int) ([]models.Vulnerability, error) {
	var vulns []models.Vulnerability
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}
	if len(filter.ScanTypes) > 0 {
		query = query.Where("scan_type IN ?", filter.ScanTypes)
	}
	if len(filter.Severities) > 0 {
		query = query.Where("severity IN ?", filter.Severities)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("finding_uuid ASC").Find(&vulns).Error
	return vulns, err
}

func (r *vulnerabilityRepository) Upsert(ctx context.Context, tx shared.DB, vulnerabilities []models.Vulnerability) error {
	return r.GormRepository.Upsert(ctx, tx, vulnerabilities,
		[]clause.Column{{Name: "project_id"}, {Name: "finding_uuid"}},
		[]string{"severity", "scan_type", "updated_at"},
	)
}

// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"gorm.io/gorm"
)

type policyRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Policy]
}

func NewPolicyRepository(db *gorm.DB) *policyRepository {
	return &policyRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Policy](db),
	}
}

func (r *policyRepository) FindByProject(ctx context.Context, projectID int64) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC, rule_index ASC").
		Find(&policies).Error
	return policies, err
}

func (r *policyRepository) ProjectIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Policy{}).Distinct("project_id").Order("project_id ASC").Pluck("project_id", &ids).Error
	return ids, err
}

// ReplaceForProject keeps the ids of policies whose name and rule index did not change,
// so approval rules and violations referencing them survive a reload.
func (r *policyRepository) ReplaceForProject(ctx context.Context, tx shared.DB, projectID int64, policies []models.Policy) ([]models.Policy, error) {
	db := r.GetDB(ctx, tx)

	var existing []models.Policy
	if err := db.Where("project_id = ?", projectID).Find(&existing).Error; err != nil {
		return nil, err
	}
	type policyKey struct {
		name      string
		ruleIndex int
	}
	existingIDs := make(map[policyKey]uuid.UUID, len(existing))
	for _, p := range existing {
		existingIDs[policyKey{p.Name, p.RuleIndex}] = p.ID
	}

	keep := make([]uuid.UUID, 0, len(policies))
	for i := range policies {
		policies[i].ProjectID = projectID
		if id, ok := existingIDs[policyKey{policies[i].Name, policies[i].RuleIndex}]; ok {
			policies[i].ID = id
			keep = append(keep, id)
		}
	}

	remove := db.Where("project_id = ?", projectID)
	if len(keep) > 0 {
		remove = remove.Where("id NOT IN ?", keep)
	}
	if err := remove.Delete(&models.Policy{}).Error; err != nil {
		return nil, err
	}

	for i := range policies {
		if err := db.Save(&policies[i]).Error; err != nil {
			return nil, err
		}
	}
	return policies, nil
}

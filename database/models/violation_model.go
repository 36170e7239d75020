package models

import (
	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/dtos"
)

// Violation holds the latest evaluation outcome of a policy on a merge request.
// There is at most one row per merge request and policy.
type Violation struct {
	Model
	MergeRequestID uuid.UUID          `json:"mergeRequestId" gorm:"type:uuid;not null;uniqueIndex:idx_violation_mr_policy"`
	PolicyID       uuid.UUID          `json:"policyId" gorm:"type:uuid;not null;uniqueIndex:idx_violation_mr_policy"`
	Policy         *Policy            `json:"policy,omitempty" gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE;"`
	ProjectID      int64              `json:"projectId" gorm:"not null"`
	ReportType     dtos.ReportType    `json:"reportType" gorm:"type:text;not null"`
	Data           dtos.ViolationData `json:"data" gorm:"type:jsonb;not null;serializer:json"`
}

func (Violation) TableName() string {
	return "scan_result_policy_violations"
}

package models

import (
	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/utils"
)

// ApprovalRule is the merge request specific copy of a policy.
// ApprovalsRequired only ever toggles between 0 and ConfiguredApprovalsRequired.
type ApprovalRule struct {
	Model
	MergeRequestID uuid.UUID       `json:"mergeRequestId" gorm:"type:uuid;not null;index;uniqueIndex:idx_rule_mr_policy"`
	MergeRequest   MergeRequest    `json:"-" gorm:"foreignKey:MergeRequestID;constraint:OnDelete:CASCADE;"`
	PolicyID       *uuid.UUID      `json:"policyId" gorm:"type:uuid;uniqueIndex:idx_rule_mr_policy"`
	Policy         *Policy         `json:"policy" gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE;"`
	Name           string          `json:"name" gorm:"type:text;not null"`
	ReportType     dtos.ReportType `json:"reportType" gorm:"type:text;not null"`

	ApprovalsRequired           int `json:"approvalsRequired" gorm:"not null;default:0"`
	ConfiguredApprovalsRequired int `json:"configuredApprovalsRequired" gorm:"not null;default:0"`

	UserApprovers  []string `json:"userApprovers" gorm:"type:jsonb;not null;serializer:json"`
	GroupApprovers []string `json:"groupApprovers" gorm:"type:jsonb;not null;serializer:json"`
	RoleApprovers  []string `json:"roleApprovers" gorm:"type:jsonb;not null;serializer:json"`
}

func (ApprovalRule) TableName() string {
	return "approval_merge_request_rules"
}

// RequiredApprovalsFor returns the only two values a rule may take.
func (r ApprovalRule) RequiredApprovalsFor(violated bool) int {
	if violated {
		return r.ConfiguredApprovalsRequired
	}
	return 0
}

// RequiresApproval is false for rules which only add optional reviewers.
func (r ApprovalRule) RequiresApproval() bool {
	return r.ConfiguredApprovalsRequired > 0
}

// EligibleApprovers resolves the users, groups and roles of the rule and deduplicates the result.
func (r ApprovalRule) EligibleApprovers(resolve func(kind, name string) []string) []string {
	approvers := make([]string, 0, len(r.UserApprovers)+len(r.GroupApprovers))
	for _, user := range r.UserApprovers {
		approvers = append(approvers, resolve("user", user)...)
	}
	for _, group := range r.GroupApprovers {
		approvers = append(approvers, resolve("group", group)...)
	}
	for _, role := range r.RoleApprovers {
		approvers = append(approvers, resolve("role", role)...)
	}
	return utils.Uniq(approvers)
}

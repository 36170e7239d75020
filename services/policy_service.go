package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type policyService struct {
	policyRepository       shared.PolicyRepository
	approvalRuleRepository shared.ApprovalRuleRepository
}

func NewPolicyService(policyRepository shared.PolicyRepository, approvalRuleRepository shared.ApprovalRuleRepository) *policyService {
	return &policyService{
		policyRepository:       policyRepository,
		approvalRuleRepository: approvalRuleRepository,
	}
}

// ParsePolicyDocument decodes and validates a policy yaml document.
func ParsePolicyDocument(document []byte) (dtos.PolicyFileDTO, error) {
	var file dtos.PolicyFileDTO
	if err := yaml.Unmarshal(document, &file); err != nil {
		return file, errors.Wrap(err, "could not parse policy document")
	}
	if err := shared.V.Struct(file); err != nil {
		return file, errors.Wrap(err, "invalid policy document")
	}
	return file, nil
}

// PoliciesFromDocument creates one policy per rule of every enabled approval policy.
func PoliciesFromDocument(projectID int64, file dtos.PolicyFileDTO) []models.Policy {
	policies := make([]models.Policy, 0)
	for _, approvalPolicy := range file.ApprovalPolicy {
		if !approvalPolicy.Enabled {
			continue
		}

		fallback := dtos.FallbackBehaviorClosed
		if approvalPolicy.FallbackBehavior != nil && approvalPolicy.FallbackBehavior.Fail != "" {
			fallback = approvalPolicy.FallbackBehavior.Fail
		}

		var requireApproval *dtos.PolicyActionDTO
		sendBotMessage := true
		for i, action := range approvalPolicy.Actions {
			switch action.Type {
			case dtos.PolicyActionRequireApproval:
				if requireApproval == nil {
					requireApproval = &approvalPolicy.Actions[i]
				}
			case dtos.PolicyActionSendBotMessage:
				sendBotMessage = utils.OrDefault(action.Enabled, true)
			}
		}

		for index, rule := range approvalPolicy.Rules {
			policy := models.Policy{
				ProjectID:               projectID,
				Name:                    approvalPolicy.Name,
				Description:             approvalPolicy.Description,
				RuleIndex:               index,
				ReportType:              ruleReportType(rule.Type),
				Branches:                orEmpty(rule.Branches),
				Scanners:                orEmpty(rule.Scanners),
				VulnerabilitiesAllowed:  rule.VulnerabilitiesAllowed,
				SeverityLevels:          orEmpty(rule.SeverityLevels),
				VulnerabilityStates:     orEmpty(rule.VulnerabilityStates),
				LicenseStates:           orEmpty(rule.LicenseStates),
				LicenseTypes:            orEmpty(rule.LicenseTypes),
				MatchOnInclusion:        utils.OrDefault(rule.MatchOnInclusion, true),
				FallbackBehavior:        fallback,
				SendBotMessage:          sendBotMessage,
				UserApprovers:           []string{},
				GroupApprovers:          []string{},
				RoleApprovers:           []string{},
				VulnerabilityAttributes: utils.OrDefault(rule.VulnerabilityAttributes, dtos.VulnerabilityAttributes{}),
			}
			if requireApproval != nil {
				policy.ApprovalsRequired = requireApproval.ApprovalsRequired
				policy.UserApprovers = orEmpty(requireApproval.UserApprovers)
				policy.GroupApprovers = orEmpty(requireApproval.GroupApprovers)
				policy.RoleApprovers = orEmpty(requireApproval.RoleApprovers)
			}
			policies = append(policies, policy)
		}
	}
	return policies
}

func ruleReportType(ruleType string) dtos.ReportType {
	if ruleType == dtos.PolicyRuleTypeLicenseFinding {
		return dtos.ReportTypeLicenseScanning
	}
	return dtos.ReportTypeScanFinding
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ruleName keeps the policy name for the first rule and numbers the others.
func ruleName(policy models.Policy) string {
	if policy.RuleIndex == 0 {
		return policy.Name
	}
	return fmt.Sprintf("%s (rule %d)", policy.Name, policy.RuleIndex+1)
}

// ApprovalRuleFromPolicy creates the merge request copy of a policy. A new rule requires its approvals until it was evaluated.
func ApprovalRuleFromPolicy(mergeRequestID uuid.UUID, policy models.Policy) models.ApprovalRule {
	return models.ApprovalRule{
		MergeRequestID:              mergeRequestID,
		PolicyID:                    utils.Ptr(policy.ID),
		Name:                        ruleName(policy),
		ReportType:                  policy.ReportType,
		ApprovalsRequired:           policy.ApprovalsRequired,
		ConfiguredApprovalsRequired: policy.ApprovalsRequired,
		UserApprovers:               orEmpty(policy.UserApprovers),
		GroupApprovers:              orEmpty(policy.GroupApprovers),
		RoleApprovers:               orEmpty(policy.RoleApprovers),
	}
}

func (s *policyService) LoadPolicies(ctx context.Context, projectID int64, document []byte) ([]models.Policy, error) {
	file, err := ParsePolicyDocument(document)
	if err != nil {
		return nil, err
	}

	var saved []models.Policy
	err = s.policyRepository.Transaction(ctx, func(tx shared.DB) error {
		var err error
		saved, err = s.policyRepository.ReplaceForProject(ctx, tx, projectID, PoliciesFromDocument(projectID, file))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not store policies")
	}
	slog.Info("loaded policies", "projectID", projectID, "policies", len(saved))
	return saved, nil
}

// MaterializeApprovalRules syncs the approval rules of the merge request with the policies targeting its branch.
func (s *policyService) MaterializeApprovalRules(ctx context.Context, mr models.MergeRequest) ([]models.ApprovalRule, error) {
	policies, err := s.policyRepository.FindByProject(ctx, mr.ProjectID)
	if err != nil {
		return nil, errors.Wrap(err, "could not read policies")
	}

	rules := utils.Map(
		utils.Filter(policies, func(p models.Policy) bool {
			return p.AppliesToBranch(mr.TargetBranch)
		}),
		func(p models.Policy) models.ApprovalRule {
			return ApprovalRuleFromPolicy(mr.ID, p)
		},
	)

	err = s.policyRepository.Transaction(ctx, func(tx shared.DB) error {
		return s.approvalRuleRepository.ReplaceForMergeRequest(ctx, tx, mr.ID, rules)
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not materialize approval rules")
	}
	slog.Info("materialized approval rules", "mergeRequestID", mr.ID, "iid", mr.IID, "rules", len(rules))
	return rules, nil
}

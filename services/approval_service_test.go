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

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/mocks"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type approvalFixture struct {
	ctx      context.Context
	mr       models.MergeRequest
	pipeline models.Pipeline
	config   EvaluationConfig

	mrRepository        *mocks.MergeRequestRepository
	pipelineRepository  *mocks.PipelineRepository
	ruleRepository      *mocks.ApprovalRuleRepository
	resolver            *mocks.RelatedPipelinesResolver
	findingRepository   *mocks.SecurityFindingRepository
	vulnRepository      *mocks.VulnerabilityRepository
	licenseProvider     *mocks.LicenseReportProvider
	violationRepository *mocks.ViolationRepository
	commentService      shared.PolicyViolationCommentService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	mr := openMergeRequest()
	mr.DiffBaseSHA = "base"
	return &approvalFixture{
		ctx: context.Background(),
		mr:  mr,
		pipeline: models.Pipeline{
			ID:                      100,
			ProjectID:               mr.ProjectID,
			Ref:                     "feature",
			SHA:                     "head",
			Status:                  models.PipelineStatusSuccess,
			CanStoreSecurityReports: true,
		},
		config:              commentTestConfig(),
		mrRepository:        mocks.NewMergeRequestRepository(t),
		pipelineRepository:  mocks.NewPipelineRepository(t),
		ruleRepository:      mocks.NewApprovalRuleRepository(t),
		resolver:            mocks.NewRelatedPipelinesResolver(t),
		findingRepository:   mocks.NewSecurityFindingRepository(t),
		vulnRepository:      mocks.NewVulnerabilityRepository(t),
		licenseProvider:     mocks.NewLicenseReportProvider(t),
		violationRepository: mocks.NewViolationRepository(t),
		commentService:      mocks.NewPolicyViolationCommentService(t),
	}
}

func (f *approvalFixture) service() *approvalService {
	return NewApprovalService(
		f.mrRepository,
		f.pipelineRepository,
		f.ruleRepository,
		f.resolver,
		NewFindingDiffService(f.findingRepository, f.vulnRepository, f.config),
		NewLicenseViolationChecker(f.config),
		f.licenseProvider,
		NewViolationService(f.violationRepository),
		f.commentService,
		f.config,
	)
}

func (f *approvalFixture) expectPipelines(head, target []int64, rules ...models.ApprovalRule) {
	f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
	f.pipelineRepository.On("Read", f.ctx, f.pipeline.ID).Return(&f.pipeline, nil)
	f.ruleRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return(rules, nil)
	f.resolver.On("RelatedPipelineIDs", f.ctx, f.pipeline).Return(head, nil)
	f.resolver.On("ComparisonPipelineIDs", f.ctx, f.mr, f.pipeline).Return(target, nil)
}

func (f *approvalFixture) commentMock() *mocks.PolicyViolationCommentService {
	return f.commentService.(*mocks.PolicyViolationCommentService)
}

func scanFindingRule(mr models.MergeRequest, policy models.Policy, configured int) models.ApprovalRule {
	policy.ID = uuid.New()
	policy.Name = "No new high vulnerabilities"
	policy.ApprovalsRequired = configured
	policy.SendBotMessage = true
	rule := ApprovalRuleFromPolicy(mr.ID, policy)
	rule.ID = uuid.New()
	rule.Policy = &policy
	return rule
}

func TestUpdateApprovals(t *testing.T) {
	allScans := []dtos.ScanType{dtos.ScanTypeDependencyScanning, dtos.ScanTypeSAST}
	head := []int64{100}
	target := []int64{50}

	t.Run("scenario A: new findings above the threshold keep the approvals", func(t *testing.T) {
		f := newApprovalFixture(t)
		rule := scanFindingRule(f.mr, highSeverityPolicy(), 2)
		f.expectPipelines(head, target, rule)

		f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
		f.findingRepository.On("FindByPipelines", f.ctx, head, mock.Anything).Return(findings(dtos.SeverityHigh, uuidList("new", 5)...), nil)
		f.findingRepository.On("FindByPipelines", f.ctx, target, mock.Anything).Return([]models.SecurityFinding{}, nil)

		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 2).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
			return len(upserts) == 1 &&
				upserts[0].PolicyID == rule.Policy.ID &&
				upserts[0].Data.Violations.ScanFinding != nil &&
				upserts[0].Data.Context != nil &&
				upserts[0].Data.Violations.ScanFinding.UUIDs.NewlyDetected[4] == "new-04" &&
				upserts[0].Data.Context.TargetPipelineIDs[0] == 50
		}), []uuid.UUID{}).Return(nil)
		f.commentMock().On("Execute", f.ctx, dtos.CommentParams{
			MergeRequestID: f.mr.ID,
			Reports:        []dtos.ReportEvaluation{{ReportType: dtos.ReportTypeScanFinding, Violated: true, RequiresApproval: true}},
		}).Return(dtos.SuccessResult())

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)

		require.Len(t, result.Rules, 1)
		assert.True(t, result.Rules[0].Violated)
		assert.Equal(t, 2, result.Rules[0].ApprovalsRequired)
		assert.True(t, result.Comment.Success)
	})

	t.Run("scenario B: findings present in the target pipeline clear the rule", func(t *testing.T) {
		for _, withPriorComment := range []bool{true, false} {
			f := newApprovalFixture(t)
			notes := &inMemoryNoteStore{}
			if withPriorComment {
				notes.nextID = 1
				notes.notes = []shared.Note{{
					ID:       1,
					AuthorID: botUserID,
					Body:     RenderPolicyViolationComment(NewCommentState([]dtos.ReportType{dtos.ReportTypeScanFinding}, nil), nil),
				}}
			}
			f.commentService = NewPolicyViolationCommentService(f.mrRepository, f.violationRepository, notes, &mutexLocker{}, f.config)

			rule := scanFindingRule(f.mr, highSeverityPolicy(), 2)
			f.expectPipelines(head, target, rule)

			f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
			f.findingRepository.On("FindByPipelines", f.ctx, mock.Anything, mock.Anything).Return(findings(dtos.SeverityHigh, uuidList("old", 5)...), nil)
			f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 0).Return(nil)
			f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, []models.Violation{}, []uuid.UUID{rule.Policy.ID}).Return(nil)
			f.violationRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return([]models.Violation{}, nil)

			result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
			require.NoError(t, err)

			assert.Equal(t, 0, result.Rules[0].ApprovalsRequired)
			assert.True(t, result.Comment.Success)
			if withPriorComment {
				require.Len(t, notes.notes, 1)
				assert.Contains(t, notes.notes[0].Body, "Security policy violations have been resolved")
			} else {
				assert.Empty(t, notes.notes)
			}
		}
	})

	t.Run("scenario C: a removed scanner violates the rule unless the merge request removed it", func(t *testing.T) {
		for _, removedByMR := range []bool{false, true} {
			f := newApprovalFixture(t)
			if removedByMR {
				f.pipeline.ConfigRemovedScanTypes = []string{"dependency_scanning"}
			}
			policy := highSeverityPolicy()
			policy.Scanners = []string{"dependency_scanning"}
			rule := scanFindingRule(f.mr, policy, 2)
			f.expectPipelines(head, target, rule)

			f.findingRepository.On("ScanTypes", f.ctx, head).Return([]dtos.ScanType{dtos.ScanTypeSAST}, nil)
			f.findingRepository.On("ScanTypes", f.ctx, target).Return(allScans, nil)

			if removedByMR {
				f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 0).Return(nil)
				f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, []models.Violation{}, []uuid.UUID{rule.Policy.ID}).Return(nil)
			} else {
				f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 2).Return(nil)
				f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
					return len(upserts) == 1 && len(upserts[0].Data.Errors) == 1 && upserts[0].Data.Errors[0].Error == dtos.ViolationErrorScanRemoved
				}), []uuid.UUID{}).Return(nil)
			}
			f.commentMock().On("Execute", f.ctx, mock.Anything).Return(dtos.SuccessResult())

			result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
			require.NoError(t, err)

			assert.Equal(t, !removedByMR, result.Rules[0].Violated)
			if removedByMR {
				assert.Equal(t, "Scanner removed by MR", result.Rules[0].Reason)
			}
		}
	})

	t.Run("should leave a rule unchanged if evaluating it fails", func(t *testing.T) {
		f := newApprovalFixture(t)
		failing := scanFindingRule(f.mr, highSeverityPolicy(), 2)
		failing.Name = "a failing rule"
		licensePolicy := licensePolicy("detected")
		licensePolicy.SendBotMessage = true
		licenseRule := scanFindingRule(f.mr, licensePolicy, 1)
		licenseRule.ReportType = dtos.ReportTypeLicenseScanning
		licenseRule.Name = "b license rule"
		f.expectPipelines(head, target, failing, licenseRule)

		f.findingRepository.On("ScanTypes", f.ctx, head).Return(nil, errors.New("connection reset"))
		f.licenseProvider.On("LicenseReport", f.ctx, int64(100)).Return(licenseReport(map[string][]string{"MIT": {"lodash"}}), nil)
		f.licenseProvider.On("LicenseReport", f.ctx, int64(50)).Return(nil, nil)
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, licenseRule.ID, 0).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, []models.Violation{}, []uuid.UUID{licenseRule.Policy.ID}).Return(nil)
		// the failed report type is not reported, the comment keeps its previous state
		f.commentMock().On("Execute", f.ctx, dtos.CommentParams{
			MergeRequestID: f.mr.ID,
			Reports:        []dtos.ReportEvaluation{{ReportType: dtos.ReportTypeLicenseScanning}},
		}).Return(dtos.SuccessResult())

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)

		failed := result.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, failing.ID, failed[0].RuleID)
		assert.Contains(t, failed[0].Error, "connection reset")
		assert.Equal(t, 2, failed[0].ApprovalsRequired)
		f.ruleRepository.AssertNotCalled(t, "UpdateApprovalsRequired", f.ctx, failing.ID, mock.Anything)
	})

	t.Run("should leave every rule unchanged if the violations cannot be saved", func(t *testing.T) {
		f := newApprovalFixture(t)
		rule := scanFindingRule(f.mr, highSeverityPolicy(), 2)
		rule.ApprovalsRequired = 2
		f.expectPipelines(head, target, rule)

		f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
		f.findingRepository.On("FindByPipelines", f.ctx, mock.Anything, mock.Anything).Return(findings(dtos.SeverityHigh, uuidList("old", 5)...), nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		assert.ErrorContains(t, err, "db down")
		f.ruleRepository.AssertNotCalled(t, "UpdateApprovalsRequired", mock.Anything, mock.Anything, mock.Anything)
		f.commentMock().AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("should be idempotent for the same merge request and pipeline", func(t *testing.T) {
		f := newApprovalFixture(t)
		notes := &inMemoryNoteStore{}
		f.commentService = NewPolicyViolationCommentService(f.mrRepository, f.violationRepository, notes, &mutexLocker{}, f.config)

		rule := scanFindingRule(f.mr, highSeverityPolicy(), 2)
		f.expectPipelines(head, target, rule)

		f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
		f.findingRepository.On("FindByPipelines", f.ctx, head, mock.Anything).Return(findings(dtos.SeverityHigh, uuidList("new", 5)...), nil)
		f.findingRepository.On("FindByPipelines", f.ctx, target, mock.Anything).Return([]models.SecurityFinding{}, nil)

		var persisted []models.Violation
		applied := []int{}
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, mock.Anything).Run(func(args mock.Arguments) {
			applied = append(applied, args.Int(2))
		}).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			persisted = args.Get(2).([]models.Violation)
			for i := range persisted {
				persisted[i].Policy = rule.Policy
			}
		}).Return(nil)
		f.violationRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return(func(context.Context, uuid.UUID) ([]models.Violation, error) {
			return persisted, nil
		})

		first, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		require.Len(t, notes.notes, 1)
		body := notes.notes[0].Body

		second, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)

		assert.Equal(t, []int{2, 2}, applied)
		assert.Equal(t, first.Rules, second.Rules)
		assert.True(t, second.Comment.Success)
		require.Len(t, notes.notes, 1)
		assert.Equal(t, int64(1), notes.nextID)
		assert.Equal(t, body, notes.notes[0].Body)
	})

	t.Run("should clear rules without a policy", func(t *testing.T) {
		f := newApprovalFixture(t)
		rule := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, Name: "orphan", ReportType: dtos.ReportTypeScanFinding, ApprovalsRequired: 1, ConfiguredApprovalsRequired: 1}
		f.expectPipelines(head, target, rule)

		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 0).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, []models.Violation{}, []uuid.UUID{}).Return(nil)
		f.commentMock().On("Execute", f.ctx, mock.Anything).Return(dtos.SuccessResult())

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		assert.Equal(t, dtos.ReasonNoPolicy, result.Rules[0].Reason)
		assert.False(t, result.Rules[0].Violated)
	})

	t.Run("should skip if the preconditions are not met", func(t *testing.T) {
		cases := map[string]func(f *approvalFixture){
			SkipMergeRequestNotOpen: func(f *approvalFixture) { f.mr.State = models.MergeRequestStateMerged },
			SkipPipelineIncomplete:  func(f *approvalFixture) { f.pipeline.Status = models.PipelineStatusRunning },
			SkipPipelineNoReports:   func(f *approvalFixture) { f.pipeline.CanStoreSecurityReports = false },
		}
		for expected, modify := range cases {
			f := newApprovalFixture(t)
			modify(f)
			f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
			f.pipelineRepository.On("Read", f.ctx, f.pipeline.ID).Return(&f.pipeline, nil).Maybe()

			result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
			require.NoError(t, err)
			assert.Equal(t, expected, result.Skipped)
			assert.Empty(t, result.Rules)
		}
	})

	t.Run("should count a pipeline blocked on manual jobs as complete only if configured", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.config.IncludeManualToPipelineCompletion = false
		f.pipeline.Status = models.PipelineStatusManual
		f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
		f.pipelineRepository.On("Read", f.ctx, f.pipeline.ID).Return(&f.pipeline, nil)

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		assert.Equal(t, SkipPipelineIncomplete, result.Skipped)
	})

	t.Run("should leave rules matching only persisted vulnerabilities to the sync", func(t *testing.T) {
		f := newApprovalFixture(t)
		policy := highSeverityPolicy()
		policy.VulnerabilityStates = []string{"confirmed", "dismissed"}
		rule := scanFindingRule(f.mr, policy, 1)
		f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
		f.pipelineRepository.On("Read", f.ctx, f.pipeline.ID).Return(&f.pipeline, nil)
		f.ruleRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return([]models.ApprovalRule{rule}, nil)

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		assert.Equal(t, SkipNoRules, result.Skipped)
	})

	t.Run("should evaluate detected rules against every finding of the head pipeline", func(t *testing.T) {
		f := newApprovalFixture(t)
		policy := highSeverityPolicy()
		policy.VulnerabilityStates = []string{"detected"}
		policy.VulnerabilitiesAllowed = 0
		rule := scanFindingRule(f.mr, policy, 1)
		f.expectPipelines(head, target, rule)

		f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
		f.findingRepository.On("FindByPipelines", f.ctx, head, mock.Anything).Return(findings(dtos.SeverityHigh, "a", "b", "c"), nil)
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 1).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
			return len(upserts) == 1 && upserts[0].Data.Violations.ScanFinding != nil &&
				len(upserts[0].Data.Violations.ScanFinding.UUIDs.PreviouslyExisting) == 3
		}), []uuid.UUID{}).Return(nil)
		f.commentMock().On("Execute", f.ctx, mock.Anything).Return(dtos.SuccessResult())

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		require.Len(t, result.Rules, 1)
		assert.True(t, result.Rules[0].Violated)
		f.vulnRepository.AssertNotCalled(t, "FindByFindingUUIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should not comment if no policy sends bot messages", func(t *testing.T) {
		f := newApprovalFixture(t)
		rule := scanFindingRule(f.mr, highSeverityPolicy(), 2)
		rule.Policy.SendBotMessage = false
		f.expectPipelines(head, target, rule)

		f.findingRepository.On("ScanTypes", f.ctx, mock.Anything).Return(allScans, nil)
		f.findingRepository.On("FindByPipelines", f.ctx, mock.Anything, mock.Anything).Return([]models.SecurityFinding{}, nil)
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, rule.ID, 0).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.Anything, mock.Anything).Return(nil)

		result, err := f.service().UpdateApprovals(f.ctx, f.mr.ID, f.pipeline.ID)
		require.NoError(t, err)
		assert.Nil(t, result.Comment)
	})
}

func TestSyncPreexistingStates(t *testing.T) {
	t.Run("should evaluate pre-existing rules against the persisted vulnerabilities", func(t *testing.T) {
		f := newApprovalFixture(t)
		policy := highSeverityPolicy()
		policy.VulnerabilityStates = []string{"detected"}
		policy.VulnerabilitiesAllowed = 0
		preexisting := scanFindingRule(f.mr, policy, 1)
		newlyDetected := scanFindingRule(f.mr, highSeverityPolicy(), 1)

		f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
		f.ruleRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return([]models.ApprovalRule{preexisting, newlyDetected}, nil)
		f.vulnRepository.On("FindByProject", f.ctx, f.mr.ProjectID, []dtos.VulnerabilityState{dtos.VulnerabilityStateDetected}, mock.Anything, dtos.MaxViolations+1).
			Return([]models.Vulnerability{{FindingUUID: "a"}}, nil)
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, preexisting.ID, 1).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
			return len(upserts) == 1 && upserts[0].Data.Violations.ScanFinding != nil &&
				upserts[0].Data.Violations.ScanFinding.UUIDs.PreviouslyExisting[0] == "a"
		}), []uuid.UUID{}).Return(nil)
		f.commentMock().On("Execute", f.ctx, mock.Anything).Return(dtos.SuccessResult())

		result, err := f.service().SyncPreexistingStates(f.ctx, f.mr.ID)
		require.NoError(t, err)

		require.Len(t, result.Rules, 1)
		assert.Equal(t, preexisting.ID, result.Rules[0].RuleID)
		assert.True(t, result.Rules[0].Violated)
		assert.Nil(t, result.PipelineID)
	})

	t.Run("should leave detected rules to the head pipeline once there is one", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.mr.HeadPipelineID = &f.pipeline.ID
		detected := highSeverityPolicy()
		detected.VulnerabilityStates = []string{"detected"}
		rule := scanFindingRule(f.mr, detected, 1)

		f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
		f.ruleRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return([]models.ApprovalRule{rule}, nil)

		result, err := f.service().SyncPreexistingStates(f.ctx, f.mr.ID)
		require.NoError(t, err)
		assert.Equal(t, SkipNoRules, result.Skipped)
	})

	t.Run("should skip if disabled", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.config.SyncPreexistingState = false

		result, err := f.service().SyncPreexistingStates(f.ctx, f.mr.ID)
		require.NoError(t, err)
		assert.Equal(t, SkipSyncDisabled, result.Skipped)
	})
}

func TestUnblockFailOpenRules(t *testing.T) {
	t.Run("should clear only the fail open rules", func(t *testing.T) {
		f := newApprovalFixture(t)
		failOpen := highSeverityPolicy()
		failOpen.FallbackBehavior = dtos.FallbackBehaviorOpen
		openRule := scanFindingRule(f.mr, failOpen, 2)
		closedRule := scanFindingRule(f.mr, highSeverityPolicy(), 2)

		f.mrRepository.On("Read", f.ctx, f.mr.ID).Return(&f.mr, nil)
		f.ruleRepository.On("FindByMergeRequest", f.ctx, f.mr.ID).Return([]models.ApprovalRule{openRule, closedRule}, nil)
		f.ruleRepository.On("UpdateApprovalsRequired", f.ctx, openRule.ID, 0).Return(nil)
		f.violationRepository.On("SaveViolations", f.ctx, f.mr.ID, []models.Violation{}, []uuid.UUID{openRule.Policy.ID}).Return(nil)
		f.commentMock().On("Execute", f.ctx, mock.Anything).Return(dtos.SuccessResult())

		result, err := f.service().UnblockFailOpenRules(f.ctx, f.mr.ID)
		require.NoError(t, err)

		require.Len(t, result.Rules, 1)
		assert.Equal(t, openRule.ID, result.Rules[0].RuleID)
		assert.Equal(t, dtos.ReasonFailOpen, result.Rules[0].Reason)
		f.ruleRepository.AssertNotCalled(t, "UpdateApprovalsRequired", f.ctx, closedRule.ID, mock.Anything)
	})

	t.Run("should skip if the fallback behavior is disabled", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.config.FallbackBehaviorEnabled = false

		result, err := f.service().UnblockFailOpenRules(f.ctx, f.mr.ID)
		require.NoError(t, err)
		assert.Equal(t, SkipFallbackDisabled, result.Skipped)
	})
}

func TestReportEvaluations(t *testing.T) {
	optional := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, ConfiguredApprovalsRequired: 0}
	required := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, ConfiguredApprovalsRequired: 2}
	failed := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, ConfiguredApprovalsRequired: 2}

	reports := reportEvaluations([]models.ApprovalRule{optional, required, failed}, []dtos.RuleEvaluation{
		{RuleID: optional.ID, ReportType: dtos.ReportTypeScanFinding, Violated: true},
		{RuleID: required.ID, ReportType: dtos.ReportTypeScanFinding, Violated: false},
		{RuleID: failed.ID, ReportType: dtos.ReportTypeLicenseScanning, Error: "boom"},
	})

	assert.Equal(t, []dtos.ReportEvaluation{{ReportType: dtos.ReportTypeScanFinding, Violated: true, RequiresApproval: false}}, reports)
	assert.True(t, utils.All(reports, func(r dtos.ReportEvaluation) bool { return r.ReportType != dtos.ReportTypeLicenseScanning }))
}

func TestReportEvaluationsApprovers(t *testing.T) {
	a := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, ConfiguredApprovalsRequired: 1, UserApprovers: []string{"alice"}, GroupApprovers: []string{"security"}, RoleApprovers: []string{"maintainer"}}
	b := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, ConfiguredApprovalsRequired: 1, UserApprovers: []string{"@alice", "bob"}}
	optional := models.ApprovalRule{Model: models.Model{ID: uuid.New()}, UserApprovers: []string{"carol"}}

	reports := reportEvaluations([]models.ApprovalRule{a, b, optional}, []dtos.RuleEvaluation{
		{RuleID: a.ID, ReportType: dtos.ReportTypeScanFinding, Violated: true},
		{RuleID: b.ID, ReportType: dtos.ReportTypeScanFinding, Violated: true},
		{RuleID: optional.ID, ReportType: dtos.ReportTypeScanFinding, Violated: true},
	})

	require.Len(t, reports, 1)
	assert.Equal(t, []string{"@alice", "@bob", "@security"}, reports[0].Approvers)
}

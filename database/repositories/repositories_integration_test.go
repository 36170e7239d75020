package repositories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/database/repositories"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/integrationtestutil"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoriesIntegration(t *testing.T) {
	integrationtestutil.SkipIfShort(t)

	db, _, terminate := integrationtestutil.InitDatabaseContainer()
	defer terminate()
	ctx := context.Background()

	policyRepository := repositories.NewPolicyRepository(db)
	mrRepository := repositories.NewMergeRequestRepository(db)
	ruleRepository := repositories.NewApprovalRuleRepository(db)
	violationRepository := repositories.NewViolationRepository(db)
	pipelineRepository := repositories.NewPipelineRepository(db)
	findingRepository := repositories.NewSecurityFindingRepository(db)

	policies, err := policyRepository.ReplaceForProject(ctx, nil, 1, []models.Policy{{
		Name:                   "critical vulns",
		ReportType:             dtos.ReportTypeScanFinding,
		VulnerabilitiesAllowed: 0,
		ApprovalsRequired:      2,
		FallbackBehavior:       dtos.FallbackBehaviorClosed,
	}})
	require.NoError(t, err)
	require.Len(t, policies, 1)
	policy := policies[0]

	mr := models.MergeRequest{ProjectID: 1, IID: 7, SourceBranch: "feature", TargetBranch: "main", State: models.MergeRequestStateOpened}
	require.NoError(t, mrRepository.Save(ctx, nil, &mr))
	require.NotEqual(t, uuid.Nil, mr.ID)

	t.Run("should keep policy ids stable on reload", func(t *testing.T) {
		reloaded, err := policyRepository.ReplaceForProject(ctx, nil, 1, []models.Policy{{
			Name:              "critical vulns",
			ReportType:        dtos.ReportTypeScanFinding,
			ApprovalsRequired: 2,
			FallbackBehavior:  dtos.FallbackBehaviorClosed,
		}})
		require.NoError(t, err)
		assert.Equal(t, policy.ID, reloaded[0].ID)
	})

	t.Run("should list every project with policies once", func(t *testing.T) {
		_, err := policyRepository.ReplaceForProject(ctx, nil, 2, []models.Policy{
			{Name: "a", ReportType: dtos.ReportTypeScanFinding, FallbackBehavior: dtos.FallbackBehaviorClosed},
			{Name: "b", ReportType: dtos.ReportTypeLicenseScanning, FallbackBehavior: dtos.FallbackBehaviorOpen},
		})
		require.NoError(t, err)

		projectIDs, err := policyRepository.ProjectIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, projectIDs)
	})

	t.Run("should only toggle approvals between zero and the configured value", func(t *testing.T) {
		err := ruleRepository.ReplaceForMergeRequest(ctx, nil, mr.ID, []models.ApprovalRule{{
			PolicyID:                    &policy.ID,
			Name:                        policy.Name,
			ReportType:                  dtos.ReportTypeScanFinding,
			ConfiguredApprovalsRequired: 2,
			ApprovalsRequired:           2,
		}})
		require.NoError(t, err)

		rules, err := ruleRepository.FindByMergeRequest(ctx, mr.ID)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		require.NotNil(t, rules[0].Policy)

		require.NoError(t, ruleRepository.UpdateApprovalsRequired(ctx, rules[0].ID, 0))
		rules, _ = ruleRepository.FindByMergeRequest(ctx, mr.ID)
		assert.Equal(t, 0, rules[0].ApprovalsRequired)

		// any positive value resolves to the configured one
		require.NoError(t, ruleRepository.UpdateApprovalsRequired(ctx, rules[0].ID, 5))
		rules, _ = ruleRepository.FindByMergeRequest(ctx, mr.ID)
		assert.Equal(t, 2, rules[0].ApprovalsRequired)
	})

	t.Run("should keep a single violation per merge request and policy", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			err := violationRepository.SaveViolations(ctx, mr.ID, []models.Violation{{
				PolicyID:   policy.ID,
				ProjectID:  1,
				ReportType: dtos.ReportTypeScanFinding,
				Data: dtos.ViolationData{
					Violations: dtos.ViolationPayload{ScanFinding: &dtos.ScanFindingViolation{
						UUIDs: dtos.ScanFindingUUIDs{NewlyDetected: []string{"a", "b"}},
					}},
				},
			}}, nil)
			require.NoError(t, err)
		}

		violations, err := violationRepository.FindByMergeRequest(ctx, mr.ID)
		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, []string{"a", "b"}, violations[0].Data.Violations.ScanFinding.UUIDs.NewlyDetected)

		require.NoError(t, violationRepository.SaveViolations(ctx, mr.ID, nil, []uuid.UUID{policy.ID}))
		violations, err = violationRepository.FindByMergeRequest(ctx, mr.ID)
		require.NoError(t, err)
		assert.Empty(t, violations)
	})

	t.Run("should resolve related pipelines and scan types", func(t *testing.T) {
		head := models.Pipeline{ID: 100, ProjectID: 1, Ref: "feature", SHA: "abc", Source: models.PipelineSourcePush, Status: models.PipelineStatusSuccess}
		policyPipeline := models.Pipeline{ID: 101, ProjectID: 1, Ref: "feature", SHA: "abc", Source: models.PipelineSourceSecurityOrchestrationPolicy, Status: models.PipelineStatusSuccess}
		other := models.Pipeline{ID: 102, ProjectID: 1, Ref: "feature", SHA: "def", Source: models.PipelineSourcePush, Status: models.PipelineStatusSuccess}
		for _, p := range []models.Pipeline{head, policyPipeline, other} {
			require.NoError(t, pipelineRepository.Save(ctx, nil, utils.Ptr(p)))
		}

		require.NoError(t, findingRepository.ReplaceScan(ctx, nil, &models.SecurityScan{
			PipelineID: 101,
			ScanType:   dtos.ScanTypeSAST,
			Status:     "succeeded",
			Findings: []models.SecurityFinding{
				{PipelineID: 101, UUID: "f1", Severity: dtos.SeverityHigh, ScanType: dtos.ScanTypeSAST},
				{PipelineID: 101, UUID: "f2", Severity: dtos.SeverityLow, ScanType: dtos.ScanTypeSAST},
			},
		}))

		ids, err := pipelineRepository.FindRelatedPipelineIDs(ctx, head, models.SecurityReportPipelineSources)
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 101}, ids)

		scanTypes, err := findingRepository.ScanTypes(ctx, ids)
		require.NoError(t, err)
		assert.Equal(t, []dtos.ScanType{dtos.ScanTypeSAST}, scanTypes)

		findings, err := findingRepository.FindByPipelines(ctx, ids, dtos.FindingFilter{Severities: []dtos.Severity{dtos.SeverityHigh}})
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, "f1", findings[0].UUID)

		withData, err := pipelineRepository.FindLatestWithSecurityData(ctx, 1, "feature")
		require.NoError(t, err)
		require.NotNil(t, withData)
		assert.Equal(t, int64(101), withData.ID)
	})

	t.Run("should return nil for a missing merge request", func(t *testing.T) {
		mr, err := mrRepository.FindByIID(ctx, 1, 999)
		require.NoError(t, err)
		assert.Nil(t, mr)
	})
}

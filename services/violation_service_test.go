package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func policyWithID(reportType dtos.ReportType) models.Policy {
	return models.Policy{Model: models.Model{ID: uuid.New()}, ReportType: reportType}
}

func TestViolationService(t *testing.T) {
	ctx := context.Background()
	mr := openMergeRequest()
	violationContext := &dtos.ViolationContext{PipelineIDs: []int64{100}, TargetPipelineIDs: []int64{50}}

	t.Run("should upsert violated and delete satisfied policies in one call", func(t *testing.T) {
		violationRepository := mocks.NewViolationRepository(t)
		service := NewViolationService(violationRepository)

		violated := policyWithID(dtos.ReportTypeScanFinding)
		satisfied := policyWithID(dtos.ReportTypeScanFinding)

		batch := service.NewBatch(mr, violationContext)
		batch.AddScanFindingViolation(violated, dtos.FindingDiffResult{Violated: true, NewlyDetected: uuidList("new", 15)})
		batch.MarkSatisfied(satisfied)

		violationRepository.On("SaveViolations", ctx, mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
			if len(upserts) != 1 || upserts[0].Data.Violations.ScanFinding == nil {
				return false
			}
			v := upserts[0]
			return v.PolicyID == violated.ID &&
				v.ProjectID == mr.ProjectID &&
				v.Data.Context == violationContext &&
				len(v.Data.Violations.ScanFinding.UUIDs.NewlyDetected) == dtos.MaxViolations+1
		}), []uuid.UUID{satisfied.ID}).Return(nil)

		require.NoError(t, service.Save(ctx, batch))
	})

	t.Run("should keep a policy violated if another rule of the same policy is satisfied", func(t *testing.T) {
		service := NewViolationService(mocks.NewViolationRepository(t))
		policy := policyWithID(dtos.ReportTypeScanFinding)

		batch := service.NewBatch(mr, violationContext)
		batch.AddScanFindingViolation(policy, dtos.FindingDiffResult{Violated: true, PreviouslyExisting: []string{"a"}})
		batch.MarkSatisfied(policy)

		assert.Len(t, batch.Violations(), 1)
		assert.Empty(t, batch.satisfied)
	})

	t.Run("should merge the violations of several rules of the same policy", func(t *testing.T) {
		service := NewViolationService(mocks.NewViolationRepository(t))
		policy := policyWithID(dtos.ReportTypeScanFinding)

		batch := service.NewBatch(mr, violationContext)
		batch.MarkSatisfied(policy)
		batch.AddScanFindingViolation(policy, dtos.FindingDiffResult{Violated: true, Errors: []dtos.ViolationError{{Error: dtos.ViolationErrorTargetMissing}}})

		violations := batch.Violations()
		require.Len(t, violations, 1)
		assert.Nil(t, violations[0].Data.Violations.ScanFinding)
		assert.Equal(t, []dtos.ViolationError{{Error: dtos.ViolationErrorTargetMissing}}, violations[0].Data.Errors)
		assert.Empty(t, batch.satisfied)
	})

	t.Run("should deduplicate errors before saving", func(t *testing.T) {
		violationRepository := mocks.NewViolationRepository(t)
		service := NewViolationService(violationRepository)
		policy := policyWithID(dtos.ReportTypeScanFinding)

		batch := service.NewBatch(mr, violationContext)
		scanRemoved := dtos.ViolationError{Error: dtos.ViolationErrorScanRemoved, MissingScans: []string{"sast"}}
		batch.AddScanFindingViolation(policy, dtos.FindingDiffResult{Violated: true, Errors: []dtos.ViolationError{scanRemoved}})
		batch.AddScanFindingViolation(policy, dtos.FindingDiffResult{Violated: true, Errors: []dtos.ViolationError{scanRemoved}})

		violationRepository.On("SaveViolations", ctx, mr.ID, mock.MatchedBy(func(upserts []models.Violation) bool {
			return len(upserts) == 1 && len(upserts[0].Data.Errors) == 1
		}), []uuid.UUID{}).Return(nil)

		require.NoError(t, service.Save(ctx, batch))
	})

	t.Run("should truncate license dependencies", func(t *testing.T) {
		service := NewViolationService(mocks.NewViolationRepository(t))
		policy := policyWithID(dtos.ReportTypeLicenseScanning)

		batch := service.NewBatch(mr, violationContext)
		batch.AddLicenseViolation(policy, dtos.LicenseCheckResult{Violated: true, Violations: map[string][]string{"GPL-3.0": uuidList("dep", 20)}})

		violations := batch.Violations()
		require.Len(t, violations, 1)
		assert.Len(t, violations[0].Data.Violations.LicenseScanning["GPL-3.0"], dtos.MaxViolations+1)
		assert.Equal(t, dtos.ReportTypeLicenseScanning, violations[0].ReportType)
	})

	t.Run("should be safe for concurrent use", func(t *testing.T) {
		service := NewViolationService(mocks.NewViolationRepository(t))
		batch := service.NewBatch(mr, violationContext)

		wg := sync.WaitGroup{}
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				batch.AddScanFindingViolation(policyWithID(dtos.ReportTypeScanFinding), dtos.FindingDiffResult{Violated: true, NewlyDetected: []string{"a"}})
			}()
		}
		wg.Wait()

		assert.Len(t, batch.Violations(), 20)
	})

	t.Run("should wrap repository errors", func(t *testing.T) {
		violationRepository := mocks.NewViolationRepository(t)
		service := NewViolationService(violationRepository)
		violationRepository.On("SaveViolations", ctx, mr.ID, mock.Anything, mock.Anything).Return(errors.New("deadlock detected"))

		err := service.Save(ctx, service.NewBatch(mr, violationContext))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deadlock detected")
	})
}

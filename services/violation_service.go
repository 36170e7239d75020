package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
)

type ViolationService struct {
	violationRepository shared.ViolationRepository
}

func NewViolationService(violationRepository shared.ViolationRepository) *ViolationService {
	return &ViolationService{violationRepository: violationRepository}
}

// ViolationBatch collects the outcome of one evaluation pass. Rules are evaluated in parallel,
// so every method is safe for concurrent use.
type ViolationBatch struct {
	mu             sync.Mutex
	mergeRequestID uuid.UUID
	projectID      int64
	context        *dtos.ViolationContext
	violations     map[uuid.UUID]*models.Violation
	satisfied      map[uuid.UUID]struct{}
}

func (s *ViolationService) NewBatch(mr models.MergeRequest, context *dtos.ViolationContext) *ViolationBatch {
	return &ViolationBatch{
		mergeRequestID: mr.ID,
		projectID:      mr.ProjectID,
		context:        context,
		violations:     make(map[uuid.UUID]*models.Violation),
		satisfied:      make(map[uuid.UUID]struct{}),
	}
}

func (b *ViolationBatch) violation(policy models.Policy) *models.Violation {
	delete(b.satisfied, policy.ID)
	v, ok := b.violations[policy.ID]
	if !ok {
		v = &models.Violation{
			MergeRequestID: b.mergeRequestID,
			PolicyID:       policy.ID,
			ProjectID:      b.projectID,
			ReportType:     policy.ReportType,
			Data:           dtos.ViolationData{Context: b.context},
		}
		b.violations[policy.ID] = v
	}
	return v
}

func (b *ViolationBatch) AddScanFindingViolation(policy models.Policy, result dtos.FindingDiffResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.violation(policy)
	if len(result.NewlyDetected) > 0 || len(result.PreviouslyExisting) > 0 {
		v.Data.Violations.ScanFinding = &dtos.ScanFindingViolation{
			UUIDs: dtos.ScanFindingUUIDs{
				NewlyDetected:      dtos.TrimViolations(result.NewlyDetected),
				PreviouslyExisting: dtos.TrimViolations(result.PreviouslyExisting),
			},
		}
	}
	v.Data.Errors = append(v.Data.Errors, result.Errors...)
}

func (b *ViolationBatch) AddLicenseViolation(policy models.Policy, result dtos.LicenseCheckResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.violation(policy)
	if len(result.Violations) > 0 {
		licenses := make(map[string][]string, len(result.Violations))
		for license, dependencies := range result.Violations {
			licenses[license] = dtos.TrimViolations(dependencies)
		}
		v.Data.Violations.LicenseScanning = licenses
	}
	v.Data.Errors = append(v.Data.Errors, result.Errors...)
}

// MarkSatisfied removes a persisted violation of the policy on save.
// A policy marked violated by another rule of the same pass stays violated.
func (b *ViolationBatch) MarkSatisfied(policy models.Policy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, violated := b.violations[policy.ID]; violated {
		return
	}
	b.satisfied[policy.ID] = struct{}{}
}

func (b *ViolationBatch) Violations() []models.Violation {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := make([]models.Violation, 0, len(b.violations))
	for _, v := range b.violations {
		res = append(res, *v)
	}
	slices.SortFunc(res, func(a, b models.Violation) int {
		return strings.Compare(a.PolicyID.String(), b.PolicyID.String())
	})
	return res
}

// Save writes the batch in one transaction. Policies neither violated nor satisfied, for example because
// evaluating them failed, keep their persisted violation.
func (s *ViolationService) Save(ctx context.Context, batch *ViolationBatch) error {
	upserts := batch.Violations()
	for i := range upserts {
		upserts[i].Data.Errors = utils.UniqBy(upserts[i].Data.Errors, func(e dtos.ViolationError) string {
			return string(e.Error) + fmt.Sprint(e.MissingScans)
		})
	}

	batch.mu.Lock()
	deletes := make([]uuid.UUID, 0, len(batch.satisfied))
	for policyID := range batch.satisfied {
		deletes = append(deletes, policyID)
	}
	batch.mu.Unlock()
	slices.SortFunc(deletes, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})

	if err := s.violationRepository.SaveViolations(ctx, batch.mergeRequestID, upserts, deletes); err != nil {
		return fmt.Errorf("could not save violations of merge request %s: %w", batch.mergeRequestID, err)
	}
	return nil
}

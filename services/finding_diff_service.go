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
	"fmt"
	"slices"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
)

type findingDiffService struct {
	findingRepository       shared.SecurityFindingRepository
	vulnerabilityRepository shared.VulnerabilityRepository
	config                  EvaluationConfig
}

func NewFindingDiffService(findingRepository shared.SecurityFindingRepository, vulnerabilityRepository shared.VulnerabilityRepository, config EvaluationConfig) *findingDiffService {
	return &findingDiffService{
		findingRepository:       findingRepository,
		vulnerabilityRepository: vulnerabilityRepository,
		config:                  config,
	}
}

func (s *findingDiffService) failOpen(policy models.Policy) bool {
	return s.config.FallbackBehaviorEnabled && policy.FailOpen()
}

func findingFilter(policy models.Policy) dtos.FindingFilter {
	return dtos.FindingFilter{
		ScanTypes:     policy.ScanTypes(),
		Severities:    policy.Severities(),
		FixAvailable:  policy.VulnerabilityAttributes.FixAvailable,
		FalsePositive: policy.VulnerabilityAttributes.FalsePositive,
	}
}

// Diff does not persist anything. All returned uuid lists are sorted and untruncated.
func (s *findingDiffService) Diff(ctx context.Context, policy models.Policy, comparison dtos.PipelineComparison) (dtos.FindingDiffResult, error) {
	headScanTypes, err := s.findingRepository.ScanTypes(ctx, comparison.PipelineIDs)
	if err != nil {
		return dtos.FindingDiffResult{}, fmt.Errorf("could not fetch scan types of the head pipelines: %w", err)
	}
	targetScanTypes, err := s.findingRepository.ScanTypes(ctx, comparison.TargetPipelineIDs)
	if err != nil {
		return dtos.FindingDiffResult{}, fmt.Errorf("could not fetch scan types of the target pipelines: %w", err)
	}

	if missing := missingScans(policy, headScanTypes, targetScanTypes); len(missing) > 0 {
		return s.missingScansResult(policy, comparison, missing), nil
	}

	if policy.IncludesNewlyDetected() && baselineMissing(policy, comparison, targetScanTypes) {
		return s.fallbackResult(policy, dtos.ViolationErrorTargetMissing), nil
	}

	filter := findingFilter(policy)
	headFindings, err := s.findingRepository.FindByPipelines(ctx, comparison.PipelineIDs, filter)
	if err != nil {
		return dtos.FindingDiffResult{}, fmt.Errorf("could not fetch head findings: %w", err)
	}
	headUUIDs := utils.SortedUniq(utils.Map(headFindings, findingUUID))

	result := dtos.FindingDiffResult{}

	if policy.IncludesNewlyDetected() {
		// the baseline is matched by uuid only. Severity or attribute changes do not make a finding new.
		targetFindings, err := s.findingRepository.FindByPipelines(ctx, comparison.TargetPipelineIDs, dtos.FindingFilter{ScanTypes: filter.ScanTypes})
		if err != nil {
			return dtos.FindingDiffResult{}, fmt.Errorf("could not fetch target findings: %w", err)
		}
		targetUUIDs := utils.SortedUniq(utils.Map(targetFindings, findingUUID))
		newUUIDs := utils.Difference(headUUIDs, targetUUIDs)

		result.NewlyDetected, err = s.classifyNewlyDetected(ctx, policy, comparison.ProjectID, newUUIDs)
		if err != nil {
			return dtos.FindingDiffResult{}, err
		}
	}

	if policy.IncludesDetected() || len(policy.PersistedStates()) > 0 {
		existing, err := s.previouslyExisting(ctx, policy, comparison.ProjectID, headUUIDs)
		if err != nil {
			return dtos.FindingDiffResult{}, err
		}
		result.PreviouslyExisting = utils.Difference(existing, result.NewlyDetected)
	}

	result.Violated = result.Count() > policy.VulnerabilitiesAllowed
	if result.Violated {
		result.Reason = dtos.ReasonViolated
	} else {
		result.Reason = dtos.ReasonSatisfied
	}
	return result, nil
}

// Preexisting counts the persisted vulnerabilities of the project. Used when no pipeline is involved.
func (s *findingDiffService) Preexisting(ctx context.Context, policy models.Policy, projectID int64) (dtos.FindingDiffResult, error) {
	states := policy.PreexistingStates()
	if len(states) == 0 {
		return dtos.FindingDiffResult{Reason: dtos.ReasonSatisfied}, nil
	}
	// one more than allowed is enough to decide, MaxViolations+1 is enough to render
	limit := max(policy.VulnerabilitiesAllowed+1, dtos.MaxViolations+1)
	vulns, err := s.vulnerabilityRepository.FindByProject(ctx, projectID, states, findingFilter(policy), limit)
	if err != nil {
		return dtos.FindingDiffResult{}, fmt.Errorf("could not fetch vulnerabilities: %w", err)
	}

	result := dtos.FindingDiffResult{
		PreviouslyExisting: utils.SortedUniq(utils.Map(vulns, vulnerabilityUUID)),
	}
	result.Violated = len(result.PreviouslyExisting) > policy.VulnerabilitiesAllowed
	if result.Violated {
		result.Reason = dtos.ReasonPreexistingViolated
	} else {
		result.Reason = dtos.ReasonSatisfied
	}
	return result, nil
}

// previouslyExisting returns every matching head finding for detected, it is independent of the baseline.
// The other pre-existing states are looked up on the persisted vulnerabilities.
func (s *findingDiffService) previouslyExisting(ctx context.Context, policy models.Policy, projectID int64, headUUIDs []string) ([]string, error) {
	existing := []string{}
	if policy.IncludesDetected() {
		existing = append(existing, headUUIDs...)
	}
	if states := policy.PersistedStates(); len(states) > 0 {
		vulns, err := s.vulnerabilityRepository.FindByFindingUUIDs(ctx, projectID, headUUIDs, states)
		if err != nil {
			return nil, fmt.Errorf("could not fetch vulnerabilities: %w", err)
		}
		existing = append(existing, utils.Map(vulns, vulnerabilityUUID)...)
	}
	return utils.SortedUniq(existing), nil
}

// classifyNewlyDetected narrows the new uuids down to the configured new states.
// new_needs_triage are findings without a dismissed vulnerability, new_dismissed the ones with.
func (s *findingDiffService) classifyNewlyDetected(ctx context.Context, policy models.Policy, projectID int64, newUUIDs []string) ([]string, error) {
	states := policy.NewlyDetectedStates()
	needsTriage := slices.Contains(states, dtos.VulnerabilityStateNewNeedsTriage)
	dismissed := slices.Contains(states, dtos.VulnerabilityStateNewDismissed)
	if (needsTriage && dismissed) || len(newUUIDs) == 0 {
		return newUUIDs, nil
	}

	dismissedVulns, err := s.vulnerabilityRepository.FindByFindingUUIDs(ctx, projectID, newUUIDs, []dtos.VulnerabilityState{dtos.VulnerabilityStateDismissed})
	if err != nil {
		return nil, fmt.Errorf("could not fetch dismissed vulnerabilities: %w", err)
	}
	dismissedUUIDs := utils.Map(dismissedVulns, vulnerabilityUUID)

	if dismissed {
		return utils.Intersect(newUUIDs, dismissedUUIDs), nil
	}
	return utils.Difference(newUUIDs, dismissedUUIDs), nil
}

func (s *findingDiffService) missingScansResult(policy models.Policy, comparison dtos.PipelineComparison, missing []dtos.ScanType) dtos.FindingDiffResult {
	result := dtos.FindingDiffResult{MissingScans: missing}
	removedByMR := utils.All(missing, func(scanType dtos.ScanType) bool {
		return slices.Contains(comparison.ScansRemovedByMR, scanType)
	})
	switch {
	case removedByMR:
		result.Reason = dtos.ReasonScannerRemovedByMR
	case s.failOpen(policy):
		result.Reason = dtos.ReasonFailOpen
	default:
		result.Violated = true
		result.Reason = dtos.ReasonScanRemoved
		result.Errors = []dtos.ViolationError{{
			Error:        dtos.ViolationErrorScanRemoved,
			MissingScans: utils.ConvertStrings[string](missing),
		}}
	}
	return result
}

func (s *findingDiffService) fallbackResult(policy models.Policy, errorType dtos.ViolationErrorType) dtos.FindingDiffResult {
	if s.failOpen(policy) {
		return dtos.FindingDiffResult{Reason: dtos.ReasonFailOpen}
	}
	return dtos.FindingDiffResult{
		Violated: true,
		Reason:   dtos.ReasonFailClosed,
		Errors:   []dtos.ViolationError{{Error: errorType}},
	}
}

// missingScans returns the scan types the target ran but the head did not, limited to the scanners of the policy.
func missingScans(policy models.Policy, head, target []dtos.ScanType) []dtos.ScanType {
	missing := utils.Difference(target, head)
	if scanners := policy.ScanTypes(); len(scanners) > 0 {
		missing = utils.Intersect(missing, scanners)
	}
	return utils.SortedUniq(missing)
}

// baselineMissing reports whether the newly detected findings cannot be told apart from existing ones.
func baselineMissing(policy models.Policy, comparison dtos.PipelineComparison, targetScanTypes []dtos.ScanType) bool {
	if len(comparison.TargetPipelineIDs) == 0 {
		return true
	}
	for _, scanner := range policy.ScanTypes() {
		if !slices.Contains(targetScanTypes, scanner) {
			return true
		}
	}
	return false
}

func findingUUID(f models.SecurityFinding) string {
	return f.UUID
}

func vulnerabilityUUID(v models.Vulnerability) string {
	return v.FindingUUID
}

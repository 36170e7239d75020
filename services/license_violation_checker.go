package services

import (
	"slices"
	"strings"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/normalize"
)

type licenseViolationChecker struct {
	config EvaluationConfig
}

func NewLicenseViolationChecker(config EvaluationConfig) *licenseViolationChecker {
	return &licenseViolationChecker{config: config}
}

// Check compares the head license report against the baseline. A nil head means the merge request pipeline
// produced no license report, a nil baseline that the target pipeline did not.
func (c *licenseViolationChecker) Check(head *normalize.LicenseReport, baseline *normalize.LicenseReport, policy models.Policy) dtos.LicenseCheckResult {
	if head == nil {
		return c.fallback(policy, dtos.ViolationErrorArtifactsMissing, dtos.ReasonArtifactsMissing)
	}

	detected := policy.HasLicenseState(dtos.LicenseStateDetected)
	if !detected && baseline == nil {
		return c.fallback(policy, dtos.ViolationErrorTargetMissing, dtos.ReasonFailClosed)
	}

	violations := make(map[string][]string)
	for _, license := range head.LicenseNames() {
		if !licenseDenied(policy, license) {
			continue
		}
		for _, dependency := range head.Licenses[license] {
			if !detected && baseline.Has(license, dependency) {
				continue
			}
			violations[license] = append(violations[license], dependency)
		}
	}

	if len(violations) == 0 {
		return dtos.LicenseCheckResult{Reason: dtos.ReasonLicenseSatisfied}
	}
	for license, dependencies := range violations {
		violations[license] = dtos.TrimViolations(dependencies)
	}
	return dtos.LicenseCheckResult{
		Violated:   true,
		Reason:     dtos.ReasonLicenseViolated,
		Violations: violations,
	}
}

func (c *licenseViolationChecker) fallback(policy models.Policy, errorType dtos.ViolationErrorType, reason string) dtos.LicenseCheckResult {
	if c.config.FallbackBehaviorEnabled && policy.FailOpen() {
		return dtos.LicenseCheckResult{Reason: dtos.ReasonFailOpen}
	}
	return dtos.LicenseCheckResult{
		Violated: true,
		Reason:   reason,
		Errors:   []dtos.ViolationError{{Error: errorType}},
	}
}

// licenseDenied treats the license list as a deny list when matching on inclusion and as an allow list otherwise.
func licenseDenied(policy models.Policy, license string) bool {
	listed := slices.ContainsFunc(policy.LicenseTypes, func(l string) bool {
		return strings.EqualFold(strings.TrimSpace(l), license)
	})
	if policy.MatchOnInclusion {
		return listed
	}
	return !listed
}

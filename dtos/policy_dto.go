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

package dtos

import "slices"

type ReportType string

const (
	ReportTypeScanFinding     ReportType = "scan_finding"
	ReportTypeLicenseScanning ReportType = "license_scanning"
)

// ordering used whenever report types are rendered or encoded
var KnownReportTypes = []ReportType{
	ReportTypeLicenseScanning,
	ReportTypeScanFinding,
}

func (r ReportType) IsKnown() bool {
	return slices.Contains(KnownReportTypes, r)
}

type VulnerabilityState string

const (
	// pre-existing states. These match vulnerabilities which are already persisted.
	VulnerabilityStateDetected  VulnerabilityState = "detected"
	VulnerabilityStateConfirmed VulnerabilityState = "confirmed"
	VulnerabilityStateDismissed VulnerabilityState = "dismissed"
	VulnerabilityStateResolved  VulnerabilityState = "resolved"

	// new states. These match findings which are only present in the merge request pipeline.
	VulnerabilityStateNewlyDetected  VulnerabilityState = "newly_detected"
	VulnerabilityStateNewNeedsTriage VulnerabilityState = "new_needs_triage"
	VulnerabilityStateNewDismissed   VulnerabilityState = "new_dismissed"
)

var NewlyDetectedStates = []VulnerabilityState{
	VulnerabilityStateNewlyDetected,
	VulnerabilityStateNewNeedsTriage,
	VulnerabilityStateNewDismissed,
}

func (s VulnerabilityState) IsNewlyDetected() bool {
	return slices.Contains(NewlyDetectedStates, s)
}

type LicenseState string

const (
	LicenseStateDetected      LicenseState = "detected"
	LicenseStateNewlyDetected LicenseState = "newly_detected"
)

type FallbackBehavior string

const (
	FallbackBehaviorOpen   FallbackBehavior = "open"
	FallbackBehaviorClosed FallbackBehavior = "closed"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
	SeverityUnknown  Severity = "unknown"
)

type ScanType string

const (
	ScanTypeSAST                 ScanType = "sast"
	ScanTypeSecretDetection      ScanType = "secret_detection"
	ScanTypeDependencyScanning   ScanType = "dependency_scanning"
	ScanTypeContainerScanning    ScanType = "container_scanning"
	ScanTypeDAST                 ScanType = "dast"
	ScanTypeCoverageFuzzing      ScanType = "coverage_fuzzing"
	ScanTypeAPIFuzzing           ScanType = "api_fuzzing"
	ScanTypeClusterImageScanning ScanType = "cluster_image_scanning"
)

// VulnerabilityAttributes narrows down which findings a rule considers.
// A nil pointer means the attribute is not filtered on.
type VulnerabilityAttributes struct {
	FixAvailable  *bool `json:"fix_available,omitempty" yaml:"fix_available,omitempty"`
	FalsePositive *bool `json:"false_positive,omitempty" yaml:"false_positive,omitempty"`
}

// PolicyFileDTO is the yaml document of a security policy project.
type PolicyFileDTO struct {
	ApprovalPolicy []ApprovalPolicyDTO `yaml:"approval_policy" validate:"dive"`
}

type ApprovalPolicyDTO struct {
	Name             string               `yaml:"name" validate:"required"`
	Description      string               `yaml:"description"`
	Enabled          bool                 `yaml:"enabled"`
	Rules            []PolicyRuleDTO      `yaml:"rules" validate:"required,min=1,dive"`
	Actions          []PolicyActionDTO    `yaml:"actions" validate:"dive"`
	FallbackBehavior *FallbackBehaviorDTO `yaml:"fallback_behavior"`
}

type FallbackBehaviorDTO struct {
	Fail FallbackBehavior `yaml:"fail" validate:"omitempty,oneof=open closed"`
}

type PolicyRuleDTO struct {
	Type                    string                   `yaml:"type" validate:"required,oneof=scan_finding license_finding"`
	Branches                []string                 `yaml:"branches"`
	Scanners                []string                 `yaml:"scanners" validate:"dive,oneof=sast secret_detection dependency_scanning container_scanning dast coverage_fuzzing api_fuzzing cluster_image_scanning"`
	VulnerabilitiesAllowed  int                      `yaml:"vulnerabilities_allowed" validate:"gte=0"`
	SeverityLevels          []string                 `yaml:"severity_levels" validate:"dive,oneof=critical high medium low info unknown"`
	VulnerabilityStates     []string                 `yaml:"vulnerability_states" validate:"dive,oneof=detected confirmed dismissed resolved newly_detected new_needs_triage new_dismissed"`
	VulnerabilityAttributes *VulnerabilityAttributes `yaml:"vulnerability_attributes"`
	LicenseStates           []string                 `yaml:"license_states" validate:"dive,oneof=detected newly_detected"`
	LicenseTypes            []string                 `yaml:"license_types"`
	MatchOnInclusion        *bool                    `yaml:"match_on_inclusion_license"`
}

type PolicyActionDTO struct {
	Type              string   `yaml:"type" validate:"required,oneof=require_approval send_bot_message"`
	ApprovalsRequired int      `yaml:"approvals_required" validate:"gte=0,lte=100"`
	UserApprovers     []string `yaml:"user_approvers"`
	GroupApprovers    []string `yaml:"group_approvers"`
	RoleApprovers     []string `yaml:"role_approvers"`
	Enabled           *bool    `yaml:"enabled"`
}

const (
	PolicyRuleTypeScanFinding    = "scan_finding"
	PolicyRuleTypeLicenseFinding = "license_finding"

	PolicyActionRequireApproval = "require_approval"
	PolicyActionSendBotMessage  = "send_bot_message"
)

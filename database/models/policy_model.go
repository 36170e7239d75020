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

package models

import (
	"slices"

	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/utils"
)

// Policy is a single rule of an approval policy. A policy document with multiple
// rules results in one Policy row per rule.
type Policy struct {
	Model
	ProjectID   int64           `json:"projectId" gorm:"not null;index"`
	Name        string          `json:"name" gorm:"type:text;not null"`
	Description string          `json:"description" gorm:"type:text"`
	RuleIndex   int             `json:"ruleIndex" gorm:"not null;default:0"`
	ReportType  dtos.ReportType `json:"reportType" gorm:"type:text;not null"`
	Branches    []string        `json:"branches" gorm:"type:jsonb;not null;serializer:json"`

	Scanners                []string                     `json:"scanners" gorm:"type:jsonb;not null;serializer:json"`
	VulnerabilitiesAllowed  int                          `json:"vulnerabilitiesAllowed" gorm:"not null;default:0"`
	SeverityLevels          []string                     `json:"severityLevels" gorm:"type:jsonb;not null;serializer:json"`
	VulnerabilityStates     []string                     `json:"vulnerabilityStates" gorm:"type:jsonb;not null;serializer:json"`
	VulnerabilityAttributes dtos.VulnerabilityAttributes `json:"vulnerabilityAttributes" gorm:"type:jsonb;not null;serializer:json"`

	LicenseStates    []string `json:"licenseStates" gorm:"type:jsonb;not null;serializer:json"`
	LicenseTypes     []string `json:"licenseTypes" gorm:"type:jsonb;not null;serializer:json"`
	MatchOnInclusion bool     `json:"matchOnInclusion" gorm:"not null;default:true"`

	FallbackBehavior  dtos.FallbackBehavior `json:"fallbackBehavior" gorm:"type:text;not null;default:'closed'"`
	ApprovalsRequired int                   `json:"approvalsRequired" gorm:"not null;default:0"`
	SendBotMessage    bool                  `json:"sendBotMessage" gorm:"not null;default:true"`

	UserApprovers  []string `json:"userApprovers" gorm:"type:jsonb;not null;serializer:json"`
	GroupApprovers []string `json:"groupApprovers" gorm:"type:jsonb;not null;serializer:json"`
	RoleApprovers  []string `json:"roleApprovers" gorm:"type:jsonb;not null;serializer:json"`
}

func (Policy) TableName() string {
	return "scan_result_policies"
}

func (p Policy) FailOpen() bool {
	return p.FallbackBehavior == dtos.FallbackBehaviorOpen
}

func (p Policy) ScanTypes() []dtos.ScanType {
	return utils.ConvertStrings[dtos.ScanType](p.Scanners)
}

func (p Policy) Severities() []dtos.Severity {
	return utils.ConvertStrings[dtos.Severity](p.SeverityLevels)
}

// States returns the configured vulnerability states. No states means newly detected.
func (p Policy) States() []dtos.VulnerabilityState {
	if len(p.VulnerabilityStates) == 0 {
		return []dtos.VulnerabilityState{dtos.VulnerabilityStateNewlyDetected}
	}
	return utils.ConvertStrings[dtos.VulnerabilityState](p.VulnerabilityStates)
}

// NewlyDetectedStates expands newly_detected into new_needs_triage and new_dismissed.
func (p Policy) NewlyDetectedStates() []dtos.VulnerabilityState {
	res := make([]dtos.VulnerabilityState, 0, 2)
	for _, state := range p.States() {
		switch state {
		case dtos.VulnerabilityStateNewlyDetected:
			res = append(res, dtos.VulnerabilityStateNewNeedsTriage, dtos.VulnerabilityStateNewDismissed)
		case dtos.VulnerabilityStateNewNeedsTriage, dtos.VulnerabilityStateNewDismissed:
			res = append(res, state)
		}
	}
	return utils.Uniq(res)
}

// PreexistingStates returns the states which match already persisted vulnerabilities.
func (p Policy) PreexistingStates() []dtos.VulnerabilityState {
	return utils.Filter(p.States(), func(state dtos.VulnerabilityState) bool {
		return !state.IsNewlyDetected()
	})
}

// PersistedStates are the pre-existing states which can only be answered by persisted vulnerabilities.
// detected is left out, a pipeline answers it with its own findings.
func (p Policy) PersistedStates() []dtos.VulnerabilityState {
	return utils.Filter(p.PreexistingStates(), func(state dtos.VulnerabilityState) bool {
		return state != dtos.VulnerabilityStateDetected
	})
}

func (p Policy) IncludesDetected() bool {
	return slices.Contains(p.States(), dtos.VulnerabilityStateDetected)
}

func (p Policy) IncludesNewlyDetected() bool {
	return len(p.NewlyDetectedStates()) > 0
}

func (p Policy) LicenseStateSet() []dtos.LicenseState {
	if len(p.LicenseStates) == 0 {
		return []dtos.LicenseState{dtos.LicenseStateNewlyDetected}
	}
	return utils.ConvertStrings[dtos.LicenseState](p.LicenseStates)
}

func (p Policy) HasLicenseState(state dtos.LicenseState) bool {
	return slices.Contains(p.LicenseStateSet(), state)
}

// AppliesToBranch reports whether the policy targets the given branch. No branches means all branches.
func (p Policy) AppliesToBranch(branch string) bool {
	if len(p.Branches) == 0 {
		return true
	}
	return slices.Contains(p.Branches, branch)
}

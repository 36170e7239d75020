package models

import "github.com/l3montree-dev/policyguard/dtos"

// Vulnerability is the long lived record a finding gets promoted to once it reached the default branch.
type Vulnerability struct {
	Model
	ProjectID   int64                   `json:"projectId" gorm:"not null;uniqueIndex:idx_vuln_project_uuid"`
	FindingUUID string                  `json:"findingUuid" gorm:"type:text;not null;uniqueIndex:idx_vuln_project_uuid"`
	State       dtos.VulnerabilityState `json:"state" gorm:"type:text;not null;default:'detected'"`
	Severity    dtos.Severity           `json:"severity" gorm:"type:text;not null"`
	ScanType    dtos.ScanType           `json:"scanType" gorm:"type:text;not null"`
}

func (Vulnerability) TableName() string {
	return "vulnerabilities"
}

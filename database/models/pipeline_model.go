package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/dtos"
	"gorm.io/datatypes"
)

type PipelineStatus string

const (
	PipelineStatusCreated  PipelineStatus = "created"
	PipelineStatusRunning  PipelineStatus = "running"
	PipelineStatusManual   PipelineStatus = "manual"
	PipelineStatusSuccess  PipelineStatus = "success"
	PipelineStatusFailed   PipelineStatus = "failed"
	PipelineStatusCanceled PipelineStatus = "canceled"
	PipelineStatusSkipped  PipelineStatus = "skipped"
)

type PipelineSource string

const (
	PipelineSourcePush                        PipelineSource = "push"
	PipelineSourceWeb                         PipelineSource = "web"
	PipelineSourceSchedule                    PipelineSource = "schedule"
	PipelineSourceMergeRequestEvent           PipelineSource = "merge_request_event"
	PipelineSourceSecurityOrchestrationPolicy PipelineSource = "security_orchestration_policy"
)

// sources which may contribute security reports to a merge request
var SecurityReportPipelineSources = []PipelineSource{
	PipelineSourcePush,
	PipelineSourceWeb,
	PipelineSourceSchedule,
	PipelineSourceMergeRequestEvent,
	PipelineSourceSecurityOrchestrationPolicy,
}

type Pipeline struct {
	// the id of the pipeline in the ci system
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProjectID int64          `json:"projectId" gorm:"not null;index:idx_pipeline_ref"`
	Ref       string         `json:"ref" gorm:"type:text;not null;index:idx_pipeline_ref"`
	SHA       string         `json:"sha" gorm:"type:text;not null;index"`
	Source    PipelineSource `json:"source" gorm:"type:text;not null"`
	Status    PipelineStatus `json:"status" gorm:"type:text;not null"`

	// only set for merged results pipelines
	MergeRequestID *uuid.UUID `json:"mergeRequestId" gorm:"type:uuid"`
	SourceSHA      string     `json:"sourceSha" gorm:"type:text"`
	TargetSHA      string     `json:"targetSha" gorm:"type:text"`

	CanStoreSecurityReports bool `json:"canStoreSecurityReports" gorm:"not null;default:false"`
	// scan types whose jobs were removed by a ci configuration change of the merge request
	ConfigRemovedScanTypes []string `json:"configRemovedScanTypes" gorm:"type:jsonb;not null;default:'[]';serializer:json"`

	Scans []SecurityScan `json:"scans,omitempty" gorm:"foreignKey:PipelineID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Pipeline) TableName() string {
	return "pipelines"
}

func (p Pipeline) IsMergedResults() bool {
	return p.Source == PipelineSourceMergeRequestEvent && p.TargetSHA != "" && p.MergeRequestID != nil
}

// IsComplete reports whether the pipeline reached a final state.
// Pipelines blocked on manual jobs count as complete when includeManual is set.
func (p Pipeline) IsComplete(includeManual bool) bool {
	switch p.Status {
	case PipelineStatusSuccess, PipelineStatusFailed, PipelineStatusCanceled, PipelineStatusSkipped:
		return true
	case PipelineStatusManual:
		return includeManual
	default:
		return false
	}
}

type SecurityScan struct {
	Model
	PipelineID int64             `json:"pipelineId" gorm:"not null;index"`
	ScanType   dtos.ScanType     `json:"scanType" gorm:"type:text;not null"`
	Status     string            `json:"status" gorm:"type:text;not null;default:'succeeded'"`
	Findings   []SecurityFinding `json:"findings,omitempty" gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE;"`
}

func (SecurityScan) TableName() string {
	return "security_scans"
}

type SecurityFinding struct {
	Model
	ScanID        uuid.UUID     `json:"scanId" gorm:"type:uuid;not null;index"`
	PipelineID    int64         `json:"pipelineId" gorm:"not null;index"`
	UUID          string        `json:"uuid" gorm:"type:text;not null;index"`
	Severity      dtos.Severity `json:"severity" gorm:"type:text;not null"`
	ScanType      dtos.ScanType `json:"scanType" gorm:"type:text;not null"`
	Name          string        `json:"name" gorm:"type:text"`
	Location      string        `json:"location" gorm:"type:text"`
	FixAvailable  bool          `json:"fixAvailable" gorm:"not null;default:false"`
	FalsePositive bool          `json:"falsePositive" gorm:"not null;default:false"`
}

func (SecurityFinding) TableName() string {
	return "security_findings"
}

type PipelineSBOM struct {
	PipelineID int64          `json:"pipelineId" gorm:"primaryKey;autoIncrement:false"`
	SBOM       datatypes.JSON `json:"sbom" gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (PipelineSBOM) TableName() string {
	return "pipeline_sboms"
}

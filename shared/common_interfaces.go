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

package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/normalize"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

type PipelineRepository interface {
	Read(ctx context.Context, id int64) (*models.Pipeline, error)
	List(ctx context.Context, ids []int64) ([]models.Pipeline, error)
	// FindRelatedPipelineIDs returns every pipeline of the same project, ref and sha whose source is one of the given sources.
	// The pipeline itself is always part of the result.
	FindRelatedPipelineIDs(ctx context.Context, pipeline models.Pipeline, sources []models.PipelineSource) ([]int64, error)
	// FindLatestForSHA returns the latest completed pipeline of the ref at the given sha.
	FindLatestForSHA(ctx context.Context, projectID int64, ref, sha string) (*models.Pipeline, error)
	// FindLatestWithSecurityData returns the latest pipeline of the ref which produced at least one security scan.
	FindLatestWithSecurityData(ctx context.Context, projectID int64, ref string) (*models.Pipeline, error)
	// FindMergeBasePipeline returns the latest pipeline at the merge base sha which produced security scans.
	FindMergeBasePipeline(ctx context.Context, projectID int64, ref, sha string) (*models.Pipeline, error)
	Save(ctx context.Context, tx DB, pipeline *models.Pipeline) error
	Transaction(ctx context.Context, fn func(tx DB) error) error
}

type SecurityFindingRepository interface {
	FindByPipelines(ctx context.Context, pipelineIDs []int64, filter dtos.FindingFilter) ([]models.SecurityFinding, error)
	// ScanTypes returns the distinct scan types of the succeeded scans of the pipelines.
	ScanTypes(ctx context.Context, pipelineIDs []int64) ([]dtos.ScanType, error)
	// ReplaceScan stores the scan with its findings and removes a previous scan of the same type.
	ReplaceScan(ctx context.Context, tx DB, scan *models.SecurityScan) error
}

type VulnerabilityRepository interface {
	FindByFindingUUIDs(ctx context.Context, projectID int64, uuids []string, states []dtos.VulnerabilityState) ([]models.Vulnerability, error)
	// FindByProject returns the persisted vulnerabilities of the project in one of the states.
	FindByProject(ctx context.Context, projectID int64, states []dtos.VulnerabilityState, filter dtos.FindingFilter, limit int) ([]models.Vulnerability, error)
	Upsert(ctx context.Context, tx DB, vulnerabilities []models.Vulnerability) error
}

type PipelineSBOMRepository interface {
	Read(ctx context.Context, pipelineID int64) (*models.PipelineSBOM, error)
	Save(ctx context.Context, tx DB, sbom *models.PipelineSBOM) error
}

// LicenseReportProvider returns nil without error if the pipeline has no license report.
type LicenseReportProvider interface {
	LicenseReport(ctx context.Context, pipelineID int64) (*normalize.LicenseReport, error)
	Invalidate(pipelineID int64)
}

type MergeRequestRepository interface {
	Read(ctx context.Context, id uuid.UUID) (*models.MergeRequest, error)
	FindByIID(ctx context.Context, projectID int64, iid int64) (*models.MergeRequest, error)
	FindOpenByHeadPipeline(ctx context.Context, pipelineID int64) ([]models.MergeRequest, error)
	FindOpenByProject(ctx context.Context, projectID int64) ([]models.MergeRequest, error)
	Save(ctx context.Context, tx DB, mr *models.MergeRequest) error
}

type ApprovalRuleRepository interface {
	// FindByMergeRequest returns the policy backed rules of the merge request with their policy preloaded.
	FindByMergeRequest(ctx context.Context, mergeRequestID uuid.UUID) ([]models.ApprovalRule, error)
	// UpdateApprovalsRequired writes the value in a single statement.
	UpdateApprovalsRequired(ctx context.Context, ruleID uuid.UUID, approvalsRequired int) error
	// ReplaceForMergeRequest upserts the rules on (merge_request_id, policy_id) and removes every other rule of the merge request.
	ReplaceForMergeRequest(ctx context.Context, tx DB, mergeRequestID uuid.UUID, rules []models.ApprovalRule) error
}

type ViolationRepository interface {
	FindByMergeRequest(ctx context.Context, mergeRequestID uuid.UUID) ([]models.Violation, error)
	// SaveViolations upserts the given violations and deletes the violations of the given policies in one transaction.
	SaveViolations(ctx context.Context, mergeRequestID uuid.UUID, upserts []models.Violation, deletePolicyIDs []uuid.UUID) error
}

type PolicyRepository interface {
	FindByProject(ctx context.Context, projectID int64) ([]models.Policy, error)
	// ProjectIDs returns every project with at least one policy.
	ProjectIDs(ctx context.Context) ([]int64, error)
	// ReplaceForProject swaps every policy of the project. Approval rules and violations of removed policies cascade.
	ReplaceForProject(ctx context.Context, tx DB, projectID int64, policies []models.Policy) ([]models.Policy, error)
	Transaction(ctx context.Context, fn func(tx DB) error) error
}

// Note is a comment on a merge request.
type Note struct {
	ID       int64
	AuthorID int64
	Body     string
}

type NoteStore interface {
	ListMergeRequestNotes(ctx context.Context, mr models.MergeRequest) ([]Note, error)
	CreateMergeRequestNote(ctx context.Context, mr models.MergeRequest, body string) (*Note, error)
	UpdateMergeRequestNote(ctx context.Context, mr models.MergeRequest, noteID int64, body string) (*Note, error)
}

// NoteValidationError is returned by a NoteStore if the note was rejected.
type NoteValidationError struct {
	Messages []string
}

func (e *NoteValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "note is invalid"
	}
	msg := e.Messages[0]
	for _, m := range e.Messages[1:] {
		msg += ", " + m
	}
	return msg
}

// GitlabClientFacade is the part of the gitlab api the note store and the merge request sync use.
type GitlabClientFacade interface {
	Whoami(ctx context.Context) (*gitlab.User, *gitlab.Response, error)
	GetMergeRequest(ctx context.Context, projectID int, iid int) (*gitlab.MergeRequest, *gitlab.Response, error)
	ListMergeRequestNotes(ctx context.Context, projectID int, iid int, opt *gitlab.ListMergeRequestNotesOptions) ([]*gitlab.Note, *gitlab.Response, error)
	CreateMergeRequestNote(ctx context.Context, projectID int, iid int, opt *gitlab.CreateMergeRequestNoteOptions) (*gitlab.Note, *gitlab.Response, error)
	UpdateMergeRequestNote(ctx context.Context, projectID int, iid int, noteID int, opt *gitlab.UpdateMergeRequestNoteOptions) (*gitlab.Note, *gitlab.Response, error)
}

var ErrFailedToObtainLock = errors.New("failed to obtain an exclusive lock")

type Locker interface {
	// Lock blocks until the lock is held or the timeout elapsed. The returned func releases the lock.
	Lock(ctx context.Context, key string, timeout time.Duration) (func(), error)
}

type LeaderElector interface {
	IsLeader() bool
}

type FindingDiffService interface {
	Diff(ctx context.Context, policy models.Policy, comparison dtos.PipelineComparison) (dtos.FindingDiffResult, error)
	// Preexisting evaluates the policy against the persisted vulnerabilities of the project only.
	Preexisting(ctx context.Context, policy models.Policy, projectID int64) (dtos.FindingDiffResult, error)
}

type LicenseViolationChecker interface {
	Check(head *normalize.LicenseReport, baseline *normalize.LicenseReport, policy models.Policy) dtos.LicenseCheckResult
}

type RelatedPipelinesResolver interface {
	// ComparisonPipelineIDs returns the baseline pipeline and its related pipelines. Empty if there is no baseline.
	ComparisonPipelineIDs(ctx context.Context, mr models.MergeRequest, pipeline models.Pipeline) ([]int64, error)
	RelatedPipelineIDs(ctx context.Context, pipeline models.Pipeline) ([]int64, error)
}

type PolicyViolationCommentService interface {
	Execute(ctx context.Context, params dtos.CommentParams) dtos.ServiceResult
}

type ApprovalService interface {
	UpdateApprovals(ctx context.Context, mergeRequestID uuid.UUID, pipelineID int64) (dtos.EvaluationResult, error)
	SyncPreexistingStates(ctx context.Context, mergeRequestID uuid.UUID) (dtos.EvaluationResult, error)
	UnblockFailOpenRules(ctx context.Context, mergeRequestID uuid.UUID) (dtos.EvaluationResult, error)
}

type PolicyService interface {
	LoadPolicies(ctx context.Context, projectID int64, document []byte) ([]models.Policy, error)
	MaterializeApprovalRules(ctx context.Context, mr models.MergeRequest) ([]models.ApprovalRule, error)
}

type ReportIngestionService interface {
	// IngestSecurityReport stores the scan of the pipeline. With promote set the findings become persisted vulnerabilities of the project.
	IngestSecurityReport(ctx context.Context, pipeline models.Pipeline, report []byte, promote bool) (*models.SecurityScan, error)
	IngestSBOM(ctx context.Context, pipeline models.Pipeline, sbom []byte) error
	CompletePipeline(ctx context.Context, pipeline models.Pipeline) error
}

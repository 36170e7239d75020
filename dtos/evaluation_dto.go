package dtos

import "github.com/google/uuid"

const (
	ReasonViolated            = "vulnerabilities exceed the allowed threshold"
	ReasonSatisfied           = "no vulnerabilities exceed the allowed threshold"
	ReasonScannerRemovedByMR  = "Scanner removed by MR"
	ReasonScanRemoved         = "scans of the target pipeline are missing in the merge request pipeline"
	ReasonFailOpen            = "comparison data is unavailable and the policy fails open"
	ReasonFailClosed          = "comparison data is unavailable and the policy fails closed"
	ReasonLicenseViolated     = "dependencies use denied licenses"
	ReasonLicenseSatisfied    = "no dependency uses a denied license"
	ReasonArtifactsMissing    = "license report of the merge request pipeline is missing"
	ReasonNoPolicy            = "rule is not backed by a policy"
	ReasonPreexistingViolated = "pre-existing vulnerabilities exceed the allowed threshold"
)

// PipelineComparison lists the pipelines a merge request evaluation compares.
type PipelineComparison struct {
	ProjectID int64
	// the head pipeline and its related pipelines
	PipelineIDs []int64
	// the baseline pipeline and its related pipelines. Empty if there is no baseline.
	TargetPipelineIDs []int64
	// scan types whose jobs the merge request removed from the ci configuration
	ScansRemovedByMR []ScanType
}

func (c PipelineComparison) Context() *ViolationContext {
	return &ViolationContext{
		PipelineIDs:       c.PipelineIDs,
		TargetPipelineIDs: c.TargetPipelineIDs,
	}
}

type FindingDiffResult struct {
	Violated bool
	Reason   string
	// uuids of the qualifying findings absent from the baseline
	NewlyDetected []string
	// uuids of the qualifying persisted vulnerabilities
	PreviouslyExisting []string
	MissingScans       []ScanType
	Errors             []ViolationError
}

func (r FindingDiffResult) Count() int {
	return len(r.NewlyDetected) + len(r.PreviouslyExisting)
}

type LicenseCheckResult struct {
	Violated   bool
	Reason     string
	Violations map[string][]string
	Errors     []ViolationError
}

// CommentParams is the outcome of one evaluation pass per report type.
type CommentParams struct {
	MergeRequestID uuid.UUID
	Reports        []ReportEvaluation
}

package dtos

// MaxViolations bounds every stored list of offending identifiers. Lists are
// cut to MaxViolations+1 entries, the extra entry signals truncation.
const MaxViolations = 10

type ViolationErrorType string

const (
	ViolationErrorScanRemoved      ViolationErrorType = "SCAN_REMOVED"
	ViolationErrorArtifactsMissing ViolationErrorType = "ARTIFACTS_MISSING"
	ViolationErrorTargetMissing    ViolationErrorType = "TARGET_PIPELINE_MISSING"
	ViolationErrorUnknown          ViolationErrorType = "UNKNOWN"
)

type ViolationContext struct {
	PipelineIDs       []int64 `json:"pipeline_ids"`
	TargetPipelineIDs []int64 `json:"target_pipeline_ids"`
}

type ScanFindingUUIDs struct {
	NewlyDetected      []string `json:"newly_detected,omitempty"`
	PreviouslyExisting []string `json:"previously_existing,omitempty"`
}

type ScanFindingViolation struct {
	UUIDs ScanFindingUUIDs `json:"uuids"`
}

type ViolationPayload struct {
	ScanFinding     *ScanFindingViolation `json:"scan_finding,omitempty"`
	LicenseScanning map[string][]string   `json:"license_scanning,omitempty"`
}

type ViolationError struct {
	Error        ViolationErrorType `json:"error"`
	MissingScans []string           `json:"missing_scans,omitempty"`
}

// ViolationData is stored as jsonb next to each violation record.
type ViolationData struct {
	Context    *ViolationContext `json:"context,omitempty"`
	Violations ViolationPayload  `json:"violations"`
	Errors     []ViolationError  `json:"errors,omitempty"`
}

func (d ViolationData) IsEmpty() bool {
	return d.Violations.ScanFinding == nil && len(d.Violations.LicenseScanning) == 0 && len(d.Errors) == 0
}

// TrimViolations cuts a list to MaxViolations+1 entries.
func TrimViolations[T any](items []T) []T {
	if len(items) <= MaxViolations+1 {
		return items
	}
	return items[:MaxViolations+1]
}

package dtos

// FindingFilter scopes a finding query. Empty slices do not filter.
type FindingFilter struct {
	ScanTypes     []ScanType
	Severities    []Severity
	FixAvailable  *bool
	FalsePositive *bool
}

// SecurityReportDTO is the subset of the gitlab security report format the engine reads.
type SecurityReportDTO struct {
	Version         string                      `json:"version"`
	Scan            SecurityReportScanDTO       `json:"scan" validate:"required"`
	Vulnerabilities []SecurityReportFindingDTO  `json:"vulnerabilities" validate:"dive"`
	Remediations    []SecurityReportRemediation `json:"remediations,omitempty"`
}

type SecurityReportScanDTO struct {
	Type   ScanType `json:"type" validate:"required"`
	Status string   `json:"status"`
}

type SecurityReportFindingDTO struct {
	ID          string                     `json:"id" validate:"required"`
	Name        string                     `json:"name"`
	Severity    Severity                   `json:"severity"`
	Solution    string                     `json:"solution,omitempty"`
	Location    map[string]any             `json:"location,omitempty"`
	Flags       []SecurityReportFlagDTO    `json:"flags,omitempty"`
	Identifiers []SecurityReportIdentifier `json:"identifiers,omitempty"`
	CVSSVectors []SecurityReportCVSSVector `json:"cvss_vectors,omitempty"`
}

type SecurityReportCVSSVector struct {
	Vendor string `json:"vendor"`
	Vector string `json:"vector"`
}

type SecurityReportFlagDTO struct {
	Type        string `json:"type"`
	Origin      string `json:"origin,omitempty"`
	Description string `json:"description,omitempty"`
}

type SecurityReportIdentifier struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SecurityReportRemediation struct {
	Fixes   []SecurityReportFix `json:"fixes"`
	Summary string              `json:"summary"`
}

type SecurityReportFix struct {
	ID string `json:"id"`
}

const SecurityReportFlagFalsePositive = "flagged-as-likely-false-positive"

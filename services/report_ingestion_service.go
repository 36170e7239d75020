package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/normalize"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

var findingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("policyguard/security-finding"))

type reportIngestionService struct {
	pipelineRepository        shared.PipelineRepository
	securityFindingRepository shared.SecurityFindingRepository
	vulnerabilityRepository   shared.VulnerabilityRepository
	sbomRepository            shared.PipelineSBOMRepository
	licenseReportProvider     shared.LicenseReportProvider
	broker                    shared.PubSubBroker
}

func NewReportIngestionService(
	pipelineRepository shared.PipelineRepository,
	securityFindingRepository shared.SecurityFindingRepository,
	vulnerabilityRepository shared.VulnerabilityRepository,
	sbomRepository shared.PipelineSBOMRepository,
	licenseReportProvider shared.LicenseReportProvider,
	broker shared.PubSubBroker,
) *reportIngestionService {
	return &reportIngestionService{
		pipelineRepository:        pipelineRepository,
		securityFindingRepository: securityFindingRepository,
		vulnerabilityRepository:   vulnerabilityRepository,
		sbomRepository:            sbomRepository,
		licenseReportProvider:     licenseReportProvider,
		broker:                    broker,
	}
}

// FindingUUID is stable across pipelines of the same project, so a finding can be diffed between pipelines.
func FindingUUID(projectID int64, scanType dtos.ScanType, finding dtos.SecurityReportFindingDTO) string {
	identifier := finding.ID
	if len(finding.Identifiers) > 0 {
		identifier = finding.Identifiers[0].Type + ":" + finding.Identifiers[0].Value
	}
	// map keys are marshalled in sorted order
	location, _ := json.Marshal(finding.Location)
	return uuid.NewSHA1(findingNamespace, fmt.Appendf(nil, "%s-%s-%s-%d", scanType, identifier, location, projectID)).String()
}

func findingLocation(location map[string]any) string {
	if file, ok := location["file"].(string); ok {
		if line, ok := location["start_line"].(float64); ok {
			return fmt.Sprintf("%s:%d", file, int(line))
		}
		return file
	}
	if image, ok := location["image"].(string); ok {
		return image
	}
	return ""
}

// ParseSecurityReport converts a security report into a scan with its findings.
func ParseSecurityReport(pipeline models.Pipeline, report []byte) (*models.SecurityScan, error) {
	if err := normalize.ValidateSecurityReport(report); err != nil {
		return nil, errors.Wrap(err, "invalid security report")
	}

	var dto dtos.SecurityReportDTO
	if err := json.Unmarshal(report, &dto); err != nil {
		return nil, errors.Wrap(err, "could not parse security report")
	}
	if err := shared.V.Struct(dto); err != nil {
		return nil, errors.Wrap(err, "invalid security report")
	}

	fixed := make([]string, 0)
	for _, remediation := range dto.Remediations {
		for _, fix := range remediation.Fixes {
			fixed = append(fixed, fix.ID)
		}
	}

	status := dto.Scan.Status
	if status == "" {
		status = "succeeded"
	}
	scan := &models.SecurityScan{
		PipelineID: pipeline.ID,
		ScanType:   dto.Scan.Type,
		Status:     status,
		Findings:   make([]models.SecurityFinding, 0, len(dto.Vulnerabilities)),
	}
	for _, vuln := range dto.Vulnerabilities {
		severity := dtos.Severity(strings.ToLower(string(vuln.Severity)))
		if severity == "" || severity == dtos.SeverityUnknown {
			severity = severityFromCVSS(vuln.CVSSVectors)
		}
		falsePositive := utils.Any(vuln.Flags, func(flag dtos.SecurityReportFlagDTO) bool {
			return flag.Type == dtos.SecurityReportFlagFalsePositive
		})
		scan.Findings = append(scan.Findings, models.SecurityFinding{
			PipelineID:    pipeline.ID,
			UUID:          FindingUUID(pipeline.ProjectID, dto.Scan.Type, vuln),
			Severity:      severity,
			ScanType:      dto.Scan.Type,
			Name:          vuln.Name,
			Location:      findingLocation(vuln.Location),
			FixAvailable:  vuln.Solution != "" || slices.Contains(fixed, vuln.ID),
			FalsePositive: falsePositive,
		})
	}
	// the same finding may be reported at several places with identical fingerprints
	scan.Findings = utils.UniqBy(scan.Findings, func(f models.SecurityFinding) string {
		return f.UUID
	})
	return scan, nil
}

// severityFromCVSS rates the first parsable vector with the cvss qualitative severity scale.
func severityFromCVSS(vectors []dtos.SecurityReportCVSSVector) dtos.Severity {
	for _, v := range vectors {
		score, err := normalize.CVSSBaseScore(v.Vector)
		if err != nil {
			slog.Debug("could not parse cvss vector", "vector", v.Vector, "err", err)
			continue
		}
		switch {
		case score >= 9.0:
			return dtos.SeverityCritical
		case score >= 7.0:
			return dtos.SeverityHigh
		case score >= 4.0:
			return dtos.SeverityMedium
		case score > 0:
			return dtos.SeverityLow
		default:
			return dtos.SeverityInfo
		}
	}
	return dtos.SeverityUnknown
}

func (s *reportIngestionService) IngestSecurityReport(ctx context.Context, pipeline models.Pipeline, report []byte, promote bool) (*models.SecurityScan, error) {
	scan, err := ParseSecurityReport(pipeline, report)
	if err != nil {
		return nil, err
	}

	err = s.pipelineRepository.Transaction(ctx, func(tx shared.DB) error {
		if err := s.pipelineRepository.Save(ctx, tx, &pipeline); err != nil {
			return errors.Wrap(err, "could not save pipeline")
		}
		if err := s.securityFindingRepository.ReplaceScan(ctx, tx, scan); err != nil {
			return errors.Wrap(err, "could not save security scan")
		}
		if !promote || len(scan.Findings) == 0 {
			return nil
		}
		vulns := utils.Map(scan.Findings, func(f models.SecurityFinding) models.Vulnerability {
			return models.Vulnerability{
				ProjectID:   pipeline.ProjectID,
				FindingUUID: f.UUID,
				State:       dtos.VulnerabilityStateDetected,
				Severity:    f.Severity,
				ScanType:    f.ScanType,
			}
		})
		return errors.Wrap(s.vulnerabilityRepository.Upsert(ctx, tx, vulns), "could not promote vulnerabilities")
	})
	if err != nil {
		return nil, err
	}

	slog.Info("ingested security report", "pipelineID", pipeline.ID, "scanType", scan.ScanType, "findings", len(scan.Findings), "promoted", promote)
	return scan, nil
}

func (s *reportIngestionService) IngestSBOM(ctx context.Context, pipeline models.Pipeline, sbom []byte) error {
	report, err := normalize.ParseLicenseReportBytes(sbom)
	if err != nil {
		return errors.Wrap(err, "invalid sbom")
	}

	err = s.pipelineRepository.Transaction(ctx, func(tx shared.DB) error {
		if err := s.pipelineRepository.Save(ctx, tx, &pipeline); err != nil {
			return errors.Wrap(err, "could not save pipeline")
		}
		return s.sbomRepository.Save(ctx, tx, &models.PipelineSBOM{
			PipelineID: pipeline.ID,
			SBOM:       datatypes.JSON(sbom),
		})
	})
	if err != nil {
		return err
	}
	s.licenseReportProvider.Invalidate(pipeline.ID)

	slog.Info("ingested sbom", "pipelineID", pipeline.ID, "licenses", len(report.LicenseNames()))
	return nil
}

// CompletePipeline stores the final pipeline state and notifies the evaluation daemon.
func (s *reportIngestionService) CompletePipeline(ctx context.Context, pipeline models.Pipeline) error {
	if err := s.pipelineRepository.Save(ctx, nil, &pipeline); err != nil {
		return errors.Wrap(err, "could not save pipeline")
	}

	return s.broker.Publish(ctx, shared.NewPipelineCompletedMessage(dtos.PipelineCompletedEvent{
		PipelineID: pipeline.ID,
		ProjectID:  pipeline.ProjectID,
		Ref:        pipeline.Ref,
		SHA:        pipeline.SHA,
	}))
}

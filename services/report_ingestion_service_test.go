package services

import (
	"context"
	"testing"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/mocks"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const dependencyScanningReport = `{
  "version": "15.0.0",
  "scan": {"type": "dependency_scanning", "status": "success"},
  "vulnerabilities": [
    {
      "id": "f1",
      "name": "Prototype pollution in lodash",
      "severity": "high",
      "location": {"file": "package-lock.json", "dependency": {"package": {"name": "lodash"}}},
      "identifiers": [{"type": "cve", "name": "CVE-2020-8203", "value": "CVE-2020-8203"}]
    },
    {
      "id": "f2",
      "name": "Same finding reported twice",
      "severity": "high",
      "location": {"file": "package-lock.json", "dependency": {"package": {"name": "lodash"}}},
      "identifiers": [{"type": "cve", "name": "CVE-2020-8203", "value": "CVE-2020-8203"}]
    },
    {
      "id": "f3",
      "name": "Hardcoded secret",
      "location": {"file": "main.go", "start_line": 12},
      "flags": [{"type": "flagged-as-likely-false-positive", "origin": "vet"}]
    },
    {
      "id": "f4",
      "name": "Outdated base image",
      "severity": "low",
      "location": {"image": "alpine:3.12"},
      "solution": "Upgrade the base image"
    }
  ],
  "remediations": [{"fixes": [{"id": "f1"}], "summary": "Upgrade lodash"}]
}`

const cyclonedxSBOM = `{
  "bomFormat": "CycloneDX",
  "specVersion": "1.5",
  "components": [
    {"type": "library", "name": "lodash", "purl": "pkg:npm/lodash@4.17.21", "licenses": [{"license": {"id": "MIT"}}]},
    {"type": "library", "name": "gpl-lib", "purl": "pkg:npm/gpl-lib@1.0.0", "licenses": [{"license": {"id": "GPL-3.0"}}]}
  ]
}`

func reportPipeline() models.Pipeline {
	return models.Pipeline{ID: 100, ProjectID: 1, Ref: "main", SHA: "abc", Source: models.PipelineSourcePush, Status: models.PipelineStatusSuccess, CanStoreSecurityReports: true}
}

func TestParseSecurityReport(t *testing.T) {
	scan, err := ParseSecurityReport(reportPipeline(), []byte(dependencyScanningReport))
	require.NoError(t, err)

	assert.Equal(t, dtos.ScanTypeDependencyScanning, scan.ScanType)
	assert.Equal(t, "success", scan.Status)
	// f1 and f2 share the identifier and location
	require.Len(t, scan.Findings, 3)

	lodash := scan.Findings[0]
	assert.Equal(t, dtos.SeverityHigh, lodash.Severity)
	assert.True(t, lodash.FixAvailable)
	assert.Equal(t, "package-lock.json", lodash.Location)
	assert.Equal(t, int64(100), lodash.PipelineID)

	secret := scan.Findings[1]
	assert.Equal(t, dtos.SeverityUnknown, secret.Severity)
	assert.True(t, secret.FalsePositive)
	assert.False(t, secret.FixAvailable)
	assert.Equal(t, "main.go:12", secret.Location)

	image := scan.Findings[2]
	assert.True(t, image.FixAvailable)
	assert.Equal(t, "alpine:3.12", image.Location)

	t.Run("should reject reports without a scan type", func(t *testing.T) {
		_, err := ParseSecurityReport(reportPipeline(), []byte(`{"vulnerabilities": []}`))
		assert.Error(t, err)
	})

	t.Run("should default the scan status", func(t *testing.T) {
		scan, err := ParseSecurityReport(reportPipeline(), []byte(`{"scan": {"type": "sast"}, "vulnerabilities": []}`))
		require.NoError(t, err)
		assert.Equal(t, "succeeded", scan.Status)
		assert.Empty(t, scan.Findings)
	})
}

func TestSeverityFromCVSS(t *testing.T) {
	t.Run("should rate the first parsable vector", func(t *testing.T) {
		vectors := []dtos.SecurityReportCVSSVector{
			{Vendor: "broken", Vector: "CVSS:3.1/AV:X"},
			{Vendor: "GitLab", Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"},
		}
		assert.Equal(t, dtos.SeverityCritical, severityFromCVSS(vectors))
	})

	t.Run("should be unknown without vectors", func(t *testing.T) {
		assert.Equal(t, dtos.SeverityUnknown, severityFromCVSS(nil))
	})

	t.Run("should be used when the report has no severity", func(t *testing.T) {
		report := `{"scan": {"type": "dependency_scanning"}, "vulnerabilities": [
			{"id": "a", "severity": "High"},
			{"id": "b", "cvss_vectors": [{"vendor": "GitLab", "vector": "CVSS:3.1/AV:N/AC:H/PR:L/UI:R/S:U/C:L/I:N/A:N"}]}
		]}`
		scan, err := ParseSecurityReport(reportPipeline(), []byte(report))
		require.NoError(t, err)
		require.Len(t, scan.Findings, 2)

		bySeverity := map[dtos.Severity]bool{}
		for _, f := range scan.Findings {
			bySeverity[f.Severity] = true
		}
		assert.True(t, bySeverity[dtos.SeverityHigh])
		assert.True(t, bySeverity[dtos.SeverityLow])
	})
}

func TestFindingUUID(t *testing.T) {
	finding := dtos.SecurityReportFindingDTO{
		ID:          "f1",
		Location:    map[string]any{"file": "go.sum", "dependency": map[string]any{"package": map[string]any{"name": "x"}}},
		Identifiers: []dtos.SecurityReportIdentifier{{Type: "cve", Value: "CVE-2024-0001"}},
	}

	t.Run("should be stable across pipelines and report ids", func(t *testing.T) {
		other := finding
		other.ID = "another-id"
		assert.Equal(t, FindingUUID(1, dtos.ScanTypeDependencyScanning, finding), FindingUUID(1, dtos.ScanTypeDependencyScanning, other))
	})

	t.Run("should differ between projects and scan types", func(t *testing.T) {
		base := FindingUUID(1, dtos.ScanTypeDependencyScanning, finding)
		assert.NotEqual(t, base, FindingUUID(2, dtos.ScanTypeDependencyScanning, finding))
		assert.NotEqual(t, base, FindingUUID(1, dtos.ScanTypeContainerScanning, finding))
	})

	t.Run("should fall back to the report id without identifiers", func(t *testing.T) {
		a := dtos.SecurityReportFindingDTO{ID: "a"}
		b := dtos.SecurityReportFindingDTO{ID: "b"}
		assert.NotEqual(t, FindingUUID(1, dtos.ScanTypeSAST, a), FindingUUID(1, dtos.ScanTypeSAST, b))
	})
}

func TestReportIngestionService(t *testing.T) {
	ctx := context.Background()

	type fixture struct {
		pipelineRepository *mocks.PipelineRepository
		findingRepository  *mocks.SecurityFindingRepository
		vulnRepository     *mocks.VulnerabilityRepository
		sbomRepository     *mocks.PipelineSBOMRepository
		licenseProvider    *mocks.LicenseReportProvider
		broker             *mocks.PubSubBroker
	}
	newFixture := func(t *testing.T) (fixture, *reportIngestionService) {
		f := fixture{
			pipelineRepository: mocks.NewPipelineRepository(t),
			findingRepository:  mocks.NewSecurityFindingRepository(t),
			vulnRepository:     mocks.NewVulnerabilityRepository(t),
			sbomRepository:     mocks.NewPipelineSBOMRepository(t),
			licenseProvider:    mocks.NewLicenseReportProvider(t),
			broker:             mocks.NewPubSubBroker(t),
		}
		return f, NewReportIngestionService(f.pipelineRepository, f.findingRepository, f.vulnRepository, f.sbomRepository, f.licenseProvider, f.broker)
	}

	t.Run("should store the scan without promoting it", func(t *testing.T) {
		f, service := newFixture(t)
		f.pipelineRepository.On("Transaction", ctx, mock.Anything).Return(runTransaction)
		f.pipelineRepository.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.findingRepository.On("ReplaceScan", ctx, mock.Anything, mock.MatchedBy(func(scan *models.SecurityScan) bool {
			return len(scan.Findings) == 3
		})).Return(nil)

		scan, err := service.IngestSecurityReport(ctx, reportPipeline(), []byte(dependencyScanningReport), false)
		require.NoError(t, err)
		assert.Len(t, scan.Findings, 3)
	})

	t.Run("should promote findings to detected vulnerabilities", func(t *testing.T) {
		f, service := newFixture(t)
		f.pipelineRepository.On("Transaction", ctx, mock.Anything).Return(runTransaction)
		f.pipelineRepository.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.findingRepository.On("ReplaceScan", ctx, mock.Anything, mock.Anything).Return(nil)
		f.vulnRepository.On("Upsert", ctx, mock.Anything, mock.MatchedBy(func(vulns []models.Vulnerability) bool {
			return len(vulns) == 3 && vulns[0].State == dtos.VulnerabilityStateDetected && vulns[0].ProjectID == 1
		})).Return(nil)

		_, err := service.IngestSecurityReport(ctx, reportPipeline(), []byte(dependencyScanningReport), true)
		require.NoError(t, err)
	})

	t.Run("should store the sbom and invalidate the cached license report", func(t *testing.T) {
		f, service := newFixture(t)
		f.pipelineRepository.On("Transaction", ctx, mock.Anything).Return(runTransaction)
		f.pipelineRepository.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.sbomRepository.On("Save", ctx, mock.Anything, mock.MatchedBy(func(sbom *models.PipelineSBOM) bool {
			return sbom.PipelineID == 100
		})).Return(nil)
		f.licenseProvider.On("Invalidate", int64(100)).Return()

		require.NoError(t, service.IngestSBOM(ctx, reportPipeline(), []byte(cyclonedxSBOM)))
	})

	t.Run("should reject an invalid sbom", func(t *testing.T) {
		_, service := newFixture(t)
		assert.Error(t, service.IngestSBOM(ctx, reportPipeline(), []byte("not json")))
	})

	t.Run("should publish the completion of a pipeline", func(t *testing.T) {
		f, service := newFixture(t)
		f.pipelineRepository.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.broker.On("Publish", ctx, mock.MatchedBy(func(message shared.PubSubMessage) bool {
			return message.GetChannel() == shared.PipelineCompleted &&
				message.GetPayload()["pipelineId"] == int64(100) &&
				message.GetPayload()["sha"] == "abc"
		})).Return(nil)

		require.NoError(t, service.CompletePipeline(ctx, reportPipeline()))
	})
}

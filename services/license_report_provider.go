package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/normalize"
	"github.com/l3montree-dev/policyguard/shared"
)

type licenseReportProvider struct {
	sbomRepository shared.PipelineSBOMRepository
	cache          *expirable.LRU[int64, *normalize.LicenseReport]
}

func NewLicenseReportProvider(sbomRepository shared.PipelineSBOMRepository) *licenseReportProvider {
	return &licenseReportProvider{
		sbomRepository: sbomRepository,
		// the target branch report is read by every merge request evaluated against it
		cache: expirable.NewLRU[int64, *normalize.LicenseReport](512, nil, 15*time.Minute),
	}
}

func (p *licenseReportProvider) LicenseReport(ctx context.Context, pipelineID int64) (*normalize.LicenseReport, error) {
	if cached, ok := p.cache.Get(pipelineID); ok {
		monitoring.LicenseReportCacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	}
	monitoring.LicenseReportCacheHits.WithLabelValues("miss").Inc()

	sbom, err := p.sbomRepository.Read(ctx, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("could not read sbom of pipeline %d: %w", pipelineID, err)
	}
	if sbom == nil {
		// the sbom may still be uploaded, absence is not cached
		return nil, nil
	}

	report, err := normalize.ParseLicenseReportBytes(sbom.SBOM)
	if err != nil {
		return nil, fmt.Errorf("could not parse sbom of pipeline %d: %w", pipelineID, err)
	}
	p.cache.Add(pipelineID, report)
	return report, nil
}

func (p *licenseReportProvider) Invalidate(pipelineID int64) {
	p.cache.Remove(pipelineID)
}

// mergedLicenseReport combines the reports of all pipelines. Nil if none of them has a report.
func mergedLicenseReport(ctx context.Context, provider shared.LicenseReportProvider, pipelineIDs []int64) (*normalize.LicenseReport, error) {
	reports := make([]*normalize.LicenseReport, 0, len(pipelineIDs))
	for _, id := range pipelineIDs {
		report, err := provider.LicenseReport(ctx, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return normalize.MergeLicenseReports(reports...), nil
}

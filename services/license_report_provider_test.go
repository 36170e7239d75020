package services

import (
	"context"
	"testing"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestLicenseReportProvider(t *testing.T) {
	ctx := context.Background()
	sbom := &models.PipelineSBOM{PipelineID: 100, SBOM: datatypes.JSON(cyclonedxSBOM)}

	t.Run("should parse the sbom once and serve it from the cache", func(t *testing.T) {
		sbomRepository := mocks.NewPipelineSBOMRepository(t)
		sbomRepository.On("Read", ctx, int64(100)).Return(sbom, nil).Once()
		provider := NewLicenseReportProvider(sbomRepository)

		first, err := provider.LicenseReport(ctx, 100)
		require.NoError(t, err)
		second, err := provider.LicenseReport(ctx, 100)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.True(t, first.Has("GPL-3.0", "gpl-lib"))
		assert.True(t, first.Has("MIT", "lodash"))
	})

	t.Run("should not cache a missing report", func(t *testing.T) {
		sbomRepository := mocks.NewPipelineSBOMRepository(t)
		sbomRepository.On("Read", ctx, int64(101)).Return(nil, nil).Once()
		sbomRepository.On("Read", ctx, int64(101)).Return(sbom, nil).Once()
		provider := NewLicenseReportProvider(sbomRepository)

		report, err := provider.LicenseReport(ctx, 101)
		require.NoError(t, err)
		assert.Nil(t, report)

		report, err = provider.LicenseReport(ctx, 101)
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.True(t, report.Has("MIT", "lodash"))
	})

	t.Run("should reload the report after it was invalidated", func(t *testing.T) {
		sbomRepository := mocks.NewPipelineSBOMRepository(t)
		sbomRepository.On("Read", ctx, int64(100)).Return(sbom, nil).Twice()
		provider := NewLicenseReportProvider(sbomRepository)

		first, err := provider.LicenseReport(ctx, 100)
		require.NoError(t, err)

		provider.Invalidate(100)

		second, err := provider.LicenseReport(ctx, 100)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
	})

	t.Run("should not cache errors", func(t *testing.T) {
		sbomRepository := mocks.NewPipelineSBOMRepository(t)
		sbomRepository.On("Read", ctx, int64(100)).Return(nil, errors.New("connection refused")).Once()
		sbomRepository.On("Read", ctx, int64(100)).Return(sbom, nil).Once()
		provider := NewLicenseReportProvider(sbomRepository)

		_, err := provider.LicenseReport(ctx, 100)
		require.Error(t, err)

		report, err := provider.LicenseReport(ctx, 100)
		require.NoError(t, err)
		assert.NotNil(t, report)
	})

	t.Run("should merge the reports of related pipelines", func(t *testing.T) {
		provider := mocks.NewLicenseReportProvider(t)
		provider.On("LicenseReport", ctx, int64(1)).Return(licenseReport(map[string][]string{"MIT": {"a"}}), nil)
		provider.On("LicenseReport", ctx, int64(2)).Return(nil, nil)
		provider.On("LicenseReport", ctx, int64(3)).Return(licenseReport(map[string][]string{"MIT": {"b"}, "GPL-3.0": {"c"}}), nil)

		merged, err := mergedLicenseReport(ctx, provider, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, merged.Licenses["MIT"])
		assert.Equal(t, []string{"c"}, merged.Licenses["GPL-3.0"])

		none, err := mergedLicenseReport(ctx, provider, []int64{2})
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
)

func NewIngestCommand() *cobra.Command {
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Store the security reports and sboms of a pipeline",
		Long: `Stores the pipeline, its gitlab security reports and cyclonedx sboms. With --complete
a pipeline completed notification is published afterwards, which triggers the evaluation
of every open merge request whose head pipeline it is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			pipeline := models.Pipeline{
				CanStoreSecurityReports: true,
			}
			var err error
			if pipeline.ID, err = flags.GetInt64("pipeline"); err != nil {
				return err
			}
			if pipeline.ProjectID, err = flags.GetInt64("project"); err != nil {
				return err
			}
			if pipeline.Ref, err = flags.GetString("ref"); err != nil {
				return err
			}
			if pipeline.SHA, err = flags.GetString("sha"); err != nil {
				return err
			}
			source, err := flags.GetString("source")
			if err != nil {
				return err
			}
			status, err := flags.GetString("status")
			if err != nil {
				return err
			}
			if pipeline.ConfigRemovedScanTypes, err = flags.GetStringSlice("config-removed-scan-types"); err != nil {
				return err
			}
			pipeline.Source = models.PipelineSource(source)
			pipeline.Status = models.PipelineStatus(status)
			if pipeline.ID == 0 || pipeline.ProjectID == 0 || pipeline.Ref == "" || pipeline.SHA == "" {
				return fmt.Errorf("--pipeline, --project, --ref and --sha are required")
			}

			securityReports, err := flags.GetStringSlice("security-report")
			if err != nil {
				return err
			}
			sboms, err := flags.GetStringSlice("sbom")
			if err != nil {
				return err
			}
			promote, err := flags.GetBool("promote")
			if err != nil {
				return err
			}
			complete, err := flags.GetBool("complete")
			if err != nil {
				return err
			}

			var (
				pipelineRepository shared.PipelineRepository
				ingestionService   shared.ReportIngestionService
			)
			return withApp(cmd.Context(), func() error {
				ctx := cmd.Context()
				if err := pipelineRepository.Save(ctx, nil, &pipeline); err != nil {
					return fmt.Errorf("could not store pipeline: %w", err)
				}

				for _, path := range securityReports {
					report, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("could not read security report: %w", err)
					}
					scan, err := ingestionService.IngestSecurityReport(ctx, pipeline, report, promote)
					if err != nil {
						return fmt.Errorf("could not ingest %s: %w", path, err)
					}
					slog.Info("ingested security report", "path", path, "scanType", scan.ScanType, "findings", len(scan.Findings))
				}

				for _, path := range sboms {
					sbom, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("could not read sbom: %w", err)
					}
					if err := ingestionService.IngestSBOM(ctx, pipeline, sbom); err != nil {
						return fmt.Errorf("could not ingest %s: %w", path, err)
					}
					slog.Info("ingested sbom", "path", path)
				}

				if complete {
					return ingestionService.CompletePipeline(ctx, pipeline)
				}
				return nil
			}, &pipelineRepository, &ingestionService)
		},
	}

	flags := ingest.Flags()
	flags.Int64("pipeline", 0, "Pipeline id")
	flags.Int64("project", 0, "Gitlab project id")
	flags.String("ref", "", "Branch of the pipeline")
	flags.String("sha", "", "Commit sha of the pipeline")
	flags.String("source", string(models.PipelineSourcePush), "Pipeline source, e.g. push or merge_request_event")
	flags.String("status", string(models.PipelineStatusSuccess), "Pipeline status")
	flags.StringSlice("config-removed-scan-types", []string{}, "Scan types whose jobs the merge request removed from the ci configuration")
	flags.StringSlice("security-report", nil, "Gitlab security report json. Can be repeated.")
	flags.StringSlice("sbom", nil, "CycloneDX json sbom. Can be repeated.")
	flags.Bool("promote", false, "Store the findings as vulnerabilities of the project, as done for default branch pipelines")
	flags.Bool("complete", false, "Publish the pipeline completed notification afterwards")
	return ingest
}

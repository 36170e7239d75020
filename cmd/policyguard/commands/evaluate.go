package commands

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/integrations/gitlabint"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
)

type mergeRequestFlags struct {
	mergeRequestID string
	projectID      int64
	iid            int64
}

func (f *mergeRequestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mergeRequestID, "merge-request", "", "Id of a stored merge request")
	cmd.Flags().Int64Var(&f.projectID, "project", 0, "Gitlab project id. Used together with --iid")
	cmd.Flags().Int64Var(&f.iid, "iid", 0, "Merge request iid. The merge request is synced from gitlab first.")
}

// resolve returns the stored merge request or syncs it from gitlab.
func (f *mergeRequestFlags) resolve(cmd *cobra.Command, repository shared.MergeRequestRepository, syncer *gitlabint.MergeRequestSyncer) (*models.MergeRequest, error) {
	ctx := cmd.Context()
	if f.mergeRequestID != "" {
		id, err := uuid.Parse(f.mergeRequestID)
		if err != nil {
			return nil, fmt.Errorf("invalid --merge-request: %w", err)
		}
		mr, err := repository.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		if mr == nil {
			return nil, fmt.Errorf("merge request %s not found", id)
		}
		return mr, nil
	}
	if f.projectID == 0 || f.iid == 0 {
		return nil, fmt.Errorf("either --merge-request or --project and --iid are required")
	}
	return syncer.Sync(ctx, f.projectID, f.iid)
}

func NewEvaluateCommand() *cobra.Command {
	var mrFlags mergeRequestFlags
	evaluate := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the approval rules of a merge request against a pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineID, err := cmd.Flags().GetInt64("pipeline")
			if err != nil {
				return err
			}
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			var (
				approvalService        shared.ApprovalService
				mergeRequestRepository shared.MergeRequestRepository
				syncer                 *gitlabint.MergeRequestSyncer
			)
			return withApp(cmd.Context(), func() error {
				mr, err := mrFlags.resolve(cmd, mergeRequestRepository, syncer)
				if err != nil {
					return err
				}
				if pipelineID == 0 {
					if mr.HeadPipelineID == nil {
						return fmt.Errorf("merge request %s has no head pipeline, use --pipeline", mr.ID)
					}
					pipelineID = *mr.HeadPipelineID
				}

				result, err := approvalService.UpdateApprovals(cmd.Context(), mr.ID, pipelineID)
				if err != nil {
					return err
				}
				return writeResult(cmd, asJSON, result)
			}, &approvalService, &mergeRequestRepository, &syncer)
		},
	}
	mrFlags.register(evaluate)
	evaluate.Flags().Int64("pipeline", 0, "Pipeline to evaluate. Defaults to the head pipeline of the merge request.")
	evaluate.Flags().Bool("json", false, "Print the result as json")
	return evaluate
}

func writeResult(cmd *cobra.Command, asJSON bool, result dtos.EvaluationResult) error {
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	printEvaluation(cmd.OutOrStdout(), result)
	return nil
}

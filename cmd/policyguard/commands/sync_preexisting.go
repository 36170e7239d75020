package commands

import (
	"fmt"
	"log/slog"

	"github.com/l3montree-dev/policyguard/daemons"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/integrations/gitlabint"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
)

func NewSyncPreexistingCommand() *cobra.Command {
	var mrFlags mergeRequestFlags
	syncPreexisting := &cobra.Command{
		Use:   "sync-preexisting",
		Short: "Re-evaluate the rules which only match pre-existing vulnerabilities",
		Long: `Re-evaluates the pre-existing rules of a single merge request (--merge-request or
--project and --iid) or of every open merge request of a project (--project only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			var (
				approvalService        shared.ApprovalService
				mergeRequestRepository shared.MergeRequestRepository
				syncer                 *gitlabint.MergeRequestSyncer
				daemon                 *daemons.EvaluationDaemon
			)
			return withApp(cmd.Context(), func() error {
				if mrFlags.mergeRequestID == "" && mrFlags.iid == 0 {
					if mrFlags.projectID == 0 {
						return fmt.Errorf("--project is required")
					}
					results, err := daemon.HandlePolicyChange(cmd.Context(), dtos.PolicyChangedEvent{ProjectID: mrFlags.projectID})
					if err != nil {
						return err
					}
					slog.Info("synced pre-existing states", "projectID", mrFlags.projectID, "mergeRequests", len(results))
					for _, result := range results {
						if err := writeResult(cmd, asJSON, result); err != nil {
							return err
						}
					}
					return nil
				}

				mr, err := mrFlags.resolve(cmd, mergeRequestRepository, syncer)
				if err != nil {
					return err
				}
				result, err := approvalService.SyncPreexistingStates(cmd.Context(), mr.ID)
				if err != nil {
					return err
				}
				return writeResult(cmd, asJSON, result)
			}, &approvalService, &mergeRequestRepository, &syncer, &daemon)
		},
	}
	mrFlags.register(syncPreexisting)
	syncPreexisting.Flags().Bool("json", false, "Print the results as json")
	return syncPreexisting
}

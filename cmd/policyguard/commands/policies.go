package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
)

func NewPoliciesCommand() *cobra.Command {
	policies := &cobra.Command{
		Use:   "policies",
		Short: "Manage the approval policies of a project",
	}
	policies.AddCommand(newPoliciesLoadCommand())
	return policies
}

func newPoliciesLoadCommand() *cobra.Command {
	load := &cobra.Command{
		Use:   "load <policy.yml>",
		Short: "Replace the policies of a project with the approval_policy document",
		Long: `Validates and stores the approval policies of the document. Afterwards a policy change
notification is published, so running workers materialize the new rules into every open
merge request of the project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cmd.Flags().GetInt64("project")
			if err != nil {
				return err
			}
			if projectID == 0 {
				return fmt.Errorf("--project is required")
			}
			noPublish, err := cmd.Flags().GetBool("no-publish")
			if err != nil {
				return err
			}

			document, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not read policy document: %w", err)
			}

			var (
				policyService shared.PolicyService
				broker        shared.PubSubBroker
			)
			return withApp(cmd.Context(), func() error {
				policies, err := policyService.LoadPolicies(cmd.Context(), projectID, document)
				if err != nil {
					return err
				}
				printPolicies(cmd.OutOrStdout(), policies)

				if noPublish {
					return nil
				}
				err = broker.Publish(cmd.Context(), shared.NewPolicyChangedMessage(dtos.PolicyChangedEvent{ProjectID: projectID}))
				if err != nil {
					return fmt.Errorf("policies stored but the change could not be published: %w", err)
				}
				slog.Info("published policy change", "projectID", projectID)
				return nil
			}, &policyService, &broker)
		},
	}
	load.Flags().Int64("project", 0, "Gitlab project id")
	load.Flags().Bool("no-publish", false, "Do not notify the workers")
	return load
}

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
)

func printEvaluation(w io.Writer, result dtos.EvaluationResult) {
	fmt.Fprintf(w, "Merge request: %s\n", result.MergeRequestID)
	if result.PipelineID != nil {
		fmt.Fprintf(w, "Pipeline:      %d\n", *result.PipelineID)
	}
	if result.Skipped != "" {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("Skipped:"), result.Skipped)
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetAllowedRowLength(160)
	tw.AppendHeader(table.Row{"Rule", "Report", "Result", "Approvals", "Reason"})
	for _, rule := range result.Rules {
		status := text.FgGreen.Sprint("satisfied")
		reason := rule.Reason
		switch {
		case rule.Error != "":
			status = text.FgRed.Sprint("error")
			reason = rule.Error
		case rule.Violated:
			status = text.FgRed.Sprint("violated")
		}
		tw.AppendRow(table.Row{rule.RuleName, rule.ReportType, status, rule.ApprovalsRequired, text.WrapText(reason, 60)})
	}
	tw.Render()

	if result.Comment != nil {
		if result.Comment.Success {
			fmt.Fprintln(w, "Policy violation comment updated")
		} else {
			fmt.Fprintf(w, "%s %s\n", text.FgRed.Sprint("Policy violation comment failed:"), strings.Join(result.Comment.Message, "; "))
		}
	}
}

func printPolicies(w io.Writer, policies []models.Policy) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Policy", "Rule", "Report", "Approvals", "Branches", "Fallback"})
	for _, policy := range policies {
		branches := "all"
		if len(policy.Branches) > 0 {
			branches = strings.Join(policy.Branches, ", ")
		}
		tw.AppendRow(table.Row{policy.Name, policy.RuleIndex, policy.ReportType, policy.ApprovalsRequired, branches, policy.FallbackBehavior})
	}
	tw.Render()
}

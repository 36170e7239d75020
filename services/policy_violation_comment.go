package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/utils"
)

const (
	PolicyViolationCommentHeader = "<!-- policy_violation_comment -->"
	CommentStateVersion          = 1

	versionMarker           = "policy_violation_comment_version"
	violatedReportsMarker   = "violated_reports"
	optionalApprovalsMarker = "optional_approvals"
)

// CommentState is the machine readable part of the policy violation comment.
// Version 0 is a comment written before the version marker existed.
type CommentState struct {
	Version                 int
	ViolatedReports         []dtos.ReportType
	OptionalApprovalReports []dtos.ReportType
}

func NewCommentState(violated, optional []dtos.ReportType) CommentState {
	violated = normalizeReportTypes(violated)
	return CommentState{
		Version:                 CommentStateVersion,
		ViolatedReports:         violated,
		OptionalApprovalReports: utils.Intersect(normalizeReportTypes(optional), violated),
	}
}

func (s CommentState) Violated() bool {
	return len(s.ViolatedReports) > 0
}

// RequiresApproval is true if at least one violated report type needs a mandatory approval.
func (s CommentState) RequiresApproval() bool {
	return len(utils.Difference(s.ViolatedReports, s.OptionalApprovalReports)) > 0
}

// Merge applies the outcome of an evaluation. The persisted violations are read after the evaluation saved its own,
// so they cover every policy including the ones this evaluation did not look at.
// A report type is violated as long as one of them or one of the reports is.
func (s CommentState) Merge(reports []dtos.ReportEvaluation, persisted []models.Violation) CommentState {
	violated := make([]dtos.ReportType, 0, len(dtos.KnownReportTypes))
	required := make([]dtos.ReportType, 0, len(dtos.KnownReportTypes))
	for _, report := range reports {
		if !report.Violated {
			continue
		}
		violated = append(violated, report.ReportType)
		if report.RequiresApproval {
			required = append(required, report.ReportType)
		}
	}

	for _, violation := range persisted {
		violated = append(violated, violation.ReportType)
		switch {
		case violation.Policy != nil:
			if violation.Policy.ApprovalsRequired > 0 {
				required = append(required, violation.ReportType)
			}
		case !slices.Contains(s.OptionalApprovalReports, violation.ReportType):
			required = append(required, violation.ReportType)
		}
	}

	return NewCommentState(violated, utils.Difference(violated, required))
}

// EncodeCommentState renders the header and the state markers. It is the first part of every comment body.
func EncodeCommentState(state CommentState) string {
	state = NewCommentState(state.ViolatedReports, state.OptionalApprovalReports)
	lines := []string{
		PolicyViolationCommentHeader,
		marker(versionMarker, strconv.Itoa(CommentStateVersion)),
		marker(violatedReportsMarker, joinReportTypes(state.ViolatedReports)),
	}
	if len(state.OptionalApprovalReports) > 0 {
		lines = append(lines, marker(optionalApprovalsMarker, joinReportTypes(state.OptionalApprovalReports)))
	}
	return strings.Join(lines, "\n")
}

// DecodeCommentState reads the markers of a comment body. ok is false if the body is not a policy violation comment.
// Unknown report types and unknown markers are ignored.
func DecodeCommentState(body string) (state CommentState, ok bool) {
	if !IsPolicyViolationComment(body) {
		return CommentState{}, false
	}

	var violated, optional []dtos.ReportType
	for _, line := range strings.Split(body, "\n") {
		key, value, found := parseMarker(line)
		if !found {
			continue
		}
		switch key {
		case versionMarker:
			if v, err := strconv.Atoi(value); err == nil {
				state.Version = v
			}
		case violatedReportsMarker:
			violated = append(violated, splitReportTypes(value)...)
		case optionalApprovalsMarker:
			optional = append(optional, splitReportTypes(value)...)
		}
	}

	version := state.Version
	state = NewCommentState(violated, optional)
	state.Version = version
	return state, true
}

func IsPolicyViolationComment(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), PolicyViolationCommentHeader)
}

func marker(key, value string) string {
	if value == "" {
		return fmt.Sprintf("<!-- %s: -->", key)
	}
	return fmt.Sprintf("<!-- %s: %s -->", key, value)
}

func parseMarker(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	inner, found := strings.CutPrefix(line, "<!--")
	if !found {
		return "", "", false
	}
	inner, found = strings.CutSuffix(inner, "-->")
	if !found {
		return "", "", false
	}
	key, value, found := strings.Cut(inner, ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func splitReportTypes(value string) []dtos.ReportType {
	res := make([]dtos.ReportType, 0)
	for _, part := range strings.Split(value, ",") {
		reportType := dtos.ReportType(strings.TrimSpace(part))
		if reportType.IsKnown() {
			res = append(res, reportType)
		}
	}
	return res
}

func joinReportTypes(reportTypes []dtos.ReportType) string {
	return strings.Join(utils.ConvertStrings[string](reportTypes), ",")
}

// normalizeReportTypes drops unknown and duplicate entries and orders them like dtos.KnownReportTypes.
func normalizeReportTypes(reportTypes []dtos.ReportType) []dtos.ReportType {
	return utils.Filter(dtos.KnownReportTypes, func(r dtos.ReportType) bool {
		return slices.Contains(reportTypes, r)
	})
}

// RenderPolicyViolationComment builds the full comment body. Only violations of report types in the state are listed.
func RenderPolicyViolationComment(state CommentState, violations []models.Violation, approvers ...string) string {
	var b strings.Builder
	b.WriteString(EncodeCommentState(state))
	b.WriteString("\n")

	switch {
	case !state.Violated():
		b.WriteString(":white_check_mark: **Security policy violations have been resolved.**\n\n")
		b.WriteString("All security policies of this merge request are satisfied again. The approvals they required are no longer needed.\n")
		return b.String()
	case state.RequiresApproval():
		b.WriteString(":warning: **Policy violation(s) detected**\n\n")
		b.WriteString("This merge request violates one or more security policies and requires approval before it can be merged.\n")
		b.WriteString("Resolve the violations listed below or ask eligible approvers of each policy to approve this merge request.\n")
		if len(approvers) > 0 {
			fmt.Fprintf(&b, "\nEligible approvers: %s\n", strings.Join(approvers, ", "))
		}
	default:
		b.WriteString(":information_source: **Policy violation(s) detected**\n\n")
		b.WriteString("This merge request violates one or more security policies. Approval is optional.\n")
		b.WriteString("Consider including optional reviewers of each policy based on the findings below.\n")
	}

	relevant := utils.Filter(violations, func(v models.Violation) bool {
		return slices.Contains(state.ViolatedReports, v.ReportType)
	})
	writeDetails(&b, relevant)
	return b.String()
}

func writeDetails(b *strings.Builder, violations []models.Violation) {
	if len(violations) == 0 {
		return
	}

	b.WriteString("\n#### Violated policies\n\n")
	for _, v := range violations {
		fmt.Fprintf(b, "- **%s** (`%s`)\n", policyName(v), v.ReportType)
	}

	var newlyDetected, previouslyExisting []string
	licenses := make(map[string][]string)
	errorLines := make([]string, 0)
	var context *dtos.ViolationContext
	for _, v := range violations {
		if sf := v.Data.Violations.ScanFinding; sf != nil {
			newlyDetected = append(newlyDetected, sf.UUIDs.NewlyDetected...)
			previouslyExisting = append(previouslyExisting, sf.UUIDs.PreviouslyExisting...)
		}
		for license, deps := range v.Data.Violations.LicenseScanning {
			licenses[license] = append(licenses[license], deps...)
		}
		for _, e := range v.Data.Errors {
			errorLines = append(errorLines, violationErrorMessage(v, e))
		}
		if context == nil && v.Data.Context != nil {
			context = v.Data.Context
		}
	}

	writeFindingList(b, "Newly detected findings", utils.SortedUniq(newlyDetected))
	writeFindingList(b, "Previously existing vulnerabilities", utils.SortedUniq(previouslyExisting))

	if len(licenses) > 0 {
		b.WriteString("\n#### Denied licenses\n\n| License | Dependencies |\n| --- | --- |\n")
		names := make([]string, 0, len(licenses))
		for name := range licenses {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(b, "| %s | %s |\n", name, truncatedList(utils.SortedUniq(licenses[name])))
		}
	}

	if errorLines = utils.Uniq(errorLines); len(errorLines) > 0 {
		b.WriteString("\n#### Errors\n\n")
		for _, line := range errorLines {
			fmt.Fprintf(b, "- %s\n", line)
		}
	}

	if context != nil && (len(context.PipelineIDs) > 0 || len(context.TargetPipelineIDs) > 0) {
		b.WriteString("\n#### Comparison pipelines\n\n")
		fmt.Fprintf(b, "- Source: %s\n", pipelineList(context.PipelineIDs))
		fmt.Fprintf(b, "- Target: %s\n", pipelineList(context.TargetPipelineIDs))
	}
}

func writeFindingList(b *strings.Builder, title string, uuids []string) {
	if len(uuids) == 0 {
		return
	}
	fmt.Fprintf(b, "\n#### %s\n\n", title)
	b.WriteString(truncatedList(utils.Map(uuids, func(u string) string { return "`" + u + "`" })))
	b.WriteString("\n")
}

// truncatedList renders MaxViolations entries. A stored list of MaxViolations+1 entries signals more exist.
func truncatedList(items []string) string {
	if len(items) > dtos.MaxViolations {
		return strings.Join(items[:dtos.MaxViolations], ", ") + " and more"
	}
	return strings.Join(items, ", ")
}

func pipelineList(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(utils.Map(ids, func(id int64) string { return "#" + strconv.FormatInt(id, 10) }), ", ")
}

func policyName(v models.Violation) string {
	if v.Policy != nil {
		return v.Policy.Name
	}
	return v.PolicyID.String()
}

func violationErrorMessage(v models.Violation, e dtos.ViolationError) string {
	switch e.Error {
	case dtos.ViolationErrorScanRemoved:
		scans := utils.Map(e.MissingScans, func(s string) string { return "`" + s + "`" })
		return "There is a mismatch between the scans of the source and target pipelines. The following scans are missing: " + strings.Join(scans, ", ")
	case dtos.ViolationErrorArtifactsMissing:
		return fmt.Sprintf("Pipeline configuration error: Artifacts required by policy `%s` could not be found (%s).", policyName(v), v.ReportType)
	case dtos.ViolationErrorTargetMissing:
		return fmt.Sprintf("Pipeline configuration error: No comparison pipeline with the reports required by policy `%s` could be found (%s).", policyName(v), v.ReportType)
	default:
		return fmt.Sprintf("Unknown error: %s", e.Error)
	}
}

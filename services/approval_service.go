// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/normalize"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
)

const (
	SkipMergeRequestNotFound = "merge request not found"
	SkipMergeRequestNotOpen  = "merge request is not open"
	SkipPipelineNotFound     = "pipeline not found"
	SkipPipelineIncomplete   = "pipeline is not complete"
	SkipPipelineNoReports    = "pipeline cannot store security reports"
	SkipNoRules              = "no approval rules to evaluate"
	SkipSyncDisabled         = "pre-existing state sync is disabled"
	SkipFallbackDisabled     = "fallback behavior is disabled"
)

type approvalService struct {
	mergeRequestRepository shared.MergeRequestRepository
	pipelineRepository     shared.PipelineRepository
	approvalRuleRepository shared.ApprovalRuleRepository
	relatedPipelines       shared.RelatedPipelinesResolver
	findingDiffService     shared.FindingDiffService
	licenseChecker         shared.LicenseViolationChecker
	licenseReportProvider  shared.LicenseReportProvider
	violationService       *ViolationService
	commentService         shared.PolicyViolationCommentService
	config                 EvaluationConfig
}

func NewApprovalService(
	mergeRequestRepository shared.MergeRequestRepository,
	pipelineRepository shared.PipelineRepository,
	approvalRuleRepository shared.ApprovalRuleRepository,
	relatedPipelines shared.RelatedPipelinesResolver,
	findingDiffService shared.FindingDiffService,
	licenseChecker shared.LicenseViolationChecker,
	licenseReportProvider shared.LicenseReportProvider,
	violationService *ViolationService,
	commentService shared.PolicyViolationCommentService,
	config EvaluationConfig,
) *approvalService {
	return &approvalService{
		mergeRequestRepository: mergeRequestRepository,
		pipelineRepository:     pipelineRepository,
		approvalRuleRepository: approvalRuleRepository,
		relatedPipelines:       relatedPipelines,
		findingDiffService:     findingDiffService,
		licenseChecker:         licenseChecker,
		licenseReportProvider:  licenseReportProvider,
		violationService:       violationService,
		commentService:         commentService,
		config:                 config,
	}
}

// ruleOutcome is the result of a checker before it is applied to the rule.
type ruleOutcome struct {
	violated bool
	reason   string
	finding  *dtos.FindingDiffResult
	license  *dtos.LicenseCheckResult
}

type ruleEvaluator func(ctx context.Context, policy models.Policy) (ruleOutcome, error)

// UpdateApprovals evaluates every rule of the merge request against a completed pipeline.
// Rules which only match pre-existing vulnerabilities are left to SyncPreexistingStates if enabled.
func (s *approvalService) UpdateApprovals(ctx context.Context, mergeRequestID uuid.UUID, pipelineID int64) (dtos.EvaluationResult, error) {
	start := time.Now()
	defer func() {
		monitoring.EvaluationDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())
	}()

	result := dtos.EvaluationResult{MergeRequestID: mergeRequestID, PipelineID: &pipelineID}

	mr, err := s.mergeRequestRepository.Read(ctx, mergeRequestID)
	if err != nil {
		return result, fmt.Errorf("could not read merge request: %w", err)
	}
	if skip := skipMergeRequest(mr); skip != "" {
		return s.skip(result, "pipeline", skip), nil
	}

	pipeline, err := s.pipelineRepository.Read(ctx, pipelineID)
	if err != nil {
		return result, fmt.Errorf("could not read pipeline: %w", err)
	}
	switch {
	case pipeline == nil:
		return s.skip(result, "pipeline", SkipPipelineNotFound), nil
	case !pipeline.IsComplete(s.config.IncludeManualToPipelineCompletion):
		return s.skip(result, "pipeline", SkipPipelineIncomplete), nil
	case !pipeline.CanStoreSecurityReports:
		return s.skip(result, "pipeline", SkipPipelineNoReports), nil
	}

	rules, err := s.approvalRuleRepository.FindByMergeRequest(ctx, mr.ID)
	if err != nil {
		return result, fmt.Errorf("could not read approval rules: %w", err)
	}
	rules = utils.Filter(rules, s.evaluatedOnPipeline)
	if len(rules) == 0 {
		return s.skip(result, "pipeline", SkipNoRules), nil
	}

	pipelineIDs, err := headPipelineIDs(ctx, s.relatedPipelines, *pipeline)
	if err != nil {
		return result, err
	}
	targetPipelineIDs, err := s.relatedPipelines.ComparisonPipelineIDs(ctx, *mr, *pipeline)
	if err != nil {
		return result, err
	}
	comparison := dtos.PipelineComparison{
		ProjectID:         mr.ProjectID,
		PipelineIDs:       pipelineIDs,
		TargetPipelineIDs: targetPipelineIDs,
		ScansRemovedByMR:  utils.ConvertStrings[dtos.ScanType](pipeline.ConfigRemovedScanTypes),
	}

	headReport := sync.OnceValues(func() (*normalize.LicenseReport, error) {
		return mergedLicenseReport(ctx, s.licenseReportProvider, comparison.PipelineIDs)
	})
	targetReport := sync.OnceValues(func() (*normalize.LicenseReport, error) {
		return mergedLicenseReport(ctx, s.licenseReportProvider, comparison.TargetPipelineIDs)
	})

	evaluator := func(ctx context.Context, policy models.Policy) (ruleOutcome, error) {
		switch policy.ReportType {
		case dtos.ReportTypeLicenseScanning:
			head, err := headReport()
			if err != nil {
				return ruleOutcome{}, err
			}
			baseline, err := targetReport()
			if err != nil {
				return ruleOutcome{}, err
			}
			res := s.licenseChecker.Check(head, baseline, policy)
			return ruleOutcome{violated: res.Violated, reason: res.Reason, license: &res}, nil
		default:
			res, err := s.findingDiffService.Diff(ctx, policy, comparison)
			if err != nil {
				return ruleOutcome{}, err
			}
			return ruleOutcome{violated: res.Violated, reason: res.Reason, finding: &res}, nil
		}
	}

	return s.evaluate(ctx, *mr, rules, comparison.Context(), evaluator, result, "pipeline")
}

// SyncPreexistingStates evaluates the rules which do not depend on a merge request pipeline,
// for example after a merge request was opened or its policies changed.
func (s *approvalService) SyncPreexistingStates(ctx context.Context, mergeRequestID uuid.UUID) (dtos.EvaluationResult, error) {
	start := time.Now()
	defer func() {
		monitoring.EvaluationDuration.WithLabelValues("preexisting").Observe(time.Since(start).Seconds())
	}()

	result := dtos.EvaluationResult{MergeRequestID: mergeRequestID}
	if !s.config.SyncPreexistingState {
		return s.skip(result, "preexisting", SkipSyncDisabled), nil
	}

	mr, err := s.mergeRequestRepository.Read(ctx, mergeRequestID)
	if err != nil {
		return result, fmt.Errorf("could not read merge request: %w", err)
	}
	if skip := skipMergeRequest(mr); skip != "" {
		return s.skip(result, "preexisting", skip), nil
	}

	rules, err := s.approvalRuleRepository.FindByMergeRequest(ctx, mr.ID)
	if err != nil {
		return result, fmt.Errorf("could not read approval rules: %w", err)
	}
	rules = utils.Filter(rules, preexistingRule(*mr))
	if len(rules) == 0 {
		return s.skip(result, "preexisting", SkipNoRules), nil
	}

	// licenses without a merge request pipeline are taken from the target branch
	licensePipelineIDs := sync.OnceValues(func() ([]int64, error) {
		target, err := s.pipelineRepository.FindLatestForSHA(ctx, mr.ProjectID, mr.TargetBranch, mr.DiffBaseSHA)
		if err != nil || target == nil {
			return nil, err
		}
		return headPipelineIDs(ctx, s.relatedPipelines, *target)
	})

	evaluator := func(ctx context.Context, policy models.Policy) (ruleOutcome, error) {
		switch policy.ReportType {
		case dtos.ReportTypeLicenseScanning:
			ids, err := licensePipelineIDs()
			if err != nil {
				return ruleOutcome{}, err
			}
			report, err := mergedLicenseReport(ctx, s.licenseReportProvider, ids)
			if err != nil {
				return ruleOutcome{}, err
			}
			res := s.licenseChecker.Check(report, nil, policy)
			return ruleOutcome{violated: res.Violated, reason: res.Reason, license: &res}, nil
		default:
			res, err := s.findingDiffService.Preexisting(ctx, policy, mr.ProjectID)
			if err != nil {
				return ruleOutcome{}, err
			}
			return ruleOutcome{violated: res.Violated, reason: res.Reason, finding: &res}, nil
		}
	}

	return s.evaluate(ctx, *mr, rules, &dtos.ViolationContext{PipelineIDs: []int64{}, TargetPipelineIDs: []int64{}}, evaluator, result, "preexisting")
}

// UnblockFailOpenRules clears the fail open rules of a merge request which has no pipeline to compare yet,
// for example after its policies changed.
func (s *approvalService) UnblockFailOpenRules(ctx context.Context, mergeRequestID uuid.UUID) (dtos.EvaluationResult, error) {
	start := time.Now()
	defer func() {
		monitoring.EvaluationDuration.WithLabelValues("fail_open").Observe(time.Since(start).Seconds())
	}()

	result := dtos.EvaluationResult{MergeRequestID: mergeRequestID}
	if !s.config.FallbackBehaviorEnabled {
		return s.skip(result, "fail_open", SkipFallbackDisabled), nil
	}

	mr, err := s.mergeRequestRepository.Read(ctx, mergeRequestID)
	if err != nil {
		return result, fmt.Errorf("could not read merge request: %w", err)
	}
	if skip := skipMergeRequest(mr); skip != "" {
		return s.skip(result, "fail_open", skip), nil
	}

	rules, err := s.approvalRuleRepository.FindByMergeRequest(ctx, mr.ID)
	if err != nil {
		return result, fmt.Errorf("could not read approval rules: %w", err)
	}
	synced := preexistingRule(*mr)
	rules = utils.Filter(rules, func(rule models.ApprovalRule) bool {
		if rule.Policy == nil || !rule.Policy.FailOpen() {
			return false
		}
		return !s.config.SyncPreexistingState || !synced(rule)
	})
	if len(rules) == 0 {
		return s.skip(result, "fail_open", SkipNoRules), nil
	}

	evaluator := func(ctx context.Context, policy models.Policy) (ruleOutcome, error) {
		return ruleOutcome{reason: dtos.ReasonFailOpen}, nil
	}
	return s.evaluate(ctx, *mr, rules, &dtos.ViolationContext{PipelineIDs: []int64{}, TargetPipelineIDs: []int64{}}, evaluator, result, "fail_open")
}

// ruleDecision is the outcome of a rule before anything was written.
type ruleDecision struct {
	rule              models.ApprovalRule
	evaluation        dtos.RuleEvaluation
	outcome           ruleOutcome
	approvalsRequired int
	decided           bool
}

// evaluate runs the rules in parallel and persists the violations once every rule finished.
// The approvals required are written only after the violations were saved, the comment is reconciled last.
func (s *approvalService) evaluate(
	ctx context.Context,
	mr models.MergeRequest,
	rules []models.ApprovalRule,
	violationContext *dtos.ViolationContext,
	evaluator ruleEvaluator,
	result dtos.EvaluationResult,
	kind string,
) (dtos.EvaluationResult, error) {
	batch := s.violationService.NewBatch(mr, violationContext)

	group := utils.ErrGroup[ruleDecision](s.config.ruleConcurrency())
	for _, rule := range rules {
		group.Go(func() (ruleDecision, error) {
			return s.decideRule(ctx, mr, rule, evaluator, batch), nil
		})
	}
	decisions, err := group.WaitAndCollect()
	if err != nil {
		return result, err
	}
	slices.SortFunc(decisions, func(a, b ruleDecision) int {
		if c := strings.Compare(a.rule.Name, b.rule.Name); c != 0 {
			return c
		}
		return strings.Compare(a.rule.ID.String(), b.rule.ID.String())
	})

	if err := s.violationService.Save(ctx, batch); err != nil {
		monitoring.EvaluationsTotal.WithLabelValues(kind, "error").Inc()
		return result, err
	}

	result.Rules = make([]dtos.RuleEvaluation, 0, len(decisions))
	for _, decision := range decisions {
		result.Rules = append(result.Rules, s.applyDecision(ctx, mr, decision, violationContext))
	}

	if sendBotMessage(rules) {
		comment := s.commentService.Execute(ctx, dtos.CommentParams{
			MergeRequestID: mr.ID,
			Reports:        reportEvaluations(rules, result.Rules),
		})
		result.Comment = &comment
		if !comment.Success {
			slog.Warn("could not reconcile policy violation comment", "mergeRequestID", mr.ID, "iid", mr.IID, "messages", comment.Message)
		}
	}

	monitoring.EvaluationsTotal.WithLabelValues(kind, outcome(result)).Inc()
	return result, nil
}

// decideRule evaluates a single rule and records its violation in the batch. Nothing is written yet.
func (s *approvalService) decideRule(
	ctx context.Context,
	mr models.MergeRequest,
	rule models.ApprovalRule,
	evaluator ruleEvaluator,
	batch *ViolationBatch,
) ruleDecision {
	decision := ruleDecision{
		rule: rule,
		evaluation: dtos.RuleEvaluation{
			RuleID:            rule.ID,
			RuleName:          rule.Name,
			ReportType:        rule.ReportType,
			ApprovalsRequired: rule.ApprovalsRequired,
		},
		outcome: ruleOutcome{reason: dtos.ReasonNoPolicy},
	}

	if rule.Policy != nil {
		decision.evaluation.PolicyID = rule.Policy.ID
		outcome, err := evaluator(ctx, *rule.Policy)
		if err != nil {
			decision.evaluation.Error = err.Error()
			monitoring.RuleEvaluationsTotal.WithLabelValues(string(rule.ReportType), "error").Inc()
			slog.Error("could not evaluate approval rule, leaving it unchanged",
				"ruleID", rule.ID, "ruleName", rule.Name, "mergeRequestID", mr.ID, "iid", mr.IID, "err", err)
			return decision
		}
		decision.outcome = outcome

		switch {
		case !outcome.violated:
			batch.MarkSatisfied(*rule.Policy)
		case outcome.license != nil:
			batch.AddLicenseViolation(*rule.Policy, *outcome.license)
		case outcome.finding != nil:
			batch.AddScanFindingViolation(*rule.Policy, *outcome.finding)
		}
	}

	decision.approvalsRequired = rule.RequiredApprovalsFor(decision.outcome.violated)
	decision.decided = true
	return decision
}

// applyDecision writes the approvals required of a decided rule. Undecided rules are left untouched.
func (s *approvalService) applyDecision(ctx context.Context, mr models.MergeRequest, decision ruleDecision, violationContext *dtos.ViolationContext) dtos.RuleEvaluation {
	rule, evaluation, outcome := decision.rule, decision.evaluation, decision.outcome
	if !decision.decided {
		return evaluation
	}

	if err := s.approvalRuleRepository.UpdateApprovalsRequired(ctx, rule.ID, decision.approvalsRequired); err != nil {
		evaluation.Error = fmt.Sprintf("could not update approvals required: %s", err)
		monitoring.RuleEvaluationsTotal.WithLabelValues(string(rule.ReportType), "error").Inc()
		slog.Error("could not update approvals required", "ruleID", rule.ID, "mergeRequestID", mr.ID, "err", err)
		return evaluation
	}

	evaluation.Violated = outcome.violated
	evaluation.Reason = outcome.reason
	evaluation.ApprovalsRequired = decision.approvalsRequired

	result := "satisfied"
	if outcome.violated {
		result = "violated"
	}
	monitoring.RuleEvaluationsTotal.WithLabelValues(string(rule.ReportType), result).Inc()

	attrs := []any{
		"ruleID", rule.ID,
		"ruleName", rule.Name,
		"reportType", rule.ReportType,
		"mergeRequestID", mr.ID,
		"iid", mr.IID,
		"violated", outcome.violated,
		"reason", outcome.reason,
		"approvalsRequired", decision.approvalsRequired,
		"previousApprovalsRequired", rule.ApprovalsRequired,
		"pipelineIDs", violationContext.PipelineIDs,
		"targetPipelineIDs", violationContext.TargetPipelineIDs,
	}
	if outcome.finding != nil && len(outcome.finding.MissingScans) > 0 {
		attrs = append(attrs, "missingScans", outcome.finding.MissingScans)
	}
	slog.Info("approval rule evaluated", attrs...)

	return evaluation
}

func (s *approvalService) skip(result dtos.EvaluationResult, kind, reason string) dtos.EvaluationResult {
	slog.Debug("skipping approval evaluation", "mergeRequestID", result.MergeRequestID, "reason", reason)
	monitoring.EvaluationsTotal.WithLabelValues(kind, "skipped").Inc()
	result.Skipped = reason
	return result
}

// evaluatedOnPipeline excludes rules which only match persisted vulnerabilities while those are synced separately.
func (s *approvalService) evaluatedOnPipeline(rule models.ApprovalRule) bool {
	if rule.Policy == nil || rule.ReportType != dtos.ReportTypeScanFinding {
		return true
	}
	return !s.config.SyncPreexistingState || rule.Policy.IncludesNewlyDetected() || rule.Policy.IncludesDetected()
}

// preexistingRule selects the rules which can be evaluated without a merge request pipeline.
// Once the merge request has a head pipeline, detected rules follow its findings instead.
func preexistingRule(mr models.MergeRequest) func(models.ApprovalRule) bool {
	return func(rule models.ApprovalRule) bool {
		if rule.Policy == nil {
			return false
		}
		switch rule.ReportType {
		case dtos.ReportTypeScanFinding:
			if rule.Policy.IncludesNewlyDetected() {
				return false
			}
			return mr.HeadPipelineID == nil || !rule.Policy.IncludesDetected()
		case dtos.ReportTypeLicenseScanning:
			return !rule.Policy.HasLicenseState(dtos.LicenseStateNewlyDetected)
		}
		return false
	}
}

func skipMergeRequest(mr *models.MergeRequest) string {
	if mr == nil {
		return SkipMergeRequestNotFound
	}
	if !mr.IsOpen() {
		return SkipMergeRequestNotOpen
	}
	return ""
}

func sendBotMessage(rules []models.ApprovalRule) bool {
	return utils.Any(rules, func(rule models.ApprovalRule) bool {
		return rule.Policy == nil || rule.Policy.SendBotMessage
	})
}

// reportEvaluations aggregates the rule results per report type. Report types whose rules all failed
// are left out, so the comment keeps their previous state.
func reportEvaluations(rules []models.ApprovalRule, evaluations []dtos.RuleEvaluation) []dtos.ReportEvaluation {
	byID := make(map[uuid.UUID]models.ApprovalRule, len(rules))
	for _, rule := range rules {
		byID[rule.ID] = rule
	}

	reports := make([]dtos.ReportEvaluation, 0, len(dtos.KnownReportTypes))
	for _, reportType := range dtos.KnownReportTypes {
		evaluated := false
		report := dtos.ReportEvaluation{ReportType: reportType}
		for _, evaluation := range evaluations {
			if evaluation.ReportType != reportType || evaluation.Error != "" {
				continue
			}
			evaluated = true
			if evaluation.Violated {
				report.Violated = true
				if rule, ok := byID[evaluation.RuleID]; ok && rule.RequiresApproval() {
					report.RequiresApproval = true
					report.Approvers = append(report.Approvers, rule.EligibleApprovers(approverMention)...)
				}
			}
		}
		if evaluated {
			report.Approvers = utils.SortedUniq(report.Approvers)
			reports = append(reports, report)
		}
	}
	return reports
}

// approverMention renders approvers as gitlab mentions. Groups are expanded by gitlab, roles cannot be mentioned.
func approverMention(kind, name string) []string {
	switch kind {
	case "user", "group":
		return []string{"@" + strings.TrimPrefix(name, "@")}
	}
	return nil
}

func outcome(result dtos.EvaluationResult) string {
	switch {
	case len(result.Failed()) > 0:
		return "rule_errors"
	case result.Comment != nil && !result.Comment.Success:
		return "comment_failed"
	default:
		return "success"
	}
}

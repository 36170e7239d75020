package dtos

import "github.com/google/uuid"

// ServiceResult is returned by every service step that must not raise.
type ServiceResult struct {
	Success bool     `json:"success"`
	Message []string `json:"message,omitempty"`
}

func SuccessResult() ServiceResult {
	return ServiceResult{Success: true}
}

func ErrorResult(messages ...string) ServiceResult {
	return ServiceResult{Success: false, Message: messages}
}

type RuleEvaluation struct {
	RuleID            uuid.UUID  `json:"ruleId"`
	RuleName          string     `json:"ruleName"`
	PolicyID          uuid.UUID  `json:"policyId"`
	ReportType        ReportType `json:"reportType"`
	Violated          bool       `json:"violated"`
	Reason            string     `json:"reason"`
	ApprovalsRequired int        `json:"approvalsRequired"`
	// set when evaluating the rule failed. The rule state was left untouched.
	Error string `json:"error,omitempty"`
}

type EvaluationResult struct {
	MergeRequestID uuid.UUID        `json:"mergeRequestId"`
	PipelineID     *int64           `json:"pipelineId"`
	Rules          []RuleEvaluation `json:"rules"`
	Comment        *ServiceResult   `json:"comment,omitempty"`
	// set when the evaluation was skipped entirely
	Skipped string `json:"skipped,omitempty"`
}

func (r EvaluationResult) Failed() []RuleEvaluation {
	failed := make([]RuleEvaluation, 0)
	for _, rule := range r.Rules {
		if rule.Error != "" {
			failed = append(failed, rule)
		}
	}
	return failed
}

// ReportEvaluation is handed to the comment generator after all rules of a report type were evaluated.
type ReportEvaluation struct {
	ReportType ReportType
	Violated   bool
	// false if every violated rule of the report type only adds optional reviewers
	RequiresApproval bool
	// mentions of everybody who can approve the violated rules
	Approvers []string
}

type PipelineCompletedEvent struct {
	PipelineID int64  `json:"pipelineId"`
	ProjectID  int64  `json:"projectId"`
	Ref        string `json:"ref"`
	SHA        string `json:"sha"`
}

// PolicyChangedEvent is published after the policies of a project were reloaded.
type PolicyChangedEvent struct {
	ProjectID int64 `json:"projectId"`
}

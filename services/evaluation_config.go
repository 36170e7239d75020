package services

import "time"

// EvaluationConfig is resolved once by the caller and fixed for the lifetime of the services.
type EvaluationConfig struct {
	// compare against the pipeline of the merge base instead of the latest target branch pipeline
	UseMergeBasePipeline bool `mapstructure:"use_merge_base_pipeline"`
	// rules which only match pre-existing states are evaluated by SyncPreexistingStates instead of on pipeline completion
	SyncPreexistingState bool `mapstructure:"sync_preexisting_state"`
	// pipelines blocked by manual jobs count as complete
	IncludeManualToPipelineCompletion bool `mapstructure:"include_manual_to_pipeline_completion"`
	// honor fail open policies. When disabled every policy fails closed.
	FallbackBehaviorEnabled bool `mapstructure:"fallback_behavior_enabled"`

	// bounded wait for the policy violation comment lock
	CommentLockTimeout time.Duration `mapstructure:"comment_lock_timeout"`
	// maximum number of rules evaluated in parallel for one merge request
	RuleConcurrency int `mapstructure:"rule_concurrency"`
	// user id of the security bot authoring the policy violation comment
	BotUserID int64 `mapstructure:"bot_user_id"`
}

func DefaultEvaluationConfig() EvaluationConfig {
	return EvaluationConfig{
		UseMergeBasePipeline:              true,
		SyncPreexistingState:              true,
		IncludeManualToPipelineCompletion: true,
		FallbackBehaviorEnabled:           true,
		CommentLockTimeout:                10 * time.Second,
		RuleConcurrency:                   10,
	}
}

func (c EvaluationConfig) ruleConcurrency() int {
	if c.RuleConcurrency <= 0 {
		return 10
	}
	return c.RuleConcurrency
}

func (c EvaluationConfig) commentLockTimeout() time.Duration {
	if c.CommentLockTimeout <= 0 {
		return 10 * time.Second
	}
	return c.CommentLockTimeout
}

package daemons

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/mocks"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type daemonFixture struct {
	broker                 *mocks.PubSubBroker
	mergeRequestRepository *mocks.MergeRequestRepository
	policyRepository       *mocks.PolicyRepository
	approvalService        *mocks.ApprovalService
	policyService          *mocks.PolicyService
	leaderElector          *mocks.LeaderElector
}

func newDaemonFixture(t *testing.T) *daemonFixture {
	return &daemonFixture{
		broker:                 mocks.NewPubSubBroker(t),
		mergeRequestRepository: mocks.NewMergeRequestRepository(t),
		policyRepository:       mocks.NewPolicyRepository(t),
		approvalService:        mocks.NewApprovalService(t),
		policyService:          mocks.NewPolicyService(t),
		leaderElector:          mocks.NewLeaderElector(t),
	}
}

func (f *daemonFixture) daemon(config Config) *EvaluationDaemon {
	return NewEvaluationDaemon(f.broker, f.mergeRequestRepository, f.policyRepository, f.approvalService, f.policyService, f.leaderElector, config)
}

func mergeRequest(projectID int64, iid int64) models.MergeRequest {
	mr := models.MergeRequest{ProjectID: projectID, IID: iid, State: models.MergeRequestStateOpened}
	mr.ID = uuid.New()
	return mr
}

func TestHandlePipelineCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("should evaluate every open merge request of the pipeline", func(t *testing.T) {
		f := newDaemonFixture(t)
		first, second := mergeRequest(1, 1), mergeRequest(1, 2)

		f.mergeRequestRepository.On("FindOpenByHeadPipeline", ctx, int64(100)).Return([]models.MergeRequest{first, second}, nil)
		f.approvalService.On("UpdateApprovals", ctx, first.ID, int64(100)).Return(dtos.EvaluationResult{MergeRequestID: first.ID}, nil)
		f.approvalService.On("UpdateApprovals", ctx, second.ID, int64(100)).Return(dtos.EvaluationResult{MergeRequestID: second.ID}, nil)

		results, err := f.daemon(DefaultConfig()).HandlePipelineCompleted(ctx, dtos.PipelineCompletedEvent{PipelineID: 100, ProjectID: 1})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("should keep evaluating when one merge request fails", func(t *testing.T) {
		f := newDaemonFixture(t)
		failing, ok := mergeRequest(1, 1), mergeRequest(1, 2)

		f.mergeRequestRepository.On("FindOpenByHeadPipeline", ctx, int64(100)).Return([]models.MergeRequest{failing, ok}, nil)
		f.approvalService.On("UpdateApprovals", ctx, failing.ID, int64(100)).Return(dtos.EvaluationResult{}, fmt.Errorf("database down"))
		f.approvalService.On("UpdateApprovals", ctx, ok.ID, int64(100)).Return(dtos.EvaluationResult{MergeRequestID: ok.ID}, nil)

		results, err := f.daemon(Config{Workers: 1}).HandlePipelineCompleted(ctx, dtos.PipelineCompletedEvent{PipelineID: 100})
		require.NoError(t, err)
		require.Len(t, results, 2)

		byID := map[uuid.UUID]dtos.EvaluationResult{}
		for _, r := range results {
			byID[r.MergeRequestID] = r
		}
		assert.Contains(t, byID[failing.ID].Skipped, "database down")
		assert.Empty(t, byID[ok.ID].Skipped)
	})

	t.Run("should recover from a panicking evaluation", func(t *testing.T) {
		f := newDaemonFixture(t)
		mr := mergeRequest(1, 1)

		f.mergeRequestRepository.On("FindOpenByHeadPipeline", ctx, int64(100)).Return([]models.MergeRequest{mr}, nil)
		f.approvalService.On("UpdateApprovals", ctx, mr.ID, int64(100)).Run(func(args mock.Arguments) {
			panic("boom")
		})

		results, err := f.daemon(DefaultConfig()).HandlePipelineCompleted(ctx, dtos.PipelineCompletedEvent{PipelineID: 100})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "panic", results[0].Skipped)
	})

	t.Run("should return the repository error", func(t *testing.T) {
		f := newDaemonFixture(t)
		f.mergeRequestRepository.On("FindOpenByHeadPipeline", ctx, int64(100)).Return(nil, fmt.Errorf("timeout"))

		_, err := f.daemon(DefaultConfig()).HandlePipelineCompleted(ctx, dtos.PipelineCompletedEvent{PipelineID: 100})
		assert.ErrorContains(t, err, "timeout")
	})
}

func TestHandlePolicyChange(t *testing.T) {
	ctx := context.Background()

	t.Run("should unblock fail open rules of a merge request without head pipeline", func(t *testing.T) {
		f := newDaemonFixture(t)
		mr := mergeRequest(7, 1)

		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(7)).Return([]models.MergeRequest{mr}, nil)
		materialized := f.policyService.On("MaterializeApprovalRules", ctx, mr).Return([]models.ApprovalRule{}, nil).Once()
		unblocked := f.approvalService.On("UnblockFailOpenRules", ctx, mr.ID).
			Return(dtos.EvaluationResult{MergeRequestID: mr.ID, Rules: []dtos.RuleEvaluation{{RuleName: "fail open"}}}, nil).Once().NotBefore(materialized)
		f.approvalService.On("SyncPreexistingStates", ctx, mr.ID).
			Return(dtos.EvaluationResult{MergeRequestID: mr.ID, Skipped: "no approval rules to evaluate"}, nil).Once().NotBefore(unblocked)

		results, err := f.daemon(DefaultConfig()).HandlePolicyChange(ctx, dtos.PolicyChangedEvent{ProjectID: 7})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Empty(t, results[0].Skipped)
		assert.Len(t, results[0].Rules, 1)
		f.approvalService.AssertNotCalled(t, "UpdateApprovals", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should evaluate the head pipeline with the materialized rules", func(t *testing.T) {
		f := newDaemonFixture(t)
		mr := mergeRequest(7, 1)
		headPipelineID := int64(300)
		mr.HeadPipelineID = &headPipelineID

		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(7)).Return([]models.MergeRequest{mr}, nil)
		materialized := f.policyService.On("MaterializeApprovalRules", ctx, mr).Return([]models.ApprovalRule{}, nil).Once()
		evaluated := f.approvalService.On("UpdateApprovals", ctx, mr.ID, headPipelineID).
			Return(dtos.EvaluationResult{MergeRequestID: mr.ID, Rules: []dtos.RuleEvaluation{{RuleName: "new findings"}}}, nil).Once().NotBefore(materialized)
		f.approvalService.On("SyncPreexistingStates", ctx, mr.ID).
			Return(dtos.EvaluationResult{MergeRequestID: mr.ID, Rules: []dtos.RuleEvaluation{{RuleName: "pre-existing"}}}, nil).Once().NotBefore(evaluated)

		results, err := f.daemon(DefaultConfig()).HandlePolicyChange(ctx, dtos.PolicyChangedEvent{ProjectID: 7})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"new findings", "pre-existing"}, []string{results[0].Rules[0].RuleName, results[0].Rules[1].RuleName})
		f.approvalService.AssertNotCalled(t, "UnblockFailOpenRules", mock.Anything, mock.Anything)
	})

	t.Run("should not sync when materializing fails", func(t *testing.T) {
		f := newDaemonFixture(t)
		mr := mergeRequest(7, 1)

		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(7)).Return([]models.MergeRequest{mr}, nil)
		f.policyService.On("MaterializeApprovalRules", ctx, mr).Return(nil, fmt.Errorf("invalid branch filter"))

		results, err := f.daemon(DefaultConfig()).HandlePolicyChange(ctx, dtos.PolicyChangedEvent{ProjectID: 7})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Skipped, "could not materialize approval rules")
		f.approvalService.AssertNotCalled(t, "SyncPreexistingStates", mock.Anything, mock.Anything)
	})
}

func TestSyncPreexisting(t *testing.T) {
	ctx := context.Background()

	t.Run("should do nothing on a follower", func(t *testing.T) {
		f := newDaemonFixture(t)
		f.leaderElector.On("IsLeader").Return(false)

		assert.NoError(t, f.daemon(DefaultConfig()).SyncPreexisting(ctx))
		f.policyRepository.AssertNotCalled(t, "ProjectIDs", mock.Anything)
	})

	t.Run("should sync every project with policies without materializing", func(t *testing.T) {
		f := newDaemonFixture(t)
		a, b := mergeRequest(1, 1), mergeRequest(2, 1)

		f.leaderElector.On("IsLeader").Return(true)
		f.policyRepository.On("ProjectIDs", ctx).Return([]int64{1, 2}, nil)
		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(1)).Return([]models.MergeRequest{a}, nil)
		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(2)).Return([]models.MergeRequest{b}, nil)
		f.approvalService.On("SyncPreexistingStates", ctx, a.ID).Return(dtos.EvaluationResult{MergeRequestID: a.ID}, nil).Once()
		f.approvalService.On("SyncPreexistingStates", ctx, b.ID).Return(dtos.EvaluationResult{MergeRequestID: b.ID}, nil).Once()

		assert.NoError(t, f.daemon(DefaultConfig()).SyncPreexisting(ctx))
		f.policyService.AssertNotCalled(t, "MaterializeApprovalRules", mock.Anything, mock.Anything)
	})

	t.Run("should continue with the next project when one fails", func(t *testing.T) {
		f := newDaemonFixture(t)
		b := mergeRequest(2, 1)

		f.leaderElector.On("IsLeader").Return(true)
		f.policyRepository.On("ProjectIDs", ctx).Return([]int64{1, 2}, nil)
		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(1)).Return(nil, fmt.Errorf("timeout"))
		f.mergeRequestRepository.On("FindOpenByProject", ctx, int64(2)).Return([]models.MergeRequest{b}, nil)
		f.approvalService.On("SyncPreexistingStates", ctx, b.ID).Return(dtos.EvaluationResult{MergeRequestID: b.ID}, nil).Once()

		assert.NoError(t, f.daemon(DefaultConfig()).SyncPreexisting(ctx))
	})
}

func TestEvaluationDaemonStart(t *testing.T) {
	t.Run("should dispatch broker messages and drop undecodable ones", func(t *testing.T) {
		f := newDaemonFixture(t)
		pipelines := make(chan map[string]any, 2)
		policies := make(chan map[string]any)
		mr := mergeRequest(1, 1)

		f.broker.On("Subscribe", shared.PipelineCompleted).Return((<-chan map[string]any)(pipelines), nil)
		f.broker.On("Subscribe", shared.PolicyChange).Return((<-chan map[string]any)(policies), nil)

		done := make(chan struct{})
		f.mergeRequestRepository.On("FindOpenByHeadPipeline", mock.Anything, int64(100)).Return([]models.MergeRequest{mr}, nil).Once()
		f.approvalService.On("UpdateApprovals", mock.Anything, mr.ID, int64(100)).Run(func(args mock.Arguments) {
			close(done)
		}).Return(dtos.EvaluationResult{MergeRequestID: mr.ID}, nil).Once()

		daemon := f.daemon(Config{Workers: 2})
		require.NoError(t, daemon.Start(context.Background()))

		pipelines <- map[string]any{"pipelineId": "not a number"}
		// numbers arrive as float64 after the json round trip through the broker
		pipelines <- map[string]any{"pipelineId": float64(100), "projectId": float64(1), "ref": "main", "sha": "abc"}

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("pipeline completed event was not handled")
		}
		daemon.Stop()
	})

	t.Run("should fail when the subscription fails", func(t *testing.T) {
		f := newDaemonFixture(t)
		f.broker.On("Subscribe", shared.PipelineCompleted).Return(nil, fmt.Errorf("connection refused"))

		err := f.daemon(DefaultConfig()).Start(context.Background())
		assert.ErrorContains(t, err, "could not subscribe to pipeline completed topic")
	})
}

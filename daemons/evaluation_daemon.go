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

package daemons

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/pkg/errors"
)

type Config struct {
	// number of merge requests evaluated in parallel
	Workers int `mapstructure:"workers"`
	// interval of the leader-only pre-existing state sync. Zero disables it.
	PreexistingSyncInterval time.Duration `mapstructure:"preexisting_sync_interval"`
}

func DefaultConfig() Config {
	return Config{
		Workers:                 5,
		PreexistingSyncInterval: 30 * time.Minute,
	}
}

// EvaluationDaemon reacts to pipeline completion and policy change notifications.
type EvaluationDaemon struct {
	broker                 shared.PubSubBroker
	mergeRequestRepository shared.MergeRequestRepository
	policyRepository       shared.PolicyRepository
	approvalService        shared.ApprovalService
	policyService          shared.PolicyService
	leaderElector          shared.LeaderElector
	config                 Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEvaluationDaemon(
	broker shared.PubSubBroker,
	mergeRequestRepository shared.MergeRequestRepository,
	policyRepository shared.PolicyRepository,
	approvalService shared.ApprovalService,
	policyService shared.PolicyService,
	leaderElector shared.LeaderElector,
	config Config,
) *EvaluationDaemon {
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	return &EvaluationDaemon{
		broker:                 broker,
		mergeRequestRepository: mergeRequestRepository,
		policyRepository:       policyRepository,
		approvalService:        approvalService,
		policyService:          policyService,
		leaderElector:          leaderElector,
		config:                 config,
	}
}

// Start subscribes to the broker and returns. The work happens in background goroutines until Stop is called.
func (d *EvaluationDaemon) Start(ctx context.Context) error {
	pipelines, err := d.broker.Subscribe(shared.PipelineCompleted)
	if err != nil {
		return errors.Wrap(err, "could not subscribe to pipeline completed topic")
	}
	policies, err := d.broker.Subscribe(shared.PolicyChange)
	if err != nil {
		return errors.Wrap(err, "could not subscribe to policy change topic")
	}

	// the fx start context is cancelled once startup finished
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.listen(ctx, pipelines, d.onPipelineCompleted)
	}()
	go func() {
		defer d.wg.Done()
		d.listen(ctx, policies, d.onPolicyChange)
	}()

	if d.config.PreexistingSyncInterval > 0 {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			ticker := time.NewTicker(d.config.PreexistingSyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := d.SyncPreexisting(ctx); err != nil {
						monitoring.Alert("could not sync pre-existing states", err)
					}
				}
			}
		}()
	}

	slog.Info("evaluation daemon started", "workers", d.config.Workers, "preexistingSyncInterval", d.config.PreexistingSyncInterval)
	return nil
}

// Stop cancels the background goroutines and waits for running evaluations to finish.
func (d *EvaluationDaemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	slog.Info("evaluation daemon stopped")
}

func (d *EvaluationDaemon) listen(ctx context.Context, ch <-chan map[string]any, handle func(context.Context, map[string]any)) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				slog.Warn("broker closed subscription")
				return
			}
			handle(ctx, payload)
		}
	}
}

func (d *EvaluationDaemon) onPipelineCompleted(ctx context.Context, payload map[string]any) {
	defer monitoring.RecoverAndAlert("panic while handling pipeline completed event")
	monitoring.EvaluationDaemonEventsReceived.Inc()

	var event dtos.PipelineCompletedEvent
	if err := shared.EncodeEvent(payload, &event); err != nil || event.PipelineID == 0 {
		monitoring.EvaluationDaemonEventsDropped.Inc()
		slog.Warn("dropping pipeline completed event", "payload", payload, "err", err)
		return
	}

	if _, err := d.HandlePipelineCompleted(ctx, event); err != nil {
		monitoring.Alert("could not handle pipeline completed event", err)
	}
}

func (d *EvaluationDaemon) onPolicyChange(ctx context.Context, payload map[string]any) {
	defer monitoring.RecoverAndAlert("panic while handling policy change event")

	var event dtos.PolicyChangedEvent
	if err := shared.EncodeEvent(payload, &event); err != nil || event.ProjectID == 0 {
		slog.Warn("dropping policy change event", "payload", payload, "err", err)
		return
	}

	if _, err := d.HandlePolicyChange(ctx, event); err != nil {
		monitoring.Alert("could not handle policy change event", err)
	}
}

// HandlePipelineCompleted evaluates every open merge request whose head pipeline is the completed pipeline.
// A failing merge request does not stop the others.
func (d *EvaluationDaemon) HandlePipelineCompleted(ctx context.Context, event dtos.PipelineCompletedEvent) ([]dtos.EvaluationResult, error) {
	mergeRequests, err := d.mergeRequestRepository.FindOpenByHeadPipeline(ctx, event.PipelineID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find merge requests for pipeline %d", event.PipelineID)
	}
	slog.Info("pipeline completed", "pipelineID", event.PipelineID, "projectID", event.ProjectID, "mergeRequests", len(mergeRequests))

	return d.forEach(mergeRequests, func(mr models.MergeRequest) (dtos.EvaluationResult, error) {
		return d.approvalService.UpdateApprovals(ctx, mr.ID, event.PipelineID)
	}), nil
}

// HandlePolicyChange materializes the reloaded policies into every open merge request of the project
// and re-evaluates the merge requests with the new rules.
func (d *EvaluationDaemon) HandlePolicyChange(ctx context.Context, event dtos.PolicyChangedEvent) ([]dtos.EvaluationResult, error) {
	return d.syncProject(ctx, event.ProjectID, true)
}

// SyncPreexisting re-evaluates the pre-existing rules of all projects. Only the leader does the work.
func (d *EvaluationDaemon) SyncPreexisting(ctx context.Context) error {
	if !d.leaderElector.IsLeader() {
		slog.Debug("not the leader - skipping pre-existing sync")
		return nil
	}

	projectIDs, err := d.policyRepository.ProjectIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "could not list projects with policies")
	}

	start := time.Now()
	for _, projectID := range projectIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := d.syncProject(ctx, projectID, false); err != nil {
			slog.Error("could not sync pre-existing states of project", "projectID", projectID, "err", err)
		}
	}
	slog.Info("pre-existing sync finished", "projects", len(projectIDs), "duration", time.Since(start))
	return nil
}

func (d *EvaluationDaemon) syncProject(ctx context.Context, projectID int64, materialize bool) ([]dtos.EvaluationResult, error) {
	mergeRequests, err := d.mergeRequestRepository.FindOpenByProject(ctx, projectID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find open merge requests of project %d", projectID)
	}

	return d.forEach(mergeRequests, func(mr models.MergeRequest) (dtos.EvaluationResult, error) {
		if !materialize {
			return d.approvalService.SyncPreexistingStates(ctx, mr.ID)
		}
		if _, err := d.policyService.MaterializeApprovalRules(ctx, mr); err != nil {
			return dtos.EvaluationResult{MergeRequestID: mr.ID}, errors.Wrap(err, "could not materialize approval rules")
		}
		return d.reevaluate(ctx, mr)
	}), nil
}

// reevaluate applies freshly materialized rules. The head pipeline is evaluated again if there is one,
// otherwise the fail open rules are unblocked. The pre-existing sync runs last.
func (d *EvaluationDaemon) reevaluate(ctx context.Context, mr models.MergeRequest) (dtos.EvaluationResult, error) {
	var result dtos.EvaluationResult
	var err error
	if mr.HeadPipelineID != nil {
		result, err = d.approvalService.UpdateApprovals(ctx, mr.ID, *mr.HeadPipelineID)
	} else {
		result, err = d.approvalService.UnblockFailOpenRules(ctx, mr.ID)
	}
	if err != nil {
		return dtos.EvaluationResult{MergeRequestID: mr.ID}, err
	}

	preexisting, err := d.approvalService.SyncPreexistingStates(ctx, mr.ID)
	if err != nil {
		return result, err
	}
	return combineResults(result, preexisting), nil
}

// combineResults is skipped only if both evaluations were skipped.
func combineResults(first, second dtos.EvaluationResult) dtos.EvaluationResult {
	first.Rules = append(first.Rules, second.Rules...)
	if second.Comment != nil {
		first.Comment = second.Comment
	}
	if first.Skipped != "" {
		first.Skipped = second.Skipped
	}
	return first
}

// forEach runs fn for every merge request on the bounded worker pool.
// Errors are alerted and never cancel the remaining merge requests.
func (d *EvaluationDaemon) forEach(mergeRequests []models.MergeRequest, fn func(models.MergeRequest) (dtos.EvaluationResult, error)) []dtos.EvaluationResult {
	group := utils.ErrGroup[dtos.EvaluationResult](d.config.Workers)
	monitoring.EvaluationDaemonQueueDepth.Add(float64(len(mergeRequests)))

	for _, mr := range mergeRequests {
		group.Go(func() (result dtos.EvaluationResult, err error) {
			monitoring.EvaluationDaemonQueueDepth.Dec()
			defer func() {
				if r := recover(); r != nil {
					monitoring.Alert("panic while evaluating merge request", fmt.Errorf("merge request %s: %v", mr.ID, r))
					result = dtos.EvaluationResult{MergeRequestID: mr.ID, Skipped: "panic"}
					err = nil
				}
			}()

			result, err = fn(mr)
			if err != nil {
				monitoring.Alert(fmt.Sprintf("could not evaluate merge request %s", mr.ID), err)
				return dtos.EvaluationResult{MergeRequestID: mr.ID, Skipped: err.Error()}, nil
			}
			return result, nil
		})
	}

	// the workers never return an error
	results, _ := group.WaitAndCollect()
	return results
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
)

type relatedPipelinesResolver struct {
	pipelineRepository shared.PipelineRepository
	config             EvaluationConfig
}

func NewRelatedPipelinesResolver(pipelineRepository shared.PipelineRepository, config EvaluationConfig) *relatedPipelinesResolver {
	return &relatedPipelinesResolver{
		pipelineRepository: pipelineRepository,
		config:             config,
	}
}

// RelatedPipelineIDs returns the pipeline and every pipeline of the same sha and ref which may carry security reports,
// for example pipelines started by a scan execution policy.
func (s *relatedPipelinesResolver) RelatedPipelineIDs(ctx context.Context, pipeline models.Pipeline) ([]int64, error) {
	ids, err := s.pipelineRepository.FindRelatedPipelineIDs(ctx, pipeline, models.SecurityReportPipelineSources)
	if err != nil {
		return nil, fmt.Errorf("could not find related pipelines of %d: %w", pipeline.ID, err)
	}
	return ids, nil
}

func (s *relatedPipelinesResolver) ComparisonPipelineIDs(ctx context.Context, mr models.MergeRequest, pipeline models.Pipeline) ([]int64, error) {
	baseline, err := s.comparisonPipeline(ctx, mr, pipeline)
	if err != nil {
		return nil, err
	}
	if baseline == nil {
		slog.Debug("no comparison pipeline found", "mergeRequestID", mr.ID, "pipelineID", pipeline.ID)
		return []int64{}, nil
	}
	return s.RelatedPipelineIDs(ctx, *baseline)
}

// comparisonPipeline prefers the merge base pipeline. The latest target branch pipeline
// is only used if no merge base pipeline with security data exists.
func (s *relatedPipelinesResolver) comparisonPipeline(ctx context.Context, mr models.MergeRequest, pipeline models.Pipeline) (*models.Pipeline, error) {
	if s.config.UseMergeBasePipeline && mr.MergeBaseSHA != "" {
		mergeBase, err := s.pipelineRepository.FindMergeBasePipeline(ctx, mr.ProjectID, mr.TargetBranch, mr.MergeBaseSHA)
		if err != nil {
			return nil, fmt.Errorf("could not find merge base pipeline: %w", err)
		}
		if mergeBase != nil {
			return mergeBase, nil
		}
	}

	// merged results pipelines run on top of the target sha
	sha := mr.DiffBaseSHA
	if pipeline.IsMergedResults() {
		sha = pipeline.TargetSHA
	}
	if sha != "" {
		target, err := s.pipelineRepository.FindLatestForSHA(ctx, mr.ProjectID, mr.TargetBranch, sha)
		if err != nil {
			return nil, fmt.Errorf("could not find target branch pipeline: %w", err)
		}
		if target != nil {
			return target, nil
		}
	}

	latest, err := s.pipelineRepository.FindLatestWithSecurityData(ctx, mr.ProjectID, mr.TargetBranch)
	if err != nil {
		return nil, fmt.Errorf("could not find latest target branch pipeline: %w", err)
	}
	return latest, nil
}

// headPipelineIDs falls back to the pipeline itself if the resolver returns nothing.
func headPipelineIDs(ctx context.Context, resolver shared.RelatedPipelinesResolver, pipeline models.Pipeline) ([]int64, error) {
	ids, err := resolver.RelatedPipelineIDs(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []int64{pipeline.ID}, nil
	}
	return utils.SortedUniq(ids), nil
}

package gitlabint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// MergeRequestSyncer keeps the stored merge request metadata in line with gitlab.
type MergeRequestSyncer struct {
	client                 shared.GitlabClientFacade
	mergeRequestRepository shared.MergeRequestRepository
}

func NewMergeRequestSyncer(client shared.GitlabClientFacade, mergeRequestRepository shared.MergeRequestRepository) *MergeRequestSyncer {
	return &MergeRequestSyncer{
		client:                 client,
		mergeRequestRepository: mergeRequestRepository,
	}
}

func mergeRequestState(state string) models.MergeRequestState {
	switch state {
	case "merged":
		return models.MergeRequestStateMerged
	case "closed":
		return models.MergeRequestStateClosed
	default:
		// locked merge requests are about to be merged and still open
		return models.MergeRequestStateOpened
	}
}

func mergeRequestFromGitlab(mr *gitlab.MergeRequest) models.MergeRequest {
	res := models.MergeRequest{
		ProjectID:    int64(mr.ProjectID),
		IID:          int64(mr.IID),
		Title:        mr.Title,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		DiffHeadSHA:  mr.SHA,
		DiffBaseSHA:  mr.DiffRefs.StartSha,
		MergeBaseSHA: mr.DiffRefs.BaseSha,
		State:        mergeRequestState(mr.State),
		MergeStatus:  mr.DetailedMergeStatus,
	}
	if mr.HeadPipeline != nil {
		res.HeadPipelineID = utils.Ptr(int64(mr.HeadPipeline.ID))
	}
	return res
}

// Sync fetches the merge request and upserts it. The id of an already stored merge request is kept.
func (s *MergeRequestSyncer) Sync(ctx context.Context, projectID int64, iid int64) (*models.MergeRequest, error) {
	remote, _, err := s.client.GetMergeRequest(ctx, int(projectID), int(iid))
	if err != nil {
		return nil, fmt.Errorf("could not fetch merge request !%d of project %d: %w", iid, projectID, err)
	}

	mr := mergeRequestFromGitlab(remote)
	existing, err := s.mergeRequestRepository.FindByIID(ctx, projectID, iid)
	if err != nil {
		return nil, fmt.Errorf("could not read merge request: %w", err)
	}
	if existing != nil {
		mr.ID = existing.ID
		mr.MergeTrain = existing.MergeTrain
	}

	if err := s.mergeRequestRepository.Save(ctx, nil, &mr); err != nil {
		return nil, fmt.Errorf("could not save merge request: %w", err)
	}
	slog.Info("synced merge request", "projectID", projectID, "iid", iid, "state", mr.State, "headPipelineID", mr.HeadPipelineID)
	return &mr, nil
}

// ResolveBotUserID returns the configured bot user id or the id of the token owner.
func ResolveBotUserID(ctx context.Context, client shared.GitlabClientFacade, configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	user, _, err := client.Whoami(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not resolve the security bot user: %w", err)
	}
	return int64(user.ID), nil
}

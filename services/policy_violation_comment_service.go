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
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
)

const FailedToObtainLockMessage = "Failed to obtain an exclusive lock"

type policyViolationCommentService struct {
	mergeRequestRepository shared.MergeRequestRepository
	violationRepository    shared.ViolationRepository
	noteStore              shared.NoteStore
	locker                 shared.Locker
	config                 EvaluationConfig
}

func NewPolicyViolationCommentService(
	mergeRequestRepository shared.MergeRequestRepository,
	violationRepository shared.ViolationRepository,
	noteStore shared.NoteStore,
	locker shared.Locker,
	config EvaluationConfig,
) *policyViolationCommentService {
	return &policyViolationCommentService{
		mergeRequestRepository: mergeRequestRepository,
		violationRepository:    violationRepository,
		noteStore:              noteStore,
		locker:                 locker,
		config:                 config,
	}
}

func commentLockKey(mr models.MergeRequest) string {
	return fmt.Sprintf("policy_violation_comment:%s", mr.ID)
}

// Execute reconciles the single policy violation comment of the merge request. It never returns an error,
// failures are reported through the result.
func (s *policyViolationCommentService) Execute(ctx context.Context, params dtos.CommentParams) dtos.ServiceResult {
	mr, err := s.mergeRequestRepository.Read(ctx, params.MergeRequestID)
	if err != nil {
		return dtos.ErrorResult(fmt.Sprintf("could not read merge request: %s", err))
	}
	if mr == nil {
		return dtos.ErrorResult("merge request not found")
	}

	// read before locking, the lock only guards the comment read-modify-write
	violations, err := s.violationRepository.FindByMergeRequest(ctx, mr.ID)
	if err != nil {
		return dtos.ErrorResult(fmt.Sprintf("could not read violations: %s", err))
	}

	release, err := s.locker.Lock(ctx, commentLockKey(*mr), s.config.commentLockTimeout())
	if err != nil {
		if errors.Is(err, shared.ErrFailedToObtainLock) {
			slog.Warn("could not obtain policy violation comment lock", "mergeRequestID", mr.ID, "iid", mr.IID)
			return dtos.ErrorResult(FailedToObtainLockMessage)
		}
		return dtos.ErrorResult(err.Error())
	}
	defer release()

	existing, err := s.findExistingComment(ctx, *mr)
	if err != nil {
		return dtos.ErrorResult(fmt.Sprintf("could not read notes: %s", err))
	}

	prior := CommentState{}
	if existing != nil {
		prior, _ = DecodeCommentState(existing.Body)
	}
	state := prior.Merge(params.Reports, violations)

	if !state.Violated() && existing == nil {
		slog.Debug("no policy violation and no comment, nothing to do", "mergeRequestID", mr.ID)
		return dtos.SuccessResult()
	}

	approvers := make([]string, 0)
	for _, report := range params.Reports {
		if report.Violated && slices.Contains(state.ViolatedReports, report.ReportType) {
			approvers = append(approvers, report.Approvers...)
		}
	}
	body := RenderPolicyViolationComment(state, violations, utils.SortedUniq(approvers)...)
	if existing != nil && existing.Body == body {
		return dtos.SuccessResult()
	}

	action := "update"
	if existing == nil {
		action = "create"
		_, err = s.noteStore.CreateMergeRequestNote(ctx, *mr, body)
	} else {
		_, err = s.noteStore.UpdateMergeRequestNote(ctx, *mr, existing.ID, body)
	}
	if err != nil {
		var validationErr *shared.NoteValidationError
		if errors.As(err, &validationErr) {
			return dtos.ErrorResult(validationErr.Messages...)
		}
		return dtos.ErrorResult(err.Error())
	}

	monitoring.CommentsTotal.WithLabelValues(action).Inc()
	slog.Info("policy violation comment reconciled",
		"mergeRequestID", mr.ID,
		"iid", mr.IID,
		"action", action,
		"violatedReports", state.ViolatedReports,
		"optionalApprovalReports", state.OptionalApprovalReports,
	)
	return dtos.SuccessResult()
}

// findExistingComment returns the oldest note of the bot which starts with the comment header.
func (s *policyViolationCommentService) findExistingComment(ctx context.Context, mr models.MergeRequest) (*shared.Note, error) {
	notes, err := s.noteStore.ListMergeRequestNotes(ctx, mr)
	if err != nil {
		return nil, err
	}
	var found *shared.Note
	for i := range notes {
		note := notes[i]
		if note.AuthorID != s.config.BotUserID || !IsPolicyViolationComment(note.Body) {
			continue
		}
		if found == nil || note.ID < found.ID {
			found = &note
		}
	}
	return found, nil
}

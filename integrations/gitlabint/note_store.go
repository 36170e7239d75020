package gitlabint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/l3montree-dev/policyguard/database/models"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// noteStore reads and writes merge request notes as the security bot.
type noteStore struct {
	client shared.GitlabClientFacade
}

func NewNoteStore(client shared.GitlabClientFacade) *noteStore {
	return &noteStore{client: client}
}

func toNote(note *gitlab.Note) shared.Note {
	return shared.Note{
		ID:       int64(note.ID),
		AuthorID: int64(note.Author.ID),
		Body:     note.Body,
	}
}

// ListMergeRequestNotes returns the user notes of the merge request. System notes are skipped.
func (s *noteStore) ListMergeRequestNotes(ctx context.Context, mr models.MergeRequest) ([]shared.Note, error) {
	notes, err := FetchPaginatedData(func(page int) ([]*gitlab.Note, *gitlab.Response, error) {
		return s.client.ListMergeRequestNotes(ctx, int(mr.ProjectID), int(mr.IID), &gitlab.ListMergeRequestNotesOptions{
			ListOptions: gitlab.ListOptions{Page: int64(page), PerPage: 100},
			OrderBy:     gitlab.Ptr("created_at"),
			Sort:        gitlab.Ptr("asc"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("could not list notes of merge request !%d: %w", mr.IID, err)
	}

	return utils.Map(
		utils.Filter(notes, func(note *gitlab.Note) bool {
			return note != nil && !note.System
		}),
		toNote,
	), nil
}

func (s *noteStore) CreateMergeRequestNote(ctx context.Context, mr models.MergeRequest, body string) (*shared.Note, error) {
	note, _, err := s.client.CreateMergeRequestNote(ctx, int(mr.ProjectID), int(mr.IID), &gitlab.CreateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	})
	if err != nil {
		return nil, noteError(err)
	}
	return utils.Ptr(toNote(note)), nil
}

func (s *noteStore) UpdateMergeRequestNote(ctx context.Context, mr models.MergeRequest, noteID int64, body string) (*shared.Note, error) {
	note, _, err := s.client.UpdateMergeRequestNote(ctx, int(mr.ProjectID), int(mr.IID), int(noteID), &gitlab.UpdateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	})
	if err != nil {
		return nil, noteError(err)
	}
	return utils.Ptr(toNote(note)), nil
}

// noteError turns a rejected note into a shared.NoteValidationError.
func noteError(err error) error {
	var errResp *gitlab.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return err
	}
	switch errResp.Response.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		messages := utils.Filter(strings.Split(errResp.Message, ", "), func(m string) bool {
			return strings.TrimSpace(m) != ""
		})
		return &shared.NoteValidationError{Messages: messages}
	}
	return err
}

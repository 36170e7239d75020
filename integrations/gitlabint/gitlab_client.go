// Copyright (C) 2024 Tim Bastin, l3montree GmbH
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

package gitlabint

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"
)

// Config is the connection of the security bot to the gitlab instance.
type Config struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
	// client side limit of api requests. Zero keeps the limiter of the gitlab client.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type gitlabClient struct {
	*gitlab.Client
}

var ErrNoGitlabToken = fmt.Errorf("no gitlab token configured")

func NewGitlabClient(config Config) (*gitlabClient, error) {
	if config.Token == "" {
		return nil, ErrNoGitlabToken
	}
	options := []gitlab.ClientOptionFunc{}
	if config.URL != "" {
		options = append(options, gitlab.WithBaseURL(config.URL))
	}
	if config.RequestsPerSecond > 0 {
		burst := max(int(config.RequestsPerSecond), 1)
		options = append(options, gitlab.WithCustomLimiter(rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)))
	}
	client, err := gitlab.NewClient(config.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("could not create gitlab client: %w", err)
	}
	return &gitlabClient{Client: client}, nil
}

func (client gitlabClient) Whoami(ctx context.Context) (*gitlab.User, *gitlab.Response, error) {
	return client.Users.CurrentUser(gitlab.WithContext(ctx))
}

func (client gitlabClient) GetMergeRequest(ctx context.Context, projectID int, iid int) (*gitlab.MergeRequest, *gitlab.Response, error) {
	return client.MergeRequests.GetMergeRequest(projectID, int64(iid), nil, gitlab.WithContext(ctx))
}

func (client gitlabClient) ListMergeRequestNotes(ctx context.Context, projectID int, iid int, opt *gitlab.ListMergeRequestNotesOptions) ([]*gitlab.Note, *gitlab.Response, error) {
	return client.Notes.ListMergeRequestNotes(projectID, int64(iid), opt, gitlab.WithContext(ctx))
}

func (client gitlabClient) CreateMergeRequestNote(ctx context.Context, projectID int, iid int, opt *gitlab.CreateMergeRequestNoteOptions) (*gitlab.Note, *gitlab.Response, error) {
	return client.Notes.CreateMergeRequestNote(projectID, int64(iid), opt, gitlab.WithContext(ctx))
}

func (client gitlabClient) UpdateMergeRequestNote(ctx context.Context, projectID int, iid int, noteID int, opt *gitlab.UpdateMergeRequestNoteOptions) (*gitlab.Note, *gitlab.Response, error) {
	return client.Notes.UpdateMergeRequestNote(projectID, int64(iid), int64(noteID), opt, gitlab.WithContext(ctx))
}

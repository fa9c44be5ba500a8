// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sourcerepos implements the Cloud Source Repositories surface:
// listing a project's repos and cloning one to a local directory.
package sourcerepos

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	sourcerepoapi "google.golang.org/api/sourcerepo/v1"

	"github.com/googleapis/cloudsdk/internal/pager"
)

// List pages through the project's repositories.
func List(ctx context.Context, svc *sourcerepoapi.Service, projectID string, limit, pageSize int64) ([]*sourcerepoapi.Repo, error) {
	name := "projects/" + projectID
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*sourcerepoapi.Repo, string, error) {
		call := svc.Projects.Repos.List(name).Context(ctx)
		if size > 0 {
			call = call.PageSize(size)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list repos in %s: %w", name, err)
		}
		return resp.Repos, resp.NextPageToken, nil
	}
	return pager.All(ctx, fetch, limit, pageSize)
}

// Get fetches one repository's metadata.
func Get(ctx context.Context, svc *sourcerepoapi.Service, projectID, repoName string) (*sourcerepoapi.Repo, error) {
	name := fmt.Sprintf("projects/%s/repos/%s", projectID, repoName)
	return svc.Projects.Repos.Get(name).Context(ctx).Do()
}

// CloneOptions configures Clone.
type CloneOptions struct {
	// AccessToken authenticates the clone; the repo is cloned
	// anonymously when empty.
	AccessToken string
	// Progress receives the transfer progress stream; nil discards it.
	Progress io.Writer
}

// Clone downloads a copy of the repository at repoURL into dirpath. The
// directory must not already exist.
func Clone(ctx context.Context, dirpath, repoURL string, opts *CloneOptions) (*git.Repository, error) {
	if opts == nil {
		opts = &CloneOptions{}
	}
	if _, err := os.Stat(dirpath); err == nil {
		return nil, fmt.Errorf("destination %s already exists", dirpath)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	options := &git.CloneOptions{
		URL:           repoURL,
		ReferenceName: plumbing.HEAD,
		Tags:          git.NoTags,
		Progress:      opts.Progress,
	}
	if opts.AccessToken != "" {
		// Cloud Source Repositories accept an OAuth2 access token as
		// the basic-auth password.
		options.Auth = &http.BasicAuth{Username: "oauth2accesstoken", Password: opts.AccessToken}
	}
	repo, err := git.PlainCloneContext(ctx, dirpath, false, options)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", repoURL, err)
	}
	return repo, nil
}

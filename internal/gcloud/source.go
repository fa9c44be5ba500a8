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

package gcloud

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/sourcerepos"
)

func (e *env) sourceCommand() *cli.Command {
	repos := &cli.Command{
		Name:  "repos",
		Usage: "manage Cloud Source Repositories",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the project's repositories",
				UsageText: "gcloud source repos list",
				Flags:     listFlags(),
				Action:    e.action(e.runReposList),
			},
			{
				Name:      "clone",
				Usage:     "clone a repository to a local directory",
				UsageText: "gcloud source repos clone REPO_NAME [DIRECTORY]",
				Flags:     commonFlags(),
				Action:    e.action(e.runReposClone),
			},
		},
	}
	return &cli.Command{
		Name:     "source",
		Usage:    "manage source repositories",
		Commands: []*cli.Command{repos},
	}
}

func (e *env) runReposList(ctx context.Context, cmd *cli.Command) error {
	project, err := e.project(cmd)
	if err != nil {
		return err
	}
	svc, err := e.settings().SourceRepo(ctx)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	repos, err := sourcerepos.List(ctx, svc, project, limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(repos))
	for i, r := range repos {
		resources[i] = r
	}
	return e.printList(cmd, resources, "table(name.basename(), size, url)")
}

func (e *env) runReposClone(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 || cmd.Args().Len() > 2 {
		return usageErrorf("expected REPO_NAME and an optional DIRECTORY argument")
	}
	name := cmd.Args().Get(0)
	dir := cmd.Args().Get(1)
	if dir == "" {
		dir = name
	}
	project, err := e.project(cmd)
	if err != nil {
		return err
	}
	svc, err := e.settings().SourceRepo(ctx)
	if err != nil {
		return err
	}
	repo, err := sourcerepos.Get(ctx, svc, project, name)
	if err != nil {
		return apierrors.Wrap(err)
	}

	opts := &sourcerepos.CloneOptions{Progress: e.stderr}
	if !e.noAuth {
		ts, err := e.settings().ADCTokenSource(ctx)
		if err != nil {
			return err
		}
		token, err := ts.Token()
		if err != nil {
			return err
		}
		opts.AccessToken = token.AccessToken
	}
	if _, err := sourcerepos.Clone(ctx, dir, repo.Url, opts); err != nil {
		return err
	}
	e.statusf("Cloned [%s] into [%s].", repo.Name, dir)
	return nil
}

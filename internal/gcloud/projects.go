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
	crmapi "google.golang.org/api/cloudresourcemanager/v1"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/pager"
)

func (e *env) projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "manage project resources",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list projects the caller can access",
				UsageText: "gcloud projects list",
				Flags:     listFlags(),
				Action:    e.action(e.runProjectsList),
			},
			{
				Name:      "describe",
				Usage:     "show one project",
				UsageText: "gcloud projects describe PROJECT_ID",
				Flags:     commonFlags(),
				Action:    e.action(e.runProjectsDescribe),
			},
		},
	}
}

func (e *env) runProjectsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := e.settings().ResourceManager(ctx)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	fetch := func(ctx context.Context, pageToken string, size int64) ([]*crmapi.Project, string, error) {
		call := svc.Projects.List().Context(ctx)
		if size > 0 {
			call = call.PageSize(size)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Projects, resp.NextPageToken, nil
	}
	projects, err := pager.All(ctx, fetch, limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(projects))
	for i, p := range projects {
		resources[i] = p
	}
	return e.printList(cmd, resources, "table(projectId, name, projectNumber)")
}

func (e *env) runProjectsDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a PROJECT_ID argument")
	}
	svc, err := e.settings().ResourceManager(ctx)
	if err != nil {
		return err
	}
	project, err := svc.Projects.Get(cmd.Args().First()).Context(ctx).Do()
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, project, "yaml")
}

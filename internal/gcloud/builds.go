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
	"errors"
	"os"

	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/builds"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

const buildsTable = "table(id, status, createTime, images)"

func (e *env) buildsCommand() *cli.Command {
	return &cli.Command{
		Name:  "builds",
		Usage: "manage Cloud Build builds",
		Commands: []*cli.Command{
			{
				Name:      "submit",
				Usage:     "submit a build",
				UsageText: "gcloud builds submit [gs://BUCKET/OBJECT] --tag=TAG | --config=PATH",
				Flags: append(commonFlags(), asyncFlag(),
					&cli.StringFlag{Name: "tag", Usage: "build and push this image tag with the default docker step"},
					&cli.StringFlag{Name: "config", Usage: "path to a cloudbuild.yaml build config"},
					&cli.BoolFlag{Name: "no-source", Usage: "submit the build without source"},
				),
				Action: e.action(e.runBuildsSubmit),
			},
			{
				Name:      "list",
				Usage:     "list builds",
				UsageText: "gcloud builds list",
				Flags:     listFlags(),
				Action:    e.action(e.runBuildsList),
			},
			{
				Name:      "describe",
				Usage:     "show one build",
				UsageText: "gcloud builds describe BUILD_ID",
				Flags:     commonFlags(),
				Action:    e.action(e.runBuildsDescribe),
			},
		},
	}
}

func (e *env) buildsAPI(ctx context.Context, cmd *cli.Command) (builds.API, string, error) {
	project, err := e.project(cmd)
	if err != nil {
		return nil, "", err
	}
	client, err := e.settings().CloudBuild(ctx)
	if err != nil {
		return nil, "", err
	}
	return &builds.GapicAPI{Client: client}, project, nil
}

func (e *env) runBuildsSubmit(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.String("tag")
	configPath := cmd.String("config")
	if (tag == "") == (configPath == "") {
		return usageErrorf("exactly one of --tag or --config is required")
	}

	var build *cloudbuildpb.Build
	if tag != "" {
		build = builds.DockerBuild(tag)
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		if build, err = builds.ParseConfig(data); err != nil {
			return err
		}
	}
	switch {
	case cmd.Args().Len() > 1:
		return usageErrorf("expected at most one gs://BUCKET/OBJECT source argument")
	case cmd.Args().Len() == 1 && cmd.Bool("no-source"):
		return usageErrorf("--no-source excludes a source argument")
	case cmd.Args().Len() == 1:
		source, err := builds.StorageSource(cmd.Args().First())
		if err != nil {
			return usageErrorf("%v", err)
		}
		build.Source = source
	case !cmd.Bool("no-source"):
		return usageErrorf("expected a gs://BUCKET/OBJECT source argument or --no-source")
	}

	api, project, err := e.buildsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	got, err := builds.Submit(ctx, api, project, build, cmd.Bool("async"), e.waitOpts)
	var opErr *waiter.OperationError
	switch {
	case err == nil:
		if cmd.Bool("async") {
			e.statusf("Created [%s].", got.GetId())
		} else {
			e.statusf("%s: build [%s] finished.", color.GreenString("SUCCESS"), got.GetId())
		}
	case errors.As(err, &opErr) && got != nil:
		e.statusf("%s: %s", color.RedString(got.GetStatus().String()), opErr.Message)
	default:
		return apierrors.Wrap(err)
	}
	if printErr := e.printOne(cmd, got, "yaml"); printErr != nil {
		return printErr
	}
	return err
}

func (e *env) runBuildsList(ctx context.Context, cmd *cli.Command) error {
	api, project, err := e.buildsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	// Cloud Build filters server side, so the fetch cap counts filtered
	// rows and no client-side filter pass is applied.
	limit, pageSize := int64(cmd.Int("limit")), int64(cmd.Int("page-size"))
	got, err := builds.List(ctx, api, project, cmd.String("filter"), limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(got))
	for i, b := range got {
		resources[i] = b
	}
	return e.printServerFiltered(cmd, resources, buildsTable)
}

func (e *env) runBuildsDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a BUILD_ID argument")
	}
	api, project, err := e.buildsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	got, err := api.GetBuild(ctx, project, cmd.Args().First())
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, got, "yaml")
}

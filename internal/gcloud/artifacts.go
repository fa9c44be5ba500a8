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
	"fmt"
	"strings"

	"cloud.google.com/go/artifactregistry/apiv1/artifactregistrypb"
	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/artifacts"
)

func locationFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "location",
		Usage: "location of the repository, for example us or us-central1",
	}
}

func (e *env) artifactsCommand() *cli.Command {
	repositories := &cli.Command{
		Name:  "repositories",
		Usage: "manage Artifact Registry repositories",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list repositories in a location",
				UsageText: "gcloud artifacts repositories list --location=LOCATION",
				Flags:     append(listFlags(), locationFlag()),
				Action:    e.action(e.runRepositoriesList),
			},
			{
				Name:      "describe",
				Usage:     "show one repository",
				UsageText: "gcloud artifacts repositories describe NAME --location=LOCATION",
				Flags:     append(commonFlags(), locationFlag()),
				Action:    e.action(e.runRepositoriesDescribe),
			},
			{
				Name:      "create",
				Usage:     "create a repository",
				UsageText: "gcloud artifacts repositories create NAME --location=LOCATION --repository-format=FORMAT",
				Flags: append(commonFlags(), locationFlag(), asyncFlag(),
					&cli.StringFlag{Name: "repository-format", Usage: "format of the repository: docker|maven|npm|apt|yum|python|go"},
					&cli.StringFlag{Name: "description", Usage: "repository description"},
				),
				Action: e.action(e.runRepositoriesCreate),
			},
			{
				Name:      "delete",
				Usage:     "delete a repository",
				UsageText: "gcloud artifacts repositories delete NAME --location=LOCATION",
				Flags:     append(commonFlags(), locationFlag(), asyncFlag()),
				Action:    e.action(e.runRepositoriesDelete),
			},
			{
				Name:      "get-iam-policy",
				Usage:     "show a repository's IAM policy",
				UsageText: "gcloud artifacts repositories get-iam-policy NAME --location=LOCATION",
				Flags:     append(commonFlags(), locationFlag()),
				Action:    e.action(e.runRepositoriesGetIamPolicy),
			},
			{
				Name:      "add-iam-policy-binding",
				Usage:     "add a member to a repository's IAM policy",
				UsageText: "gcloud artifacts repositories add-iam-policy-binding NAME --location=LOCATION --member=MEMBER --role=ROLE",
				Flags: append(commonFlags(), locationFlag(),
					&cli.StringFlag{Name: "member", Usage: "member to add, for example user:alice@example.com"},
					&cli.StringFlag{Name: "role", Usage: "role to grant, for example roles/artifactregistry.reader"},
				),
				Action: e.action(e.runRepositoriesAddIamPolicyBinding),
			},
		},
	}
	return &cli.Command{
		Name:     "artifacts",
		Usage:    "manage Artifact Registry resources",
		Commands: []*cli.Command{repositories},
	}
}

func (e *env) artifactsAPI(ctx context.Context, cmd *cli.Command) (artifacts.API, string, error) {
	project, err := e.project(cmd)
	if err != nil {
		return nil, "", err
	}
	location := cmd.String("location")
	if location == "" {
		return nil, "", usageErrorf("--location is required")
	}
	client, err := e.settings().ArtifactRegistry(ctx)
	if err != nil {
		return nil, "", err
	}
	parent := fmt.Sprintf("projects/%s/locations/%s", project, location)
	return &artifacts.GapicAPI{Client: client}, parent, nil
}

// repositoryResource resolves the NAME argument: a full relative name is
// validated against the collection template, a bare ID is scoped to the
// resolved parent.
func repositoryResource(arg, parent string) (string, error) {
	if strings.Contains(arg, "/") {
		ref, err := nameRegistry.Parse("artifactregistry.repositories", arg)
		if err != nil {
			return "", usageErrorf("%v", err)
		}
		return ref.RelativeName(), nil
	}
	return parent + "/repositories/" + arg, nil
}

func (e *env) runRepositoriesList(ctx context.Context, cmd *cli.Command) error {
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	repos, err := artifacts.List(ctx, api, parent, limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(repos))
	for i, r := range repos {
		resources[i] = r
	}
	return e.printList(cmd, resources, "table(name.basename(), format, description)")
}

func (e *env) runRepositoriesDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a repository NAME argument")
	}
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	name, err := repositoryResource(cmd.Args().First(), parent)
	if err != nil {
		return err
	}
	repo, err := api.GetRepository(ctx, name)
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, repo, "yaml")
}

func (e *env) runRepositoriesCreate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a repository NAME argument")
	}
	name := cmd.Args().First()
	repoFormat, err := artifacts.ParseFormat(cmd.String("repository-format"))
	if err != nil {
		return usageErrorf("%v", err)
	}
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	op, err := api.CreateRepository(ctx, parent, name, &artifactregistrypb.Repository{
		Format:      repoFormat,
		Description: cmd.String("description"),
	})
	if err != nil {
		return apierrors.Wrap(err)
	}
	if cmd.Bool("async") {
		e.statusf("Create in progress [%s].", op.Name())
		return nil
	}
	repo, err := artifacts.Await(ctx, op, e.waitOpts)
	if err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Created repository [%s].", name)
	return e.printOne(cmd, repo, "none")
}

func (e *env) runRepositoriesDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a repository NAME argument")
	}
	name := cmd.Args().First()
	ok, err := e.confirm(cmd, fmt.Sprintf("Repository [%s] and all of its contents will be deleted.", name))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("deletion aborted by user")
	}
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	resourceName, err := repositoryResource(name, parent)
	if err != nil {
		return err
	}
	op, err := api.DeleteRepository(ctx, resourceName)
	if err != nil {
		return apierrors.Wrap(err)
	}
	if cmd.Bool("async") {
		e.statusf("Delete in progress [%s].", op.Name())
		return nil
	}
	if _, err := artifacts.Await(ctx, op, e.waitOpts); err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Deleted repository [%s].", name)
	return nil
}

func (e *env) runRepositoriesGetIamPolicy(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a repository NAME argument")
	}
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	name, err := repositoryResource(cmd.Args().First(), parent)
	if err != nil {
		return err
	}
	policy, err := api.GetIamPolicy(ctx, name)
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, policy, "yaml")
}

func (e *env) runRepositoriesAddIamPolicyBinding(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a repository NAME argument")
	}
	member, role := cmd.String("member"), cmd.String("role")
	if member == "" || role == "" {
		return usageErrorf("--member and --role are required")
	}
	api, parent, err := e.artifactsAPI(ctx, cmd)
	if err != nil {
		return err
	}
	resource, err := repositoryResource(cmd.Args().First(), parent)
	if err != nil {
		return err
	}
	policy, err := api.GetIamPolicy(ctx, resource)
	if err != nil {
		return apierrors.Wrap(err)
	}
	if artifacts.AddBinding(policy, role, member) {
		if policy, err = api.SetIamPolicy(ctx, resource, policy); err != nil {
			return apierrors.Wrap(err)
		}
	}
	return e.printOne(cmd, policy, "yaml")
}

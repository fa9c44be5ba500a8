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

	"cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

func apiFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "api",
		Usage: "API that owns the operation, for example cloudbuild or artifactregistry",
		Value: "artifactregistry",
	}
}

func (e *env) operationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "operations",
		Usage: "inspect long-running operations",
		Commands: []*cli.Command{
			{
				Name:      "describe",
				Usage:     "show one operation",
				UsageText: "gcloud operations describe OPERATION_NAME --api=API",
				Flags:     append(commonFlags(), apiFlag()),
				Action:    e.action(e.runOperationsDescribe),
			},
			{
				Name:      "wait",
				Usage:     "poll an operation until it finishes",
				UsageText: "gcloud operations wait OPERATION_NAME --api=API",
				Flags:     append(commonFlags(), apiFlag()),
				Action:    e.action(e.runOperationsWait),
			},
		},
	}
}

func (e *env) runOperationsDescribe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected an OPERATION_NAME argument")
	}
	client, err := e.settings().Operations(ctx, cmd.String("api"))
	if err != nil {
		return err
	}
	defer client.Close()
	op, err := client.GetOperation(ctx, &longrunningpb.GetOperationRequest{Name: cmd.Args().First()})
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, op, "yaml")
}

func (e *env) runOperationsWait(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected an OPERATION_NAME argument")
	}
	name := cmd.Args().First()
	client, err := e.settings().Operations(ctx, cmd.String("api"))
	if err != nil {
		return err
	}
	defer client.Close()
	p := &waiter.CloudOperationPoller{Getter: client, Name: name}
	op, err := waiter.WaitFor(ctx, p, name, e.waitOpts)
	if err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Operation [%s] finished.", name)
	return e.printOne(cmd, op, "yaml")
}

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

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/apierrors"
	"github.com/googleapis/cloudsdk/internal/storage"
)

func (e *env) storageCommand() *cli.Command {
	buckets := &cli.Command{
		Name:  "buckets",
		Usage: "manage Cloud Storage buckets",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the project's buckets",
				UsageText: "gcloud storage buckets list",
				Flags:     listFlags(),
				Action:    e.action(e.runBucketsList),
			},
			{
				Name:      "describe",
				Usage:     "show one bucket",
				UsageText: "gcloud storage buckets describe gs://BUCKET",
				Flags:     commonFlags(),
				Action:    e.action(e.runBucketsDescribe),
			},
			{
				Name:      "create",
				Usage:     "create a bucket",
				UsageText: "gcloud storage buckets create gs://BUCKET",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "location", Usage: "bucket location, for example US or EU"},
					&cli.StringFlag{Name: "default-storage-class", Usage: "default storage class for objects"},
				),
				Action: e.action(e.runBucketsCreate),
			},
			{
				Name:      "delete",
				Usage:     "delete an empty bucket",
				UsageText: "gcloud storage buckets delete gs://BUCKET",
				Flags:     commonFlags(),
				Action:    e.action(e.runBucketsDelete),
			},
		},
	}
	objects := &cli.Command{
		Name:  "objects",
		Usage: "manage Cloud Storage objects",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list a bucket's objects",
				UsageText: "gcloud storage objects list gs://BUCKET[/PREFIX]",
				Flags:     listFlags(),
				Action:    e.action(e.runObjectsList),
			},
		},
	}
	return &cli.Command{
		Name:     "storage",
		Usage:    "manage Cloud Storage resources",
		Commands: []*cli.Command{buckets, objects},
	}
}

func (e *env) storageAdapter(ctx context.Context, cmd *cli.Command) (*storage.Adapter, error) {
	project, err := e.project(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := e.settings().Storage(ctx)
	if err != nil {
		return nil, err
	}
	return &storage.Adapter{Service: svc, Project: project}, nil
}

// bucketArg parses the single gs://BUCKET argument.
func bucketArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", usageErrorf("expected a gs://BUCKET argument")
	}
	bucket, prefix, err := storage.ParseURL(cmd.Args().First())
	if err != nil {
		return "", usageErrorf("%v", err)
	}
	if prefix != "" {
		return "", usageErrorf("expected a bucket URL without an object path")
	}
	return bucket, nil
}

func (e *env) runBucketsList(ctx context.Context, cmd *cli.Command) error {
	a, err := e.storageAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	buckets, err := a.ListBuckets(ctx, limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(buckets))
	for i, b := range buckets {
		resources[i] = b
	}
	return e.printList(cmd, resources, "table(name, location, storageClass)")
}

func (e *env) runBucketsDescribe(ctx context.Context, cmd *cli.Command) error {
	bucket, err := bucketArg(cmd)
	if err != nil {
		return err
	}
	a, err := e.storageAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	got, err := a.GetBucket(ctx, bucket)
	if err != nil {
		return apierrors.Wrap(err)
	}
	return e.printOne(cmd, got, "yaml")
}

func (e *env) runBucketsCreate(ctx context.Context, cmd *cli.Command) error {
	bucket, err := bucketArg(cmd)
	if err != nil {
		return err
	}
	a, err := e.storageAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	created, err := a.CreateBucket(ctx, bucket, cmd.String("location"), cmd.String("default-storage-class"))
	if err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Created [gs://%s].", created.Name)
	return e.printOne(cmd, created, "none")
}

func (e *env) runBucketsDelete(ctx context.Context, cmd *cli.Command) error {
	bucket, err := bucketArg(cmd)
	if err != nil {
		return err
	}
	ok, err := e.confirm(cmd, fmt.Sprintf("Bucket [gs://%s] will be deleted.", bucket))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("deletion aborted by user")
	}
	a, err := e.storageAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	if err := a.DeleteBucket(ctx, bucket); err != nil {
		return apierrors.Wrap(err)
	}
	e.statusf("Deleted [gs://%s].", bucket)
	return nil
}

func (e *env) runObjectsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageErrorf("expected a gs://BUCKET[/PREFIX] argument")
	}
	bucket, prefix, err := storage.ParseURL(cmd.Args().First())
	if err != nil {
		return usageErrorf("%v", err)
	}
	a, err := e.storageAdapter(ctx, cmd)
	if err != nil {
		return err
	}
	limit, pageSize := listLimits(cmd)
	objects, err := a.ListObjects(ctx, bucket, prefix, limit, pageSize)
	if err != nil {
		return apierrors.Wrap(err)
	}
	resources := make([]any, len(objects))
	for i, o := range objects {
		resources[i] = o
	}
	return e.printList(cmd, resources, "table(name, size, updated)")
}

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

// Package gcloud implements the gcloud command tree. Each command group
// lives in its own file; the shared plumbing (properties, client settings,
// filtering and output) lives in flags.go.
package gcloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/googleapis/cloudsdk/internal/properties"
	"github.com/googleapis/cloudsdk/internal/waiter"
)

// env carries the process-level dependencies so tests can substitute
// writers, the property store and client options.
type env struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	store  *properties.Store
	values properties.Values
	// test hooks
	noAuth   bool
	extra    []option.ClientOption
	waitOpts *waiter.Options
}

// Run executes the gcloud CLI with the given command line arguments
// (including the program name).
func Run(ctx context.Context, args ...string) error {
	store, err := properties.NewStore()
	if err != nil {
		return err
	}
	e := &env{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    os.Stdin,
		store:    store,
		waitOpts: &waiter.Options{Progress: os.Stderr},
	}
	if e.values, err = store.LoadActive(); err != nil {
		return err
	}
	return e.rootCommand().Run(ctx, args)
}

// rootCommand creates the complete command tree declaratively.
func (e *env) rootCommand() *cli.Command {
	return &cli.Command{
		Name:      "gcloud",
		Usage:     "manage Google Cloud resources",
		UsageText: "gcloud GROUP | COMMAND [flags]",
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		Commands: []*cli.Command{
			e.configCommand(),
			e.computeCommand(),
			e.storageCommand(),
			e.buildsCommand(),
			e.artifactsCommand(),
			e.projectsCommand(),
			e.operationsCommand(),
			e.sourceCommand(),
			e.authCommand(),
			e.topicCommand(),
			e.versionCommand(),
		},
	}
}

// usageError marks errors caused by bad invocations; they exit with
// code 2 instead of 1.
type usageError struct {
	err error
}

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func usageErrorf(msg string, args ...any) error {
	return &usageError{err: fmt.Errorf(msg, args...)}
}

// ExitCode maps a Run error to the process exit code: 0 on success, 2 for
// usage errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var u *usageError
	if errors.As(err, &u) {
		return 2
	}
	return 1
}

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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/googleapis/cloudsdk/internal/version"
)

func (e *env) versionCommand() *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "print version information",
		UsageText: "gcloud version",
		Action: e.action(func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprintf(e.stdout, "Google Cloud SDK %s (%s)\n", version.Version, version.Revision())
			return nil
		}),
	}
}

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

	"github.com/googleapis/cloudsdk/internal/help"
)

func (e *env) topicCommand() *cli.Command {
	var topics []*cli.Command
	for _, name := range help.Topics() {
		topics = append(topics, &cli.Command{
			Name:      name,
			Usage:     "describe " + name,
			UsageText: "gcloud topic " + name,
			Action: e.action(func(ctx context.Context, cmd *cli.Command) error {
				text, err := help.Render(cmd.Name)
				if err != nil {
					return err
				}
				fmt.Fprint(e.stdout, text)
				return nil
			}),
		})
	}
	return &cli.Command{
		Name:     "topic",
		Usage:    "supplementary help topics",
		Commands: topics,
	}
}

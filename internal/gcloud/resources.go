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

import "github.com/googleapis/cloudsdk/internal/resource"

// nameRegistry holds the relative-name templates of the collections the
// commands accept as arguments.
var nameRegistry = resource.NewRegistry(
	&resource.Collection{
		Name:     "artifactregistry.repositories",
		Template: "projects/{project}/locations/{location}/repositories/{repository}",
	},
	&resource.Collection{
		Name:     "cloudresourcemanager.projects",
		Template: "projects/{project}",
	},
	&resource.Collection{
		Name:     "sourcerepo.repos",
		Template: "projects/{project}/repos/{repo}",
	},
	&resource.Collection{
		Name:     "compute.instances",
		Template: "projects/{project}/zones/{zone}/instances/{instance}",
	},
)

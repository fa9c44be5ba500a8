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

package properties

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DirEnv overrides the configuration directory root.
	DirEnv = "CLOUDSDK_CONFIG"
	// ActiveConfigEnv overrides the active configuration name.
	ActiveConfigEnv = "CLOUDSDK_ACTIVE_CONFIG_NAME"

	activeConfigFile = "active_config"
	configDirName    = "configurations"
	configFilePrefix = "config_"
	defaultConfig    = "default"
)

var configNameRE = regexp.MustCompile(`^[a-z][-a-z0-9]*$`)

// Store reads and writes named configurations on disk.
type Store struct {
	root string
}

// NewStore returns a store rooted at $CLOUDSDK_CONFIG, or the platform
// user config dir when unset.
func NewStore() (*Store, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return &Store{root: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return &Store{root: filepath.Join(base, "gcloud-go")}, nil
}

// NewStoreAt returns a store rooted at an explicit directory. Used by tests.
func NewStoreAt(root string) *Store {
	return &Store{root: root}
}

// Root returns the configuration directory root.
func (s *Store) Root() string { return s.root }

// ActiveName returns the name of the active configuration.
func (s *Store) ActiveName() (string, error) {
	if name := os.Getenv(ActiveConfigEnv); name != "" {
		return name, nil
	}
	b, err := os.ReadFile(filepath.Join(s.root, activeConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active configuration: %w", err)
	}
	name := strings.TrimSpace(string(b))
	if name == "" {
		return defaultConfig, nil
	}
	return name, nil
}

func (s *Store) configPath(name string) string {
	return filepath.Join(s.root, configDirName, configFilePrefix+name)
}

// Load reads the named configuration. A missing file is an empty
// configuration, not an error.
func (s *Store) Load(name string) (Values, error) {
	b, err := os.ReadFile(s.configPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return Values{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %q: %w", name, err)
	}
	v := Values{}
	if err := toml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %q: %w", name, err)
	}
	return v, nil
}

// LoadActive reads the active configuration.
func (s *Store) LoadActive() (Values, error) {
	name, err := s.ActiveName()
	if err != nil {
		return nil, err
	}
	return s.Load(name)
}

// Save writes the named configuration, creating directories as needed.
func (s *Store) Save(name string, v Values) error {
	if err := os.MkdirAll(filepath.Join(s.root, configDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration dir: %w", err)
	}
	b, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode configuration %q: %w", name, err)
	}
	if err := os.WriteFile(s.configPath(name), b, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration %q: %w", name, err)
	}
	return nil
}

// SaveActive writes the active configuration.
func (s *Store) SaveActive(v Values) error {
	name, err := s.ActiveName()
	if err != nil {
		return err
	}
	return s.Save(name, v)
}

// Create creates a new empty named configuration. The name must be lower
// case alphanumeric with dashes, matching the original CLI's rule.
func (s *Store) Create(name string) error {
	if !configNameRE.MatchString(name) {
		return fmt.Errorf("invalid configuration name %q: must start with a letter and contain only lower case letters, digits and dashes", name)
	}
	if _, err := os.Stat(s.configPath(name)); err == nil {
		return fmt.Errorf("configuration %q already exists", name)
	}
	return s.Save(name, Values{})
}

// Activate marks a named configuration as active.
func (s *Store) Activate(name string) error {
	if _, err := os.Stat(s.configPath(name)); err != nil {
		return fmt.Errorf("configuration %q does not exist", name)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create configuration dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, activeConfigFile), []byte(name+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to activate configuration %q: %w", name, err)
	}
	return nil
}

// List returns the names of all configurations, sorted. The default
// configuration is always listed even before its file exists.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, configDirName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	names := map[string]bool{defaultConfig: true}
	for _, e := range entries {
		if name, ok := strings.CutPrefix(e.Name(), configFilePrefix); ok && !e.IsDir() {
			names[name] = true
		}
	}
	var out []string
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

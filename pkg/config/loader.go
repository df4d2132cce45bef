// Copyright 2025 CompliK Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSecretNotSet is returned when a ${VAR} reference names an unset variable
var ErrSecretNotSet = errors.New("environment variable not set")

// Loader reads the YAML file on top of Default(), resolves secret
// references, applies environment overrides and validates the result.
// An empty path yields defaults plus environment overrides.
type Loader struct {
	configPath string
	lastHash   string
	env        *EnvLoader
	validator  *Validator
}

// NewLoader creates a loader for configPath
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		env:        NewEnvLoader(DefaultEnvPrefix),
		validator:  NewValidator(),
	}
}

// WithEnvLoader replaces the environment loader
func (l *Loader) WithEnvLoader(env *EnvLoader) *Loader {
	l.env = env
	return l
}

// Load builds a validated Config
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, fmt.Errorf("configuration file is empty: %s", l.configPath)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
		l.lastHash = hashBytes(data)
	}

	if err := resolveSecrets(cfg, l.env.lookup); err != nil {
		return nil, err
	}
	if err := l.env.LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	result := l.validator.Validate(cfg)
	if err := result.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasChanged reports whether the file content differs from the last load
func (l *Loader) HasChanged() (bool, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return false, err
	}
	current := hashBytes(data)
	if l.lastHash == "" {
		l.lastHash = current
		return false, nil
	}
	if current == l.lastHash {
		return false, nil
	}
	l.lastHash = current
	return true, nil
}

// ConfigPath returns the configuration file path
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// ConfigDir returns the directory containing the configuration file
func (l *Loader) ConfigDir() string {
	return filepath.Dir(l.configPath)
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ResolveSecret expands a whole-value ${VAR} reference; other values are
// returned unchanged
func ResolveSecret(value string, lookup func(string) (string, bool)) (string, error) {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value, nil
	}
	name := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
	resolved, ok := lookup(name)
	if !ok || resolved == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotSet, name)
	}
	return resolved, nil
}

func resolveSecrets(cfg *Config, lookup func(string) (string, bool)) error {
	secrets := map[string]*string{
		"checkers.languageTool.apiKey": &cfg.Checkers.LanguageTool.APIKey,
		"checkers.perspective.apiKey":  &cfg.Checkers.Perspective.APIKey,
		"checkers.factCheck.apiKey":    &cfg.Checkers.FactCheck.APIKey,
		"checkers.gemini.apiKey":       &cfg.Checkers.Gemini.APIKey,
		"checkers.cache.password":      &cfg.Checkers.Cache.Password,
	}
	for field, target := range secrets {
		resolved, err := ResolveSecret(*target, lookup)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", field, err)
		}
		*target = resolved
	}

	for i := range cfg.Plugins {
		resolved, err := ResolveSecret(cfg.Plugins[i].Settings, lookup)
		if err != nil {
			return fmt.Errorf("failed to resolve settings of plugin %s: %w", cfg.Plugins[i].Name, err)
		}
		cfg.Plugins[i].Settings = resolved
	}
	return nil
}

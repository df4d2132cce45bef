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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mzansi-pulse/compliance/pkg/logger"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// COMPLIANCE_CHECKERS_PERSPECTIVE_APIKEY
const DefaultEnvPrefix = "COMPLIANCE"

// TypeConverter parses a raw environment value for one field
type TypeConverter interface {
	Convert(value string) (any, error)
}

// EnvLoader overrides configuration fields from environment variables
type EnvLoader struct {
	prefix     string
	separator  string
	mapping    map[string]string
	converters map[string]TypeConverter
	lookup     func(string) (string, bool)
}

// NewEnvLoader creates a loader; an empty prefix falls back to DefaultEnvPrefix
func NewEnvLoader(prefix string) *EnvLoader {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvLoader{
		prefix:     strings.ToUpper(prefix),
		separator:  "_",
		mapping:    make(map[string]string),
		converters: make(map[string]TypeConverter),
		lookup:     os.LookupEnv,
	}
}

// AddMapping binds a field to an explicit variable name instead of the
// derived PREFIX_SECTION_FIELD key
func (e *EnvLoader) AddMapping(field, envKey string) *EnvLoader {
	e.mapping[field] = envKey
	return e
}

// AddConverter overrides the type-driven conversion for a field
func (e *EnvLoader) AddConverter(field string, converter TypeConverter) *EnvLoader {
	e.converters[field] = converter
	return e
}

// WithLookup replaces os.LookupEnv, mainly for tests
func (e *EnvLoader) WithLookup(lookup func(string) (string, bool)) *EnvLoader {
	e.lookup = lookup
	return e
}

// LoadFromEnv applies every set variable to cfg
func (e *EnvLoader) LoadFromEnv(cfg *Config) error {
	sections := []struct {
		name   string
		fields map[string]any
	}{
		{"server", map[string]any{
			"server.address":        &cfg.Server.Address,
			"server.readTimeout":    &cfg.Server.ReadTimeout,
			"server.writeTimeout":   &cfg.Server.WriteTimeout,
			"server.requestTimeout": &cfg.Server.RequestTimeout,
			"server.maxBodyBytes":   &cfg.Server.MaxBodyBytes,
			"server.allowOrigins":   &cfg.Server.AllowOrigins,
			"server.mode":           &cfg.Server.Mode,
		}},
		{"logging", map[string]any{
			"logging.level":  &cfg.Logging.Level,
			"logging.format": &cfg.Logging.Format,
		}},
		{"metrics", map[string]any{
			"metrics.enabled": &cfg.Metrics.Enabled,
			"metrics.path":    &cfg.Metrics.Path,
		}},
		{"checkers", map[string]any{
			"checkers.languageTool.endpoint":  &cfg.Checkers.LanguageTool.Endpoint,
			"checkers.languageTool.language":  &cfg.Checkers.LanguageTool.Language,
			"checkers.languageTool.username":  &cfg.Checkers.LanguageTool.Username,
			"checkers.languageTool.apiKey":    &cfg.Checkers.LanguageTool.APIKey,
			"checkers.languageTool.timeout":   &cfg.Checkers.LanguageTool.Timeout,
			"checkers.perspective.apiKey":     &cfg.Checkers.Perspective.APIKey,
			"checkers.perspective.endpoint":   &cfg.Checkers.Perspective.Endpoint,
			"checkers.perspective.languages":  &cfg.Checkers.Perspective.Languages,
			"checkers.perspective.timeout":    &cfg.Checkers.Perspective.Timeout,
			"checkers.factCheck.apiKey":       &cfg.Checkers.FactCheck.APIKey,
			"checkers.factCheck.endpoint":     &cfg.Checkers.FactCheck.Endpoint,
			"checkers.factCheck.languageCode": &cfg.Checkers.FactCheck.LanguageCode,
			"checkers.factCheck.pageSize":     &cfg.Checkers.FactCheck.PageSize,
			"checkers.factCheck.timeout":      &cfg.Checkers.FactCheck.Timeout,
			"checkers.gemini.enabled":         &cfg.Checkers.Gemini.Enabled,
			"checkers.gemini.apiKey":          &cfg.Checkers.Gemini.APIKey,
			"checkers.gemini.model":           &cfg.Checkers.Gemini.Model,
			"checkers.gemini.timeout":         &cfg.Checkers.Gemini.Timeout,
			"checkers.cache.redisAddr":        &cfg.Checkers.Cache.RedisAddr,
			"checkers.cache.password":         &cfg.Checkers.Cache.Password,
			"checkers.cache.db":               &cfg.Checkers.Cache.DB,
			"checkers.cache.ttl":              &cfg.Checkers.Cache.TTL,
		}},
		{"rules", map[string]any{
			"rules.adsense.minWordCount":       &cfg.Rules.AdSense.MinWordCount,
			"rules.adsense.prohibitedTerms":    &cfg.Rules.AdSense.ProhibitedTerms,
			"rules.facts.maxClaims":            &cfg.Rules.Facts.MaxClaims,
			"rules.facts.maxConcurrentLookups": &cfg.Rules.Facts.MaxConcurrentLookups,
		}},
	}

	for _, section := range sections {
		if err := e.loadConfigMap(section.fields); err != nil {
			return fmt.Errorf("failed to load %s config from environment: %w", section.name, err)
		}
	}
	return nil
}

func (e *EnvLoader) loadConfigMap(fields map[string]any) error {
	for field, target := range fields {
		raw, ok := e.lookup(e.EnvKey(field))
		if !ok {
			continue
		}
		if err := e.apply(field, raw, target); err != nil {
			return fmt.Errorf("field '%s': %w", field, err)
		}
		logger.Debug("Config field overridden from environment", logger.Fields{
			"field":   field,
			"env_key": e.EnvKey(field),
		})
	}
	return nil
}

// EnvKey returns the variable name that overrides field
func (e *EnvLoader) EnvKey(field string) string {
	if key, ok := e.mapping[field]; ok {
		return key
	}
	key := strings.ReplaceAll(field, ".", e.separator)
	key = strings.ReplaceAll(key, "-", "_")
	return e.prefix + e.separator + strings.ToUpper(key)
}

func (e *EnvLoader) apply(field, raw string, target any) error {
	if converter, ok := e.converters[field]; ok {
		value, err := converter.Convert(raw)
		if err != nil {
			return err
		}
		return assign(target, value)
	}

	switch t := target.(type) {
	case *string:
		*t = raw
	case *bool:
		v, err := (&BoolConverter{}).Convert(raw)
		if err != nil {
			return err
		}
		*t = v.(bool)
	case *int:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		*t = v
	case *int64:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		*t = v
	case *float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", raw, err)
		}
		*t = v
	case *time.Duration:
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*t = v
	case *[]string:
		v, _ := (&StringSliceConverter{}).Convert(raw)
		*t = v.([]string)
	default:
		return fmt.Errorf("unsupported target type %T", target)
	}
	return nil
}

func assign(target, value any) error {
	switch t := target.(type) {
	case *string:
		if v, ok := value.(string); ok {
			*t = v
			return nil
		}
	case *bool:
		if v, ok := value.(bool); ok {
			*t = v
			return nil
		}
	case *int:
		if v, ok := value.(int); ok {
			*t = v
			return nil
		}
	case *time.Duration:
		if v, ok := value.(time.Duration); ok {
			*t = v
			return nil
		}
	case *[]string:
		if v, ok := value.([]string); ok {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("cannot assign %T to %T", value, target)
}

// ListEnvVars returns the NAME=value pairs carrying the loader prefix
func (e *EnvLoader) ListEnvVars() []string {
	var vars []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, e.prefix+e.separator) {
			vars = append(vars, kv)
		}
	}
	return vars
}

// BoolConverter accepts the usual spellings of true and false
type BoolConverter struct{}

func (c *BoolConverter) Convert(value string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on", "enabled":
		return true, nil
	case "false", "0", "no", "off", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", value)
	}
}

// DurationConverter parses Go duration strings
type DurationConverter struct{}

func (c *DurationConverter) Convert(value string) (any, error) {
	return time.ParseDuration(strings.TrimSpace(value))
}

// StringSliceConverter splits on Separator (default comma) and trims items
type StringSliceConverter struct {
	Separator string
}

func (c *StringSliceConverter) Convert(value string) (any, error) {
	sep := c.Separator
	if sep == "" {
		sep = ","
	}
	out := []string{}
	for _, item := range strings.Split(value, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

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
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

var pathPattern = regexp.MustCompile(`^/[A-Za-z0-9/_-]*$`)

// ValidationResult collects the outcome of validating a whole Config
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Err folds the collected errors into a single error, or nil when valid
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", errors.New(strings.Join(r.Errors, "; ")))
}

// Validator validates configuration fields against registered rules
type Validator struct {
	rules map[string][]ValidationRule
}

// NewValidator creates a validator with the default rule set registered
func NewValidator() *Validator {
	v := &Validator{rules: make(map[string][]ValidationRule)}
	v.registerDefaultRules()
	return v
}

func (v *Validator) registerDefaultRules() {
	v.AddRule("server.address", &StringRule{Required: true})
	v.AddRule("server.requestTimeout", &DurationRule{Min: time.Second, Max: 2 * time.Minute})
	v.AddRule("server.mode", &EnumRule{AllowedValues: []string{"debug", "release", "test"}})
	v.AddRule("logging.level", &EnumRule{AllowedValues: []string{"debug", "info", "warn", "error", "fatal"}})
	v.AddRule("logging.format", &EnumRule{AllowedValues: []string{"json", "text"}})
	v.AddRule("metrics.path", &StringRule{Pattern: pathPattern})

	v.AddRule("checkers.languageTool.endpoint", &URLRule{RequiredSchemes: []string{"http", "https"}})
	v.AddRule("checkers.perspective.endpoint", &URLRule{RequiredSchemes: []string{"http", "https"}, AllowEmpty: true})
	v.AddRule("checkers.factCheck.endpoint", &URLRule{RequiredSchemes: []string{"http", "https"}, AllowEmpty: true})
	v.AddRule("checkers.factCheck.pageSize", &NumberRule{Min: Bound(1), Max: Bound(50)})
	v.AddRule("checkers.cache.ttl", &DurationRule{Min: time.Second})

	v.AddRule("rules.grammar.passReadability", &NumberRule{Min: Bound(0), Max: Bound(100)})
	v.AddRule("rules.grammar.warnReadability", &NumberRule{Min: Bound(0), Max: Bound(100)})
	v.AddRule("rules.adsense.minWordCount", &NumberRule{Min: Bound(0)})
	v.AddRule("rules.adsense.prohibitedTerms", &SliceRule{ElementRule: &StringRule{Required: true, MaxLength: 100}, AllowEmpty: true})
	v.AddRule("rules.adsense.keywordDensityThreshold", &NumberRule{Min: Bound(0), Max: Bound(100)})
	v.AddRule("rules.adsense.toxicityThreshold", &NumberRule{Min: Bound(0), Max: Bound(1)})
	v.AddRule("rules.adsense.severeToxicityThreshold", &NumberRule{Min: Bound(0), Max: Bound(1)})
	v.AddRule("rules.adsense.toxicityMaxChars", &NumberRule{Min: Bound(1)})
	v.AddRule("rules.facts.maxClaims", &NumberRule{Min: Bound(1), Max: Bound(20)})
	v.AddRule("rules.facts.claimPatterns", &SliceRule{ElementRule: &RegexRule{}, AllowEmpty: true})
	v.AddRule("rules.facts.maxConcurrentLookups", &NumberRule{Min: Bound(1)})
	v.AddRule("rules.seo.minLinks", &NumberRule{Min: Bound(0)})
}

// AddRule registers an additional rule for a dotted field path
func (v *Validator) AddRule(field string, rule ValidationRule) {
	v.rules[field] = append(v.rules[field], rule)
}

// Validate checks every registered field plus the cross-field constraints
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{Valid: true}

	fields := map[string]any{
		"server.address":                        cfg.Server.Address,
		"server.requestTimeout":                 cfg.Server.RequestTimeout,
		"server.mode":                           cfg.Server.Mode,
		"logging.level":                         cfg.Logging.Level,
		"logging.format":                        cfg.Logging.Format,
		"metrics.path":                          cfg.Metrics.Path,
		"checkers.languageTool.endpoint":        cfg.Checkers.LanguageTool.Endpoint,
		"checkers.perspective.endpoint":         cfg.Checkers.Perspective.Endpoint,
		"checkers.factCheck.endpoint":           cfg.Checkers.FactCheck.Endpoint,
		"checkers.factCheck.pageSize":           cfg.Checkers.FactCheck.PageSize,
		"checkers.cache.ttl":                    cfg.Checkers.Cache.TTL,
		"rules.grammar.passReadability":         cfg.Rules.Grammar.PassReadability,
		"rules.grammar.warnReadability":         cfg.Rules.Grammar.WarnReadability,
		"rules.adsense.minWordCount":            cfg.Rules.AdSense.MinWordCount,
		"rules.adsense.prohibitedTerms":         cfg.Rules.AdSense.ProhibitedTerms,
		"rules.adsense.keywordDensityThreshold": cfg.Rules.AdSense.KeywordDensityThreshold,
		"rules.adsense.toxicityThreshold":       cfg.Rules.AdSense.ToxicityThreshold,
		"rules.adsense.severeToxicityThreshold": cfg.Rules.AdSense.SevereToxicityThreshold,
		"rules.adsense.toxicityMaxChars":        cfg.Rules.AdSense.ToxicityMaxChars,
		"rules.facts.maxClaims":                 cfg.Rules.Facts.MaxClaims,
		"rules.facts.claimPatterns":             cfg.Rules.Facts.ClaimPatterns,
		"rules.facts.maxConcurrentLookups":      cfg.Rules.Facts.MaxConcurrentLookups,
		"rules.seo.minLinks":                    cfg.Rules.SEO.MinLinks,
	}
	for field, value := range fields {
		if err := v.validateField(field, value); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	v.validateCrossFields(cfg, result)

	if cfg.Checkers.Perspective.APIKey == "" {
		result.Warnings = append(result.Warnings, "checkers.perspective.apiKey is empty, toxicity checks will be skipped")
	}
	if cfg.Checkers.FactCheck.APIKey == "" {
		result.Warnings = append(result.Warnings, "checkers.factCheck.apiKey is empty, claims will be reported as unverifiable")
	}

	// map iteration order is random; keep output stable
	slices.Sort(result.Errors)
	result.Valid = len(result.Errors) == 0
	return result
}

func (v *Validator) validateCrossFields(cfg *Config, result *ValidationResult) {
	g := cfg.Rules.Grammar
	if g.WarnReadability > g.PassReadability {
		result.Errors = append(result.Errors, "rules.grammar.warnReadability must not exceed rules.grammar.passReadability")
	}
	s := cfg.Rules.SEO
	if s.TitleMinLength > s.TitleMaxLength {
		result.Errors = append(result.Errors, "rules.seo.titleMinLength must not exceed rules.seo.titleMaxLength")
	}
	if s.MetaMinLength > s.MetaMaxLength {
		result.Errors = append(result.Errors, "rules.seo.metaMinLength must not exceed rules.seo.metaMaxLength")
	}
	if cfg.Checkers.Gemini.Enabled && cfg.Checkers.Gemini.APIKey == "" {
		result.Errors = append(result.Errors, "checkers.gemini.apiKey is required when gemini is enabled")
	}
	seen := make(map[string]bool)
	for _, p := range cfg.Plugins {
		if p.Name == "" {
			result.Errors = append(result.Errors, "plugin name cannot be empty")
			continue
		}
		if seen[p.Name] {
			result.Errors = append(result.Errors, fmt.Sprintf("plugin '%s' is configured more than once", p.Name))
		}
		seen[p.Name] = true
	}
}

func (v *Validator) validateField(field string, value any) *ValidationError {
	for _, rule := range v.rules[field] {
		if err := rule.Validate(value); err != nil {
			if err.Field == "" {
				err.Field = field
			} else {
				err.Field = field + err.Field
			}
			return err
		}
	}
	return nil
}

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

// Package config holds the service configuration: the YAML file layout, its
// defaults, environment overrides, validation and hot reload.
package config

import "time"

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Checkers CheckersConfig `yaml:"checkers" json:"checkers"`
	Rules    Rules          `yaml:"rules" json:"rules"`
	Events   EventsConfig   `yaml:"events" json:"events"`
	Plugins  []PluginConfig `yaml:"plugins" json:"plugins"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address        string        `yaml:"address" json:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
	RequestTimeout time.Duration `yaml:"requestTimeout" json:"requestTimeout"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes" json:"maxBodyBytes"`
	AllowOrigins   []string      `yaml:"allowOrigins" json:"allowOrigins"`
	Mode           string        `yaml:"mode" json:"mode"`
}

// LoggingConfig configures the global logger
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// EventsConfig configures the in-process event bus
type EventsConfig struct {
	BufferSize int `yaml:"bufferSize" json:"bufferSize"`
}

// PluginConfig describes one handler plugin; Settings is a JSON document
// interpreted by the plugin itself
type PluginConfig struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Settings string `yaml:"settings" json:"settings"`
}

// CheckersConfig configures the external checker adapters
type CheckersConfig struct {
	LanguageTool LanguageToolConfig `yaml:"languageTool" json:"languageTool"`
	Perspective  PerspectiveConfig  `yaml:"perspective" json:"perspective"`
	FactCheck    FactCheckConfig    `yaml:"factCheck" json:"factCheck"`
	Gemini       GeminiConfig       `yaml:"gemini" json:"gemini"`
	Cache        CacheConfig        `yaml:"cache" json:"cache"`
}

// LanguageToolConfig configures the grammar checker
type LanguageToolConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Language string        `yaml:"language" json:"language"`
	Username string        `yaml:"username" json:"username"`
	APIKey   string        `yaml:"apiKey" json:"-"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// PerspectiveConfig configures the toxicity classifier
type PerspectiveConfig struct {
	APIKey    string        `yaml:"apiKey" json:"-"`
	Endpoint  string        `yaml:"endpoint" json:"endpoint"`
	Languages []string      `yaml:"languages" json:"languages"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// FactCheckConfig configures the fact-check claim search
type FactCheckConfig struct {
	APIKey       string        `yaml:"apiKey" json:"-"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint"`
	LanguageCode string        `yaml:"languageCode" json:"languageCode"`
	PageSize     int           `yaml:"pageSize" json:"pageSize"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// GeminiConfig configures the optional LLM claim extractor
type GeminiConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	APIKey  string        `yaml:"apiKey" json:"-"`
	Model   string        `yaml:"model" json:"model"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// CacheConfig configures the optional Redis cache for fact-check lookups
type CacheConfig struct {
	RedisAddr string        `yaml:"redisAddr" json:"redisAddr"`
	Password  string        `yaml:"password" json:"-"`
	DB        int           `yaml:"db" json:"db"`
	TTL       time.Duration `yaml:"ttl" json:"ttl"`
}

// Rules are the rule tables consumed by the evaluators. A Rules value is
// treated as immutable once handed to an evaluator.
type Rules struct {
	Grammar GrammarRules `yaml:"grammar" json:"grammar"`
	AdSense AdSenseRules `yaml:"adsense" json:"adsense"`
	Facts   FactsRules   `yaml:"facts" json:"facts"`
	SEO     SEORules     `yaml:"seo" json:"seo"`
}

// GrammarRules drive the grammar evaluator decision policy
type GrammarRules struct {
	PassReadability   float64  `yaml:"passReadability" json:"passReadability"`
	WarnReadability   float64  `yaml:"warnReadability" json:"warnReadability"`
	MaxWarnIssues     int      `yaml:"maxWarnIssues" json:"maxWarnIssues"`
	IgnoredCategories []string `yaml:"ignoredCategories" json:"ignoredCategories"`
}

// AdSenseRules drive the AdSense policy evaluator
type AdSenseRules struct {
	MinWordCount             int      `yaml:"minWordCount" json:"minWordCount"`
	ProhibitedTerms          []string `yaml:"prohibitedTerms" json:"prohibitedTerms"`
	StopWords                []string `yaml:"stopWords" json:"stopWords"`
	MinKeywordLength         int      `yaml:"minKeywordLength" json:"minKeywordLength"`
	KeywordDensityThreshold  float64  `yaml:"keywordDensityThreshold" json:"keywordDensityThreshold"`
	MinTitleLength           int      `yaml:"minTitleLength" json:"minTitleLength"`
	MinMetaDescriptionLength int      `yaml:"minMetaDescriptionLength" json:"minMetaDescriptionLength"`
	MinAltTextLength         int      `yaml:"minAltTextLength" json:"minAltTextLength"`
	ToxicityThreshold        float64  `yaml:"toxicityThreshold" json:"toxicityThreshold"`
	SevereToxicityThreshold  float64  `yaml:"severeToxicityThreshold" json:"severeToxicityThreshold"`
	ToxicityMaxChars         int      `yaml:"toxicityMaxChars" json:"toxicityMaxChars"`
}

// FactsRules drive claim extraction and verification
type FactsRules struct {
	MaxClaims            int      `yaml:"maxClaims" json:"maxClaims"`
	ClaimPatterns        []string `yaml:"claimPatterns" json:"claimPatterns"`
	MaxConcurrentLookups int      `yaml:"maxConcurrentLookups" json:"maxConcurrentLookups"`
}

// SEORules drive the SEO evaluator
type SEORules struct {
	TitleMinLength int `yaml:"titleMinLength" json:"titleMinLength"`
	TitleMaxLength int `yaml:"titleMaxLength" json:"titleMaxLength"`
	MetaMinLength  int `yaml:"metaMinLength" json:"metaMinLength"`
	MetaMaxLength  int `yaml:"metaMaxLength" json:"metaMaxLength"`
	MinLinks       int `yaml:"minLinks" json:"minLinks"`
}

// Default returns the configuration used when a field is absent from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 15 * time.Second,
			MaxBodyBytes:   2 << 20,
			AllowOrigins:   []string{"*"},
			Mode:           "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Events: EventsConfig{
			BufferSize: 100,
		},
		Checkers: CheckersConfig{
			LanguageTool: LanguageToolConfig{
				Endpoint: "https://api.languagetool.org/v2/check",
				Language: "en-US",
				Timeout:  10 * time.Second,
			},
			Perspective: PerspectiveConfig{
				Languages: []string{"en"},
				Timeout:   10 * time.Second,
			},
			FactCheck: FactCheckConfig{
				LanguageCode: "en",
				PageSize:     5,
				Timeout:      10 * time.Second,
			},
			Gemini: GeminiConfig{
				Model:   "gemini-1.5-flash",
				Timeout: 20 * time.Second,
			},
			Cache: CacheConfig{
				TTL: 24 * time.Hour,
			},
		},
		Rules: DefaultRules(),
	}
}

// DefaultRules returns the built-in rule tables
func DefaultRules() Rules {
	return Rules{
		Grammar: GrammarRules{
			PassReadability:   60,
			WarnReadability:   50,
			MaxWarnIssues:     3,
			IgnoredCategories: []string{"TYPOS"},
		},
		AdSense: AdSenseRules{
			MinWordCount: 300,
			ProhibitedTerms: []string{
				"casino", "gambling", "adult", "violence", "drugs",
				"weapons", "tobacco", "alcohol", "hate speech", "illegal",
			},
			StopWords: []string{
				"about", "above", "after", "again", "against", "along", "among", "because",
				"been", "before", "being", "below", "between", "could", "doing", "during",
				"every", "first", "found", "further", "great", "having", "might", "other",
				"ought", "place", "right", "should", "since", "still", "their", "theirs",
				"there", "these", "thing", "think", "those", "three", "through", "under",
				"until", "where", "which", "while", "whose", "within", "without", "would",
				"yours", "yourself", "itself", "himself", "herself", "themselves",
			},
			MinKeywordLength:         5,
			KeywordDensityThreshold:  3,
			MinTitleLength:           10,
			MinMetaDescriptionLength: 50,
			MinAltTextLength:         5,
			ToxicityThreshold:        0.7,
			SevereToxicityThreshold:  0.5,
			ToxicityMaxChars:         3000,
		},
		Facts: FactsRules{
			MaxClaims: 5,
			ClaimPatterns: []string{
				`(?i)according to [^.]+`,
				`(?i)studies show [^.]+`,
				`(?i)research indicates [^.]+`,
				`(?i)\d+% of [^.]+`,
				`(?i)statistics reveal [^.]+`,
			},
			MaxConcurrentLookups: 5,
		},
		SEO: SEORules{
			TitleMinLength: 30,
			TitleMaxLength: 60,
			MetaMinLength:  120,
			MetaMaxLength:  160,
			MinLinks:       2,
		},
	}
}

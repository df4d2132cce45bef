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

// Package gemini extracts checkable claims with a Gemini model.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/textutil"
)

// CheckerName labels metrics and logs for this extractor
const CheckerName = "gemini"

const maxPromptRunes = 8000

const promptTemplate = `You extract factual claims that a fact-checker could verify.
Return JSON of the form {"claims": ["..."]} with at most %d claims.
Quote each claim as a short sentence taken from the text. Skip opinions,
questions and instructions. Return {"claims": []} when there are none.

Title: %s

Text:
%s`

// Generator produces a text completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fallback extracts claims when the model is unavailable
type Fallback interface {
	Find(content string) []string
}

// Extractor implements evaluator.ClaimExtractor. Model failures fall back
// to the regex extractor so fact checking still runs.
type Extractor struct {
	log       logger.Logger
	generator Generator
	fallback  Fallback
	limit     int
	timeout   time.Duration
	collector *metrics.Collector
}

// NewExtractor wires a generator and fallback; limit caps the result size
func NewExtractor(generator Generator, fallback Fallback, limit int, timeout time.Duration, collector *metrics.Collector) *Extractor {
	return &Extractor{
		log:       logger.GetLogger().WithField("checker", CheckerName),
		generator: generator,
		fallback:  fallback,
		limit:     limit,
		timeout:   timeout,
		collector: collector,
	}
}

// Extract asks the model for claims, falling back on any failure
func (e *Extractor) Extract(ctx context.Context, content, title string) ([]string, error) {
	claims, err := e.extract(ctx, content, title)
	e.collector.RecordExternalCall(CheckerName, err)
	if err == nil {
		return claims, nil
	}
	if e.fallback == nil {
		return nil, err
	}
	e.log.WithError(err).Warn("LLM claim extraction failed, using pattern extraction")
	return e.fallback.Find(content), nil
}

func (e *Extractor) extract(ctx context.Context, content, title string) ([]string, error) {
	if e.generator == nil {
		return nil, errors.New("no generator configured")
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(promptTemplate, e.limit, title, textutil.Truncate(content, maxPromptRunes))
	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("claim generation failed: %w", err)
	}
	claims, err := ParseClaims(raw)
	if err != nil {
		return nil, err
	}
	if len(claims) > e.limit {
		claims = claims[:e.limit]
	}
	e.log.Debug("Claims extracted", logger.Fields{"claims": len(claims)})
	return claims, nil
}

// ParseClaims accepts {"claims": [...]} or a bare JSON array, optionally
// wrapped in a markdown code fence. Blank and duplicate claims are dropped.
func ParseClaims(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var items []string
	var wrapped struct {
		Claims []string `json:"claims"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Claims != nil {
		items = wrapped.Claims
	} else if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	claims := []string{}
	seen := make(map[string]bool)
	for _, c := range items {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		claims = append(claims, c)
	}
	return claims, nil
}

// ModelGenerator calls a Gemini model with JSON output enabled
type ModelGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewModelGenerator creates the genai client for cfg.Model
func NewModelGenerator(ctx context.Context, cfg config.GeminiConfig) (*ModelGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	return &ModelGenerator{client: client, model: model}, nil
}

// Generate returns the concatenated text parts of the first candidate
func (g *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client
func (g *ModelGenerator) Close() error {
	return g.client.Close()
}

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

// Package languagetool calls the LanguageTool HTTP API.
package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// CheckerName labels metrics and logs for this client
const CheckerName = "languagetool"

const maxErrorBody = 512

type checkResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	Message      string `json:"message"`
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		ID       string `json:"id"`
		Category struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"category"`
	} `json:"rule"`
}

// Client implements evaluator.GrammarChecker
type Client struct {
	log        logger.Logger
	endpoint   string
	language   string
	username   string
	apiKey     string
	httpClient *http.Client
	collector  *metrics.Collector
}

// NewClient builds a client from the checker configuration
func NewClient(cfg config.LanguageToolConfig, collector *metrics.Collector) *Client {
	return &Client{
		log:        logger.GetLogger().WithField("checker", CheckerName),
		endpoint:   cfg.Endpoint,
		language:   cfg.Language,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		collector:  collector,
	}
}

// Check submits text and returns the reported matches
func (c *Client) Check(ctx context.Context, text string) ([]models.GrammarMatch, error) {
	start := time.Now()
	matches, err := c.check(ctx, text)
	c.collector.RecordExternalCall(CheckerName, err)
	if err != nil {
		c.log.WithError(err).Warn("Grammar check failed")
		return nil, err
	}
	c.log.Debug("Grammar check completed", logger.Fields{
		"matches":     len(matches),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return matches, nil
}

func (c *Client) check(ctx context.Context, text string) ([]models.GrammarMatch, error) {
	body, err := c.callAPI(ctx, c.prepareForm(text))
	if err != nil {
		return nil, err
	}
	return parseResponse(body)
}

func (c *Client) prepareForm(text string) url.Values {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)
	if c.username != "" && c.apiKey != "" {
		form.Set("username", c.username)
		form.Set("apiKey", c.apiKey)
	}
	return form
}

func (c *Client) callAPI(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create languagetool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Sending grammar check request", logger.Fields{
		"url":      c.endpoint,
		"language": c.language,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("languagetool request failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.WithError(err).Debug("Failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read languagetool response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("languagetool returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func parseResponse(body []byte) ([]models.GrammarMatch, error) {
	var resp checkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode languagetool response: %w", err)
	}
	matches := make([]models.GrammarMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			replacements = append(replacements, r.Value)
		}
		matches = append(matches, models.GrammarMatch{
			Category:     m.Rule.Category.ID,
			Message:      m.Message,
			Offset:       m.Offset,
			Length:       m.Length,
			Replacements: replacements,
		})
	}
	return matches, nil
}

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

// Package perspective scores text with the Perspective comment analyzer.
package perspective

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/commentanalyzer/v1alpha1"
	"google.golang.org/api/option"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// CheckerName labels metrics and logs for this client
const CheckerName = "perspective"

// Attribute names requested from the analyzer
const (
	AttrToxicity       = "TOXICITY"
	AttrSevereToxicity = "SEVERE_TOXICITY"
	AttrThreat         = "THREAT"
	AttrInsult         = "INSULT"
	AttrProfanity      = "PROFANITY"
)

var requestedAttributes = []string{AttrToxicity, AttrSevereToxicity, AttrThreat, AttrInsult, AttrProfanity}

// ErrNoScores is returned when the analyzer answers without a toxicity score
var ErrNoScores = errors.New("perspective returned no toxicity score")

// Client implements evaluator.ToxicityClassifier
type Client struct {
	log       logger.Logger
	svc       *commentanalyzer.Service
	languages []string
	timeout   time.Duration
	collector *metrics.Collector
}

// NewClient creates the analyzer service; an empty endpoint uses Google's
func NewClient(ctx context.Context, cfg config.PerspectiveConfig, collector *metrics.Collector) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("perspective api key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := commentanalyzer.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create perspective service: %w", err)
	}
	return &Client{
		log:       logger.GetLogger().WithField("checker", CheckerName),
		svc:       svc,
		languages: cfg.Languages,
		timeout:   cfg.Timeout,
		collector: collector,
	}, nil
}

// Analyze returns the five attribute scores for text
func (c *Client) Analyze(ctx context.Context, text string) (*models.ToxicityScores, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	scores, err := c.analyze(ctx, text)
	c.collector.RecordExternalCall(CheckerName, err)
	if err != nil {
		c.log.WithError(err).Warn("Toxicity analysis failed")
		return nil, err
	}
	c.log.Debug("Toxicity analysis completed", logger.Fields{
		"toxicity":        scores.Toxicity,
		"severe_toxicity": scores.SevereToxicity,
	})
	return scores, nil
}

func (c *Client) analyze(ctx context.Context, text string) (*models.ToxicityScores, error) {
	attrs := make(map[string]commentanalyzer.AttributeParameters, len(requestedAttributes))
	for _, name := range requestedAttributes {
		attrs[name] = commentanalyzer.AttributeParameters{}
	}
	req := &commentanalyzer.AnalyzeCommentRequest{
		Comment:             &commentanalyzer.TextEntry{Text: text},
		RequestedAttributes: attrs,
		Languages:           c.languages,
		DoNotStore:          true,
	}

	resp, err := c.svc.Comments.Analyze(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("perspective analyze request failed: %w", err)
	}
	if _, ok := resp.AttributeScores[AttrToxicity]; !ok {
		return nil, ErrNoScores
	}
	return &models.ToxicityScores{
		Toxicity:       summary(resp, AttrToxicity),
		SevereToxicity: summary(resp, AttrSevereToxicity),
		Threat:         summary(resp, AttrThreat),
		Insult:         summary(resp, AttrInsult),
		Profanity:      summary(resp, AttrProfanity),
	}, nil
}

// summary reads an attribute's summary score, 0 when absent
func summary(resp *commentanalyzer.AnalyzeCommentResponse, attr string) float64 {
	s, ok := resp.AttributeScores[attr]
	if !ok || s.SummaryScore == nil {
		return 0
	}
	return s.SummaryScore.Value
}

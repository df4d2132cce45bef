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

// Package factcheck searches published fact-check reviews of claims.
package factcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/factchecktools/v1alpha1"
	"google.golang.org/api/option"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// CheckerName labels metrics and logs for this client
const CheckerName = "factcheck"

// Client implements evaluator.FactChecker on the Fact Check Tools API
type Client struct {
	log          logger.Logger
	svc          *factchecktools.Service
	languageCode string
	pageSize     int64
	timeout      time.Duration
	collector    *metrics.Collector
}

// NewClient creates the claim search service; an empty endpoint uses Google's
func NewClient(ctx context.Context, cfg config.FactCheckConfig, collector *metrics.Collector) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("fact check api key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := factchecktools.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fact check service: %w", err)
	}
	return &Client{
		log:          logger.GetLogger().WithField("checker", CheckerName),
		svc:          svc,
		languageCode: cfg.LanguageCode,
		pageSize:     int64(cfg.PageSize),
		timeout:      cfg.Timeout,
		collector:    collector,
	}, nil
}

// Search returns the reviews of every claim matching query, in API order
func (c *Client) Search(ctx context.Context, query string) ([]models.FactReview, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	call := c.svc.Claims.Search().Query(query).Context(ctx)
	if c.languageCode != "" {
		call = call.LanguageCode(c.languageCode)
	}
	if c.pageSize > 0 {
		call = call.PageSize(c.pageSize)
	}

	resp, err := call.Do()
	c.collector.RecordExternalCall(CheckerName, err)
	if err != nil {
		c.log.WithError(err).Warn("Fact check search failed", logger.Fields{"query": query})
		return nil, fmt.Errorf("fact check search failed: %w", err)
	}

	reviews := []models.FactReview{}
	for _, claim := range resp.Claims {
		if claim == nil {
			continue
		}
		for _, review := range claim.ClaimReview {
			if review == nil {
				continue
			}
			r := models.FactReview{TextualRating: review.TextualRating, URL: review.Url}
			if review.Publisher != nil {
				r.Publisher = review.Publisher.Name
				if r.Publisher == "" {
					r.Publisher = review.Publisher.Site
				}
			}
			reviews = append(reviews, r)
		}
	}
	c.log.Debug("Fact check search completed", logger.Fields{
		"query":   query,
		"reviews": len(reviews),
	})
	return reviews, nil
}

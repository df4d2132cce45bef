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

package factcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

const cacheKeyPrefix = "factcheck:"

// Searcher is the lookup wrapped by CachedSearcher
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.FactReview, error)
}

// CachedSearcher memoises successful lookups in Redis. Cache failures are
// logged and bypassed; lookup errors are never cached.
type CachedSearcher struct {
	next Searcher
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

// NewRedisClient opens the cache connection described by cfg
func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewCachedSearcher wraps next with rdb
func NewCachedSearcher(next Searcher, rdb *redis.Client, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  logger.GetLogger().WithField("component", "factcheck_cache"),
	}
}

// CacheKey derives the Redis key for query; whitespace and case are folded
func CacheKey(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedSearcher) Search(ctx context.Context, query string) ([]models.FactReview, error) {
	key := CacheKey(query)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var reviews []models.FactReview
		if jsonErr := json.Unmarshal(raw, &reviews); jsonErr == nil {
			c.log.Debug("Fact check cache hit", logger.Fields{"key": key})
			return reviews, nil
		}
		c.log.Warn("Discarding undecodable cache entry", logger.Fields{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		c.log.WithError(err).Warn("Fact check cache read failed")
	}

	reviews, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(reviews)
	if err != nil {
		return reviews, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Fact check cache write failed")
	}
	return reviews, nil
}

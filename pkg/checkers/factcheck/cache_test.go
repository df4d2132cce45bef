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
	"errors"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

type countingSearcher struct {
	calls   int
	reviews []models.FactReview
	err     error
}

func (s *countingSearcher) Search(_ context.Context, _ string) ([]models.FactReview, error) {
	s.calls++
	return s.reviews, s.err
}

var _ = Describe("CachedSearcher", func() {
	var (
		mr    *miniredis.Miniredis
		rdb   *redis.Client
		inner *countingSearcher
		cache *CachedSearcher
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		rdb = NewRedisClient(config.CacheConfig{RedisAddr: mr.Addr()})
		inner = &countingSearcher{reviews: []models.FactReview{
			{TextualRating: "False", Publisher: "Snopes", URL: "https://snopes.com/x"},
		}}
		cache = NewCachedSearcher(inner, rdb, time.Hour)
		ctx = context.Background()
	})

	AfterEach(func() {
		_ = rdb.Close()
		mr.Close()
	})

	It("serves repeated queries from redis", func() {
		first, err := cache.Search(ctx, "The moon is made of cheese")
		Expect(err).NotTo(HaveOccurred())
		second, err := cache.Search(ctx, "the  moon is made of CHEESE")
		Expect(err).NotTo(HaveOccurred())

		Expect(inner.calls).To(Equal(1))
		Expect(second).To(Equal(first))
		Expect(mr.Exists(CacheKey("The moon is made of cheese"))).To(BeTrue())
		Expect(mr.TTL(CacheKey("The moon is made of cheese"))).To(Equal(time.Hour))
	})

	It("expires entries after the ttl", func() {
		_, err := cache.Search(ctx, "claim")
		Expect(err).NotTo(HaveOccurred())
		mr.FastForward(2 * time.Hour)
		_, err = cache.Search(ctx, "claim")
		Expect(err).NotTo(HaveOccurred())
		Expect(inner.calls).To(Equal(2))
	})

	It("caches empty results", func() {
		inner.reviews = []models.FactReview{}
		_, err := cache.Search(ctx, "nothing known")
		Expect(err).NotTo(HaveOccurred())
		reviews, err := cache.Search(ctx, "nothing known")
		Expect(err).NotTo(HaveOccurred())
		Expect(reviews).To(BeEmpty())
		Expect(inner.calls).To(Equal(1))
	})

	It("does not cache lookup errors", func() {
		inner.err = errors.New("quota exceeded")
		_, err := cache.Search(ctx, "claim")
		Expect(err).To(MatchError("quota exceeded"))
		Expect(mr.Keys()).To(BeEmpty())
	})

	It("falls through to the lookup when redis is down", func() {
		mr.Close()
		reviews, err := cache.Search(ctx, "claim")
		Expect(err).NotTo(HaveOccurred())
		Expect(reviews).To(HaveLen(1))
		Expect(inner.calls).To(Equal(1))
	})

	It("ignores corrupt entries", func() {
		Expect(mr.Set(CacheKey("claim"), "not json")).To(Succeed())
		reviews, err := cache.Search(ctx, "claim")
		Expect(err).NotTo(HaveOccurred())
		Expect(reviews).To(HaveLen(1))
		Expect(inner.calls).To(Equal(1))
	})

	It("derives stable prefixed keys", func() {
		Expect(CacheKey("A  b")).To(Equal(CacheKey("a b")))
		Expect(CacheKey("a b")).To(HavePrefix("factcheck:"))
		Expect(CacheKey("a b")).NotTo(Equal(CacheKey("a c")))
	})
})

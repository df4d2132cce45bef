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
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		path    string
		query   url.Values
		status  int
		payload string
		cfg     config.FactCheckConfig
	)

	BeforeEach(func() {
		status = http.StatusOK
		payload = `{"claims": [
			{"text": "Vaccines cause autism", "claimReview": [
				{"publisher": {"name": "Health Feedback", "site": "healthfeedback.org"}, "url": "https://healthfeedback.org/a", "textualRating": "False"},
				{"publisher": {"site": "factcheck.org"}, "url": "https://factcheck.org/b", "textualRating": "Incorrect"}
			]},
			{"text": "Another claim", "claimReview": [
				{"publisher": {"name": "AFP"}, "textualRating": "Misleading"}
			]}
		]}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			query = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(payload))
		}))
		cfg = config.FactCheckConfig{
			APIKey:       "fc-key",
			Endpoint:     server.URL + "/",
			LanguageCode: "en",
			PageSize:     5,
			Timeout:      2 * time.Second,
		}
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires an api key", func() {
		cfg.APIKey = ""
		_, err := NewClient(context.Background(), cfg, nil)
		Expect(err).To(HaveOccurred())
	})

	It("flattens reviews across claims in response order", func() {
		client, err := NewClient(context.Background(), cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		reviews, err := client.Search(context.Background(), "vaccines cause autism")
		Expect(err).NotTo(HaveOccurred())

		Expect(path).To(HaveSuffix("claims:search"))
		Expect(query.Get("query")).To(Equal("vaccines cause autism"))
		Expect(query.Get("languageCode")).To(Equal("en"))
		Expect(query.Get("pageSize")).To(Equal("5"))
		Expect(query.Get("key")).To(Equal("fc-key"))

		Expect(reviews).To(Equal([]models.FactReview{
			{TextualRating: "False", Publisher: "Health Feedback", URL: "https://healthfeedback.org/a"},
			{TextualRating: "Incorrect", Publisher: "factcheck.org", URL: "https://factcheck.org/b"},
			{TextualRating: "Misleading", Publisher: "AFP"},
		}))
	})

	It("returns no reviews for an empty response", func() {
		payload = `{}`
		client, err := NewClient(context.Background(), cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		reviews, err := client.Search(context.Background(), "unknown claim")
		Expect(err).NotTo(HaveOccurred())
		Expect(reviews).To(BeEmpty())
	})

	It("wraps API failures", func() {
		status = http.StatusForbidden
		payload = `{"error": {"code": 403, "message": "API key not valid"}}`
		client, err := NewClient(context.Background(), cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = client.Search(context.Background(), "claim")
		Expect(err).To(MatchError(ContainSubstring("fact check search failed")))
	})
})

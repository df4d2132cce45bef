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

package compliance

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/models"
)

func scored(v int) models.CheckResult {
	return models.NewScoredResult(models.StatusPass, v)
}

var failed = models.NewErrorResult("unavailable")

var _ = Describe("Aggregate", func() {
	DescribeTable("weights scored checks and rounds half up",
		func(checks models.Checks, expected int, canPublish bool) {
			s, ok := Aggregate(checks)
			Expect(s).To(Equal(expected))
			Expect(ok).To(Equal(canPublish))
		},
		Entry("all perfect", models.Checks{Grammar: scored(100), AdSense: scored(100), Facts: scored(100), SEO: scored(100)}, 100, true),
		Entry("half point rounds up", models.Checks{Grammar: scored(70), AdSense: scored(0), Facts: scored(100), SEO: scored(80)}, 54, false),
		Entry("adsense dominates", models.Checks{Grammar: scored(100), AdSense: scored(0), Facts: scored(100), SEO: scored(100)}, 65, false),
		Entry("exactly at threshold", models.Checks{Grammar: scored(70), AdSense: scored(70), Facts: scored(70), SEO: scored(70)}, 70, true),
		Entry("just under threshold", models.Checks{Grammar: scored(69), AdSense: scored(69), Facts: scored(69), SEO: scored(69)}, 69, false),
		Entry("errored check renormalises", models.Checks{Grammar: failed, AdSense: scored(100), Facts: scored(100), SEO: scored(50)}, 87, true),
		Entry("only seo scored", models.Checks{Grammar: failed, AdSense: failed, Facts: failed, SEO: scored(75)}, 75, true),
		Entry("nothing scored", models.Checks{Grammar: failed, AdSense: failed, Facts: failed, SEO: failed}, 0, false),
	)

	It("matches the rounded weighted sum for every scored combination", func() {
		values := []int{0, 13, 40, 55, 69, 70, 71, 88, 100}
		for _, g := range values {
			for _, a := range values {
				for _, f := range values {
					for _, s := range values {
						checks := models.Checks{Grammar: scored(g), AdSense: scored(a), Facts: scored(f), SEO: scored(s)}
						got, ok := Aggregate(checks)
						exact := 0.25*float64(g) + 0.35*float64(a) + 0.20*float64(f) + 0.20*float64(s)
						Expect(float64(got)).To(BeNumerically("~", exact, 0.500001), "g=%d a=%d f=%d s=%d", g, a, f, s)
						Expect(ok).To(Equal(got >= PublishThreshold))
					}
				}
			}
		}
	})
})

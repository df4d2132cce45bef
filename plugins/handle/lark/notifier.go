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

package lark

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mzansi-pulse/compliance/pkg/models"
)

// ErrWebhookNotSet is returned when no webhook URL is configured
var ErrWebhookNotSet = errors.New("lark webhook url is not set")

// Notifier posts compliance reports to a Lark bot webhook
type Notifier struct {
	WebhookURL        string
	Site              string
	NotifyPublishable bool
	MaxDetails        int
	HTTPClient        *http.Client
}

func NewNotifier(cfg LarkConfig) *Notifier {
	maxDetails := cfg.MaxDetails
	if maxDetails <= 0 {
		maxDetails = 5
	}
	return &Notifier{
		WebhookURL:        cfg.Webhook,
		Site:              cfg.Site,
		NotifyPublishable: cfg.NotifyPublishable,
		MaxDetails:        maxDetails,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ShouldNotify reports whether event warrants a card
func (f *Notifier) ShouldNotify(event *models.ReportEvent) bool {
	if event == nil || event.Report == nil {
		return false
	}
	return !event.Report.CanPublish || f.NotifyPublishable
}

// SendReportNotification sends a card for event; reports that may be
// published are skipped unless NotifyPublishable is set
func (f *Notifier) SendReportNotification(event *models.ReportEvent) (bool, error) {
	if f.WebhookURL == "" {
		return false, ErrWebhookNotSet
	}
	if !f.ShouldNotify(event) {
		return false, nil
	}
	message := LarkMessage{
		MsgType: "interactive",
		Card:    f.buildReportCard(event),
	}
	return true, f.sendMessage(message)
}

func markdown(content string) map[string]any {
	return map[string]any{
		"tag": "div",
		"text": map[string]any{
			"content": content,
			"tag":     "lark_md",
		},
	}
}

func statusIcon(status models.Status) string {
	switch status {
	case models.StatusPass:
		return "✅"
	case models.StatusWarning:
		return "⚠️"
	case models.StatusFail:
		return "❌"
	default:
		return "❔"
	}
}

func checkLine(name string, result models.CheckResult) string {
	line := fmt.Sprintf("%s **%s:** %s", statusIcon(result.Status), name, result.Status)
	if result.Scored() {
		line += fmt.Sprintf(" (%d)", result.ScoreValue())
	}
	if result.Message != "" {
		line += " " + result.Message
	}
	return line
}

func (f *Notifier) buildReportCard(event *models.ReportEvent) map[string]any {
	report := event.Report
	title := event.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}

	elements := []map[string]any{
		markdown("**📋 Content**"),
		markdown(fmt.Sprintf("**📰 Title:** %s", title)),
		markdown(fmt.Sprintf("**📝 Words:** %d", event.WordCount)),
	}
	if f.Site != "" {
		elements = append(elements, markdown(fmt.Sprintf("**🏷️ Site:** %s", f.Site)))
	}
	if event.RequestID != "" {
		elements = append(elements, markdown(fmt.Sprintf("**🔖 Request:** `%s`", event.RequestID)))
	}

	elements = append(elements,
		map[string]any{"tag": "hr"},
		markdown(fmt.Sprintf("**📊 Score:** %d / 100", report.Score)),
		markdown(strings.Join([]string{
			checkLine("Grammar", report.Checks.Grammar),
			checkLine("AdSense", report.Checks.AdSense),
			checkLine("Facts", report.Checks.Facts),
			checkLine("SEO", report.Checks.SEO),
		}, "\n")),
	)

	if len(report.Recommendations) > 0 {
		elements = append(elements, map[string]any{"tag": "hr"}, markdown("**🛠️ Recommendations**"))
		for _, rec := range report.Recommendations {
			content := fmt.Sprintf("**[%s] %s**", strings.ToUpper(string(rec.Priority)), rec.Action)
			for i, detail := range rec.Details {
				if i == f.MaxDetails {
					content += fmt.Sprintf("\n  • ... %d more", len(rec.Details)-f.MaxDetails)
					break
				}
				content += fmt.Sprintf("\n  • %s", detail)
			}
			elements = append(elements, markdown(content))
		}
	}

	checkedAt := event.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}
	elements = append(elements,
		map[string]any{"tag": "hr"},
		markdown(fmt.Sprintf("**⏰ Checked at:** %s (%d ms)",
			checkedAt.Format("2006-01-02 15:04:05"), event.Duration.Milliseconds())),
	)

	template := "green"
	header := "✅ Content cleared for publishing"
	if !report.CanPublish {
		template = "red"
		header = "🚨 Content blocked from publishing"
	}

	return map[string]any{
		"config": map[string]any{
			"wide_screen_mode": true,
		},
		"header": map[string]any{
			"template": template,
			"title": map[string]any{
				"content": header,
				"tag":     "plain_text",
			},
		},
		"elements": elements,
	}
}

func (f *Notifier) sendMessage(message LarkMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode lark message: %w", err)
	}
	resp, err := f.HTTPClient.Post(
		f.WebhookURL,
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return fmt.Errorf("failed to send lark webhook request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read lark response: %w", err)
	}
	var larkResp LarkResponse
	if err := json.Unmarshal(body, &larkResp); err != nil {
		return fmt.Errorf("failed to decode lark response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || larkResp.Code != 0 {
		return fmt.Errorf("lark webhook rejected notification: HTTP status %d, code %d, message: %s",
			resp.StatusCode, larkResp.Code, larkResp.Msg)
	}
	return nil
}

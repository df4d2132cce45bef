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

// LarkMessage is the webhook payload of an interactive card
type LarkMessage struct {
	MsgType string         `json:"msg_type"`
	Card    map[string]any `json:"card,omitempty"`
}

// LarkResponse is the webhook reply; Code is 0 on success
type LarkResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// LarkConfig is the JSON carried in the plugin settings
type LarkConfig struct {
	Webhook string `json:"webhook"`
	// Site labels the card so several deployments can share one chat
	Site string `json:"site"`
	// NotifyPublishable also sends a card for reports that may be published
	NotifyPublishable bool `json:"notifyPublishable"`
	// MaxDetails caps the details listed per recommendation
	MaxDetails int `json:"maxDetails"`
}

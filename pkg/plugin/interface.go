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

// Package plugin manages the lifecycle of handler plugins that react to
// events published by the compliance engine.
package plugin

import (
	"context"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
)

// Plugin represents a pluggable component with lifecycle management.
type Plugin interface {
	Name() string
	Type() string

	// Start subscribes the plugin to the bus. It must return promptly and do
	// its work on its own goroutines until ctx is cancelled.
	Start(ctx context.Context, pluginConfig config.PluginConfig, eventBus *eventbus.EventBus) error
	Stop(ctx context.Context) error
}

// PluginFactory creates a fresh plugin instance.
type PluginFactory func() Plugin

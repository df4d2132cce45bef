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

package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
	"github.com/mzansi-pulse/compliance/pkg/logger"
)

var (
	factoriesMu     sync.RWMutex
	PluginFactories = make(map[string]PluginFactory)
)

// Register makes a plugin factory available under name; plugins call it
// from init
func Register(name string, factory PluginFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	PluginFactories[name] = factory
}

func lookupFactory(name string) (PluginFactory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	factory, ok := PluginFactories[name]
	return factory, ok
}

func registeredFactoryNames() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(PluginFactories))
	for name := range PluginFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type PluginInstance struct {
	Plugin  Plugin
	Config  config.PluginConfig
	Running bool
}

// Manager loads, starts and stops the configured plugins
type Manager struct {
	pluginInstances map[string]*PluginInstance
	eventBus        *eventbus.EventBus
	ctx             context.Context
	cancel          context.CancelFunc
	mu              sync.RWMutex
}

func NewManager(eventBus *eventbus.EventBus) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		pluginInstances: make(map[string]*PluginInstance),
		eventBus:        eventBus,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// LoadPlugins instantiates every configured plugin with a registered
// factory; unknown names are logged and skipped
func (m *Manager) LoadPlugins(pluginConfigs []config.PluginConfig) {
	logger.Info("Loading plugins", logger.Fields{"count": len(pluginConfigs)})
	for _, pluginConfig := range pluginConfigs {
		if err := m.LoadPlugin(pluginConfig); err != nil {
			logger.Warn("Failed to load plugin", logger.Fields{
				"plugin": pluginConfig.Name,
				"error":  err.Error(),
			})
		}
	}
}

func (m *Manager) LoadPlugin(pluginConfig config.PluginConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	factory, ok := lookupFactory(pluginConfig.Name)
	if !ok {
		return fmt.Errorf("plugin factory %q not found, available: %v", pluginConfig.Name, registeredFactoryNames())
	}
	if _, exists := m.pluginInstances[pluginConfig.Name]; exists {
		logger.Debug("Plugin already loaded", logger.Fields{"plugin": pluginConfig.Name})
		return nil
	}

	m.pluginInstances[pluginConfig.Name] = &PluginInstance{
		Plugin: factory(),
		Config: pluginConfig,
	}
	logger.Info("Plugin loaded", logger.Fields{
		"plugin":  pluginConfig.Name,
		"type":    pluginConfig.Type,
		"enabled": pluginConfig.Enabled,
	})
	return nil
}

// StartAll starts every enabled plugin. A plugin that fails to start is
// logged and left stopped; the others still start.
func (m *Manager) StartAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, instance := range m.pluginInstances {
		log := logger.WithField("plugin", name)
		if !instance.Config.Enabled {
			log.Debug("Plugin disabled, skipping")
			continue
		}
		if err := instance.Plugin.Start(m.ctx, instance.Config, m.eventBus); err != nil {
			log.Error("Plugin failed to start", logger.Fields{"error": err.Error()})
			continue
		}
		instance.Running = true
		log.Info("Plugin started")
	}
}

// StopAll stops running plugins and cancels the shared plugin context
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, instance := range m.pluginInstances {
		if !instance.Running {
			continue
		}
		if err := instance.Plugin.Stop(ctx); err != nil {
			logger.Error("Error stopping plugin", logger.Fields{
				"plugin": name,
				"error":  err.Error(),
			})
		}
		instance.Running = false
	}
	m.cancel()
	logger.Info("All plugins stopped")
}

// Running returns the names of started plugins, sorted
func (m *Manager) Running() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name, instance := range m.pluginInstances {
		if instance.Running {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

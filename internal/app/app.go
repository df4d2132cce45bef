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

// Package app wires configuration, checkers, the engine, plugins and the
// HTTP server into the running service.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/mzansi-pulse/compliance/internal/api"
	"github.com/mzansi-pulse/compliance/pkg/compliance"
	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/plugin"

	_ "github.com/mzansi-pulse/compliance/plugins/handle/lark"
)

const pluginStopTimeout = 10 * time.Second

// LoadConfig loads configPath and applies the logging settings
func LoadConfig(configPath string) (*config.Loader, *config.Config, error) {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyLogging(cfg.Logging)
	return loader, cfg, nil
}

func applyLogging(cfg config.LoggingConfig) {
	log := logger.GetLogger()
	log.SetLevel(cfg.Level)
	log.SetFormat(cfg.Format)
}

// Run serves the compliance API until SIGINT or SIGTERM
func Run(configPath string) error {
	log := logger.GetLogger()

	log.Info("Loading configuration", logger.Fields{"path": configPath})
	loader, cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Error("Failed to load configuration", logger.Fields{"error": err.Error()})
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	log.Info("Creating event bus", logger.Fields{"buffer_size": cfg.Events.BufferSize})
	eventBus := eventbus.NewEventBus(cfg.Events.BufferSize)

	log.Info("Initializing compliance engine")
	engine, cleanup, err := BuildEngine(ctx, cfg, collector, compliance.WithEventBus(eventBus))
	if err != nil {
		log.Error("Failed to initialize compliance engine", logger.Fields{"error": err.Error()})
		return err
	}
	defer cleanup()

	log.Info("Initializing plugin manager")
	m := plugin.NewManager(eventBus)
	m.LoadPlugins(cfg.Plugins)
	m.StartAll()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), pluginStopTimeout)
		defer cancel()
		m.StopAll(stopCtx)
	}()

	if configPath != "" {
		watcher, err := config.NewWatcher(loader, reloadHandler(engine))
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				log.WithError(err).Warn("Failed to stop config watcher")
			}
		}()
	}

	server := api.NewServer(cfg.Server, cfg.Metrics, engine, collector)
	log.Info("Application started successfully, waiting for shutdown signal", logger.Fields{
		"address": cfg.Server.Address,
		"plugins": m.Running(),
	})
	if err := server.Run(ctx); err != nil {
		log.Error("HTTP server failed", logger.Fields{"error": err.Error()})
		return fmt.Errorf("http server failed: %w", err)
	}

	log.Info("Application shutdown completed")
	return nil
}

// reloadHandler applies reloaded rules and log settings. Checker and
// server settings need a restart.
func reloadHandler(engine *compliance.Engine) config.UpdateHandler {
	return func(cfg *config.Config) {
		if err := engine.UpdateRules(cfg.Rules); err != nil {
			logger.WithError(err).Error("Rejected reloaded rules, keeping the previous set")
			return
		}
		applyLogging(cfg.Logging)
		logger.Info("Rules reloaded")
	}
}

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

// Package lark sends compliance report cards to a Lark group bot.
package lark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/constants"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
	"github.com/mzansi-pulse/compliance/pkg/plugin"
)

const (
	pluginName = constants.HandleLark
	pluginType = constants.HandleLarkPluginType
)

func init() {
	plugin.Register(pluginName, func() plugin.Plugin {
		return &LarkPlugin{
			log:       logger.GetLogger().WithField("plugin", pluginName),
			collector: metrics.NewCollector(),
		}
	})
}

type LarkPlugin struct {
	log        logger.Logger
	notifier   *Notifier
	larkConfig LarkConfig
	collector  *metrics.Collector

	eventBus  *eventbus.EventBus
	subscribe eventbus.EventChan
	done      chan struct{}
}

func (p *LarkPlugin) Name() string {
	return pluginName
}

func (p *LarkPlugin) Type() string {
	return pluginType
}

func (p *LarkPlugin) loadConfig(setting string) error {
	if setting == "" {
		return errors.New("lark settings cannot be empty")
	}
	var cfg LarkConfig
	if err := json.Unmarshal([]byte(setting), &cfg); err != nil {
		return fmt.Errorf("failed to parse lark settings: %w", err)
	}
	if cfg.Webhook == "" {
		return ErrWebhookNotSet
	}
	p.larkConfig = cfg
	return nil
}

func (p *LarkPlugin) Start(ctx context.Context, pluginConfig config.PluginConfig, eventBus *eventbus.EventBus) error {
	if err := p.loadConfig(pluginConfig.Settings); err != nil {
		return err
	}
	p.notifier = NewNotifier(p.larkConfig)
	p.eventBus = eventBus
	p.subscribe = eventBus.Subscribe(constants.ComplianceReportTopic)
	p.done = make(chan struct{})

	go p.run(ctx, p.subscribe, p.done)
	return nil
}

func (p *LarkPlugin) run(ctx context.Context, subscribe eventbus.EventChan, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Lark plugin goroutine panic", logger.Fields{
				"panic":       r,
				"stack_trace": string(debug.Stack()),
			})
		}
	}()
	for {
		select {
		case event, ok := <-subscribe:
			if !ok {
				p.log.Info("Event subscription channel closed")
				return
			}
			p.handle(event)
		case <-ctx.Done():
			p.log.Info("Lark plugin received stop signal")
			return
		}
	}
}

func (p *LarkPlugin) handle(event eventbus.Event) {
	report, ok := event.Payload.(*models.ReportEvent)
	if !ok {
		p.log.Error("Invalid event payload type", logger.Fields{
			"expected": "*models.ReportEvent",
			"actual":   fmt.Sprintf("%T", event.Payload),
		})
		return
	}
	sent, err := p.notifier.SendReportNotification(report)
	if err != nil {
		p.collector.RecordNotification(false)
		p.log.Error("Failed to send lark notification", logger.Fields{
			"request_id": report.RequestID,
			"error":      err.Error(),
		})
		return
	}
	if sent {
		p.collector.RecordNotification(true)
		p.log.Debug("Lark notification sent", logger.Fields{
			"request_id": report.RequestID,
			"score":      report.Report.Score,
		})
	}
}

// Stop unsubscribes and waits for the delivery goroutine to exit
func (p *LarkPlugin) Stop(ctx context.Context) error {
	if p.eventBus == nil {
		return nil
	}
	p.eventBus.Unsubscribe(constants.ComplianceReportTopic, p.subscribe)
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

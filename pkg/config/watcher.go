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

package config

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mzansi-pulse/compliance/pkg/logger"
)

// UpdateHandler receives every successfully reloaded configuration
type UpdateHandler func(*Config)

// Watcher reloads the configuration file when its content changes
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	handler UpdateHandler
}

// NewWatcher creates a watcher; the loader must point at a file
func NewWatcher(loader *Loader, handler UpdateHandler) (*Watcher, error) {
	if loader.ConfigPath() == "" {
		return nil, errors.New("config watcher requires a configuration file")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		loader:  loader,
		watcher: fsWatcher,
		handler: handler,
	}, nil
}

// Start watches the file's directory so editors that replace the file on
// save are still observed
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.loader.ConfigDir()); err != nil {
		return err
	}
	logger.Info("Watching configuration file", logger.Fields{"path": w.loader.ConfigPath()})
	go w.watchLoop(ctx)
	return nil
}

// Stop closes the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	target := filepath.Clean(w.loader.ConfigPath())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleFileChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.WithError(err).Error("Config watcher error")
		}
	}
}

func (w *Watcher) handleFileChange() {
	changed, err := w.loader.HasChanged()
	if err != nil {
		logger.WithError(err).Error("Failed to check configuration file for changes")
		return
	}
	if !changed {
		return
	}

	logger.Info("Configuration file changed, reloading", logger.Fields{"path": w.loader.ConfigPath()})
	cfg, err := w.loader.Load()
	if err != nil {
		logger.WithError(err).Error("Reload failed, keeping the previous configuration")
		return
	}
	if w.handler != nil {
		w.handler(cfg)
	}
}

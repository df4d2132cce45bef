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

// Package api exposes the compliance engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// CheckPath is the compliance check endpoint
const CheckPath = "/api/compliance-check"

const shutdownTimeout = 10 * time.Second

// Checker produces a compliance report for a request
type Checker interface {
	Check(ctx context.Context, req *models.ComplianceRequest) (*models.ComplianceReport, error)
}

// Server wires the gin router to a Checker
type Server struct {
	cfg        config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds the router; metrics are served when metricsCfg.Enabled
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, checker Checker, collector *metrics.Collector) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		requestID(),
		requestLogger(),
		gin.CustomRecovery(recoverPanic),
		cors.New(corsConfig(cfg.AllowOrigins)),
	)

	h := &checkHandler{
		checker:      checker,
		collector:    collector,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	router.POST(CheckPath, h.Check)
	router.NoMethod(methodNotAllowed)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsCfg.Enabled {
		router.GET(metricsCfg.Path, gin.WrapH(promhttp.Handler()))
	}

	return &Server{
		cfg:    cfg,
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: logger.GetLogger().WithField("component", "api"),
	}
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logger.Fields{"address": s.cfg.Address})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

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

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// Error messages returned to clients
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidBody      = "Request body must be a JSON object"
	MsgCheckFailed      = "Compliance check failed"
)

// checkRequest keeps content untyped so a non-string value is reported as
// missing content rather than a decoding failure
type checkRequest struct {
	Content         any            `json:"content"`
	Title           string         `json:"title"`
	MetaDescription string         `json:"metaDescription"`
	Images          []models.Image `json:"images"`
}

type checkResponse struct {
	Success bool `json:"success"`
	*models.ComplianceReport
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type checkHandler struct {
	checker      Checker
	collector    *metrics.Collector
	maxBodyBytes int64
}

// Check handles POST /api/compliance-check
func (h *checkHandler) Check(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var body checkRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		h.collector.RecordRejected()
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, errorResponse{Error: MsgInvalidBody, Details: err.Error()})
		return
	}

	content, ok := body.Content.(string)
	if !ok {
		h.collector.RecordRejected()
		c.JSON(http.StatusBadRequest, errorResponse{Error: models.ErrContentRequired.Error()})
		return
	}

	req := &models.ComplianceRequest{
		Content:         content,
		Title:           body.Title,
		MetaDescription: body.MetaDescription,
		Images:          body.Images,
	}
	report, err := h.checker.Check(c.Request.Context(), req)
	switch {
	case errors.Is(err, models.ErrContentRequired):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		logger.WithContext(c.Request.Context()).WithError(err).Error("Compliance check failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: MsgCheckFailed, Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, checkResponse{Success: true, ComplianceReport: report})
}

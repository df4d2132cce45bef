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

// Package models defines the data structures exchanged between the HTTP layer,
// the compliance engine, its evaluators and the external checker adapters.
package models

import (
	"errors"
	"strings"
)

// ErrContentRequired is returned when a request carries no usable content
var ErrContentRequired = errors.New("Content is required and must be a non-empty string.")

// Image is a content image reference; only its alt text is inspected
type Image struct {
	Alt string `json:"alt"`
}

// ComplianceRequest is the raw content submitted for a compliance check
type ComplianceRequest struct {
	Content         string  `json:"content"`
	Title           string  `json:"title,omitempty"`
	MetaDescription string  `json:"metaDescription,omitempty"`
	Images          []Image `json:"images,omitempty"`
}

// Validate rejects requests whose content is empty once trimmed
func (r *ComplianceRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Content) == "" {
		return ErrContentRequired
	}
	return nil
}

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

package logger

import (
	"context"
	"time"
)

// TraceOperation runs fn and logs its duration under the request id carried by ctx
func TraceOperation(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	log := WithContext(ctx)
	log.Debug("Operation started", Fields{"operation": name})

	err := fn()
	duration := time.Since(start)
	if err != nil {
		log.Error("Operation failed", Fields{
			"operation": name,
			"duration":  duration.String(),
			"error":     err.Error(),
		})
		return err
	}
	log.Debug("Operation completed", Fields{
		"operation": name,
		"duration":  duration.String(),
	})
	return nil
}

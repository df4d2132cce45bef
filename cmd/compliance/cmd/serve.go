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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mzansi-pulse/compliance/internal/app"
)

// NewServeCommand runs the HTTP service
func NewServeCommand(opts *CommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the compliance HTTP API",
		Long: `Start the HTTP API on the configured address. The rule tables and log level
are reloaded when the configuration file changes.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Run(opts.ConfigPath)
		},
	}
}

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

// Package main is the entry point of the compliance service and CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/mzansi-pulse/compliance/cmd/compliance/cmd"
	"github.com/mzansi-pulse/compliance/pkg/logger"
)

var version = "dev"

func main() {
	debug.SetTraceback("all")
	logger.Init()

	rootCmd := &cobra.Command{
		Use:   "compliance",
		Short: "Content compliance engine",
		Long: `compliance scores articles for grammar, AdSense policy, factual claims and SEO
and decides whether they can be published. Run it as an HTTP service with
"serve" or score a single document with "check".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := cmd.NewCommandOptions()
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to the YAML configuration file")

	rootCmd.AddCommand(cmd.NewServeCommand(opts))
	rootCmd.AddCommand(cmd.NewCheckCommand(opts, os.Stdin, os.Stdout))

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrNotPublishable) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mzansi-pulse/compliance/internal/app"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// ErrNotPublishable is returned by check when the report blocks publishing
var ErrNotPublishable = errors.New("content cannot be published")

type checkOptions struct {
	*CommandOptions
	file      string
	title     string
	meta      string
	imageAlts []string
	compact   bool
}

// NewCheckCommand scores one document and prints the report as JSON
func NewCheckCommand(opts *CommandOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	o := &checkOptions{CommandOptions: opts}
	c := &cobra.Command{
		Use:   "check",
		Short: "Score a single document",
		Long: `Run every compliance check against a document read from --file (or stdin
when the file is "-") and print the report. The exit code is 2 when the
document cannot be published.`,
		Example: `  compliance check --file post.md --title "Weekend guide" --meta "Where to go"
  cat post.html | compliance check --file - --image-alt "Crowd at the market"`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return o.run(c, stdin, stdout)
		},
	}
	c.Flags().StringVarP(&o.file, "file", "f", "-", "document to check, - for stdin")
	c.Flags().StringVar(&o.title, "title", "", "document title")
	c.Flags().StringVar(&o.meta, "meta", "", "meta description")
	c.Flags().StringSliceVar(&o.imageAlts, "image-alt", nil, "alt text of an image, repeat once per image")
	c.Flags().BoolVar(&o.compact, "compact", false, "print the report on one line")
	return c
}

func (o *checkOptions) readContent(stdin io.Reader) (string, error) {
	if o.file == "" || o.file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(o.file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", o.file, err)
	}
	return string(data), nil
}

func (o *checkOptions) run(c *cobra.Command, stdin io.Reader, stdout io.Writer) error {
	content, err := o.readContent(stdin)
	if err != nil {
		return err
	}

	// stdout carries the report
	logger.GetLogger().SetOutput(os.Stderr)
	_, cfg, err := app.LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}
	engine, cleanup, err := app.BuildEngine(c.Context(), cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	req := &models.ComplianceRequest{
		Content:         content,
		Title:           o.title,
		MetaDescription: o.meta,
	}
	for _, alt := range o.imageAlts {
		req.Images = append(req.Images, models.Image{Alt: alt})
	}

	var report *models.ComplianceReport
	err = logger.TraceOperation(c.Context(), "compliance check", func() error {
		var checkErr error
		report, checkErr = engine.Check(c.Context(), req)
		return checkErr
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !report.CanPublish {
		return ErrNotPublishable
	}
	return nil
}

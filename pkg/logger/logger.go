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

// Package logger provides the structured logging interface used across the
// compliance service. It wraps logrus and keeps a field-map based API so call
// sites never depend on logrus types directly.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key/value pairs attached to a log line
type Fields map[string]any

type ctxKey string

// RequestIDKey is the context key under which the HTTP layer stores the request id
const RequestIDKey ctxKey = "request_id"

// Logger is the logging interface consumed by every package
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	Fatal(msg string, fields ...Fields)

	WithField(key string, value any) Logger
	WithFields(fields Fields) Logger
	WithContext(ctx context.Context) Logger
	WithError(err error) Logger

	SetLevel(level string)
	SetFormat(format string)
	SetOutput(w io.Writer)
}

// LogrusLogger implements Logger on top of a logrus entry
type LogrusLogger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

var (
	globalLogger *LogrusLogger
	once         sync.Once
)

// Init initializes the global logger, reading COMPLIANCE_LOG_LEVEL and
// COMPLIANCE_LOG_FORMAT from the environment
func Init() {
	once.Do(func() {
		globalLogger = newLogrusLogger()
		if level := os.Getenv("COMPLIANCE_LOG_LEVEL"); level != "" {
			globalLogger.SetLevel(level)
		}
		if format := os.Getenv("COMPLIANCE_LOG_FORMAT"); format != "" {
			globalLogger.SetFormat(format)
		}
	})
}

// GetLogger returns the global logger instance
func GetLogger() Logger {
	Init()
	return globalLogger
}

// New creates an independent logger, mainly for tests
func New(w io.Writer) Logger {
	l := newLogrusLogger()
	l.SetOutput(w)
	return l
}

func newLogrusLogger() *LogrusLogger {
	base := logrus.New()
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.InfoLevel)
	return &LogrusLogger{
		base:  base,
		entry: logrus.NewEntry(base),
	}
}

func (l *LogrusLogger) with(fields []Fields) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	merged := logrus.Fields{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return l.entry.WithFields(merged)
}

func (l *LogrusLogger) Debug(msg string, fields ...Fields) {
	l.with(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields ...Fields) {
	l.with(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields ...Fields) {
	l.with(fields).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, fields ...Fields) {
	l.with(fields).Error(msg)
}

// Fatal logs and exits the process
func (l *LogrusLogger) Fatal(msg string, fields ...Fields) {
	l.with(fields).Fatal(msg)
}

func (l *LogrusLogger) WithField(key string, value any) Logger {
	return &LogrusLogger{base: l.base, entry: l.entry.WithField(key, value)}
}

func (l *LogrusLogger) WithFields(fields Fields) Logger {
	return &LogrusLogger{base: l.base, entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext attaches the request id carried by ctx, if any
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	entry := l.entry.WithContext(ctx)
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		entry = entry.WithField(string(RequestIDKey), requestID)
	}
	return &LogrusLogger{base: l.base, entry: entry}
}

func (l *LogrusLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &LogrusLogger{base: l.base, entry: l.entry.WithError(err)}
}

// SetLevel parses level and keeps the current one when it is invalid
func (l *LogrusLogger) SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		l.entry.WithField("level", level).Warn("Invalid log level, keeping current level")
		return
	}
	l.base.SetLevel(parsed)
}

// SetFormat switches between "json" and "text" output
func (l *LogrusLogger) SetFormat(format string) {
	switch strings.ToLower(format) {
	case "text":
		l.base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.base.SetFormatter(&logrus.JSONFormatter{})
	}
}

func (l *LogrusLogger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, fields...)
}

func WithField(key string, value any) Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields Fields) Logger {
	return GetLogger().WithFields(fields)
}

func WithContext(ctx context.Context) Logger {
	return GetLogger().WithContext(ctx)
}

func WithError(err error) Logger {
	return GetLogger().WithError(err)
}

// Package logging provides Logger implementations for CLI output.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kindling-sh/kindling/internal/ports"
)

// ConsoleLogger writes structured log lines to a console stream.
type ConsoleLogger struct {
	mu         sync.Mutex
	out        io.Writer
	level      ports.Level
	fields     []ports.Field
	jsonFormat bool
	timestamps bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.level = level
	}
}

// WithJSONFormat switches output to one JSON object per line.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.jsonFormat = enabled
	}
}

// WithTimestamps includes timestamps in log entries.
func WithTimestamps(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.timestamps = enabled
	}
}

// NewConsoleLogger creates a console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:        os.Stderr,
		level:      ports.LevelInfo,
		timestamps: true,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a new logger carrying additional base fields.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	return &ConsoleLogger{
		out:        l.out,
		level:      l.level,
		fields:     mergeFields(l.fields, fields),
		jsonFormat: l.jsonFormat,
		timestamps: l.timestamps,
	}
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all := mergeFields(l.fields, fields)

	if l.jsonFormat {
		l.writeJSON(level, msg, all)
		return
	}
	l.writeText(level, msg, all)
}

func (l *ConsoleLogger) writeJSON(level ports.Level, msg string, fields []ports.Field) {
	entry := make(map[string]any, len(fields)+3)
	if l.timestamps {
		entry["time"] = time.Now().UTC().Format(time.RFC3339)
	}
	entry["level"] = level.String()
	entry["msg"] = msg

	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(l.out, string(data))
}

func (l *ConsoleLogger) writeText(level ports.Level, msg string, fields []ports.Field) {
	var b strings.Builder

	if l.timestamps {
		b.WriteString(time.Now().Format("15:04:05"))
		b.WriteString(" ")
	}
	b.WriteString("[" + level.String() + "] ")
	b.WriteString(msg)

	for _, f := range fields {
		b.WriteString(fmt.Sprintf(" %s=%v", f.Key, f.Value))
	}

	_, _ = fmt.Fprintln(l.out, b.String())
}

func mergeFields(base, extra []ports.Field) []ports.Field {
	merged := make([]ports.Field, 0, len(base)+len(extra))
	merged = append(merged, base...)
	merged = append(merged, extra...)
	return merged
}

var _ ports.Logger = (*ConsoleLogger)(nil)

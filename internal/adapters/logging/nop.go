package logging

import (
	"context"

	"github.com/kindling-sh/kindling/internal/ports"
)

// NopLogger discards all log output. Useful in tests.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelError}
}

func (l *NopLogger) Debug(context.Context, string, ...ports.Field) {}
func (l *NopLogger) Info(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Error(context.Context, string, ...ports.Field) {}

// With returns the same logger; there is nothing to carry.
func (l *NopLogger) With(...ports.Field) ports.Logger { return l }

// Level returns the configured level.
func (l *NopLogger) Level() ports.Level { return l.level }

// SetLevel sets the level. Output stays discarded regardless.
func (l *NopLogger) SetLevel(level ports.Level) { l.level = level }

var _ ports.Logger = (*NopLogger)(nil)

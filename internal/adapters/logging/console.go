package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/albmanager/internal/ports"
	"github.com/lmittmann/tint"
)

// ConsoleLogger logs structured messages to the console through a slog handler.
// Text output is rendered by tint, JSON output by slog's JSON handler.
type ConsoleLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

type consoleConfig struct {
	out         io.Writer
	level       ports.Level
	jsonFormat  bool
	includeTime bool
	noColor     bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*consoleConfig)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(c *consoleConfig) {
		c.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(c *consoleConfig) {
		c.level = level
	}
}

// WithJSONFormat enables JSON output format.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(c *consoleConfig) {
		c.jsonFormat = enabled
	}
}

// WithTimestamp includes timestamp in log entries.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(c *consoleConfig) {
		c.includeTime = enabled
	}
}

// WithNoColor disables ANSI colors in text output.
func WithNoColor(disabled bool) ConsoleLoggerOption {
	return func(c *consoleConfig) {
		c.noColor = disabled
	}
}

// NewConsoleLogger creates a new console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	cfg := &consoleConfig{
		out:         os.Stderr,
		level:       ports.LevelInfo,
		includeTime: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.level.Slog())

	replace := func(groups []string, a slog.Attr) slog.Attr {
		if !cfg.includeTime && a.Key == slog.TimeKey && len(groups) == 0 {
			return slog.Attr{}
		}
		return a
	}

	var handler slog.Handler
	if cfg.jsonFormat {
		handler = slog.NewJSONHandler(cfg.out, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replace,
		})
	} else {
		handler = tint.NewHandler(cfg.out, &tint.Options{
			Level:       level,
			TimeFormat:  time.Kitchen,
			NoColor:     cfg.noColor,
			ReplaceAttr: replace,
		})
	}

	return &ConsoleLogger{
		logger: slog.New(handler),
		level:  level,
	}
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

// With returns a new logger with additional fields. The level is shared.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	return &ConsoleLogger{
		logger: l.logger.With(toArgs(fields)...),
		level:  l.level,
	}
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.level.Set(level.Slog())
}

func (l *ConsoleLogger) log(ctx context.Context, level slog.Level, msg string, fields []ports.Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.logger.Log(ctx, level, msg, toArgs(fields)...)
}

func toArgs(fields []ports.Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}

// Ensure ConsoleLogger implements Logger.
var _ ports.Logger = (*ConsoleLogger)(nil)

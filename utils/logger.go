package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// LoggerOptions controls how a Logger renders and where it ships records.
type LoggerOptions struct {
	Writer io.Writer
	Level  slog.Leveler
	JSON   bool

	// Fluent, when set, receives a copy of every record under FluentTag.
	Fluent    *fluent.Fluent
	FluentTag string
}

// Logger provides leveled logging throughout the application. Messages are
// printf-formatted and emitted through slog.
type Logger struct {
	slog      *slog.Logger
	fluent    *fluent.Fluent
	fluentTag string
}

// NewLogger creates a Logger writing colored text to stdout.
func NewLogger() *Logger {
	return NewLoggerWithOptions(LoggerOptions{})
}

// NewLoggerWithOptions creates a Logger from opts. Colors are only used when
// the writer is a terminal.
func NewLoggerWithOptions(opts LoggerOptions) *Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: opts.Level})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    !isTerminal(opts.Writer),
		})
	}

	return &Logger{
		slog:      slog.New(handler),
		fluent:    opts.Fluent,
		fluentTag: opts.FluentTag,
	}
}

// NewFluentClient connects to a Fluent Bit forward input.
func NewFluentClient(host string, port int, tagPrefix string) (*fluent.Fluent, error) {
	if tagPrefix == "" {
		return nil, fmt.Errorf("fluent: tag prefix is required")
	}
	f, err := fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  tagPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("fluent: connect %s:%d: %w", host, port, err)
	}
	return f, nil
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// With returns a Logger that adds the given key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), fluent: l.fluent, fluentTag: l.fluentTag}
}

func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.slog.Log(ctx, level, msg)

	if l.fluent != nil {
		// best effort
		_ = l.fluent.Post(l.fluentTag, map[string]string{
			"level": level.String(),
			"msg":   msg,
			"time":  time.Now().Format(time.RFC3339),
		})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

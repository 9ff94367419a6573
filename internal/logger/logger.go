package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yukikurage/tree-api/internal/config"
)

// Logger wraps slog.Logger with a runtime-adjustable level and the output it owns.
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	output io.Writer
}

// New builds a Logger from cfg. Records go to stdout, or to a rotating file
// when cfg.File is set; when sentryEnabled is true, error records are also
// forwarded to Sentry.
func New(cfg config.LoggerConfig, sentryEnabled bool) (*Logger, error) {
	level := new(slog.LevelVar)
	parsed, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	level.Set(parsed)

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		output = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	if sentryEnabled {
		handler = newFanoutHandler(handler, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	return &Logger{
		Logger: slog.New(NewMaskingHandler(handler)),
		level:  level,
		output: output,
	}, nil
}

// SetLevel changes the minimum level of every logger derived from l.
func (l *Logger) SetLevel(name string) error {
	parsed, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.level.Set(parsed)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close releases the log file, if one is open.
func (l *Logger) Close() error {
	if closer, ok := l.output.(io.Closer); ok && l.output != os.Stdout {
		return closer.Close()
	}
	return nil
}

// ParseLevel maps a configuration level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// fanoutHandler sends every record to all of its handlers.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h.handlers {
		if next.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, next := range h.handlers {
		if !next.Enabled(ctx, record.Level) {
			continue
		}
		if err := next.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// CapLevel returns a handler that logs records above max at max. Records
// still reach the outputs of h but never the handlers that only take errors.
func CapLevel(h slog.Handler, max slog.Level) slog.Handler {
	return &cappedHandler{next: h, max: max}
}

type cappedHandler struct {
	next slog.Handler
	max  slog.Level
}

func (h *cappedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, min(level, h.max))
}

func (h *cappedHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level > h.max {
		capped := slog.NewRecord(record.Time, h.max, record.Message, record.PC)
		record.Attrs(func(attr slog.Attr) bool {
			capped.AddAttrs(attr)
			return true
		})
		record = capped
	}
	return h.next.Handle(ctx, record)
}

func (h *cappedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cappedHandler{next: h.next.WithAttrs(attrs), max: h.max}
}

func (h *cappedHandler) WithGroup(name string) slog.Handler {
	return &cappedHandler{next: h.next.WithGroup(name), max: h.max}
}

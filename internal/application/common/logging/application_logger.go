package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// ApplicationLogger defines the interface for structured application logging
type ApplicationLogger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	ErrorWithError(ctx context.Context, err error, message string, fields Fields)
	LogPerformance(ctx context.Context, operation string, duration time.Duration, fields Fields)
	WithComponent(component string) ApplicationLogger
}

// Fields represents structured logging fields
type Fields map[string]interface{}

// Config represents logger configuration
type Config struct {
	Level  string
	Format string // json, text
	Output string // stdout, stderr, discard, buffer (for testing)
}

// Supported values for Config.
var (
	validLevels  = []string{"DEBUG", "INFO", "WARN", "ERROR"}
	validFormats = []string{"json", "text"}
	validOutputs = []string{"stdout", "stderr", "discard", "buffer"}
)

// Attribute keys shared by every entry.
const (
	keyComponent     = "component"
	keyCorrelationID = "correlation_id"
	keyRequestID     = "request_id"
	keyOperation     = "operation"
	keyDuration      = "duration"
	keyError         = "error"
)

// applicationLoggerImpl implements ApplicationLogger on top of log/slog.
type applicationLoggerImpl struct {
	config    Config
	component string
	logger    *slog.Logger
	buffer    *syncBuffer // For testing
}

// NewApplicationLogger creates a new application logger writing to the output named in config.
func NewApplicationLogger(config Config) (ApplicationLogger, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var (
		out    io.Writer
		buffer *syncBuffer
	)
	switch config.Output {
	case "buffer":
		buffer = &syncBuffer{}
		out = buffer
	case "discard":
		out = io.Discard
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	logger := newApplicationLogger(config, out)
	logger.buffer = buffer
	return logger, nil
}

// NewApplicationLoggerWithWriter creates a logger that writes to w, ignoring config.Output.
func NewApplicationLoggerWithWriter(config Config, w io.Writer) (ApplicationLogger, error) {
	config.Output = "stderr"
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return newApplicationLogger(config, w), nil
}

func newApplicationLogger(config Config, out io.Writer) *applicationLoggerImpl {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if config.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &applicationLoggerImpl{
		config: config,
		logger: slog.New(handler),
	}
}

// validateConfig validates logger configuration
func validateConfig(config Config) error {
	if !slices.Contains(validLevels, strings.ToUpper(config.Level)) {
		return fmt.Errorf("invalid log level: %s", config.Level)
	}
	if !slices.Contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s", config.Format)
	}
	if !slices.Contains(validOutputs, config.Output) {
		return fmt.Errorf("invalid log output: %s", config.Output)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *applicationLoggerImpl) Debug(ctx context.Context, message string, fields Fields) {
	l.logEntry(ctx, slog.LevelDebug, message, nil, fields)
}

func (l *applicationLoggerImpl) Info(ctx context.Context, message string, fields Fields) {
	l.logEntry(ctx, slog.LevelInfo, message, nil, fields)
}

func (l *applicationLoggerImpl) Warn(ctx context.Context, message string, fields Fields) {
	l.logEntry(ctx, slog.LevelWarn, message, nil, fields)
}

func (l *applicationLoggerImpl) Error(ctx context.Context, message string, fields Fields) {
	l.logEntry(ctx, slog.LevelError, message, nil, fields)
}

func (l *applicationLoggerImpl) ErrorWithError(ctx context.Context, err error, message string, fields Fields) {
	l.logEntry(ctx, slog.LevelError, message, err, fields)
}

// LogPerformance records how long an operation took at debug level.
func (l *applicationLoggerImpl) LogPerformance(
	ctx context.Context,
	operation string,
	duration time.Duration,
	fields Fields,
) {
	merged := make(Fields, len(fields)+2)
	for k, v := range fields {
		merged[k] = v
	}
	merged[keyOperation] = operation
	merged[keyDuration] = duration.String()
	l.logEntry(ctx, slog.LevelDebug, "operation completed", nil, merged)
}

// WithComponent returns a logger that tags every entry with component.
func (l *applicationLoggerImpl) WithComponent(component string) ApplicationLogger {
	return &applicationLoggerImpl{
		config:    l.config,
		component: component,
		logger:    l.logger,
		buffer:    l.buffer,
	}
}

func (l *applicationLoggerImpl) logEntry(ctx context.Context, level slog.Level, message string, err error, fields Fields) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+4)
	if l.component != "" {
		attrs = append(attrs, slog.String(keyComponent, l.component))
	}
	if id := GetCorrelationID(ctx); id != "" {
		attrs = append(attrs, slog.String(keyCorrelationID, id))
	}
	if id := GetRequestID(ctx); id != "" {
		attrs = append(attrs, slog.String(keyRequestID, id))
	}
	if err != nil {
		attrs = append(attrs, slog.String(keyError, err.Error()))
	}
	for _, key := range sortedKeys(fields) {
		attrs = append(attrs, slog.Any(key, fields[key]))
	}

	l.logger.LogAttrs(ctx, level, message, attrs...)
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// getLoggerOutput returns everything written by a logger created with Output "buffer".
func getLoggerOutput(logger ApplicationLogger) string {
	impl, ok := logger.(*applicationLoggerImpl)
	if !ok || impl.buffer == nil {
		return ""
	}
	return impl.buffer.String()
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

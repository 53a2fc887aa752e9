package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// OutputType defines the type of output for the logger
type OutputType string

const (
	// OutputConsole outputs logs to stdout
	OutputConsole OutputType = "console"
	// OutputFile outputs logs to a rotated file
	OutputFile OutputType = "file"
	// OutputOTEL outputs logs to stdout and to an OpenTelemetry collector
	OutputOTEL OutputType = "otel"
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string

	// Output defines where logs should be written (console, file, otel)
	Output OutputType

	// Format defines the log format (json, console)
	Format string

	// FilePath is the path to the log file (required when Output is "file")
	FilePath string

	// FileMaxSizeMB is the size in megabytes at which the file is rotated
	FileMaxSizeMB int

	// FileMaxBackups is the number of rotated files kept
	FileMaxBackups int

	// FileMaxAgeDays is the number of days rotated files are kept
	FileMaxAgeDays int

	// FileCompress gzips rotated files
	FileCompress bool

	// Development enables colored console output and warn-level stacktraces
	Development bool

	// AddCaller adds caller information to log entries
	AddCaller bool

	// CallerSkip is the number of stack frames to skip when recording caller info
	CallerSkip int
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:          "info",
		Output:         OutputConsole,
		Format:         "json",
		FilePath:       "./logs/repodash.log",
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
		FileCompress:   true,
		AddCaller:      true,
		CallerSkip:     0,
	}
}

// Logger wraps zap.Logger with additional functionality
type Logger struct {
	*zap.Logger
	config  *Config
	core    zapcore.Core
	closers []io.Closer
	mu      sync.Mutex
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// New creates a new Logger writing to stdout or to a rotated file
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	core, closer := LocalCore(cfg)
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}
	return NewWithCore(cfg, core, closers...), nil
}

// NewWithCore creates a new Logger around a custom zapcore.Core.
// The OTEL bridge uses this to tee the local core with an exporter.
func NewWithCore(cfg *Config, core zapcore.Core, closers ...io.Closer) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Logger{
		Logger:  zap.New(core, buildZapOptions(cfg)...),
		config:  cfg,
		core:    core,
		closers: closers,
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{
		Logger: zap.NewNop(),
		config: DefaultConfig(),
		core:   zapcore.NewNopCore(),
	}
}

// LocalCore builds the stdout or file core described by cfg. The returned
// closer is non-nil only for file output.
func LocalCore(cfg *Config) (zapcore.Core, io.Closer) {
	level := ParseLevel(cfg.Level)
	encoder := newEncoder(cfg)

	if cfg.Output == OutputFile {
		writer := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
			Compress:   cfg.FileCompress,
		}
		return zapcore.NewCore(encoder, zapcore.AddSync(writer), level), writer
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level), nil
}

// Init initializes the global logger with the provided configuration
func Init(cfg *Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}

	SetGlobal(logger)
	return nil
}

// SetGlobal sets the global logger instance
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Get returns the global logger instance, creating a default one on first use
func Get() *Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		globalLogger, _ = New(DefaultConfig())
	}

	return globalLogger
}

// Core returns the underlying zapcore.Core
func (l *Logger) Core() zapcore.Core {
	return l.core
}

// WithContext returns a logger carrying the trace and span ids found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return l
	}

	return l.WithFields(
		TraceID(sc.TraceID().String()),
		SpanID(sc.SpanID().String()),
	)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields ...zap.Field) *Logger {
	return &Logger{
		Logger:  l.With(fields...),
		config:  l.config,
		core:    l.core,
		closers: l.closers,
	}
}

// WithError returns a logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields(zap.Error(err))
}

// Close flushes buffered entries and closes file or exporter sinks
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.Logger.Sync()

	var lastErr error
	for _, closer := range l.closers {
		if err := closer.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// ParseLevel converts a string level to zapcore.Level, falling back to info
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func newEncoder(cfg *Config) zapcore.Encoder {
	if cfg.Development {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(ec)
	}

	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	if cfg.Format == "console" {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func buildZapOptions(cfg *Config) []zap.Option {
	var opts []zap.Option

	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller())
		if cfg.CallerSkip > 0 {
			opts = append(opts, zap.AddCallerSkip(cfg.CallerSkip))
		}
	}

	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return opts
}

// Global helper functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

// With returns a logger with additional fields using the global logger
func With(fields ...zap.Field) *Logger {
	return Get().WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}

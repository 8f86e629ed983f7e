package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for CalMesh.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewSlogLogger creates a Logger backed by a freshly configured slog handler.
func NewSlogLogger(level LogLevel, format string, addSource bool) Logger {
	return NewSlogAdapter(newSlog(level, format, os.Stdout, addSource))
}

func newSlog(level LogLevel, format string, out io.Writer, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level), AddSource: addSource}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return slog.New(handler)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// PipelineLogger wraps a Logger with per-run context and convenience
// methods for the events the scheduling pipeline emits. Cheap to copy via
// WithRun.
type PipelineLogger struct {
	logger Logger
	runID  string
}

// NewPipelineLogger wraps l, substituting NoOpLogger when l is nil.
func NewPipelineLogger(l Logger) *PipelineLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	return &PipelineLogger{logger: l}
}

// WithRun returns a copy that attaches the run identifier to every entry.
func (p *PipelineLogger) WithRun(runID string) *PipelineLogger {
	return &PipelineLogger{logger: p.logger, runID: runID}
}

// Logger returns the underlying logger.
func (p *PipelineLogger) Logger() Logger { return p.logger }

func (p *PipelineLogger) attrs(args []any) []any {
	if p.runID == "" {
		return args
	}
	return append([]any{"run_id", p.runID}, args...)
}

// Debug logs at debug level with the run context attached.
func (p *PipelineLogger) Debug(msg string, args ...any) { p.logger.Debug(msg, p.attrs(args)...) }

// Info logs at info level with the run context attached.
func (p *PipelineLogger) Info(msg string, args ...any) { p.logger.Info(msg, p.attrs(args)...) }

// Warn logs at warn level with the run context attached.
func (p *PipelineLogger) Warn(msg string, args ...any) { p.logger.Warn(msg, p.attrs(args)...) }

// Error logs at error level with the run context attached.
func (p *PipelineLogger) Error(msg string, args ...any) { p.logger.Error(msg, p.attrs(args)...) }

// LogStage records a stage transition.
func (p *PipelineLogger) LogStage(stage string, skipped bool, err error) {
	args := []any{"stage", stage, "skipped", skipped}
	if err != nil {
		p.Error("Stage failed", append(args, "error", err.Error())...)
		return
	}
	p.Info("Stage completed", args...)
}

// LogCacheEvent records an extraction cache hit or miss.
func (p *PipelineLogger) LogCacheEvent(key string, hit bool) {
	p.Info("Extraction cache lookup", "cache_key", key, "hit", hit)
}

// LogProviderCall records latency and outcome of a provider operation.
func (p *PipelineLogger) LogProviderCall(provider, operation string, dur time.Duration, err error) {
	args := []any{"provider", provider, "operation", operation, "duration", dur}
	if err != nil {
		p.Error("Provider call failed", append(args, "error", err.Error())...)
		return
	}
	p.Info("Provider call completed", args...)
}

// LogLLMCall records latency and outcome of an extraction model call.
func (p *PipelineLogger) LogLLMCall(model string, dur time.Duration, err error) {
	args := []any{"model", model, "duration", dur}
	if err != nil {
		p.Error("LLM call failed", append(args, "error", err.Error())...)
		return
	}
	p.Info("LLM call completed", args...)
}

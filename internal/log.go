package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders verbosity from quietest to noisiest.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel maps a level name ("error", "WARN", "debug") to its
// LogLevel. Unknown names fall back to info so a typo never silences
// the pipeline.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Logger writes leveled, stage-tagged lines for the analysis pipeline.
// An empty stage tag is omitted from output.
type Logger struct {
	level LogLevel
	stage string
}

// NewLogger creates a logger at the given verbosity.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads the verbosity from the LOG_LEVEL environment
// variable, defaulting to info.
func NewDefaultLogger() *Logger {
	return &Logger{level: ParseLogLevel(os.Getenv("LOG_LEVEL"))}
}

// WithStage returns a copy tagged with a pipeline stage name such as
// "analysis" or "server". The tag prefixes every line the copy writes.
func (l *Logger) WithStage(stage string) *Logger {
	return &Logger{level: l.level, stage: stage}
}

func (l *Logger) write(tag, format string, args ...interface{}) {
	if l.stage != "" {
		log.Printf("["+tag+"] "+l.stage+": "+format, args...)
		return
	}
	log.Printf("["+tag+"] "+format, args...)
}

// Error logs failures that end or degrade a run.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.write("ERROR", format, args...)
	}
}

// Warn logs recoverable conditions, e.g. an analysis category that
// failed while the rest of the report proceeds.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.write("WARN", format, args...)
	}
}

// Info logs pipeline progress.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.write("INFO", format, args...)
	}
}

// Debug logs per-step detail.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.write("DEBUG", format, args...)
	}
}

// DefaultLogger is the shared process-wide logger.
var DefaultLogger = NewDefaultLogger()

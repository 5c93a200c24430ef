package pkg

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component identifies a subsystem for log filtering.
type Component string

// Controller component identifiers.
const (
	ComponentSwitch   Component = "switch"
	ComponentDebounce Component = "debounce"
	ComponentScript   Component = "script"
	ComponentDispatch Component = "dispatch"
	ComponentHID      Component = "hid"
	ComponentHAL      Component = "hal"
	ComponentMetrics  Component = "metrics"
	ComponentMain     Component = "main"
	ComponentMonitor  Component = "monitor"
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

// LogFile describes a size-rotated log file.
type LogFile struct {
	Path       string // Destination file
	MaxSizeMB  int    // Rotate after this many megabytes (0 = lumberjack default of 100)
	MaxBackups int    // Rotated files to keep (0 = keep all)
	MaxAgeDays int    // Days to keep rotated files (0 = no age limit)
	Compress   bool   // Gzip rotated files
}

var (
	// DefaultLogger is the default logger used by every movepad package.
	DefaultLogger *slog.Logger

	// logLevel controls the minimum log level.
	logLevel = new(slog.LevelVar)

	// logMutex protects logger configuration.
	logMutex sync.RWMutex

	// logOutput and logFormat describe how DefaultLogger was last built.
	logOutput io.Writer = os.Stderr
	logFormat           = LogFormatText

	// logFile is non-nil while output is routed to a rotating file.
	logFile *lumberjack.Logger
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// SetLogLevel sets the minimum log level for all movepad logging.
func SetLogLevel(level slog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logLevel.Set(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() slog.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logLevel.Level()
}

// SetLogger replaces the default logger with a custom logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogFormat configures the default logger to use the specified format.
// The logger keeps its current destination and uses the current log level.
func SetLogFormat(format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logFormat = format
	DefaultLogger = newHandlerLogger(logOutput, format)
}

// SetLogFile routes the default logger to a rotating log file, keeping the
// current format and level. Any previously configured file is closed.
func SetLogFile(f LogFile) error {
	if f.Path == "" {
		return ErrInvalidParameter
	}

	lj := &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   f.Compress,
	}

	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = lj
	logOutput = lj
	DefaultLogger = newHandlerLogger(lj, logFormat)
	return nil
}

// CloseLogFile flushes and closes the rotating log file, if any, and returns
// the default logger to os.Stderr.
func CloseLogFile() error {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logOutput = os.Stderr
	DefaultLogger = newHandlerLogger(logOutput, logFormat)
	return err
}

func newHandlerLogger(w io.Writer, format LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel}
	switch format {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// NewLogger creates a new text logger writing to the given writer.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new JSON logger writing to the given writer.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func logger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger
}

// LogDebug logs a debug message with the given component.
func LogDebug(component Component, msg string, args ...any) {
	logger().Debug(msg, append([]any{"component", string(component)}, args...)...)
}

// LogInfo logs an info message with the given component.
func LogInfo(component Component, msg string, args ...any) {
	logger().Info(msg, append([]any{"component", string(component)}, args...)...)
}

// LogWarn logs a warning message with the given component.
func LogWarn(component Component, msg string, args ...any) {
	logger().Warn(msg, append([]any{"component", string(component)}, args...)...)
}

// LogError logs an error message with the given component.
func LogError(component Component, msg string, args ...any) {
	logger().Error(msg, append([]any{"component", string(component)}, args...)...)
}

// Package logger provides a levelled diagnostic log. Nothing is written
// unless Init enables stderr output or a rotated log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB   = 1    // 1MB per file
	maxAgeDays  = 14   // Keep 2 weeks
	maxBackups  = 20   // Max old log files
	compressOld = true // Compress rotated logs
)

// Level represents the log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Options selects the log sinks
type Options struct {
	Path    string    // rotated log file; empty disables it
	Verbose bool      // mirror DEBUG and above to Stderr
	Stderr  io.Writer // defaults to os.Stderr
}

// Logger writes formatted lines to a file and optionally stderr
type Logger struct {
	file    io.WriteCloser
	logger  *log.Logger
	logPath string
	level   Level
	mu      sync.Mutex
	stderr  io.Writer // nil unless verbose
}

var (
	instance = discard()
	mu       sync.Mutex
)

func discard() *Logger {
	return &Logger{level: ERROR + 1}
}

// New builds a logger for the given sinks.
func New(opts Options) (*Logger, error) {
	l := &Logger{level: INFO}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSizeMB,
			MaxAge:     maxAgeDays,
			MaxBackups: maxBackups,
			Compress:   compressOld,
			LocalTime:  true,
		}
		l.file = rotator
		l.logger = log.New(rotator, "", 0)
		l.logPath = opts.Path
		l.level = DEBUG
	}

	if opts.Verbose {
		l.level = DEBUG
		l.stderr = opts.Stderr
		if l.stderr == nil {
			l.stderr = os.Stderr
		}
	}

	if l.logger == nil && l.stderr == nil {
		return discard(), nil
	}
	return l, nil
}

// Init replaces the package logger. The previous one is closed.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}

	mu.Lock()
	old := instance
	instance = l
	mu.Unlock()

	return old.Close()
}

// Get returns the package logger
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Close closes the package logger's file
func Close() error {
	return Get().Close()
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	return l.logPath
}

// log writes a log message at the specified level
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, message)

	if l.logger != nil {
		l.logger.Print(logLine)
	}

	if l.stderr != nil {
		fmt.Fprint(l.stderr, logLine)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Package-level convenience functions
func Debug(format string, args ...interface{}) {
	Get().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	Get().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	Get().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	Get().Error(format, args...)
}

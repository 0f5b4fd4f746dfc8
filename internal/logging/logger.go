package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration
type Config struct {
	Level      logrus.Level
	Output     io.Writer // Console destination (default: stderr)
	OutputFile string    // Additional log file (empty = console only)
	MaxSize    int64     // Max size in bytes before rotation (default: 10MB)
	MaxBackups int       // Number of old log files to keep (default: 3)
	JSONFormat bool
}

// Logger is a logrus logger that owns its optional log file
type Logger struct {
	*logrus.Logger

	config Config
	file   *os.File
	mu     sync.Mutex
}

// New creates a logger with the given configuration
func New(config Config) (*Logger, error) {
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	l := &Logger{
		Logger: logrus.New(),
		config: config,
	}

	writers := []io.Writer{config.Output}

	if config.OutputFile != "" {
		dir := filepath.Dir(config.OutputFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}

		if err := l.rotateIfNeeded(); err != nil {
			return nil, fmt.Errorf("failed to rotate logs: %w", err)
		}

		file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.OutputFile, err)
		}
		l.file = file
		writers = append(writers, file)
	}

	l.SetOutput(io.MultiWriter(writers...))
	l.SetLevel(config.Level)

	if config.JSONFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	return l, nil
}

// rotateIfNeeded checks if log file needs rotation and performs it
func (l *Logger) rotateIfNeeded() error {
	info, err := os.Stat(l.config.OutputFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() < l.config.MaxSize {
		return nil
	}

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i)
		newPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath) // Ignore error, file might not exist
		}
	}

	backupPath := fmt.Sprintf("%s.1", l.config.OutputFile)
	if err := os.Rename(l.config.OutputFile, backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return nil
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ParseLevel converts a user supplied level name. Verbose and quiet flags
// take precedence over the name.
func ParseLevel(name string, verbose, quiet bool) (logrus.Level, error) {
	switch {
	case verbose:
		return logrus.DebugLevel, nil
	case quiet:
		return logrus.WarnLevel, nil
	case name == "":
		return logrus.InfoLevel, nil
	}

	level, err := logrus.ParseLevel(strings.ToLower(name))
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// library callers that do not care about diagnostics.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid inputs, abort before indexing
	ErrorTypeConfig ErrorType = iota
	// Indexing errors - malformed or unreadable per-file index data
	ErrorTypeIndexing
	// Graph errors - a pass found a structural invariant that does not hold
	ErrorTypeGraph
	// Filter errors - a result filter stage could not run
	ErrorTypeFilter
	// FileSystem errors - file I/O failures
	ErrorTypeFileSystem
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - significant issue, the affected input is skipped
	SeverityHigh
	// SeverityCritical - must be addressed, stops the scan
	SeverityCritical
)

// Error represents a structured error with context
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Hint       string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithHint attaches a remediation hint shown to the end user
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop execution
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		typeString(e.Type),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("Hint: %s\n", e.Hint))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("Context:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, e.Context[k]))
		}
	}

	if e.StackTrace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", e.StackTrace))
	}

	return sb.String()
}

func typeString(t ErrorType) string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeIndexing:
		return "INDEXING"
	case ErrorTypeGraph:
		return "GRAPH"
	case ErrorTypeFilter:
		return "FILTER"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// Convenience constructors for common error types

// ConfigError creates a configuration error
func ConfigError(message string) *Error {
	return New(ErrorTypeConfig, SeverityCritical, message)
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// IndexingError wraps a per-file indexing failure. The file is skipped and
// the scan continues.
func IndexingError(err error, file string) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, ErrorTypeIndexing, SeverityHigh, fmt.Sprintf("failed to index %s", file)).
		WithContext("file", file)
}

// GraphErrorf creates a graph consistency warning with formatting
func GraphErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeGraph, SeverityLow, fmt.Sprintf(format, args...))
}

// FilterError wraps a failure of a single result filter stage
func FilterError(err error, message string) *Error {
	return Wrap(err, ErrorTypeFilter, SeverityLow, message)
}

// FileSystemError wraps a filesystem error
func FileSystemError(err error, message string) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, message)
}

// FileSystemErrorf wraps a filesystem error with formatting
func FileSystemErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, fmt.Sprintf(format, args...))
}

// InternalError creates an internal error
func InternalError(message string) *Error {
	return New(ErrorTypeInternal, SeverityCritical, message)
}

// IsFatal checks if an error is fatal (should stop execution)
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.IsFatal()
	}

	return false
}

// IsType reports whether err (or anything it wraps) is a structured error of
// the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

// HintOf returns the first remediation hint found in err's chain
func HintOf(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Hint != "" {
			return e.Hint
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

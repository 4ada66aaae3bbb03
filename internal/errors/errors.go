package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeQuota ErrorType = iota
	ErrorTypeCorruption
	ErrorTypeStorage
	ErrorTypeValidation
	ErrorTypeUnknown
)

// String returns the error type label used in reports and logs
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeQuota:
		return "quota"
	case ErrorTypeCorruption:
		return "corruption"
	case ErrorTypeStorage:
		return "storage"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ErrQuotaExceeded is returned by the key-value store when a write would
// push it past its configured byte quota.
var ErrQuotaExceeded = stderrors.New("storage quota exceeded")

// CastError represents a structured error with context and retry information
type CastError struct {
	Type       ErrorType
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter time.Duration
	Context    map[string]string
}

// Error implements the error interface
func (e *CastError) Error() string {
	if len(e.Context) > 0 {
		var parts []string
		for k, v := range e.Context {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *CastError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error can be retried
func (e *CastError) IsRetryable() bool {
	return e.Retryable
}

// GetRetryAfter returns the duration to wait before retrying
func (e *CastError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return e.RetryAfter
	}
	if e.Type == ErrorTypeStorage {
		return 200 * time.Millisecond
	}
	return time.Second
}

// ClassifyStorage maps an error raised by the key-value store into a typed
// cache error. Quota rejections get their own type so callers and reports
// can tell a full store from a broken one; transient sqlite lock errors are
// marked retryable.
func ClassifyStorage(err error, operation, key string) *CastError {
	if err == nil {
		return nil
	}

	context := map[string]string{"operation": operation}
	if key != "" {
		context["key"] = key
	}

	lowerError := strings.ToLower(err.Error())

	switch {
	case stderrors.Is(err, ErrQuotaExceeded):
		return &CastError{
			Type:       ErrorTypeQuota,
			Message:    "cache store is full - entry was not written",
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}

	case strings.Contains(lowerError, "database is locked") || strings.Contains(lowerError, "busy"):
		return &CastError{
			Type:       ErrorTypeStorage,
			Message:    "cache store is temporarily locked - retrying",
			Underlying: err,
			Retryable:  true,
			RetryAfter: 200 * time.Millisecond,
			Context:    context,
		}

	case strings.Contains(lowerError, "i/o") || strings.Contains(lowerError, "disk"):
		return &CastError{
			Type:       ErrorTypeStorage,
			Message:    fmt.Sprintf("cache store %s failed: %s", operation, err.Error()),
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}

	default:
		return &CastError{
			Type:       ErrorTypeUnknown,
			Message:    fmt.Sprintf("cache %s failed: %s", operation, err.Error()),
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}
	}
}

// WrapCorruption marks a stored entry whose text no longer parses as the
// expected envelope shape. The entry is deleted by the caller; the report
// exists so repeated corruption shows up in logs.
func WrapCorruption(err error, key string) *CastError {
	if err == nil {
		return nil
	}

	return &CastError{
		Type:       ErrorTypeCorruption,
		Message:    "cached entry is corrupted and was discarded",
		Underlying: err,
		Retryable:  false,
		Context:    map[string]string{"key": key},
	}
}

// WrapSerialization wraps a value that could not be encoded for storage
func WrapSerialization(err error, key string) *CastError {
	if err == nil {
		return nil
	}

	return &CastError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("value is not serializable: %s", err.Error()),
		Underlying: err,
		Retryable:  false,
		Context:    map[string]string{"key": key},
	}
}

// WrapValidationError wraps bad caller input (unknown namespace, empty key)
func WrapValidationError(err error, input string) *CastError {
	if err == nil {
		return nil
	}

	return &CastError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("Invalid input '%s': %s", input, err.Error()),
		Underlying: err,
		Retryable:  false,
		Context:    map[string]string{"input": input},
	}
}

// UserFriendlyMessage returns a user-friendly error message
func (e *CastError) UserFriendlyMessage() string {
	switch e.Type {
	case ErrorTypeQuota:
		return e.Message + " - clear old entries with 'canarycast cache cleanup'"
	case ErrorTypeCorruption:
		return e.Message + " - the data will be refetched on next use"
	case ErrorTypeValidation:
		return e.Message
	case ErrorTypeStorage:
		return e.Message + " - check that the cache directory is writable"
	default:
		return e.Message
	}
}

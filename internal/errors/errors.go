// Package errors holds focusgate's error values and the helpers that
// classify them.
//
// Two families live here. Fault errors come from a subsystem:
//   - StorageError: the onboarding record could not be read or written
//   - HandlerError: a broadcast handler returned an error or panicked
//
// Reference errors describe bad input:
//   - NotFoundError: a broadcast names a site or group the surface never saw
//   - ValidationError: a constructor or command got an unusable argument
//
// Every type carries a Severity, which the relay uses to pick the log level
// of a fault, and two flags the terminal surfaces read when a save fails:
// whether repeating the action may work and whether the message can be
// shown as is.
//
//	err := errors.NewStorageError("write", path, ioErr)
//	errors.Is(err, errors.ErrStorageUnavailable) // true
//	errors.IsRetryable(err)                      // true
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported from the standard library so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity ranks how loudly an error should be reported.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	// SeverityCritical marks faults that indicate a bug, such as a panicking
	// handler.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Persisted record.
var (
	ErrStorageUnavailable = New("storage unavailable")
	ErrRecordCorrupted    = New("record corrupted")
)

// Broadcast decoding and dispatch.
var (
	ErrNotBroadcast     = New("not a broadcast message")
	ErrUnknownEvent     = New("unknown event")
	ErrMalformedPayload = New("malformed payload")
	ErrHandlerPanic     = New("handler panicked")
)

var (
	ErrNotFound     = New("not found")
	ErrInvalidInput = New("invalid input")
	// ErrClosed is returned by operations on an unmounted surface or a
	// closed channel.
	ErrClosed = New("closed")
)

// Classified is implemented by every error type in this package.
type Classified interface {
	error
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

// class is embedded by the concrete types; it holds the cause and the
// classification.
type class struct {
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (c *class) Unwrap() error      { return c.cause }
func (c *class) Severity() Severity { return c.severity }
func (c *class) IsRetryable() bool  { return c.retryable }
func (c *class) IsUserFacing() bool { return c.userFacing }

func (c *class) causeIs(target error) bool {
	return c.cause != nil && errors.Is(c.cause, target)
}

// bracket renders "label [k=v, ...]" skipping empty values.
func bracket(label string, kv ...string) string {
	var parts []string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			parts = append(parts, kv[i]+"="+kv[i+1])
		}
	}
	if len(parts) == 0 {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, strings.Join(parts, ", "))
}

// StorageError is a failed read or write of the onboarding record. It
// matches ErrStorageUnavailable and is retryable: the user can repeat the
// action that wrote.
type StorageError struct {
	class
	Op   string
	Path string
}

func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{
		class: class{cause: cause, severity: SeverityError, retryable: true},
		Op:    op,
		Path:  path,
	}
}

func (e *StorageError) Error() string {
	msg := bracket("storage error", "op", e.Op, "path", e.Path)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *StorageError) Is(target error) bool {
	if _, ok := target.(*StorageError); ok {
		return true
	}
	return target == ErrStorageUnavailable || e.causeIs(target)
}

// HandlerError is a fault raised by a broadcast handler.
type HandlerError struct {
	class
	Event string
	// Stack is set when the handler panicked.
	Stack string
}

// NewHandlerError wraps the error a handler returned. The fault takes the
// severity of cause when cause is classified, so a broadcast about an
// unknown site is reported as a warning rather than an error.
func NewHandlerError(event string, cause error) *HandlerError {
	sev := SeverityError
	var c Classified
	if As(cause, &c) {
		sev = c.Severity()
	}
	return &HandlerError{
		class: class{cause: cause, severity: sev},
		Event: event,
	}
}

// NewHandlerPanic records a handler that panicked with value.
func NewHandlerPanic(event string, value any, stack string) *HandlerError {
	return &HandlerError{
		class: class{
			cause:    fmt.Errorf("%w: %v", ErrHandlerPanic, value),
			severity: SeverityCritical,
		},
		Event: event,
		Stack: stack,
	}
}

func (e *HandlerError) Error() string {
	msg := bracket("handler error", "event", e.Event)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *HandlerError) Is(target error) bool {
	if _, ok := target.(*HandlerError); ok {
		return true
	}
	return e.causeIs(target)
}

// NotFoundError is a reference to a site or group that does not exist.
//
//	errors.NewNotFoundError("group", "g-42").Error() // "group not found: g-42"
type NotFoundError struct {
	class
	Kind string
	ID   string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{
		class: class{severity: SeverityWarning, userFacing: true},
		Kind:  kind,
		ID:    id,
	}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return target == ErrNotFound || e.causeIs(target)
}

// ValidationError is an unusable argument.
type ValidationError struct {
	class
	Message string
	Field   string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		class:   class{severity: SeverityWarning, userFacing: true},
		Message: message,
	}
}

// WithField names the offending argument.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", bracket("validation error", "field", e.Field), e.Message)
}

func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput || e.causeIs(target)
}

// IsRetryable reports whether repeating the failed action may succeed.
// Unclassified errors are not retryable.
func IsRetryable(err error) bool {
	var c Classified
	return As(err, &c) && c.IsRetryable()
}

// IsUserFacing reports whether err's message can be shown to the user
// verbatim.
func IsUserFacing(err error) bool {
	var c Classified
	return As(err, &c) && c.IsUserFacing()
}

// GetSeverity returns err's severity. Unclassified errors are
// SeverityError; nil is SeverityDebug.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var c Classified
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

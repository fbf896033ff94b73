package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseAttach   Phase = "attach"   // thread attachment lifecycle
	PhaseDispatch Phase = "dispatch" // engine -> managed delivery
	PhaseMarshal  Phase = "marshal"  // argument block construction
	PhaseRedirect Phase = "redirect" // stdout/stderr redirection
	PhaseStart    Phase = "start"    // session entry point
	PhaseEngine   Phase = "engine"   // embedded runtime boundary
	PhaseHost     Phase = "host"     // managed runtime boundary
)

// Kind categorizes the error
type Kind string

const (
	KindCeiling        Kind = "ceiling"         // attachment ceiling reached
	KindNotInitialized Kind = "not_initialized" // state used before it exists
	KindNotFound       Kind = "not_found"
	KindIO             Kind = "io"
	KindInvalidInput   Kind = "invalid_input"
	KindTypeMismatch   Kind = "type_mismatch"
	KindRegistration   Kind = "registration"
	KindDetached       Kind = "detached" // operation on a detached context
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// Ceiling creates an attachment-ceiling refusal error
func Ceiling(current, limit int) *Error {
	return &Error{
		Phase:  PhaseAttach,
		Kind:   KindCeiling,
		Detail: fmt.Sprintf("attached thread count %d at limit %d, refusing attach", current, limit),
	}
}

// NotInitialized creates a not-initialized error for missing bridge state
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// IO creates an OS resource failure error
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error for receiver resolution
func TypeMismatch(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s", what),
		Cause:  cause,
	}
}

// Detached creates an error for operations on a detached execution context
func Detached(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDetached,
		Detail: detail,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

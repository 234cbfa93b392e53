package debug

import (
	"fmt"
	"io"
	"log/slog"
)

// BaseError is the plain error built by Create. Embed it by value in a
// struct to make that struct constructible by Create:
//
//	type ConfigError struct {
//	    debug.BaseError
//	}
//
// BaseError is also the fallback returned by Create when the requested type
// cannot be constructed.
type BaseError struct {
	code    ErrorCode
	message string
	cause   error
}

// Error returns "[CODE] message", or just "message" without a code, followed
// by ": cause" if a cause is present.
func (e *BaseError) Error() string {
	msg := e.message
	if e.code != "" {
		msg = fmt.Sprintf("[%s] %s", e.code, e.message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Code returns the error code, or "" if none was set.
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the wrapped error for errors.Is and errors.As.
func (e *BaseError) Unwrap() error {
	return e.cause
}

func (e *BaseError) initError(message string, code ErrorCode, cause error) {
	e.message = message
	e.code = code
	e.cause = cause
}

// OriginError is an error that knows which call into a library caused it.
// Embed it by value in a struct to have Create resolve the origin for it:
//
//	type QueryError struct {
//	    debug.OriginError
//	}
type OriginError struct {
	BaseError

	origin        Origin
	exceptionFile string
	exceptionLine int
}

// Origin returns the resolved origin.
func (e *OriginError) Origin() Origin {
	return e.origin
}

// OriginCall returns the rendered call that led to the error.
func (e *OriginError) OriginCall() string {
	return e.origin.call
}

// OriginFile returns the file of the originating call.
func (e *OriginError) OriginFile() string {
	return e.origin.file
}

// OriginLine returns the line of the originating call.
func (e *OriginError) OriginLine() int {
	return e.origin.line
}

// File returns the file the error should be reported at: the origin's file.
func (e *OriginError) File() string {
	return e.origin.file
}

// Line returns the line the error should be reported at: the origin's line.
func (e *OriginError) Line() int {
	return e.origin.line
}

// ExceptionFile returns the file in which the error value was built.
func (e *OriginError) ExceptionFile() string {
	return e.exceptionFile
}

// ExceptionLine returns the line at which the error value was built.
func (e *OriginError) ExceptionLine() int {
	return e.exceptionLine
}

func (e *OriginError) initOrigin(o Origin, file string, line int) {
	e.origin = o
	e.exceptionFile = file
	e.exceptionLine = line
}

// Format implements fmt.Formatter. %+v appends the origin to the message.
func (e *OriginError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, e.Error())
		if s.Flag('+') && !e.origin.IsZero() {
			_, _ = fmt.Fprintf(s, "\norigin: %s", e.origin)
		}
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}

// LogValue implements slog.LogValuer.
func (e *OriginError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("message", e.message)}
	if e.code != "" {
		attrs = append(attrs, slog.String("code", string(e.code)))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	attrs = append(attrs, slog.Any("origin", e.origin))
	return slog.GroupValue(attrs...)
}

// constructible is implemented by types embedding BaseError.
type constructible interface {
	initError(message string, code ErrorCode, cause error)
}

// originCarrier is implemented by types embedding OriginError.
type originCarrier interface {
	constructible
	initOrigin(o Origin, file string, line int)
}

package debug

import (
	"slices"

	"github.com/jmgilman/go/debug/internal/callsite"
)

// CallKind describes how the function of a Frame was called.
type CallKind int

const (
	// CallNone marks a free function with no enclosing scope.
	CallNone CallKind = iota

	// CallInstance marks a method call on a value of the enclosing type.
	CallInstance

	// CallStatic marks a call that needs no receiver, such as a
	// package-level function.
	CallStatic
)

// Separator returns the text placed between the scope and the function name
// when a call is rendered: "->" for instance calls, "::" for static calls.
func (k CallKind) Separator() string {
	switch k {
	case CallInstance:
		return "->"
	case CallStatic:
		return "::"
	default:
		return ""
	}
}

// Arg is a single argument of a call. An empty Name marks a positional
// argument.
type Arg struct {
	Name  string
	Value any
}

// Args builds a positional argument list.
func Args(values ...any) []Arg {
	args := make([]Arg, len(values))
	for i, v := range values {
		args[i] = Arg{Value: v}
	}
	return args
}

// Frame is a single call on a stack.
type Frame struct {
	// Scope is the fully-qualified enclosing type name (import/path.Type),
	// the package import path for package-level functions, or empty for
	// free functions. Frames without a scope never become an origin.
	Scope string

	Kind     CallKind
	Function string

	// File and Line locate the call site: where Function was called from.
	File string
	Line int

	Args []Arg
}

// Snapshotter provides the frames of a call stack, innermost first.
type Snapshotter interface {
	Snapshot() []Frame
}

// Frames is a fixed frame sequence, innermost first. It is its own
// Snapshotter, which makes synthetic stacks easy to build.
type Frames []Frame

// Snapshot returns a copy of the sequence.
func (f Frames) Snapshot() []Frame {
	return slices.Clone(f)
}

// captureFrames snapshots the calling goroutine. With skip 0 the first frame
// is the call to the function that invoked captureFrames.
func captureFrames(skip int) []Frame {
	records := callsite.Capture(skip + 1)
	frames := make([]Frame, len(records))
	for i, r := range records {
		frames[i] = Frame{
			Scope:    r.Scope,
			Kind:     kindOf(r.Kind),
			Function: r.Function,
			File:     r.File,
			Line:     r.Line,
		}
	}
	return frames
}

func kindOf(k callsite.Kind) CallKind {
	switch k {
	case callsite.KindMethod:
		return CallInstance
	case callsite.KindFunc:
		return CallStatic
	default:
		return CallNone
	}
}

package debug

import (
	"fmt"
	"log/slog"
)

// Origin is the call through which a library's internal call chain was
// entered. It is immutable.
type Origin struct {
	call string
	file string
	line int
}

// Call returns the rendered call, e.g. "Repository->Find('users', 5)".
// It is empty only when no frame on the stack had an enclosing scope.
func (o Origin) Call() string {
	return o.call
}

// File returns the file containing the call, or "" if unknown.
func (o Origin) File() string {
	return o.file
}

// Line returns the line of the call, or 0 if unknown.
func (o Origin) Line() int {
	return o.line
}

// IsZero reports whether no origin could be resolved.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// String formats the origin as "call at file:line".
func (o Origin) String() string {
	return fmt.Sprintf("%s at %s:%d", o.call, o.file, o.line)
}

// LogValue implements slog.LogValuer.
func (o Origin) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("call", o.call),
		slog.String("file", o.file),
		slog.Int("line", o.line),
	)
}

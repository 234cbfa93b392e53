package debug

import "log/slog"

// Attr returns a log attribute holding the sanitized rendering of v, so
// arbitrary values can be logged without leaking struct contents or
// breaking single-line log formats.
//
// Example:
//
//	logger.Warn("rejected query", debug.Attr("args", args))
func Attr(key string, v any) slog.Attr {
	return slog.Any(key, sanitized{v: v})
}

// sanitized defers rendering until a handler actually emits the record.
type sanitized struct {
	v any
}

// LogValue implements slog.LogValuer.
func (s sanitized) LogValue() slog.Value {
	return slog.StringValue(Sanitize(s.v))
}

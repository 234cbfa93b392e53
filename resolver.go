package debug

import (
	"slices"
	"strings"
)

// resolver walks frame sequences looking for the origin of a call.
type resolver struct {
	types        []TypeID
	prefixes     []string
	introspector Introspector
}

// resolve returns the origin found in frames (innermost first).
//
// The first scoped frame is recorded tentatively. Every ignored frame
// replaces the record, so the walk climbs through the internal call chain.
// The first frame that is not ignored and is not the recorded one ends the
// walk, and the record (the outermost internal call) becomes the origin.
// Frames without a scope are skipped without touching the record.
func (r resolver) resolve(frames []Frame) Origin {
	boundary := -1
	for i, f := range frames {
		if f.Scope == "" {
			continue
		}
		if boundary < 0 {
			boundary = i
		}
		if r.ignored(f.Scope) {
			boundary = i
			continue
		}
		if i != boundary {
			break
		}
	}
	if boundary < 0 {
		return Origin{}
	}

	f := frames[boundary]
	return Origin{
		call: renderCall(f),
		file: f.File,
		line: f.Line,
	}
}

// ignored reports whether a scope belongs to the internal call chain.
func (r resolver) ignored(scope string) bool {
	id := TypeID(scope)
	if slices.Contains(r.types, id) {
		return true
	}
	if len(r.types) > 0 && r.introspector != nil {
		for _, a := range r.introspector.Ancestors(id) {
			if slices.Contains(r.types, a) {
				return true
			}
		}
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(scope, p) {
			return true
		}
	}
	return false
}

// renderCall formats a frame as "Scope<sep>Function(args)".
func renderCall(f Frame) string {
	var b strings.Builder
	b.WriteString(shortName(f.Scope, f.Kind))
	b.WriteString(f.Kind.Separator())
	b.WriteString(f.Function)
	b.WriteByte('(')
	b.WriteString(FormatArguments(f.Args))
	b.WriteByte(')')
	return b.String()
}

// shortName strips the namespace from a scope: everything up to the last
// path separator, and for types also the package name.
func shortName(scope string, kind CallKind) string {
	if i := strings.LastIndexAny(scope, `/\`); i >= 0 {
		scope = scope[i+1:]
	}
	if kind != CallStatic {
		if i := strings.LastIndexByte(scope, '.'); i >= 0 {
			scope = scope[i+1:]
		}
	}
	return scope
}

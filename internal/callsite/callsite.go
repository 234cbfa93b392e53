// Package callsite captures the live goroutine stack as a sequence of call
// records: each record names a called function together with the file and
// line it was called from.
package callsite

import (
	"runtime"
	rtdebug "runtime/debug"
	"strings"
	"sync"
)

// Kind describes how a function was entered.
type Kind int

const (
	// KindNone marks a free function with no enclosing scope.
	KindNone Kind = iota

	// KindMethod marks a method (or a closure declared inside one).
	KindMethod

	// KindFunc marks a package-level function (or a closure declared inside one).
	KindFunc
)

// Record is a single call in a captured stack, innermost first.
type Record struct {
	// Scope is the enclosing type (import/path.Type) for methods, the
	// package import path for package-level functions, and empty for host
	// frames.
	Scope string

	Kind     Kind
	Function string

	// File and Line locate the call, i.e. the position inside the caller.
	File string
	Line int
}

const initialDepth = 64

// maxDepth bounds the PC buffer; stacks deeper than this are truncated.
const maxDepth = 1 << 14

// Capture returns the call records of the calling goroutine. With skip 0 the
// first record is the call to the function that invoked Capture.
//
//go:noinline
func Capture(skip int) []Record {
	pcs := make([]uintptr, initialDepth)
	for {
		// +2 skips runtime.Callers and Capture itself.
		n := runtime.Callers(skip+2, pcs)
		if n < len(pcs) || len(pcs) >= maxDepth {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, len(pcs)*2)
	}
	if len(pcs) == 0 {
		return nil
	}

	var frames []runtime.Frame
	it := runtime.CallersFrames(pcs)
	for {
		fr, more := it.Next()
		frames = append(frames, fr)
		if !more {
			break
		}
	}

	return Records(frames)
}

// Records converts runtime frames (innermost first) into call records. The
// function of frame i is paired with the position of frame i+1.
func Records(frames []runtime.Frame) []Record {
	out := make([]Record, len(frames))
	for i, fr := range frames {
		name := Parse(fr.Function)
		out[i] = Record{
			Scope:    name.Scope(),
			Kind:     name.Kind(),
			Function: name.Func,
		}
		if i+1 < len(frames) {
			out[i].File = frames[i+1].File
			out[i].Line = frames[i+1].Line
		}
	}
	return out
}

// Name is a parsed runtime function name.
type Name struct {
	// Package is the import path, e.g. "github.com/jmgilman/go/debug".
	Package string

	// Type is the receiver type name without pointer or type arguments.
	// Empty for package-level functions.
	Type string

	// Func is the function or method name, including closure suffixes
	// such as "Find.func1".
	Func string
}

// Scope returns the enclosing scope of the function, or "" for host frames.
func (n Name) Scope() string {
	if n.Package == "" || IsHostPackage(n.Package) {
		return ""
	}
	if n.Type != "" {
		return n.Package + "." + n.Type
	}
	return n.Package
}

// Kind reports how the function was entered.
func (n Name) Kind() Kind {
	switch {
	case n.Scope() == "":
		return KindNone
	case n.Type != "":
		return KindMethod
	default:
		return KindFunc
	}
}

// Parse splits a runtime function name such as
// "github.com/a/b.(*T).M.func1" into package, receiver type and function.
//
// When a method containing a function literal is inlined, the literal is
// named after the inlining function first, as in "pkg.Caller.(*T).M.func1".
// The receiver is therefore taken from the last "(*T)" segment, or for value
// receivers from the two declared segments preceding the literal suffix.
// A package function inlined together with its literal ("pkg.Caller.f.func1")
// cannot be told apart from a value method and is reported as one.
func Parse(fn string) Name {
	if fn == "" {
		return Name{}
	}
	fn = stripTypeArgs(fn)

	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return Name{Func: fn}
	}
	dot += slash + 1

	// The runtime escapes dots in the last path element as %2e.
	pkg := strings.ReplaceAll(fn[:dot], "%2e", ".")
	rest := fn[dot+1:]
	segs := strings.Split(rest, ".")

	for i := len(segs) - 1; i >= 0; i-- {
		typ, ok := pointerReceiver(segs[i])
		if !ok {
			continue
		}
		if i+1 == len(segs) {
			return Name{Package: pkg, Func: rest}
		}
		return Name{Package: pkg, Type: typ, Func: trimWrapper(strings.Join(segs[i+1:], "."))}
	}

	declared := 0
	for declared < len(segs) && !isLiteral(segs[declared]) {
		declared++
	}
	if declared < 2 {
		return Name{Package: pkg, Func: rest}
	}
	recv := declared - 2
	return Name{Package: pkg, Type: segs[recv], Func: trimWrapper(strings.Join(segs[recv+1:], "."))}
}

// pointerReceiver returns T for a "(*T)" segment.
func pointerReceiver(seg string) (string, bool) {
	if len(seg) > 3 && strings.HasPrefix(seg, "(*") && strings.HasSuffix(seg, ")") {
		return seg[2 : len(seg)-1], true
	}
	return "", false
}

// isLiteral reports whether a name segment is generated for a function
// literal or package initialiser rather than declared in source.
func isLiteral(seg string) bool {
	if seg == "" {
		return true
	}
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(seg, prefix); ok && rest != "" && isDigits(rest) {
			return true
		}
	}
	return isDigits(seg)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// trimWrapper drops the suffix of compiler-generated method value wrappers.
func trimWrapper(fn string) string {
	return strings.TrimSuffix(fn, "-fm")
}

// stripTypeArgs removes bracketed type arguments such as "[...]".
func stripTypeArgs(fn string) string {
	if !strings.ContainsRune(fn, '[') {
		return fn
	}
	var b strings.Builder
	depth := 0
	for _, r := range fn {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// modules lists the paths of the main module and of every dependency linked
// into the binary.
var modules = sync.OnceValue(func() []string {
	bi, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return nil
	}
	paths := []string{bi.Main.Path}
	for _, dep := range bi.Deps {
		paths = append(paths, dep.Path)
		if dep.Replace != nil {
			paths = append(paths, dep.Replace.Path)
		}
	}
	return paths
})

// IsHostPackage reports whether an import path belongs to the Go runtime or
// standard library. Standard library paths have no dot in their first
// element; "main", "command-line-arguments" and packages of the main module
// or a linked dependency are never host packages.
func IsHostPackage(pkg string) bool {
	return isHost(pkg, modules())
}

func isHost(pkg string, modules []string) bool {
	switch pkg {
	case "":
		return true
	case "main", "command-line-arguments":
		return false
	}
	for _, m := range modules {
		if m != "" && (pkg == m || strings.HasPrefix(pkg, m+"/")) {
			return false
		}
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

package debug

import (
	"reflect"
	"runtime"
	"strings"
)

// factoryScope is the scope of this package's own frames. Create ignores it
// so the factory is never reported as the origin.
var factoryScope = TypeID(reflect.TypeFor[BaseError]().PkgPath())

// FindOrigin walks the calling goroutine's stack and returns the call
// through which the internal call chain described by opts was entered.
//
// Frames whose scope is ignored (see IgnoreTypes, IgnoreTypeIDs and
// IgnorePrefixes) belong to the internal chain. The origin is the outermost
// internal call before the first frame outside the chain. Without any
// ignore options the origin is the call to FindOrigin itself.
//
// FindOrigin never fails: when the stack holds no usable frame the zero
// Origin is returned.
//
// Example:
//
//	o := debug.FindOrigin(debug.IgnorePrefixes("github.com/acme/store"))
//	log.Printf("store misuse at %s:%d (%s)", o.File(), o.Line(), o.Call())
func FindOrigin(opts ...Option) Origin {
	cfg := newConfig(opts)
	return cfg.resolver().resolve(cfg.frames(0))
}

// Create builds an error of type *T with the given message. Newlines in the
// message are replaced by spaces. The code is set by WithCode or taken from
// the cause set by WithCause.
//
// T selects how the error is built:
//   - if T embeds OriginError, the origin is resolved as by FindOrigin,
//     with this package's own frames ignored in addition to opts;
//   - if T embeds BaseError only, the error is built from message, code and
//     cause without walking the stack;
//   - otherwise a *BaseError is returned instead of a *T.
//
// When Create itself is the origin, its call is rendered with the type
// identity of T and the message as arguments.
//
// Create only builds the error; returning it is up to the caller.
//
// Example:
//
//	type QueryError struct{ debug.OriginError }
//
//	func (r *Repository) Find(id int) (*User, error) {
//	    ...
//	    return nil, debug.Create[QueryError]("query failed",
//	        debug.IgnoreTypes(reflect.TypeFor[Repository]()),
//	        debug.WithCause(err),
//	    )
//	}
func Create[T any](message string, opts ...Option) error {
	cfg := newConfig(opts)
	message = strings.ReplaceAll(message, "\n", " ")
	code := cfg.errorCode()

	target := any(new(T))
	switch e := target.(type) {
	case originCarrier:
		cfg.ignoreTypes = append(cfg.ignoreTypes, factoryScope)
		origin := cfg.resolver().resolve(cfg.frames(0, Arg{Value: string(TypeFor[T]())}, Arg{Value: message}))

		e.initError(message, code, cfg.cause)
		_, file, line, _ := runtime.Caller(0)
		e.initOrigin(origin, file, line)
		if err, ok := target.(error); ok {
			return err
		}
	case constructible:
		e.initError(message, code, cfg.cause)
		if err, ok := target.(error); ok {
			return err
		}
	}

	fallback := &BaseError{}
	fallback.initError(message, code, cfg.cause)
	return fallback
}

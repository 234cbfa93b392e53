package debug

import "reflect"

// Option configures a single FindOrigin or Create call.
type Option func(*config)

// config holds the settings of one call. It is built fresh for every call
// and never shared.
type config struct {
	ignoreTypes    []TypeID
	ignorePrefixes []string
	introspector   Introspector
	snapshotter    Snapshotter
	cause          error
	code           ErrorCode
	hasCode        bool
}

// newConfig applies opts over the defaults.
func newConfig(opts []Option) *config {
	c := &config{introspector: DefaultRegistry}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// IgnoreTypes treats frames of the given types as internal. A frame also
// matches when one of the types is among its ancestors as reported by the
// Introspector, so interface types match every registered implementation.
func IgnoreTypes(types ...reflect.Type) Option {
	return func(c *config) {
		for _, t := range types {
			if id := TypeIDOf(t); id != "" {
				c.ignoreTypes = append(c.ignoreTypes, id)
			}
		}
	}
}

// IgnoreTypeIDs is IgnoreTypes for types known only by name. A package
// import path may be given to match that package's functions.
func IgnoreTypeIDs(ids ...TypeID) Option {
	return func(c *config) {
		for _, id := range ids {
			if id != "" {
				c.ignoreTypes = append(c.ignoreTypes, id)
			}
		}
	}
}

// IgnorePrefixes treats frames whose scope starts with any of the prefixes
// as internal. Matching is a plain string prefix test: "example.com/db"
// also matches "example.com/dbutil".
func IgnorePrefixes(prefixes ...string) Option {
	return func(c *config) {
		for _, p := range prefixes {
			if p != "" {
				c.ignorePrefixes = append(c.ignorePrefixes, p)
			}
		}
	}
}

// WithIntrospector replaces DefaultRegistry as the source of ancestor types.
func WithIntrospector(i Introspector) Option {
	return func(c *config) {
		c.introspector = i
	}
}

// WithSnapshotter replaces the live goroutine stack with s.
func WithSnapshotter(s Snapshotter) Option {
	return func(c *config) {
		c.snapshotter = s
	}
}

// WithCause sets the wrapped error of a created error.
func WithCause(err error) Option {
	return func(c *config) {
		c.cause = err
	}
}

// WithCode sets the code of a created error. Without it the code is taken
// from the cause.
func WithCode(code ErrorCode) Option {
	return func(c *config) {
		c.code = code
		c.hasCode = true
	}
}

// errorCode returns the explicit code, the cause's code, or the zero code.
func (c *config) errorCode() ErrorCode {
	if c.hasCode {
		return c.code
	}
	return GetCode(c.cause)
}

// frames returns the stack to walk. With skip 0 the first frame is the call
// to the function that invoked frames; args are attached to that frame since
// a live Go stack does not expose argument values.
func (c *config) frames(skip int, args ...Arg) []Frame {
	if c.snapshotter != nil {
		return c.snapshotter.Snapshot()
	}
	frames := captureFrames(skip + 1)
	if len(frames) > 0 && len(args) > 0 {
		frames[0].Args = args
	}
	return frames
}

// resolver builds the resolver for the configured ignore set.
func (c *config) resolver() resolver {
	return resolver{
		types:        c.ignoreTypes,
		prefixes:     c.ignorePrefixes,
		introspector: c.introspector,
	}
}

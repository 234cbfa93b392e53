// Package debug builds errors that point at the call which caused them.
//
// When an operation fails deep inside a library (in helpers, callbacks or
// wrapper layers) a stack trace mostly shows the library's own internals.
// This package walks the live call stack instead, skips everything that
// belongs to a caller-defined set of internal types and packages, and
// reports the call through which that internal chain was entered, together
// with its file and line.
//
// # Features
//
//   - Origin resolution: FindOrigin returns the Origin of the current call
//   - Error construction: Create builds an error carrying that Origin
//   - Value sanitizing: Sanitize renders any value as a safe single-line string
//   - Standard library compatibility (errors.Is, errors.As, errors.Unwrap, log/slog)
//
// # Quick Start
//
// Declare an error type that carries an origin and create it where the
// library detects the failure:
//
//	type QueryError struct {
//	    debug.OriginError
//	}
//
//	func (db *DB) Query(sql string, args ...any) (*Rows, error) {
//	    rows, err := db.conn.Query(sql, args...)
//	    if err != nil {
//	        return nil, debug.Create[QueryError]("query failed: "+sql,
//	            debug.IgnoreTypes(reflect.TypeFor[DB]()),
//	            debug.WithCause(err),
//	        )
//	    }
//	    return rows, nil
//	}
//
// The returned error reports the application's call to DB.Query, e.g.
// OriginCall() == "DB->Query()" with the application's file and
// line, no matter how many internal helpers ran in between.
//
// # Frames and scopes
//
// Every frame has a scope. Methods (and closures declared in methods) have
// their receiver type as scope, written "import/path.Type", and are rendered
// with "->". Package-level functions have their package import path as scope
// and are rendered with "::". Frames of the Go runtime and standard library
// have no scope; they are skipped the same way the runtime's own helpers
// are, so a callback run by slices.SortFunc does not end the walk.
//
// A live Go stack does not expose argument values. Calls are rendered with
// the arguments the entry point knows about: Create shows the requested
// error type and the message.
//
// # Ignoring frames
//
// IgnoreTypes and IgnoreTypeIDs match a frame's scope exactly, or through
// its ancestors as reported by an Introspector. The default Introspector is
// DefaultRegistry: register concrete types there so that embedding another
// type, or implementing an ignored interface, makes them internal too:
//
//	func init() {
//	    debug.Register(reflect.TypeFor[DB](), reflect.TypeFor[Queryer]())
//	}
//
// IgnorePrefixes matches the scope by plain string prefix, so
// "github.com/acme/store" also matches "github.com/acme/storex".
//
// # Sanitizing values
//
// Sanitize is total and deterministic. Structs render as their type name and
// are never read, handles render as resource(kind), invalid UTF-8 renders
// as hex, and containers render as [key => value] lists:
//
//	debug.Sanitize(debug.Map{{0, 10}, {"mumu", "haha"}, {1, []any{"x"}}})
//	// [0 => 10, 'mumu' => 'haha', 1 => [0 => 'x']]
//
// Attr wraps Sanitize for log/slog.
//
// # Concurrency
//
// FindOrigin, Create and Sanitize only read their arguments and the calling
// goroutine's stack and may be called concurrently. Registry is safe for
// concurrent use.
package debug

package debug

import (
	"reflect"
	"strings"
	"sync"
)

// TypeID identifies a type by its fully-qualified name, "import/path.Name".
// Pointers are dereferenced and type arguments of generic types dropped, so
// a TypeID compares equal to the Scope of a method frame on that type.
type TypeID string

// TypeIDOf returns the identity of t. Unnamed types are identified by their
// Go syntax. A nil type yields "".
func TypeIDOf(t reflect.Type) TypeID {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return TypeID(t.String())
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if t.PkgPath() == "" {
		return TypeID(name)
	}
	return TypeID(t.PkgPath() + "." + name)
}

// TypeFor returns the identity of T.
func TypeFor[T any]() TypeID {
	return TypeIDOf(reflect.TypeFor[T]())
}

// Introspector reports the ancestors of a type: the types whose frames a
// frame of the given type should be treated like.
type Introspector interface {
	Ancestors(id TypeID) []TypeID
}

// Registry is an Introspector backed by explicitly added types. Go cannot
// look a type up by name, so concrete types must be added before their
// ancestors can be reported.
//
// The ancestors of a registered concrete type are its embedded struct types,
// transitively, and every registered interface it implements (through the
// value or a pointer to it).
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	types      map[TypeID]reflect.Type
	interfaces map[TypeID]reflect.Type
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[TypeID]reflect.Type),
		interfaces: make(map[TypeID]reflect.Type),
	}
}

// DefaultRegistry is used by FindOrigin and Create unless WithIntrospector
// is given.
var DefaultRegistry = NewRegistry()

// Register adds types to DefaultRegistry.
func Register(types ...reflect.Type) {
	DefaultRegistry.Add(types...)
}

// Add registers types. Interface types become candidates for the ancestor
// sets of concrete types; pointer types are registered as their element.
func (r *Registry) Add(types ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if t == nil {
			continue
		}
		for t.Kind() == reflect.Pointer && t.Name() == "" {
			t = t.Elem()
		}
		id := TypeIDOf(t)
		if t.Kind() == reflect.Interface {
			r.interfaces[id] = t
			continue
		}
		r.types[id] = t
	}
}

// Ancestors implements Introspector. Unknown types have no ancestors.
func (r *Registry) Ancestors(id TypeID) []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[id]
	if !ok {
		return nil
	}

	var out []TypeID
	seen := map[TypeID]bool{id: true}
	add := func(a TypeID) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}

	for _, e := range embedded(t, map[reflect.Type]bool{}) {
		add(TypeIDOf(e))
	}

	ptr := reflect.PointerTo(t)
	for iid, it := range r.interfaces {
		if t.Implements(it) || ptr.Implements(it) {
			add(iid)
		}
	}

	return out
}

// embedded returns the embedded field types of a struct, depth first.
func embedded(t reflect.Type, visited map[reflect.Type]bool) []reflect.Type {
	if t.Kind() != reflect.Struct || visited[t] {
		return nil
	}
	visited[t] = true

	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		out = append(out, ft)
		out = append(out, embedded(ft, visited)...)
	}
	return out
}

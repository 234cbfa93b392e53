package debug

import (
	"cmp"
	"encoding/hex"
	"math"
	"net"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Resource is implemented by values that wrap an operating system handle.
// Sanitize renders them as "resource(<kind>)".
type Resource interface {
	ResourceKind() string
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is an ordered key/value container. Unlike Go maps it keeps insertion
// order, so it renders exactly as built.
type Map []Entry

var mapType = reflect.TypeFor[Map]()

// recursionMarker replaces a container that is reached again while it is
// still being rendered.
const recursionMarker = "*RECURSION*"

// Sanitize renders any value as a deterministic single-line string suitable
// for error messages and logs. It never panics.
//
// Rendering rules, by precedence:
//   - nil values: NULL
//   - OS handles (Resource, *os.File, network connections), channels,
//     unsafe pointers: resource(<kind>)
//   - structs, pointers to structs, funcs: object(<import/path.Type>); fields
//     are never read
//   - booleans: true or false
//   - strings and byte sequences that are not valid UTF-8: 0x<lowercase hex>
//   - other scalars: a literal with newlines removed, strings single quoted
//   - Map, slices, arrays and maps: [0 => <value>, 'key' => <value>]
//
// Go maps are rendered in sorted key order.
func Sanitize(v any) string {
	s := sanitizer{}
	return s.value(reflect.ValueOf(v))
}

// FormatArguments renders an argument list: positional arguments as their
// sanitized value, named arguments as 'name' => value, separated by ", ".
func FormatArguments(args []Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Name == "" {
			parts[i] = Sanitize(a.Value)
			continue
		}
		parts[i] = "'" + oneLine(a.Name) + "' => " + Sanitize(a.Value)
	}
	return strings.Join(parts, ", ")
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// sanitizer renders one value. It tracks the containers on the current path
// to stop on cycles; siblings sharing a container still render in full.
type sanitizer struct {
	path map[visit]bool
}

func (s *sanitizer) value(v reflect.Value) string {
	if !v.IsValid() {
		return "NULL"
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "NULL"
		}
		return s.value(v.Elem())
	}
	if isNil(v) {
		return "NULL"
	}

	if kind, ok := resourceKind(v); ok {
		return "resource(" + oneLine(kind) + ")"
	}

	if v.Type() == mapType {
		return s.entries(v)
	}

	switch v.Kind() {
	case reflect.Struct, reflect.Func:
		return "object(" + typeName(v.Type()) + ")"
	case reflect.Pointer:
		if v.Elem().Kind() == reflect.Struct {
			return "object(" + typeName(v.Elem().Type()) + ")"
		}
		return s.guard(v, func() string { return s.value(v.Elem()) })
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.String:
		return literal(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return formatFloat(v.Float(), 32)
	case reflect.Float64:
		return formatFloat(v.Float(), 64)
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return literal(string(byteSlice(v)))
		}
		return s.guard(v, func() string { return s.list(v) })
	case reflect.Map:
		return s.guard(v, func() string { return s.dict(v) })
	default:
		return "object(" + typeName(v.Type()) + ")"
	}
}

// guard renders a reference-like value unless it is already on the path.
func (s *sanitizer) guard(v reflect.Value, render func() string) string {
	var key visit
	switch v.Kind() {
	case reflect.Pointer, reflect.Map:
		key = visit{ptr: v.Pointer(), typ: v.Type()}
	case reflect.Slice:
		if v.Len() == 0 {
			return render()
		}
		key = visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
	default:
		return render()
	}

	if s.path[key] {
		return recursionMarker
	}
	if s.path == nil {
		s.path = make(map[visit]bool)
	}
	s.path[key] = true
	defer delete(s.path, key)
	return render()
}

func (s *sanitizer) list(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		parts[i] = strconv.Itoa(i) + " => " + s.value(v.Index(i))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s *sanitizer) entries(v reflect.Value) string {
	return s.guard(v, func() string {
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			e := v.Index(i)
			parts[i] = s.pair(e.Field(0), e.Field(1))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	})
}

func (s *sanitizer) dict(v reflect.Value) string {
	keys := v.MapKeys()
	slices.SortStableFunc(keys, compareKeys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = s.pair(k, v.MapIndex(k))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// pair renders one container entry: integer keys bare, all others quoted.
func (s *sanitizer) pair(k, val reflect.Value) string {
	for k.IsValid() && k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if isInteger(k) {
		return s.value(k) + " => " + s.value(val)
	}
	return "'" + keyText(k) + "' => " + s.value(val)
}

// keyText is the text of a non-integer key between quotes.
func keyText(k reflect.Value) string {
	if !k.IsValid() {
		return ""
	}
	switch k.Kind() {
	case reflect.String:
		return oneLine(k.String())
	case reflect.Bool:
		return strconv.FormatBool(k.Bool())
	case reflect.Float32, reflect.Float64:
		return formatFloat(k.Float(), k.Type().Bits())
	default:
		return Sanitize(keyInterface(k))
	}
}

func isInteger(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// compareKeys orders map keys: integers numerically, then strings, then
// floats, then everything else by its rendering. Keys that still tie are
// ordered by type name and contents, so the order never depends on map
// iteration.
func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}

	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	var c int
	switch ra {
	case 0:
		c = compareIntegers(a, b)
	case 1:
		c = strings.Compare(a.String(), b.String())
	case 2:
		c = cmp.Compare(a.Float(), b.Float())
	default:
		c = strings.Compare(Sanitize(keyInterface(a)), Sanitize(keyInterface(b)))
	}
	if c != 0 {
		return c
	}
	return compareContents(a, b)
}

// compareContents breaks ties between keys with equal renderings.
func compareContents(a, b reflect.Value) int {
	if a.Type() != b.Type() {
		return strings.Compare(typeName(a.Type()), typeName(b.Type()))
	}

	switch a.Kind() {
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if c := compareKeys(a.Field(i), b.Field(i)); c != 0 {
				return c
			}
		}
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if c := compareKeys(a.Index(i), b.Index(i)); c != 0 {
				return c
			}
		}
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	case reflect.Complex64, reflect.Complex128:
		x, y := a.Complex(), b.Complex()
		if c := cmp.Compare(real(x), real(y)); c != 0 {
			return c
		}
		return cmp.Compare(imag(x), imag(y))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return cmp.Compare(a.Pointer(), b.Pointer())
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func keyRank(v reflect.Value) int {
	switch {
	case isInteger(v):
		return 0
	case v.Kind() == reflect.String:
		return 1
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		return 2
	default:
		return 3
	}
}

func keyInterface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

func compareIntegers(a, b reflect.Value) int {
	signed := func(v reflect.Value) bool {
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		}
		return false
	}

	switch {
	case signed(a) && signed(b):
		return cmp.Compare(a.Int(), b.Int())
	case signed(a):
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	case signed(b):
		if b.Int() < 0 {
			return 1
		}
		return cmp.Compare(a.Uint(), uint64(b.Int()))
	default:
		return cmp.Compare(a.Uint(), b.Uint())
	}
}

// isNil reports whether v is a nil reference of a kind that renders as NULL.
// Nil slices and maps are empty containers instead.
func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func resourceKind(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Chan:
		return "chan", true
	case reflect.UnsafePointer:
		return "pointer", true
	}
	if !v.CanInterface() {
		return "", false
	}
	switch h := v.Interface().(type) {
	case Resource:
		return h.ResourceKind(), true
	case *os.File:
		return "stream", true
	case net.Conn, net.Listener, net.PacketConn:
		return "socket", true
	}
	return "", false
}

// typeName is the fully-qualified name of t, including type arguments.
func typeName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// byteSlice copies the bytes of a byte slice or array, including named
// byte types and unaddressable arrays.
func byteSlice(v reflect.Value) []byte {
	b := make([]byte, v.Len())
	for i := range b {
		b[i] = byte(v.Index(i).Uint())
	}
	return b
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}

// literal renders a string as a single-quoted literal with newlines removed,
// or as hex when it is not valid UTF-8.
func literal(s string) string {
	if !utf8.ValidString(s) {
		return "0x" + hex.EncodeToString([]byte(s))
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		case 0:
			b.WriteString(`' . "\0" . '`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// formatFloat renders a float in export form: always with a fractional
// part, scientific notation outside [1e-4, 1e15), INF and NAN spelled out.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}

	sci := strconv.FormatFloat(f, 'e', -1, bits)
	mant, exp, _ := strings.Cut(sci, "e")
	e, _ := strconv.Atoi(exp)

	if f != 0 && (e < -4 || e >= 15) {
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		sign := "+"
		if e < 0 {
			sign = "-"
			e = -e
		}
		return mant + "E" + sign + strconv.Itoa(e)
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

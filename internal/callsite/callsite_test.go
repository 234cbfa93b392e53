package callsite

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		want Name
	}{
		{
			name: "pointer receiver",
			fn:   "github.com/a/b.(*Repo).Find",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find"},
		},
		{
			name: "value receiver",
			fn:   "github.com/a/b.Repo.Find",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find"},
		},
		{
			name: "closure in method",
			fn:   "github.com/a/b.(*Repo).Find.func1",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func1"},
		},
		{
			name: "closure in value method",
			fn:   "github.com/a/b.Repo.Find.func2.1",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func2.1"},
		},
		{
			name: "closure in method inlined into function",
			fn:   "github.com/a/b.TestFind.(*Repo).Find.func1",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func1"},
		},
		{
			name: "closure in method inlined into method",
			fn:   "github.com/a/b.(*Handler).Serve.(*Repo).Find.func2",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func2"},
		},
		{
			name: "closure in method inlined into closure",
			fn:   "github.com/a/b.Run.func1.(*Repo).Find.func1",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func1"},
		},
		{
			name: "closure in value method inlined into function",
			fn:   "github.com/a/b.TestFind.Repo.Find.func1",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find.func1"},
		},
		{
			name: "closure in generic method inlined into function",
			fn:   "github.com/a/b.main.(*List[...]).Each.func1",
			want: Name{Package: "github.com/a/b", Type: "List", Func: "Each.func1"},
		},
		{
			name: "package function",
			fn:   "github.com/a/b.Open",
			want: Name{Package: "github.com/a/b", Func: "Open"},
		},
		{
			name: "closure in package function",
			fn:   "github.com/a/b.Open.func1",
			want: Name{Package: "github.com/a/b", Func: "Open.func1"},
		},
		{
			name: "go statement wrapper",
			fn:   "github.com/a/b.Open.gowrap1",
			want: Name{Package: "github.com/a/b", Func: "Open.gowrap1"},
		},
		{
			name: "package initialiser",
			fn:   "github.com/a/b.init.0",
			want: Name{Package: "github.com/a/b", Func: "init.0"},
		},
		{
			name: "package level closure",
			fn:   "github.com/a/b.glob..func1",
			want: Name{Package: "github.com/a/b", Func: "glob..func1"},
		},
		{
			name: "generic function",
			fn:   "github.com/a/b.Create[...]",
			want: Name{Package: "github.com/a/b", Func: "Create"},
		},
		{
			name: "generic receiver",
			fn:   "github.com/a/b.(*List[...]).Push",
			want: Name{Package: "github.com/a/b", Type: "List", Func: "Push"},
		},
		{
			name: "method value wrapper",
			fn:   "github.com/a/b.(*Repo).Find-fm",
			want: Name{Package: "github.com/a/b", Type: "Repo", Func: "Find"},
		},
		{
			name: "escaped dot in package",
			fn:   "gopkg.in/yaml%2ev3.(*Node).Decode",
			want: Name{Package: "gopkg.in/yaml.v3", Type: "Node", Func: "Decode"},
		},
		{
			name: "standard library",
			fn:   "runtime.goexit",
			want: Name{Package: "runtime", Func: "goexit"},
		},
		{
			name: "empty",
			fn:   "",
			want: Name{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.fn))
		})
	}
}

func TestName_ScopeAndKind(t *testing.T) {
	tests := []struct {
		name      string
		fn        string
		wantScope string
		wantKind  Kind
	}{
		{"method", "github.com/a/b.(*Repo).Find", "github.com/a/b.Repo", KindMethod},
		{"inlined method closure", "github.com/a/b.TestX.(*Repo).Find.func1", "github.com/a/b.Repo", KindMethod},
		{"function", "github.com/a/b.Open", "github.com/a/b", KindFunc},
		{"runtime", "runtime.goexit", "", KindNone},
		{"standard library method", "sync.(*Once).Do", "", KindNone},
		{"standard library helper", "slices.IndexFunc", "", KindNone},
		{"main package", "main.main", "main", KindFunc},
		{"unknown", "", "", KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Parse(tt.fn)
			require.Equal(t, tt.wantScope, n.Scope())
			require.Equal(t, tt.wantKind, n.Kind())
		})
	}
}

func TestIsHostPackage(t *testing.T) {
	require.True(t, IsHostPackage(""))
	require.True(t, IsHostPackage("runtime"))
	require.True(t, IsHostPackage("net/http"))
	require.True(t, IsHostPackage("internal/poll"))
	require.False(t, IsHostPackage("main"))
	require.False(t, IsHostPackage("command-line-arguments"))
	require.False(t, IsHostPackage("github.com/jmgilman/go/debug"))
	require.False(t, IsHostPackage("gopkg.in/yaml.v3"))
}

func TestIsHost_DependencyWithoutDot(t *testing.T) {
	modules := []string{"example.com/app", "mylib", ""}

	require.False(t, isHost("mylib", modules))
	require.False(t, isHost("mylib/store", modules))
	require.False(t, isHost("example.com/app/internal", modules))
	require.True(t, isHost("mylibx", modules))
	require.True(t, isHost("encoding/json", modules))
	require.True(t, isHost("", modules))
}

func TestRecords_PairsFunctionWithCallerPosition(t *testing.T) {
	frames := []runtime.Frame{
		{Function: "github.com/a/b.(*Repo).Find", File: "/src/b/repo.go", Line: 10},
		{Function: "github.com/a/c.Handle", File: "/src/c/handler.go", Line: 20},
		{Function: "runtime.goexit", File: "/go/src/runtime/asm.s", Line: 30},
	}

	got := Records(frames)

	require.Equal(t, []Record{
		{Scope: "github.com/a/b.Repo", Kind: KindMethod, Function: "Find", File: "/src/c/handler.go", Line: 20},
		{Scope: "github.com/a/c", Kind: KindFunc, Function: "Handle", File: "/go/src/runtime/asm.s", Line: 30},
		{Scope: "", Kind: KindNone, Function: "goexit"},
	}, got)
}

type sampler struct{}

func (sampler) capture() []Record {
	return Capture(0)
}

func TestCapture_FirstRecordIsCaller(t *testing.T) {
	_, file, line, _ := runtime.Caller(0)
	records := sampler{}.capture()

	require.NotEmpty(t, records)
	first := records[0]
	require.Equal(t, "github.com/jmgilman/go/debug/internal/callsite.sampler", first.Scope)
	require.Equal(t, KindMethod, first.Kind)
	require.Equal(t, "capture", first.Function)
	require.Equal(t, file, first.File)
	require.Equal(t, line+1, first.Line)

	second := records[1]
	require.Equal(t, "github.com/jmgilman/go/debug/internal/callsite", second.Scope)
	require.Equal(t, KindFunc, second.Kind)
	require.True(t, strings.HasPrefix(second.Function, "TestCapture_FirstRecordIsCaller"))
}

func recurse(n int) []Record {
	if n == 0 {
		return Capture(0)
	}
	return recurse(n - 1)
}

func TestCapture_DeepStack(t *testing.T) {
	records := recurse(initialDepth * 2)
	require.Greater(t, len(records), initialDepth*2)
	require.Equal(t, "recurse", records[0].Function)
}

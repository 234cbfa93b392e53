package debug_test

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"reflect"
	"testing"

	"github.com/jmgilman/go/debug"
	"github.com/stretchr/testify/require"
)

// rowReader is the internal contract of the fake store below. Registering
// it lets IgnoreTypes match every implementation.
type rowReader interface {
	readRow(id int) (string, error)
}

type memTable struct {
	rows map[int]string
}

func (m *memTable) readRow(id int) (string, error) {
	row, ok := m.rows[id]
	if !ok {
		return "", debug.Create[QueryError](fmt.Sprintf("no row %d", id),
			debug.IgnoreTypes(reflect.TypeFor[rowReader]()),
			debug.WithCode(debug.CodeNotFound),
		)
	}
	return row, nil
}

type userStore struct {
	table rowReader
}

func (s *userStore) Get(id int) (string, error) {
	return s.table.readRow(id)
}

// service is application code: its frames are never ignored.
type service struct {
	users *userStore
}

func (s *service) profile(id int) error {
	_, err := s.users.Get(id)
	if err != nil {
		return fmt.Errorf("profile %d: %w", id, err)
	}
	return nil
}

func TestWorkflow_RegisteredInterfaceIgnoresImplementation(t *testing.T) {
	registry := debug.NewRegistry()
	registry.Add(reflect.TypeFor[memTable](), reflect.TypeFor[rowReader]())

	table := &memTable{rows: map[int]string{1: "alice"}}

	line := nextLine()
	_, err := table.readRowWith(registry, 2)

	o, ok := debug.OriginOf(err)
	require.True(t, ok)
	require.Equal(t, "memTable->readRowWith()", o.Call())
	require.Equal(t, line, o.Line())
}

func (m *memTable) readRowWith(i debug.Introspector, id int) (string, error) {
	if _, ok := m.rows[id]; ok {
		return m.rows[id], nil
	}
	return "", debug.Create[QueryError]("missing",
		debug.IgnoreTypes(reflect.TypeFor[rowReader]()),
		debug.WithIntrospector(i),
	)
}

func TestWorkflow_UnregisteredImplementationIsNotIgnored(t *testing.T) {
	table := &memTable{rows: map[int]string{}}

	_, err := table.readRowWith(debug.NewRegistry(), 1)

	o, ok := debug.OriginOf(err)
	require.True(t, ok)
	require.Equal(t, "debug::Create('github.com/jmgilman/go/debug_test.QueryError', 'missing')", o.Call())
}

func TestWorkflow_ErrorThroughLayers(t *testing.T) {
	debug.Register(reflect.TypeFor[memTable](), reflect.TypeFor[rowReader]())

	svc := &service{users: &userStore{table: &memTable{rows: map[int]string{}}}}
	err := svc.profile(7)
	require.Error(t, err)

	// userStore is not part of the ignored chain, so the origin is its
	// call into the table.
	o, ok := debug.OriginOf(err)
	require.True(t, ok)
	require.Equal(t, "memTable->readRow()", o.Call())

	require.Equal(t, debug.CodeNotFound, debug.GetCode(err))
	require.Equal(t, "profile 7: [NOT_FOUND] no row 7", err.Error())

	var qe *QueryError
	require.True(t, stderrors.As(err, &qe))
	require.Equal(t, o, qe.Origin())
}

func TestWorkflow_LoggingWithSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := debug.Create[QueryError]("lookup failed", debug.WithCode(debug.CodeNotFound))

	var qe *QueryError
	require.True(t, stderrors.As(err, &qe))

	logger.Error("request failed",
		slog.Any("error", err),
		debug.Attr("args", debug.Map{{"id", 7}, {"user", &memTable{}}}),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	logged, ok := record["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "lookup failed", logged["message"])
	require.Equal(t, "NOT_FOUND", logged["code"])

	origin, ok := logged["origin"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, qe.OriginCall(), origin["call"])
	require.Equal(t, qe.OriginFile(), origin["file"])
	require.InDelta(t, float64(qe.OriginLine()), origin["line"], 0)

	require.Equal(t, "['id' => 7, 'user' => object(github.com/jmgilman/go/debug_test.memTable)]", record["args"])
}

func TestWorkflow_AttrIsLazy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))

	counter := &countingResource{}
	logger.Debug("skipped", debug.Attr("handle", counter))

	require.Zero(t, counter.n)
}

type countingResource struct {
	n int
}

func (c *countingResource) ResourceKind() string {
	c.n++
	return "counter"
}

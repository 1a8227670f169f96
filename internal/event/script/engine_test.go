package script

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEngine_LoadAndCall(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	require.NoError(t, e.Load("sum", `return function(p) state.total = (state.total or 0) + p.n end`))
	assert.True(t, e.Has("sum"))

	require.NoError(t, e.Call("sum", Payload{"n": int64(2)}))
	require.NoError(t, e.Call("sum", Payload{"n": 3}))

	assert.Equal(t, map[string]any{"total": int64(5)}, e.State())
}

func TestEngine_Load_Errors(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	assert.Error(t, e.Load("syntax", `return function(`))
	assert.Error(t, e.Load("runtime", `error("nope")`))
	assert.ErrorIs(t, e.Load("number", `return 42`), ErrNotFunction)
	assert.False(t, e.Has("number"))
}

func TestEngine_Call_Errors(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	assert.ErrorIs(t, e.Call("missing", nil), ErrUnknownScript)

	require.NoError(t, e.Load("fail", `return function(p) error("bad payload") end`))
	err := e.Call("fail", Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
}

func TestEngine_Sandbox(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	require.NoError(t, e.Load("probe", `return function(p)
		state.os = type(os)
		state.io = type(io)
		state.upper = string.upper("x")
		state.floor = math.floor(2.5)
		state.count = #table.concat({"a", "b"})
	end`))
	require.NoError(t, e.Call("probe", nil))

	assert.Equal(t, map[string]any{
		"os":    "nil",
		"io":    "nil",
		"upper": "X",
		"floor": int64(2),
		"count": int64(2),
	}, e.State())
}

func TestEngine_Log(t *testing.T) {
	zcore, logs := observer.New(zapcore.InfoLevel)
	e := NewEngine(WithLogger(zap.New(zcore)))
	defer e.Close()

	require.NoError(t, e.Load("hello", `return function(p) log("hello " .. p.who) end`))
	require.NoError(t, e.Call("hello", Payload{"who": "lua"}))

	entries := logs.FilterMessage("hello lua").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lua", entries[0].ContextMap()["source"])
}

func TestEngine_Close(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Load("noop", `return function() end`))

	e.Close()
	e.Close()

	assert.ErrorIs(t, e.Call("noop", nil), ErrEngineClosed)
	assert.ErrorIs(t, e.Load("noop", `return function() end`), ErrEngineClosed)
}

func TestValue_RoundTrip(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	in := map[string]any{
		"flag":   true,
		"int":    int64(7),
		"float":  1.5,
		"name":   "x",
		"list":   []any{int64(1), "two"},
		"nested": map[string]any{"k": "v"},
		"empty":  map[string]any{},
	}

	assert.Equal(t, in, fromLua(toLua(e.L, in)))
}

func TestValue_GoKinds(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	n := 3
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(3), fromLua(toLua(e.L, &n)))
	assert.Equal(t, int64(9), fromLua(toLua(e.L, uint8(9))))
	assert.Equal(t, []any{"a", "b"}, fromLua(toLua(e.L, []string{"a", "b"})))
	assert.Equal(t, map[string]any{"x": int64(1)}, fromLua(toLua(e.L, map[string]int{"x": 1})))
	assert.Equal(t, "2024-05-01T12:00:00Z", fromLua(toLua(e.L, at)))
	assert.Equal(t, "2024-05-01", fromLua(toLua(e.L, toml.LocalDate{Year: 2024, Month: 5, Day: 1})))
	assert.Nil(t, fromLua(toLua(e.L, (*int)(nil))))
	assert.Nil(t, fromLua(toLua(e.L, nil)))

	type opaque struct{ v int }
	assert.Equal(t, opaque{v: 1}, fromLua(toLua(e.L, opaque{v: 1})))
}

func TestValue_LuaTables(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	require.NoError(t, e.Load("shape", `return function(p)
		state.list = {10, 20, 30}
		state.sparse = {[1] = "a", [3] = "c"}
		state.fn = function() end
		local loop = {}
		loop.self = loop
		state.loop = loop
		local shared = {1}
		state.pair = {shared, shared}
	end`))
	require.NoError(t, e.Call("shape", nil))

	got := e.State()
	assert.Equal(t, []any{int64(10), int64(20), int64(30)}, got["list"])
	assert.Equal(t, map[string]any{"1": "a", "3": "c"}, got["sparse"])
	assert.Nil(t, got["fn"])
	assert.Equal(t, map[string]any{"self": nil}, got["loop"])
	assert.Equal(t, []any{[]any{int64(1)}, []any{int64(1)}}, got["pair"])
}

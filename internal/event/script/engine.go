package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Sentinel errors for the script engine.
var (
	// ErrEngineClosed is returned when the engine has been closed.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrNotFunction is returned when a script does not return a function.
	ErrNotFunction = errors.New("script must return a function")

	// ErrUnknownScript is returned when a named script has not been loaded.
	ErrUnknownScript = errors.New("unknown script")
)

// Payload is the event payload type understood by Lua listeners.
type Payload = map[string]any

// Engine wraps a gopher-lua state holding listener functions.
type Engine struct {
	mu     sync.Mutex
	L      *lua.LState
	state  *lua.LTable
	funcs  map[string]*lua.LFunction
	logger *zap.Logger
	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the Lua log function.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new sandboxed script engine.
func NewEngine(opts ...Option) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	e := &Engine{
		L:      L,
		state:  L.NewTable(),
		funcs:  make(map[string]*lua.LFunction),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	L.SetGlobal("state", e.state)
	L.SetGlobal("log", L.NewFunction(e.luaLog))
	return e
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.logger.Info(L.CheckString(1), zap.String("source", "lua"))
	return 0
}

// Load compiles and runs source, which must return a function, and keeps
// that function under name. Loading a name again replaces it.
func (e *Engine) Load(name, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	chunk, err := e.L.LoadString(source)
	if err != nil {
		return fmt.Errorf("compiling script %s: %w", name, err)
	}

	e.L.Push(chunk)
	if err := e.L.PCall(0, 1, nil); err != nil {
		return fmt.Errorf("running script %s: %w", name, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	fn, ok := ret.(*lua.LFunction)
	if !ok {
		return fmt.Errorf("script %s returned %s: %w", name, ret.Type(), ErrNotFunction)
	}

	e.funcs[name] = fn
	return nil
}

// Has reports whether a script is loaded under name.
func (e *Engine) Has(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.funcs[name]
	return ok
}

// Call invokes the named script with payload as its only argument.
func (e *Engine) Call(name string, payload Payload) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	fn, ok := e.funcs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScript, name)
	}

	err := e.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, toLua(e.L, payload))
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// State returns a Go copy of the shared state table.
func (e *Engine) State() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Always a map: an empty table would otherwise not convert at all.
	state := make(map[string]any)
	e.state.ForEach(func(k, v lua.LValue) {
		state[k.String()] = fromLua(v)
	})
	return state
}

// Close releases the Lua state. Further calls return ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

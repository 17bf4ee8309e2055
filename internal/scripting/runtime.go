package scripting

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Runtime owns one sandboxed LState loaded with a single script.
//
// Every Call runs under a fresh instruction budget of limit opcodes.
// Runtime is safe for concurrent use; calls are serialized.
type Runtime struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel func()
	limit  int
	name   string
	logger *zap.Logger
}

// LoadFile creates a Runtime and executes the script at path in it.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a loaded Runtime or an error on read/compile/run failure.
func LoadFile(path string, instLimit int, logger *zap.Logger) (*Runtime, error) {
	return load(path, instLimit, logger, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString creates a Runtime and executes src in it; name labels log lines.
//
// Precondition: logger must be non-nil.
func LoadString(name, src string, instLimit int, logger *zap.Logger) (*Runtime, error) {
	return load(name, instLimit, logger, func(L *lua.LState) error { return L.DoString(src) })
}

func load(name string, instLimit int, logger *zap.Logger, run func(*lua.LState) error) (*Runtime, error) {
	L, cancel := NewSandboxedState(instLimit)
	if err := run(L); err != nil {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	cancel()
	return &Runtime{L: L, limit: normalizeLimit(instLimit), name: name, logger: logger}, nil
}

// Call invokes the Lua global fn with args in protected mode.
//
// Postcondition: Returns the first return value, or LNil with a nil error if
// fn is not defined. Lua runtime errors, including an exhausted instruction
// budget, are returned wrapped.
func (r *Runtime) Call(fn string, args ...lua.LValue) (lua.LValue, error) {
	return r.CallContext(context.Background(), fn, args...)
}

// CallContext is Call with the script also stopped when ctx is done.
func (r *Runtime) CallContext(ctx context.Context, fn string, args ...lua.LValue) (lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.L.GetGlobal(fn)
	if f == lua.LNil {
		r.logger.Debug("scripting: function not defined",
			zap.String("script", r.name),
			zap.String("function", fn),
		)
		return lua.LNil, nil
	}

	budget, cancel := withOpBudget(ctx, r.limit)
	defer cancel()
	r.L.SetContext(budget)
	defer r.L.RemoveContext()

	if err := r.L.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: calling %s in %q: %w", fn, r.name, err)
	}
	r.logger.Debug("scripting: call finished",
		zap.String("script", r.name),
		zap.String("function", fn),
		zap.Int64("ops", int64(r.limit)-budget.Remaining()),
	)

	ret := r.L.Get(-1)
	r.L.Pop(1)
	return ret, nil
}

// NewTable builds a Lua table with the given string-keyed fields.
func (r *Runtime) NewTable(fields map[string]lua.LValue) *lua.LTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.L.NewTable()
	for k, v := range fields {
		t.RawSetString(k, v)
	}
	return t
}

// NewArray builds a 1-indexed Lua array of values.
func (r *Runtime) NewArray(values ...lua.LValue) *lua.LTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.L.NewTable()
	for _, v := range values {
		t.Append(v)
	}
	return t
}

// Close releases the LState.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.L.Close()
}

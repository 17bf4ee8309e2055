// Package scripting provides a sandboxed GopherLua execution environment
// for playstyle scripts. It has no dependency on game domain packages;
// callers marshal game state into Lua values themselves.
package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when no override is configured.
const DefaultInstructionLimit = 100_000

// removedGlobals are base-library functions that reach the filesystem, load
// arbitrary chunks or steer the collector.
var removedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// normalizeLimit maps a non-positive limit to DefaultInstructionLimit.
func normalizeLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// NewSandboxedState returns an LState with only the base, table, string and
// math libraries, with the file and module loaders removed, and with one
// opcode budget of instLimit shared by everything run on it until the caller
// replaces the context.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the caller owns the LState and must call cancel and L.Close.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := withOpBudget(context.Background(), normalizeLimit(instLimit))
	L.SetContext(ctx)
	return L, cancel
}

package playstyle

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/scripting"
)

// SelectHook is the Lua global a playstyle script must define:
//
//	function select_attack(self, enemy, input) return "A" end
//
// self and enemy are tables {name, label, hp, sp, actions}; enemy is nil when
// unset. The returned token must name a legal action of self.
const SelectHook = "select_attack"

// Scripted delegates action selection to a sandboxed Lua script.
type Scripted struct {
	queue   *battle.Queue
	runtime *scripting.Runtime
	logger  *zap.Logger
}

// NewScripted loads the script at path and binds it to q.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Scripted playstyle or the script load error.
func NewScripted(q *battle.Queue, path string, instLimit int, logger *zap.Logger) (*Scripted, error) {
	rt, err := scripting.LoadFile(path, instLimit, logger)
	if err != nil {
		return nil, err
	}
	return NewScriptedRuntime(q, rt, logger), nil
}

// NewScriptedRuntime binds an already loaded runtime to q.
func NewScriptedRuntime(q *battle.Queue, rt *scripting.Runtime, logger *zap.Logger) *Scripted {
	return &Scripted{queue: q, runtime: rt, logger: logger}
}

// SelectAttack calls the script for the front character. Script errors, a
// non-string result or an illegal action all yield ActionInvalid.
func (s *Scripted) SelectAttack(input string) battle.Action {
	front := s.queue.Peek()
	if front == nil {
		return battle.ActionInvalid
	}
	var enemy lua.LValue = lua.LNil
	if e := front.Enemy(); e != nil {
		enemy = s.snapshot(e)
	}
	ret, err := s.runtime.Call(SelectHook, s.snapshot(front), enemy, lua.LString(input))
	if err != nil {
		s.logger.Warn("playstyle script failed",
			zap.String("character", front.Name()),
			zap.Error(err),
		)
		return battle.ActionInvalid
	}
	token, ok := ret.(lua.LString)
	if !ok {
		s.logger.Warn("playstyle script returned a non-string",
			zap.String("character", front.Name()),
			zap.String("type", ret.Type().String()),
		)
		return battle.ActionInvalid
	}
	action := battle.ParseAction(string(token))
	if !front.IsValidAction(action) {
		s.logger.Debug("playstyle script chose an unavailable action",
			zap.String("character", front.Name()),
			zap.String("token", string(token)),
		)
		return battle.ActionInvalid
	}
	return action
}

// IsManual reports false.
func (s *Scripted) IsManual() bool { return false }

// Close releases the script runtime.
func (s *Scripted) Close() { s.runtime.Close() }

func (s *Scripted) snapshot(c *battle.Character) *lua.LTable {
	var tokens []lua.LValue
	for _, a := range c.AvailableActions() {
		tokens = append(tokens, lua.LString(a.Token()))
	}
	return s.runtime.NewTable(map[string]lua.LValue{
		"name":    lua.LString(c.Name()),
		"label":   lua.LString(c.Variant().Label),
		"hp":      lua.LNumber(c.HP()),
		"sp":      lua.LNumber(c.SP()),
		"actions": s.runtime.NewArray(tokens...),
	})
}

// Package playstyle implements the strategies that choose an action for the
// character at the front of a battle queue.
package playstyle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Kinds accepted by New.
const (
	KindManual = "manual"
	KindRandom = "random"
	KindScript = "script"
)

// Options supplies the dependencies of automatic playstyles.
type Options struct {
	// Source drives Random; nil uses dice.NewCryptoSource.
	Source dice.Source
	// Script is the Lua file path for KindScript.
	Script string
	// InstructionLimit bounds each script call; 0 uses the scripting default.
	InstructionLimit int
	// Logger receives selection diagnostics; nil discards them.
	Logger *zap.Logger
}

// New builds the playstyle of the given kind bound to q.
//
// Precondition: q must be non-nil.
// Postcondition: Returns a Playstyle or an error for an unknown kind or an
// unloadable script.
func New(kind string, q *battle.Queue, opts Options) (battle.Playstyle, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	switch kind {
	case KindManual:
		return NewManual(q), nil
	case KindRandom:
		src := opts.Source
		if src == nil {
			src = dice.NewCryptoSource()
		}
		return NewRandom(q, src, opts.Logger), nil
	case KindScript:
		return NewScripted(q, opts.Script, opts.InstructionLimit, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown playstyle %q", kind)
	}
}

// Manual passes through the key a player pressed.
type Manual struct {
	queue *battle.Queue
}

// NewManual returns a Manual playstyle bound to q.
func NewManual(q *battle.Queue) *Manual {
	return &Manual{queue: q}
}

// SelectAttack returns the action for input when it is "A" or "S", and
// ActionInvalid otherwise. Affordability is not checked here.
func (m *Manual) SelectAttack(input string) battle.Action {
	return battle.ParseAction(input)
}

// IsManual reports true.
func (m *Manual) IsManual() bool { return true }

// Random picks uniformly among the front character's available actions.
type Random struct {
	queue  *battle.Queue
	src    dice.Source
	logger *zap.Logger
}

// NewRandom returns a Random playstyle bound to q.
//
// Precondition: src and logger must be non-nil.
func NewRandom(q *battle.Queue, src dice.Source, logger *zap.Logger) *Random {
	return &Random{queue: q, src: src, logger: logger}
}

// SelectAttack ignores input and returns a uniformly chosen legal action for
// the front character, or ActionInvalid when no character can act.
func (r *Random) SelectAttack(string) battle.Action {
	front := r.queue.Peek()
	if front == nil {
		return battle.ActionInvalid
	}
	actions := front.AvailableActions()
	choice := actions[r.src.Intn(len(actions))]
	r.logger.Debug("random playstyle choice",
		zap.String("character", front.Name()),
		zap.Int("options", len(actions)),
		zap.Stringer("action", choice),
	)
	return choice
}

// IsManual reports false.
func (r *Random) IsManual() bool { return false }

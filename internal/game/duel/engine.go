// Package duel drives a match: it repeatedly peeks the turn queue, asks the
// front character's playstyle for an action and performs it until the queue
// reports the duel is over.
package duel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/battle"
)

// ErrTurnLimit is returned when a match does not end within the step limit.
var ErrTurnLimit = errors.New("duel: turn limit reached")

// InputSource supplies the key pressed by a player for a manual playstyle.
type InputSource interface {
	// Next blocks until a key is available for c.
	Next(ctx context.Context, c *battle.Character) (string, error)
}

// Turn records one performed action.
type Turn struct {
	Number  int
	Actor   string
	Action  battle.Action
	ActorHP int
	ActorSP int
	EnemyHP int
	EnemySP int
}

// Result is the outcome of a finished match.
type Result struct {
	MatchID uuid.UUID
	// Winner is nil for a tie or an exhaustion stalemate.
	Winner  *battle.Character
	Turns   int
	History []Turn
}

// Engine runs one Match.
type Engine struct {
	id       uuid.UUID
	match    *battle.Match
	input    InputSource
	logger   *zap.Logger
	maxSteps int

	// OnTurn, when set, is called after every performed turn.
	OnTurn func(Turn)
	// OnReject, when set, is called when a selection is rejected.
	OnReject func(c *battle.Character, a battle.Action)
}

// NewEngine creates an Engine for m. maxSteps bounds the number of
// selections, performed or rejected; 0 means unbounded.
//
// Precondition: m and logger must be non-nil; input may be nil only when no
// character uses a manual playstyle.
func NewEngine(m *battle.Match, input InputSource, logger *zap.Logger, maxSteps int) *Engine {
	id := uuid.New()
	return &Engine{
		id:       id,
		match:    m,
		input:    input,
		logger:   logger.With(zap.String("match_id", id.String())),
		maxSteps: maxSteps,
	}
}

// ID returns the match identifier used in logs and the Result.
func (e *Engine) ID() uuid.UUID { return e.id }

// Run plays the match to completion.
//
// Postcondition: on success the queue IsOver and Result.Winner equals
// Queue().Winner(). Returns ErrTurnLimit when maxSteps is exhausted, ctx.Err()
// on cancellation, or an input error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	q := e.match.Queue()
	res := Result{MatchID: e.id}

	e.logger.Info("match started",
		zap.Int("characters", len(e.match.Characters())),
		zap.Int("queued", q.Len()),
	)

	for steps := 0; !q.IsOver(); steps++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if e.maxSteps > 0 && steps >= e.maxSteps {
			e.logger.Warn("match aborted at turn limit",
				zap.Int("steps", steps),
				zap.Int("turns", res.Turns),
			)
			return res, fmt.Errorf("%w after %d steps", ErrTurnLimit, steps)
		}

		front := q.Peek()
		action, err := e.selectAction(ctx, front)
		if err != nil {
			return res, err
		}
		if !front.IsValidAction(action) {
			e.logger.Debug("selection rejected",
				zap.String("character", front.Name()),
				zap.Stringer("action", action),
				zap.Int("sp", front.SP()),
			)
			if e.OnReject != nil {
				e.OnReject(front, action)
			}
			continue
		}

		q.Remove()
		front.Perform(action)
		res.Turns++
		turn := e.record(res.Turns, front, action)
		res.History = append(res.History, turn)
		e.logger.Debug("turn",
			zap.Int("turn", turn.Number),
			zap.String("character", turn.Actor),
			zap.Stringer("action", action),
			zap.Int("hp", turn.ActorHP),
			zap.Int("sp", turn.ActorSP),
			zap.Int("enemy_hp", turn.EnemyHP),
		)
		if e.OnTurn != nil {
			e.OnTurn(turn)
		}
	}

	res.Winner = q.Winner()
	fields := []zap.Field{
		zap.Int("turns", res.Turns),
		zap.Duration("elapsed", time.Since(start)),
	}
	if res.Winner != nil {
		fields = append(fields, zap.String("winner", res.Winner.Name()))
	} else {
		fields = append(fields, zap.Bool("tie", true))
	}
	e.logger.Info("match over", fields...)
	return res, nil
}

func (e *Engine) selectAction(ctx context.Context, c *battle.Character) (battle.Action, error) {
	ps := c.Playstyle()
	if ps == nil {
		return battle.ActionInvalid, fmt.Errorf("character %q has no playstyle", c.Name())
	}
	if !ps.IsManual() {
		return ps.SelectAttack(""), nil
	}
	if e.input == nil {
		return battle.ActionInvalid, fmt.Errorf("character %q is manual but no input source is configured", c.Name())
	}
	key, err := e.input.Next(ctx, c)
	if err != nil {
		return battle.ActionInvalid, fmt.Errorf("reading input for %q: %w", c.Name(), err)
	}
	return ps.SelectAttack(key), nil
}

func (e *Engine) record(n int, c *battle.Character, a battle.Action) Turn {
	t := Turn{
		Number:  n,
		Actor:   c.Name(),
		Action:  a,
		ActorHP: c.HP(),
		ActorSP: c.SP(),
	}
	if enemy := c.Enemy(); enemy != nil {
		t.EnemyHP = enemy.HP()
		t.EnemySP = enemy.SP()
	}
	return t
}

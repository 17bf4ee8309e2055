package duel_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/duel"
	"github.com/cory-johannsen/duel/internal/game/playstyle"
)

func setup(v1, v2 battle.Variant, ps func(q *battle.Queue) battle.Playstyle) (*battle.Match, *battle.Character, *battle.Character) {
	m := battle.NewMatch()
	p1 := m.Spawn("P1", &v1, ps(m.Queue()))
	p2 := m.Spawn("P2", &v2, ps(m.Queue()))
	m.Pair(p1, p2)
	m.Queue().Add(p1)
	m.Queue().Add(p2)
	return m, p1, p2
}

func manual(q *battle.Queue) battle.Playstyle { return playstyle.NewManual(q) }

func TestRun_ManualFirstTurnMatchesAttackRule(t *testing.T) {
	m, p1, p2 := setup(battle.Rogue, battle.Rogue, manual)
	e := duel.NewEngine(m, duel.NewKeysInput("A"), zaptest.NewLogger(t), 0)

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 97, p1.SP())
	assert.Equal(t, 95, p2.HP())
	assert.Equal(t, []battle.ID{p2.ID(), p1.ID()}, m.Queue().Entries())
}

func TestRun_RejectsInvalidKeyWithoutConsumingTurn(t *testing.T) {
	m, p1, p2 := setup(battle.Rogue, battle.Mage, manual)
	var rejected []battle.Action
	e := duel.NewEngine(m, duel.NewKeysInput("Q", "S"), zaptest.NewLogger(t), 0)
	e.OnReject = func(_ *battle.Character, a battle.Action) { rejected = append(rejected, a) }

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []battle.Action{battle.ActionInvalid}, rejected)
	assert.Equal(t, 90, p1.SP())
	assert.Equal(t, 88, p2.HP())
	assert.Equal(t, []battle.ID{p2.ID(), p1.ID(), p1.ID()}, m.Queue().Entries())
}

func TestRun_RejectsUnaffordableSpecial(t *testing.T) {
	m, p1, _ := setup(battle.Mage, battle.Mage, manual)
	for i := 0; i < 3; i++ {
		p1.SpecialAttack()
	}
	sp := p1.SP()
	e := duel.NewEngine(m, duel.NewKeysInput("S"), zaptest.NewLogger(t), 0)
	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, sp, p1.SP())
}

func TestRun_RandomMatchFinishes(t *testing.T) {
	src := dice.NewSeededSource(7)
	m, p1, p2 := setup(battle.Rogue, battle.Mage, func(q *battle.Queue) battle.Playstyle {
		return playstyle.NewRandom(q, src, zap.NewNop())
	})
	var turns []duel.Turn
	e := duel.NewEngine(m, nil, zaptest.NewLogger(t), 1000)
	e.OnTurn = func(turn duel.Turn) { turns = append(turns, turn) }

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Queue().IsOver())
	assert.Equal(t, m.Queue().Winner(), res.Winner)
	assert.Equal(t, res.Turns, len(res.History))
	assert.Equal(t, res.History, turns)
	assert.Equal(t, e.ID(), res.MatchID)
	if res.Winner != nil {
		assert.True(t, p1.HP() == 0 || p2.HP() == 0)
	}
}

func TestRun_TurnLimit(t *testing.T) {
	m, _, _ := setup(battle.Rogue, battle.Rogue, manual)
	e := duel.NewEngine(m, duel.NewKeysInput("x", "x", "x", "x"), zaptest.NewLogger(t), 3)
	res, err := e.Run(context.Background())
	assert.ErrorIs(t, err, duel.ErrTurnLimit)
	assert.Zero(t, res.Turns)
}

func TestRun_ContextCancelled(t *testing.T) {
	m, _, _ := setup(battle.Rogue, battle.Rogue, manual)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := duel.NewEngine(m, duel.NewKeysInput("A"), zaptest.NewLogger(t), 0)
	_, err := e.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_MissingPlaystyle(t *testing.T) {
	m := battle.NewMatch()
	a := m.Spawn("a", &battle.Rogue, nil)
	b := m.Spawn("b", &battle.Rogue, nil)
	m.Pair(a, b)
	m.Queue().Add(a)
	m.Queue().Add(b)
	_, err := duel.NewEngine(m, nil, zaptest.NewLogger(t), 0).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_ManualWithoutInput(t *testing.T) {
	m, _, _ := setup(battle.Rogue, battle.Rogue, manual)
	_, err := duel.NewEngine(m, nil, zaptest.NewLogger(t), 0).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_AlreadyOverIsImmediate(t *testing.T) {
	m := battle.NewMatch()
	res, err := duel.NewEngine(m, nil, zaptest.NewLogger(t), 0).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Winner)
	assert.Zero(t, res.Turns)
}

func TestRun_LogsResult(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := battle.NewMatch()
	p1 := m.Spawn("P1", &battle.Mage, playstyle.NewManual(m.Queue()))
	p2 := m.Spawn("P2", &battle.Mage, playstyle.NewManual(m.Queue()), battle.WithHP(30))
	m.Pair(p1, p2)
	m.Queue().Add(p1)
	m.Queue().Add(p2)

	e := duel.NewEngine(m, duel.NewKeysInput("S"), zap.New(core), 0)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, p1, res.Winner)
	assert.Equal(t, 1, res.Turns)
	assert.Equal(t, 0, p2.HP())

	over := logs.FilterMessage("match over").All()
	require.Len(t, over, 1)
	assert.Equal(t, "P1", over[0].ContextMap()["winner"])
	assert.Equal(t, e.ID().String(), over[0].ContextMap()["match_id"])
}

func TestReaderInput(t *testing.T) {
	_, p1, _ := setup(battle.Rogue, battle.Rogue, manual)
	var out strings.Builder
	in := duel.NewReaderInput(strings.NewReader("A\n s \r\n"), &out)
	k, err := in.Next(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, "A", k)
	k, err = in.Next(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, "s", k)
	_, err = in.Next(context.Background(), p1)
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out.String(), "P1 (Rogue): 100/100")
}

func TestReaderInput_CancelWhileWaiting(t *testing.T) {
	_, p1, _ := setup(battle.Rogue, battle.Rogue, manual)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	in := duel.NewReaderInput(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := in.Next(ctx, p1)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after cancellation")
	}
}

func TestReaderInput_LineAfterCancelGoesToNextCall(t *testing.T) {
	_, p1, _ := setup(battle.Rogue, battle.Rogue, manual)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	in := duel.NewReaderInput(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.Next(ctx, p1)
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = pw.Write([]byte("S\n")) }()
	k, err := in.Next(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, "S", k)
}

func TestRun_CancelDuringManualPrompt(t *testing.T) {
	m, _, _ := setup(battle.Rogue, battle.Rogue, manual)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	e := duel.NewEngine(m, duel.NewReaderInput(pr, io.Discard), zaptest.NewLogger(t), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := e.Run(ctx)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the deadline")
	}
}

func TestProperty_RandomMatchesAlwaysEnd(t *testing.T) {
	variants := []battle.Variant{battle.Rogue, battle.Mage}
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))
		v1 := rapid.SampledFrom(variants).Draw(rt, "v1")
		v2 := rapid.SampledFrom(variants).Draw(rt, "v2")
		m, p1, p2 := setup(v1, v2, func(q *battle.Queue) battle.Playstyle {
			return playstyle.NewRandom(q, src, zap.NewNop())
		})
		res, err := duel.NewEngine(m, nil, zap.NewNop(), 1000).Run(context.Background())
		require.NoError(rt, err)
		for _, c := range []*battle.Character{p1, p2} {
			assert.GreaterOrEqual(rt, c.HP(), 0)
			assert.GreaterOrEqual(rt, c.SP(), 0)
		}
		if res.Winner != nil {
			assert.Zero(rt, res.Winner.Enemy().HP())
		}
	})
}

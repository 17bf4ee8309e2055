package duel

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/playstyle"
)

// BuildMatch spawns the configured players as mutual enemies and queues them
// in configuration order. The returned cleanup releases script runtimes and
// must be called once the match is done.
//
// Precondition: reg must be non-nil; players must hold exactly two entries.
// Postcondition: Returns a ready Match or an error for an unknown variant,
// an unknown playstyle, or an unloadable script.
func BuildMatch(reg *battle.Registry, players []config.PlayerConfig, opts playstyle.Options) (*battle.Match, func(), error) {
	if len(players) != 2 {
		return nil, nil, fmt.Errorf("a duel needs exactly 2 players, got %d", len(players))
	}
	m := battle.NewMatch()
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	spawned := make([]*battle.Character, 0, len(players))
	for _, p := range players {
		v, ok := reg.Lookup(p.Variant)
		if !ok {
			cleanup()
			return nil, nil, fmt.Errorf("player %q: unknown variant %q (known: %v)", p.Name, p.Variant, reg.Codes())
		}
		o := opts
		o.Script = p.Script
		ps, err := playstyle.New(p.Playstyle, m.Queue(), o)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("player %q: %w", p.Name, err)
		}
		if s, ok := ps.(*playstyle.Scripted); ok {
			closers = append(closers, s.Close)
		}
		spawned = append(spawned, m.Spawn(p.Name, v, ps))
	}

	m.Pair(spawned[0], spawned[1])
	for _, c := range spawned {
		m.Queue().Add(c)
	}
	return m, cleanup, nil
}

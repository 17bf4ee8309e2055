// Package main provides the console duel runner. It wires together
// configuration, logging, the variant registry, the match and its driver.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/duel"
	"github.com/cory-johannsen/duel/internal/game/playstyle"
	"github.com/cory-johannsen/duel/internal/game/ruleset"
	"github.com/cory-johannsen/duel/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one duel and returns the process exit code. Deferred cleanup
// and logger flushing complete before it returns.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	start := time.Now()

	fs := flag.NewFlagSet("duel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file; empty uses defaults")
	showSprites := fs.Bool("sprites", false, "print the sprite frame drawn for each turn")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	reg := battle.DefaultRegistry()
	if cfg.Match.VariantsDir != "" {
		n, err := ruleset.RegisterVariants(reg, cfg.Match.VariantsDir)
		if err != nil {
			logger.Error("loading variants", zap.Error(err))
			return 1
		}
		logger.Info("variants loaded",
			zap.Int("extra", n),
			zap.Strings("codes", reg.Codes()),
		)
	}

	match, cleanup, err := duel.BuildMatch(reg, cfg.Players, playstyle.Options{
		Source:           dice.SourceForSeed(cfg.Match.Seed),
		InstructionLimit: cfg.Match.ScriptInstructionLimit,
		Logger:           logger,
	})
	if err != nil {
		logger.Error("building match", zap.Error(err))
		return 1
	}
	defer cleanup()

	engine := duel.NewEngine(match, duel.NewReaderInput(stdin, stdout), logger, cfg.Match.MaxTurns)
	engine.OnTurn = func(t duel.Turn) {
		fmt.Fprintf(stdout, "turn %d: %s uses %s\n", t.Number, t.Actor, t.Action)
		for _, c := range match.Characters() {
			line := "  " + c.String()
			if *showSprites {
				line += "  [" + c.NextSprite() + "]"
			}
			fmt.Fprintln(stdout, line)
		}
	}
	engine.OnReject = func(c *battle.Character, a battle.Action) {
		if c.Playstyle().IsManual() {
			fmt.Fprintf(stdout, "  %s cannot use %q right now\n", c.Name(), a.Token())
		}
	}

	logger.Info("duel initialized",
		zap.String("match_id", engine.ID().String()),
		zap.Duration("startup", time.Since(start)),
	)

	res, err := engine.Run(ctx)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		fmt.Fprintln(stdout, "duel abandoned")
		return 0
	case err != nil:
		logger.Error("duel failed", zap.Error(err))
		return 1
	}

	if res.Winner != nil {
		fmt.Fprintf(stdout, "%s wins after %d turns\n", res.Winner, res.Turns)
	} else {
		fmt.Fprintf(stdout, "no winner after %d turns\n", res.Turns)
	}
	return 0
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config whose logs go to a file in the test's temp dir.
func writeConfig(t *testing.T, players string) (cfgPath, logPath string) {
	t.Helper()
	dir := t.TempDir()
	logPath = filepath.Join(dir, "duel.log")
	cfgPath = filepath.Join(dir, "duel.yaml")
	body := fmt.Sprintf(`logging:
  level: debug
  format: json
  output: %s
match:
  max_turns: 1000
  seed: 7
players:
%s`, logPath, players)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))
	return cfgPath, logPath
}

const randomPlayers = `  - {name: P1, variant: r, playstyle: random}
  - {name: P2, variant: m, playstyle: random}
`

const manualPlayers = `  - {name: P1, variant: r, playstyle: manual}
  - {name: P2, variant: m, playstyle: random}
`

func readLog(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRun_RandomDuelCompletes(t *testing.T) {
	cfgPath, logPath := writeConfig(t, randomPlayers)
	var out strings.Builder
	code := run(context.Background(), []string{"-config", cfgPath, "-sprites"}, strings.NewReader(""), &out, io.Discard)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "turn 1: P1 uses")
	assert.Regexp(t, `(wins|no winner) after \d+ turns`, out.String())
	assert.Contains(t, readLog(t, logPath), "match over")
}

func TestRun_BuildFailureReturnsOneAndFlushesLog(t *testing.T) {
	cfgPath, logPath := writeConfig(t, `  - {name: P1, variant: z, playstyle: random}
  - {name: P2, variant: m, playstyle: random}
`)
	code := run(context.Background(), []string{"-config", cfgPath}, strings.NewReader(""), io.Discard, io.Discard)
	assert.Equal(t, 1, code)
	assert.Contains(t, readLog(t, logPath), "building match")
}

func TestRun_MissingConfigReturnsOne(t *testing.T) {
	var errOut strings.Builder
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, strings.NewReader(""), io.Discard, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "loading config")
}

func TestRun_BadFlagReturnsTwo(t *testing.T) {
	code := run(context.Background(), []string{"-bogus"}, strings.NewReader(""), io.Discard, io.Discard)
	assert.Equal(t, 2, code)
}

func TestRun_EndOfInputAbandons(t *testing.T) {
	cfgPath, _ := writeConfig(t, manualPlayers)
	var out strings.Builder
	code := run(context.Background(), []string{"-config", cfgPath}, strings.NewReader("A\n"), &out, io.Discard)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "turn 1: P1 uses attack")
	assert.Contains(t, out.String(), "duel abandoned")
}

func TestRun_CancelAtPromptAbandons(t *testing.T) {
	cfgPath, _ := writeConfig(t, manualPlayers)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	var out strings.Builder
	done := make(chan int, 1)
	go func() { done <- run(ctx, []string{"-config", cfgPath}, pr, &out, io.Discard) }()
	cancel()
	assert.Equal(t, 0, <-done)
	assert.Contains(t, out.String(), "duel abandoned")
}

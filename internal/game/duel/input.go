package duel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cory-johannsen/duel/internal/game/battle"
)

// ReaderInput reads one key per line from r, prompting on w.
//
// A single background goroutine owns the scanner; Next waits on its lines or
// on ctx, so cancellation is observed while a read is pending. A line that
// arrives after Next gave up is delivered to the following call.
type ReaderInput struct {
	scanner *bufio.Scanner
	out     io.Writer
	once    sync.Once
	lines   chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewReaderInput returns an InputSource over r. w may be io.Discard.
func NewReaderInput(r io.Reader, w io.Writer) *ReaderInput {
	return &ReaderInput{
		scanner: bufio.NewScanner(r),
		out:     w,
		lines:   make(chan readResult),
	}
}

// readLoop sends each line, then the terminal error, and closes lines.
func (in *ReaderInput) readLoop() {
	defer close(in.lines)
	for in.scanner.Scan() {
		in.lines <- readResult{line: in.scanner.Text()}
	}
	err := in.scanner.Err()
	if err == nil {
		err = io.EOF
	}
	in.lines <- readResult{err: err}
}

// Next prompts for c and returns the next line with surrounding whitespace
// removed. Case is preserved.
//
// Postcondition: returns io.EOF once r is exhausted, or ctx.Err() if ctx is
// done before a line arrives.
func (in *ReaderInput) Next(ctx context.Context, c *battle.Character) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.once.Do(func() { go in.readLoop() })
	fmt.Fprintf(in.out, "%s - [A]ttack or [S]pecial? ", c)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// KeysInput replays a fixed sequence of keys.
type KeysInput struct {
	keys []string
}

// NewKeysInput returns an InputSource that yields keys in order.
func NewKeysInput(keys ...string) *KeysInput {
	return &KeysInput{keys: keys}
}

// Next returns the next key, or io.EOF when none remain.
func (in *KeysInput) Next(ctx context.Context, _ *battle.Character) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(in.keys) == 0 {
		return "", io.EOF
	}
	k := in.keys[0]
	in.keys = in.keys[1:]
	return k, nil
}

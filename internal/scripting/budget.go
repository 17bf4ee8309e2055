package scripting

import (
	"context"
	"sync/atomic"
)

// opBudget is a context that GopherLua polls once per executed opcode via
// Done. After ops polls it cancels itself, and the VM aborts the running
// chunk with a context error.
type opBudget struct {
	context.Context
	left atomic.Int64
	stop context.CancelFunc
}

// withOpBudget derives an opBudget of ops opcodes from parent. Cancelling
// parent also stops the VM.
//
// Precondition: ops > 0.
func withOpBudget(parent context.Context, ops int) (*opBudget, context.CancelFunc) {
	ctx, stop := context.WithCancel(parent)
	b := &opBudget{Context: ctx, stop: stop}
	b.left.Store(int64(ops))
	return b, stop
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.stop()
	}
	return b.Context.Done()
}

// Remaining reports how many opcodes may still run. Negative once spent.
func (b *opBudget) Remaining() int64 { return b.left.Load() }

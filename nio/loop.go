package nio

import (
	"context"

	"github.com/Amonhen/swift-nio/internal/network"
)

// Loop stands in for the excluded event-loop scheduler: a single
// goroutine that owns one Scratch and calls Trigger on writability
// edges. Every WriteEngine built from the same Loop's Scratch must only
// ever be driven from that Loop's goroutine, mirroring the teacher's
// one-goroutine-per-connection-writer discipline and its loop-scoped
// scratch buffers.
type Loop struct {
	scratch *Scratch
	kick    chan struct{}
}

// NewLoop allocates a Loop with a Scratch sized for vectorLimitCount
// items.
func NewLoop(vectorLimitCount int) *Loop {
	return &Loop{
		scratch: NewScratch(vectorLimitCount),
		kick:    make(chan struct{}, 1),
	}
}

// Scratch returns the loop-scoped iovec/retention arrays to lend to
// every WriteEngine driven by this Loop.
func (l *Loop) Scratch() *Scratch { return l.scratch }

// Kick schedules a drain attempt. Safe to call from any goroutine; it
// coalesces bursts of readiness notifications into a single wakeup.
func (l *Loop) Kick() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Run drives engine's Trigger loop until ctx is cancelled or a fatal
// error is returned by one of the syscall closures. onEvent, if
// non-nil, is called after every Trigger with its result.
func (l *Loop) Run(
	ctx context.Context,
	engine *WriteEngine,
	single SingleOp,
	vector network.VectorOp,
	file FileOp,
	onEvent func(network.WriteOutcome, bool, error),
) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.kick:
			outcome, changed, err := engine.Trigger(single, vector, file)
			if onEvent != nil {
				onEvent(outcome, changed, err)
			}
			if err != nil {
				return
			}
			if outcome == network.WrittenPartially {
				// More flushed data remains; re-arm immediately rather
				// than waiting for an external readiness edge, since a
				// partial write here just means the spin bound (not
				// the socket) cut the drain short.
				l.Kick()
			}
		}
	}
}
